// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ckpt

import (
	"io"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/sample"
)

// SaveSample writes the resampled midpoint arrays of one refinement
// level to path.
func SaveSample(path string, level, resolution int, arr *sample.Array) error {
	f, w, err := openWriter(path)
	if err != nil {
		return err
	}
	defer f.Close()

	numRays := len(arr.N)
	h := header{
		Version: formatVersion,
		Kind:    KindSample,
		Level:   int32(level),
		Shape:   []int32{int32(resolution), int32(numRays)},
	}
	if err := writeHeader(w, h); err != nil {
		return chk.Err("ckpt: writing sample header to %s: %v", path, err)
	}

	for m := 0; m < numRays; m++ {
		if err := writeSampleRow(w, arr, m); err != nil {
			return chk.Err("ckpt: writing sample row %d to %s: %v", m, path, err)
		}
	}
	return w.Flush()
}

// LoadSample reads a sample checkpoint previously written by
// SaveSample, rejecting a mismatch in level, resolution, or ray count.
func LoadSample(path string, level, resolution, numRays, maxSteps int) (*sample.Array, error) {
	f, r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := readHeader(r)
	if err != nil {
		return nil, chk.Err("ckpt: reading sample header from %s: %v", path, err)
	}
	if err := checkShape(h, KindSample, int32(level), int32(resolution), int32(numRays)); err != nil {
		return nil, err
	}

	arr := sample.NewArray(numRays, maxSteps)
	for m := 0; m < numRays; m++ {
		if err := readSampleRow(r, arr, m, maxSteps); err != nil {
			return nil, chk.Err("ckpt: reading sample row %d from %s: %v", m, path, err)
		}
	}
	return arr, nil
}

func writeSampleRow(w io.Writer, arr *sample.Array, m int) error {
	n := arr.N[m]
	if err := writeInt32s(w, int32(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := writeVec4(w, arr.X[m][i]); err != nil {
			return err
		}
		if err := writeVec4(w, arr.K[m][i]); err != nil {
			return err
		}
	}
	if err := writeFloat64s(w, arr.R[m][:n]); err != nil {
		return err
	}
	return writeFloat64s(w, arr.DLambda[m][:n])
}

func readSampleRow(r io.Reader, arr *sample.Array, m, maxSteps int) error {
	fields, err := readInt32s(r, 1)
	if err != nil {
		return err
	}
	n := int(fields[0])
	if n > maxSteps {
		return chk.Err("ckpt: sample row %d has %d steps, exceeding maxSteps %d", m, n, maxSteps)
	}
	for i := 0; i < n; i++ {
		x, err := readVec4(r)
		if err != nil {
			return err
		}
		k, err := readVec4(r)
		if err != nil {
			return err
		}
		arr.X[m][i] = x
		arr.K[m][i] = k
	}
	rVals, err := readFloat64s(r, n)
	if err != nil {
		return err
	}
	dVals, err := readFloat64s(r, n)
	if err != nil {
		return err
	}
	copy(arr.R[m], rVals)
	copy(arr.DLambda[m], dVals)
	arr.N[m] = n
	return nil
}
