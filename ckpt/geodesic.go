// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ckpt

import (
	"io"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/geodesic"
)

// SaveGeodesic writes every ray's accepted-state trajectory for one
// refinement level to path. Saving and loading are mutually exclusive
// per kind: a geodesic checkpoint never shares a file with a
// sample checkpoint.
func SaveGeodesic(path string, level, resolution int, rays []*geodesic.Ray) error {
	f, w, err := openWriter(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := header{
		Version: formatVersion,
		Kind:    KindGeodesic,
		Level:   int32(level),
		Shape:   []int32{int32(resolution), int32(len(rays))},
	}
	if err := writeHeader(w, h); err != nil {
		return chk.Err("ckpt: writing geodesic header to %s: %v", path, err)
	}

	for _, ray := range rays {
		if err := writeRay(w, ray); err != nil {
			return chk.Err("ckpt: writing ray to %s: %v", path, err)
		}
	}
	return w.Flush()
}

// LoadGeodesic reads a geodesic checkpoint previously written by
// SaveGeodesic, rejecting a mismatch in level or resolution against
// the values the caller expects to resume.
func LoadGeodesic(path string, level, resolution, numRays int) ([]*geodesic.Ray, error) {
	f, r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := readHeader(r)
	if err != nil {
		return nil, chk.Err("ckpt: reading geodesic header from %s: %v", path, err)
	}
	if err := checkShape(h, KindGeodesic, int32(level), int32(resolution), int32(numRays)); err != nil {
		return nil, err
	}

	rays := make([]*geodesic.Ray, numRays)
	for m := 0; m < numRays; m++ {
		ray, err := readRay(r)
		if err != nil {
			return nil, chk.Err("ckpt: reading ray %d from %s: %v", m, path, err)
		}
		rays[m] = ray
	}
	return rays, nil
}

func writeRay(w io.Writer, ray *geodesic.Ray) error {
	if err := writeInt32s(w, int32(ray.PixelI), int32(ray.PixelJ), int32(len(ray.States)),
		int32(ray.Outcome), int32(ray.Reason), int32(ray.ZTurns)); err != nil {
		return err
	}
	for _, s := range ray.States {
		if err := writeFloat64s(w, []float64{s.Lambda}); err != nil {
			return err
		}
		if err := writeVec4(w, s.X); err != nil {
			return err
		}
		if err := writeVec4(w, s.K); err != nil {
			return err
		}
	}
	return nil
}

func readRay(r io.Reader) (*geodesic.Ray, error) {
	fields, err := readInt32s(r, 6)
	if err != nil {
		return nil, err
	}
	ray := &geodesic.Ray{
		PixelI:  int(fields[0]),
		PixelJ:  int(fields[1]),
		Outcome: geodesic.Outcome(fields[3]),
		Reason:  geodesic.FlagReason(fields[4]),
		ZTurns:  int(fields[5]),
	}
	n := int(fields[2])
	ray.States = make([]geodesic.State, n)
	for i := 0; i < n; i++ {
		lambda, err := readFloat64s(r, 1)
		if err != nil {
			return nil, err
		}
		x, err := readVec4(r)
		if err != nil {
			return nil, err
		}
		k, err := readVec4(r)
		if err != nil {
			return nil, err
		}
		ray.States[i] = geodesic.State{Lambda: lambda[0], X: x, K: k}
	}
	return ray, nil
}
