// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ckpt implements the binary checkpoint grammar: a versioned
// magic header, a shape list, then a contiguous payload. The grammar
// is specified independently of any in-memory struct layout; this is
// the one package in the repository that reaches for encoding/binary
// directly rather than a gosl facility, since gosl's encoder/decoder
// pairing serializes the in-memory struct and would couple the wire
// format to Go's struct layout.
package ckpt

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/cpmech/gosl/chk"
)

var magic = [4]byte{'B', 'L', 'C', 'K'}

const formatVersion uint32 = 1

// Kind distinguishes the two checkpoint payload shapes: geodesic
// trajectories and resampled transfer-step arrays.
type Kind uint8

const (
	KindGeodesic Kind = 1
	KindSample   Kind = 2
)

// header is the fixed-size preamble every checkpoint file starts
// with, followed immediately by the int32 shape list.
type header struct {
	Version uint32
	Kind    Kind
	Level   int32
	Shape   []int32 // [resolution, numRays]
}

func writeHeader(w io.Writer, h header) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, h.Version); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(h.Kind)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, h.Level); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(h.Shape))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, h.Shape)
}

func readHeader(r io.Reader) (header, error) {
	var h header
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return h, err
	}
	if m != magic {
		return h, chk.Err("ckpt: bad magic %q, expected %q", m, magic)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Version); err != nil {
		return h, err
	}
	if h.Version != formatVersion {
		return h, chk.Err("ckpt: unsupported format version %d", h.Version)
	}
	var kind uint8
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return h, err
	}
	h.Kind = Kind(kind)
	if err := binary.Read(r, binary.LittleEndian, &h.Level); err != nil {
		return h, err
	}
	var n int32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return h, err
	}
	h.Shape = make([]int32, n)
	if err := binary.Read(r, binary.LittleEndian, h.Shape); err != nil {
		return h, err
	}
	return h, nil
}

// checkShape rejects a mismatch in R, level, or pixel (numRays) count
// against what the caller expects.
func checkShape(h header, kind Kind, level, resolution, numRays int32) error {
	if h.Kind != kind {
		return chk.Err("ckpt: checkpoint kind %d does not match requested kind %d", h.Kind, kind)
	}
	if h.Level != level {
		return chk.Err("ckpt: checkpoint level %d does not match requested level %d", h.Level, level)
	}
	if len(h.Shape) < 2 {
		return chk.Err("ckpt: malformed shape list")
	}
	if h.Shape[0] != resolution {
		return chk.Err("ckpt: checkpoint resolution %d does not match configured %d", h.Shape[0], resolution)
	}
	if h.Shape[1] != numRays {
		return chk.Err("ckpt: checkpoint pixel count %d does not match expected %d", h.Shape[1], numRays)
	}
	return nil
}

func writeInt32s(w io.Writer, vals ...int32) error {
	return binary.Write(w, binary.LittleEndian, vals)
}

func readInt32s(r io.Reader, n int) ([]int32, error) {
	vals := make([]int32, n)
	if err := binary.Read(r, binary.LittleEndian, vals); err != nil {
		return nil, err
	}
	return vals, nil
}

func writeFloat64s(w io.Writer, vals []float64) error {
	return binary.Write(w, binary.LittleEndian, vals)
}

func readFloat64s(r io.Reader, n int) ([]float64, error) {
	vals := make([]float64, n)
	if err := binary.Read(r, binary.LittleEndian, vals); err != nil {
		return nil, err
	}
	return vals, nil
}

func writeVec4(w io.Writer, v [4]float64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readVec4(r io.Reader) ([4]float64, error) {
	var v [4]float64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func openWriter(path string) (*os.File, *bufio.Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, chk.Err("ckpt: cannot create %s: %v", path, err)
	}
	return f, bufio.NewWriter(f), nil
}

func openReader(path string) (*os.File, *bufio.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, chk.Err("ckpt: cannot open %s: %v", path, err)
	}
	return f, bufio.NewReader(f), nil
}
