// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/binary"
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/ferrocastle/blacklight/config"
	"github.com/ferrocastle/blacklight/image"
	"github.com/ferrocastle/blacklight/render"
)

func main() {
	exitCode := 0
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
			exitCode = 1
		}
		os.Exit(exitCode)
	}()

	flag.Parse()
	if len(flag.Args()) != 1 {
		chk.Panic("usage: blacklight <input-file>")
	}
	fnamepath := flag.Arg(0)

	io.PfWhite("\nBlacklight -- general-relativistic radiative-transfer renderer\n\n")

	cfg := config.MustLoad(fnamepath)

	renderer, err := render.New(cfg)
	if err != nil {
		chk.Panic("%v", err)
	}

	timers, err := renderer.Integrate(diskImageWriter{})
	if err != nil {
		chk.Panic("%v", err)
	}
	io.Pf(". phase timers: geodesic=%v sample=%v coeff=%v transfer=%v refine=%v\n",
		timers.Geodesic, timers.Sample, timers.Coeff, timers.Transfer, timers.Refine)
}

// diskImageWriter is a minimal render.ImageWriter: it dumps the
// intensity plane as a row-major little-endian float64 raw file. The
// full output-image writer (format negotiation, auxiliary-channel
// export) is an out-of-scope collaborator; this satisfies the
// interface so the driver runs end to end.
type diskImageWriter struct{}

func (diskImageWriter) WriteImage(name string, img *image.AssembledImage) error {
	f, err := os.Create(name + ".raw")
	if err != nil {
		return chk.Err("main: cannot create output file for %q: %v", name, err)
	}
	defer f.Close()

	for _, row := range img.I {
		if err := binary.Write(f, binary.LittleEndian, row); err != nil {
			return chk.Err("main: writing output file for %q: %v", name, err)
		}
	}
	return nil
}
