// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"github.com/ferrocastle/blacklight/coeff"
	"github.com/ferrocastle/blacklight/sample"
)

// Scratch is the per-worker tile-sized buffer pair; giving each worker
// its own avoids false sharing on refined levels. Allocated once per
// worker goroutine and reused across every tile that worker pulls from
// the job queue.
type Scratch struct {
	Samp *sample.Array
	Co   *coeff.Array
}

// NewScratch allocates a Scratch sized for one blockSize*blockSize
// tile's worth of rays, each up to maxSteps transfer samples.
func NewScratch(blockSize, maxSteps int) *Scratch {
	numRays := blockSize * blockSize
	return &Scratch{
		Samp: sample.NewArray(numRays, maxSteps),
		Co:   coeff.NewArray(numRays, maxSteps),
	}
}
