// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package refine implements Component G: the adaptive refinement
// controller that flags finished tiles for subdivision based on
// posterior image statistics.
package refine

import (
	"math"

	"github.com/ferrocastle/blacklight/config"
	"github.com/ferrocastle/blacklight/image"
)

// Controller evaluates config.Adaptive's per-criterion fraction/cut
// pairs against a finished tile's intensity plane.
type Controller struct {
	Cfg config.Adaptive
}

// New constructs a Controller bound to the given adaptive-refinement
// options.
func New(cfg config.Adaptive) *Controller { return &Controller{Cfg: cfg} }

// Evaluate flags tile for refinement iff any enabled criterion exceeds
// its cut for a large enough fraction of the tile's pixels. A tile
// whose every criterion is disabled, or whose every enabled criterion
// stays below its cut everywhere, is never flagged.
func (c *Controller) Evaluate(tile *image.Tile) bool {
	n := tile.Size * tile.Size
	if n == 0 {
		return false
	}

	if flagged(c.Cfg.Value, n, func(i, j int) float64 { return math.Abs(tile.At(i, j)) }, tile.Size) {
		return true
	}
	if flagged(c.Cfg.GradAbs, n, gradAbs(tile), tile.Size) {
		return true
	}
	if flagged(c.Cfg.GradRel, n, gradRel(tile), tile.Size) {
		return true
	}
	if flagged(c.Cfg.LaplaceAbs, n, laplaceAbs(tile), tile.Size) {
		return true
	}
	if flagged(c.Cfg.LaplaceRel, n, laplaceRel(tile), tile.Size) {
		return true
	}
	return false
}

// flagged counts how many of a tile's pixels exceed crit.Cut under
// metric and compares the resulting fraction against crit.Fraction.
func flagged(crit config.Criterion, n int, metric func(i, j int) float64, size int) bool {
	if !crit.Enabled {
		return false
	}
	count := 0
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if metric(i, j) > crit.Cut {
				count++
			}
		}
	}
	return float64(count)/float64(n) > crit.Fraction
}

// neighbors returns up to four axis-adjacent pixel values, clipped at
// tile boundaries.
func neighbors(tile *image.Tile, i, j int) []float64 {
	var vals []float64
	if i > 0 {
		vals = append(vals, tile.At(i-1, j))
	}
	if i < tile.Size-1 {
		vals = append(vals, tile.At(i+1, j))
	}
	if j > 0 {
		vals = append(vals, tile.At(i, j-1))
	}
	if j < tile.Size-1 {
		vals = append(vals, tile.At(i, j+1))
	}
	return vals
}

// gradAbs returns the first-order absolute finite-difference gradient
// metric: the largest |v - neighbor| over the adjacent pixels.
func gradAbs(tile *image.Tile) func(i, j int) float64 {
	return func(i, j int) float64 {
		v := tile.At(i, j)
		var max float64
		for _, nb := range neighbors(tile, i, j) {
			if d := math.Abs(v - nb); d > max {
				max = d
			}
		}
		return max
	}
}

// gradRel is gradAbs normalized by the local pixel value (guarding the
// v=0 singular case).
func gradRel(tile *image.Tile) func(i, j int) float64 {
	return func(i, j int) float64 {
		v := tile.At(i, j)
		denom := math.Max(math.Abs(v), 1e-300)
		var max float64
		for _, nb := range neighbors(tile, i, j) {
			if d := math.Abs(v-nb) / denom; d > max {
				max = d
			}
		}
		return max
	}
}

// laplaceAbs returns the discrete Laplacian magnitude: sum of
// neighbors minus len(neighbors)*v, clipped at boundaries.
func laplaceAbs(tile *image.Tile) func(i, j int) float64 {
	return func(i, j int) float64 {
		v := tile.At(i, j)
		nbs := neighbors(tile, i, j)
		var sum float64
		for _, nb := range nbs {
			sum += nb
		}
		return math.Abs(sum - float64(len(nbs))*v)
	}
}

// laplaceRel is laplaceAbs normalized by the local pixel value.
func laplaceRel(tile *image.Tile) func(i, j int) float64 {
	abs := laplaceAbs(tile)
	return func(i, j int) float64 {
		v := tile.At(i, j)
		return abs(i, j) / math.Max(math.Abs(v), 1e-300)
	}
}

// Schedule decides, given the set of tiles flagged at level l, whether
// the controller should schedule level l+1 or declare completion,
// stopping when l has reached MaxLevel or no tile was flagged.
func (c *Controller) Schedule(level int, anyFlagged bool) bool {
	if level+1 > c.Cfg.MaxLevel {
		return false
	}
	return anyFlagged
}
