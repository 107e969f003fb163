// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package coeff implements Component E: the coefficient binder that
// invokes a pluggable physical model at each sample and normalizes its
// output into the frequency units the transfer integrator expects.
package coeff

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/sample"
)

// Channels holds the eight emission/absorption/rotation coefficients
// one model evaluation produces.
type Channels struct {
	JI, JQ, JV float64 // emissivities
	AI, AQ, AV float64 // absorptivities
	RQ, RV     float64 // Faraday-rotation coefficients
}

// Source is the coefficient-source capability: selected once at
// construction and invoked uniformly in the sample loop, never
// branched on model_type inside the loop. formula and simulation
// sub-packages each provide one implementation.
type Source interface {
	// Coeffs evaluates the physical model at contravariant position x
	// and covariant momentum k. nuFluid is the observed camera
	// frequency after the (k.u)_emit/(k.u)_cam redshift, which the
	// model needs to evaluate frequency-dependent emissivities. The
	// bool result is false when the model has no valid input at x.
	Coeffs(x, k [4]float64, nuFluid float64) (Channels, bool)
}

// allocators holds all available coefficient sources by name.
var allocators = make(map[string]func() Source)

// Register adds a named coefficient-source allocator; formula and
// simulation call this from their own init().
func Register(name string, alloc func() Source) {
	allocators[name] = alloc
}

// New returns a new coefficient source by name ("formula" or
// "simulation").
func New(name string) (Source, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("coeff: model %q is not registered", name)
	}
	return alloc(), nil
}

// Binder invokes a Source at every resampled point and fills a
// per-level coefficient array, applying the Lorentz-invariant frequency
// normalization (j/nu^2, alpha*nu) and the fallback-to-NaN policy.
type Binder struct {
	Source      Source
	FallbackNaN bool
}

// Array holds the bound coefficients for one refinement level, indexed
// [ray][step], parallel to sample.Array.
type Array struct {
	JI, JQ, JV [][]float64
	AI, AQ, AV [][]float64
	RQ, RV     [][]float64
}

// NewArray allocates a coefficient Array sized like the given sample
// array.
func NewArray(numRays, maxSteps int) *Array {
	alloc := func() [][]float64 {
		rows := make([][]float64, numRays)
		for i := range rows {
			rows[i] = make([]float64, maxSteps)
		}
		return rows
	}
	return &Array{
		JI: alloc(), JQ: alloc(), JV: alloc(),
		AI: alloc(), AQ: alloc(), AV: alloc(),
		RQ: alloc(), RV: alloc(),
	}
}

// Fill evaluates the bound Source at every valid sample of row m and
// writes the normalized coefficients into coArr's row m. nuFluid holds
// the per-sample fluid-frame frequency after the redshift factor
// transfer.Redshift computes from (k.u)_emit/(k.u)_cam; coeff
// itself never computes the redshift, only consumes it.
func (b *Binder) Fill(coArr *Array, sampArr *sample.Array, m int, nuFluid []float64) {
	for n := 0; n < sampArr.N[m]; n++ {
		x := sampArr.X[m][n]
		k := sampArr.K[m][n]
		nu := nuFluid[n]
		ch, valid := b.Source.Coeffs(x, k, nu)

		if !valid {
			if b.FallbackNaN {
				nan := math.NaN()
				coArr.JI[m][n], coArr.JQ[m][n], coArr.JV[m][n] = nan, nan, nan
				coArr.AI[m][n], coArr.AQ[m][n], coArr.AV[m][n] = nan, nan, nan
				coArr.RQ[m][n], coArr.RV[m][n] = nan, nan
				continue
			}
			ch = fallbackChannels()
		}

		nu2 := nu * nu
		if nu2 < 1e-300 {
			nu2 = 1e-300
		}
		coArr.JI[m][n] = ch.JI / nu2
		coArr.JQ[m][n] = ch.JQ / nu2
		coArr.JV[m][n] = ch.JV / nu2
		coArr.AI[m][n] = ch.AI * nu
		coArr.AQ[m][n] = ch.AQ * nu
		coArr.AV[m][n] = ch.AV * nu
		coArr.RQ[m][n] = ch.RQ * nu
		coArr.RV[m][n] = ch.RV * nu
	}
}

// fallbackChannels substitutes zero coefficients (a transparent,
// non-emitting sample) when the physical model reports an invalid input
// and fallback_nan is not set. No fallback density or pressure is fed
// back through the model.
func fallbackChannels() Channels {
	return Channels{}
}
