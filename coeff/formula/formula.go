// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package formula implements the "formula" coefficient source: a
// closed-form torus-like emission model, used for reference renders
// and whenever no simulation snapshot is supplied. The emission
// depends only on position and fluid-frame frequency; no fluid
// velocity field is evaluated. The model is not cross-checked against
// the simulation model.
package formula

import (
	"math"

	"github.com/cpmech/gosl/fun/dbf"

	"github.com/ferrocastle/blacklight/coeff"
)

func init() {
	coeff.Register("formula", func() coeff.Source { return New(DefaultParams()) })
}

// Params are the named scalar parameters of the formula model.
type Params struct {
	RTorus  float64 // torus characteristic radius, in M
	Sigma   float64 // torus radial width, in M
	J0      float64 // peak emissivity normalization
	Alpha0  float64 // peak absorptivity normalization
	NuPeak  float64 // emission peaks near this fluid-frame frequency
}

// DefaultParams returns the reference torus parameters.
func DefaultParams() Params {
	prms := []*dbf.P{
		{N: "rtorus", V: 12},
		{N: "sigma", V: 3},
		{N: "j0", V: 1},
		{N: "alpha0", V: 0.1},
		{N: "nupeak", V: 2.3e11},
	}
	return Params{
		RTorus: prms[0].V, Sigma: prms[1].V, J0: prms[2].V,
		Alpha0: prms[3].V, NuPeak: prms[4].V,
	}
}

// Model is a torus-shaped, optically-thin emitting region: a Gaussian
// shell in (r,z) around RTorus with emissivity peaked near NuPeak.
type Model struct {
	p Params
}

// New constructs a formula model with the given parameters.
func New(p Params) *Model { return &Model{p: p} }

// Coeffs implements coeff.Source.
func (m *Model) Coeffs(x, k [4]float64, nuFluid float64) (coeff.Channels, bool) {
	rCyl := math.Sqrt(x[1]*x[1] + x[2]*x[2])
	z := x[3]
	if math.IsNaN(rCyl) || math.IsNaN(z) {
		return coeff.Channels{}, false
	}
	d2 := (rCyl-m.p.RTorus)*(rCyl-m.p.RTorus) + z*z
	shell := math.Exp(-0.5 * d2 / (m.p.Sigma * m.p.Sigma))
	spectral := math.Exp(-0.5 * math.Pow(math.Log(math.Max(nuFluid, 1e-30)/m.p.NuPeak), 2))

	jI := m.p.J0 * shell * spectral
	aI := m.p.Alpha0 * shell

	return coeff.Channels{
		JI: jI,
		AI: aI,
		// formula model is unpolarized by construction: no Q/U/V
		// emissivity, absorptivity or Faraday mixing.
	}, true
}
