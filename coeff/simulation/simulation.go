// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package simulation implements the "simulation" coefficient source: a
// thin-disk/torus-agnostic model driven by a fluid snapshot. Reading
// the snapshot itself is delegated to a collaborator; this package only
// specifies the FluidState collaborator interface and the plasma
// sub-model math (ti_te_beta / code_kappa) that turns fluid state into
// Stokes coefficients. The 4-velocity FluidState.At returns (Cartesian
// Kerr-Schild components) is not used by the coefficient math. The
// model is not cross-checked against the formula model.
package simulation

import (
	"math"

	"github.com/cpmech/gosl/fun/dbf"

	"github.com/ferrocastle/blacklight/coeff"
)

func init() {
	coeff.Register("simulation", func() coeff.Source {
		return New(nil, DefaultPlasma(), false)
	})
}

// FluidState is the out-of-scope simulation-snapshot reader's
// collaborator interface: it supplies density, pressure/temperature
// and 4-velocity at a Cartesian Kerr-Schild point.
type FluidState interface {
	// At returns the rest-frame density, ion/electron temperature
	// ratio input (Ti/Te or kappa, depending on the active sub-model),
	// plasma beta, and contravariant 4-velocity u^mu at x. ok is false
	// when x falls outside the snapshot or the interpolated state is
	// invalid (feeds the fallback_nan policy in coeff.Binder).
	At(x [4]float64) (rho, thetaParam, beta float64, u [4]float64, ok bool)
}

// Plasma holds the plasma sub-model parameters, mirroring
// config.Plasma and dbf.P-style named scalars.
type Plasma struct {
	Kappa        bool    // true selects code_kappa, false selects ti_te_beta
	TiTeRatio    float64 // ti_te_beta: constant Ti/Te outside high-beta disk
	BetaCrit     float64 // ti_te_beta: transition beta
	KappaFrac    float64 // code_kappa: nonthermal fraction
	KappaWidth   float64 // code_kappa: kappa-distribution width

	FracThermal  float64
	FracPowerLaw float64
	FracKappa    float64
}

// DefaultPlasma returns reference sub-model scalars.
func DefaultPlasma() Plasma {
	prms := []*dbf.P{
		{N: "titeratio", V: 3},
		{N: "betacrit", V: 1},
		{N: "kappafrac", V: 0.1},
		{N: "kappawidth", V: 3.5},
	}
	return Plasma{
		TiTeRatio: prms[0].V, BetaCrit: prms[1].V,
		KappaFrac: prms[2].V, KappaWidth: prms[3].V,
		FracThermal: 0.9, FracPowerLaw: 0.05, FracKappa: 0.05,
	}
}

// Model evaluates the simulation coefficient source at a sample,
// optionally producing polarized (Q,U->rotation,V) channels.
type Model struct {
	Fluid        FluidState
	Plasma       Plasma
	Polarization bool
}

// New constructs a simulation model bound to a FluidState collaborator.
func New(fluid FluidState, plasma Plasma, polarization bool) *Model {
	return &Model{Fluid: fluid, Plasma: plasma, Polarization: polarization}
}

// Coeffs implements coeff.Source.
func (m *Model) Coeffs(x, k [4]float64, nuFluid float64) (coeff.Channels, bool) {
	if m.Fluid == nil {
		return coeff.Channels{}, false
	}
	rho, thetaParam, beta, _, ok := m.Fluid.At(x)
	if !ok || math.IsNaN(rho) {
		return coeff.Channels{}, false
	}

	te := m.electronTemperature(thetaParam, beta)
	thetaE := math.Max(te, 1e-6)

	bMag := math.Sqrt(math.Max(rho, 0) * math.Max(beta, 1e-12))
	jI := synchrotronEmissivity(rho, thetaE, bMag, nuFluid)
	aI := jI / math.Max(nuFluid*nuFluid, 1e-30) * 2 // crude Kirchhoff-law closure

	ch := coeff.Channels{JI: jI, AI: aI}
	if m.Polarization {
		// linear/circular fractions scale with the thermal
		// electron-population weight, a coarse but monotone proxy for
		// the degree of polarization a real synchrotron formula would
		// predict from the pitch angle.
		pFrac := 0.7 * m.Plasma.FracThermal
		ch.JQ = pFrac * jI
		ch.AQ = pFrac * aI
		ch.JV = 0.3 * pFrac * jI
		ch.AV = 0.3 * pFrac * aI
		ch.RV = faradayRotationV(rho, thetaE, bMag, nuFluid)
		ch.RQ = 0.1 * ch.RV
	}
	return ch, true
}

// electronTemperature maps the active plasma sub-model's thetaParam
// (Ti/Te or kappa input) and beta into a dimensionless electron
// temperature, following the ti_te_beta / code_kappa split.
func (m *Model) electronTemperature(thetaParam, beta float64) float64 {
	if m.Plasma.Kappa {
		return m.Plasma.KappaFrac * thetaParam * math.Pow(1+beta, -0.2)
	}
	ratio := m.Plasma.TiTeRatio
	weight := beta / (beta + m.Plasma.BetaCrit)
	return thetaParam / (1 + weight*(ratio-1))
}

// synchrotronEmissivity is a simplified thermal-synchrotron emissivity
// scaling (power-law in density/temperature/field, not the full
// special-function form), sufficient to exercise the coefficient
// pipeline without pulling in a dedicated special-function dependency.
func synchrotronEmissivity(rho, thetaE, bMag, nu float64) float64 {
	nuC := 2.8e6 * bMag * thetaE * thetaE
	x := nu / math.Max(nuC, 1e-30)
	return rho * bMag * math.Pow(x, 1.0/3.0) * math.Exp(-math.Pow(x, 1.0/3.0))
}

// faradayRotationV is a simplified rho_V scaling, monotone in density
// and inversely in frequency squared as Faraday rotation requires.
func faradayRotationV(rho, thetaE, bMag, nu float64) float64 {
	if nu < 1e-30 {
		return 0
	}
	return 2e4 * rho * bMag / (thetaE * nu * nu)
}
