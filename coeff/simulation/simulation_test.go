// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simulation

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

type fakeFluid struct {
	rho, thetaParam, beta float64
	u                     [4]float64
	ok                    bool
}

func (f fakeFluid) At(x [4]float64) (rho, thetaParam, beta float64, u [4]float64, ok bool) {
	return f.rho, f.thetaParam, f.beta, f.u, f.ok
}

func TestCoeffsWithoutFluidIsInvalid(t *testing.T) {
	chk.PrintTitle("CoeffsWithoutFluidIsInvalid")
	m := New(nil, DefaultPlasma(), false)
	_, ok := m.Coeffs([4]float64{}, [4]float64{}, 1e11)
	if ok {
		t.Errorf("expected Coeffs to report invalid with no FluidState bound")
	}
}

func TestCoeffsUnpolarizedHasNoQUV(t *testing.T) {
	chk.PrintTitle("CoeffsUnpolarizedHasNoQUV")
	fluid := fakeFluid{rho: 1, thetaParam: 5, beta: 1, ok: true}
	m := New(fluid, DefaultPlasma(), false)
	ch, ok := m.Coeffs([4]float64{0, 10, 0, 0}, [4]float64{}, 2.3e11)
	if !ok {
		t.Fatalf("expected a valid evaluation")
	}
	if ch.JQ != 0 || ch.JV != 0 || ch.AQ != 0 || ch.AV != 0 || ch.RQ != 0 || ch.RV != 0 {
		t.Errorf("expected zero polarized channels with Polarization=false, got %+v", ch)
	}
	if ch.JI <= 0 || ch.AI <= 0 {
		t.Errorf("expected positive JI/AI, got %+v", ch)
	}
}

func TestCoeffsPolarizedFillsQUV(t *testing.T) {
	chk.PrintTitle("CoeffsPolarizedFillsQUV")
	fluid := fakeFluid{rho: 1, thetaParam: 5, beta: 1, ok: true}
	m := New(fluid, DefaultPlasma(), true)
	ch, ok := m.Coeffs([4]float64{0, 10, 0, 0}, [4]float64{}, 2.3e11)
	if !ok {
		t.Fatalf("expected a valid evaluation")
	}
	if ch.JQ == 0 || ch.AQ == 0 || ch.RV == 0 {
		t.Errorf("expected nonzero polarized channels with Polarization=true, got %+v", ch)
	}
}

func TestCoeffsInvalidFluidState(t *testing.T) {
	chk.PrintTitle("CoeffsInvalidFluidState")
	fluid := fakeFluid{ok: false}
	m := New(fluid, DefaultPlasma(), false)
	_, ok := m.Coeffs([4]float64{0, 10, 0, 0}, [4]float64{}, 2.3e11)
	if ok {
		t.Errorf("expected Coeffs to propagate the FluidState's ok=false")
	}
}
