// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formula

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestCoeffsPeakAtTorusCenter(t *testing.T) {
	chk.PrintTitle("CoeffsPeakAtTorusCenter")
	m := New(DefaultParams())

	atCenter, ok := m.Coeffs([4]float64{0, m.p.RTorus, 0, 0}, [4]float64{}, m.p.NuPeak)
	if !ok {
		t.Fatalf("expected a valid evaluation at the torus center")
	}
	farFromCenter, ok := m.Coeffs([4]float64{0, m.p.RTorus + 10*m.p.Sigma, 0, 0}, [4]float64{}, m.p.NuPeak)
	if !ok {
		t.Fatalf("expected a valid evaluation far from the torus")
	}
	if atCenter.JI <= farFromCenter.JI {
		t.Errorf("expected emissivity at the torus center (%g) to exceed far away (%g)", atCenter.JI, farFromCenter.JI)
	}
	chk.Scalar(t, "JI at center", 1e-9, atCenter.JI, m.p.J0)
	chk.Scalar(t, "AI at center", 1e-9, atCenter.AI, m.p.Alpha0)
}

func TestCoeffsAreUnpolarized(t *testing.T) {
	chk.PrintTitle("CoeffsAreUnpolarized")
	m := New(DefaultParams())
	ch, ok := m.Coeffs([4]float64{0, m.p.RTorus, 0, 0}, [4]float64{}, m.p.NuPeak)
	if !ok {
		t.Fatalf("expected a valid evaluation")
	}
	if ch.JQ != 0 || ch.JV != 0 || ch.AQ != 0 || ch.AV != 0 || ch.RQ != 0 || ch.RV != 0 {
		t.Errorf("formula model must be unpolarized: got %+v", ch)
	}
}

func TestCoeffsRejectsNonFiniteRadius(t *testing.T) {
	chk.PrintTitle("CoeffsRejectsNonFiniteRadius")
	m := New(DefaultParams())
	_, ok := m.Coeffs([4]float64{0, math.NaN(), 0, 0}, [4]float64{}, m.p.NuPeak)
	if ok {
		t.Errorf("expected Coeffs to reject a NaN radius")
	}
}
