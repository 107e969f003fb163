// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transfer

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/coeff"
	"github.com/ferrocastle/blacklight/metric"
	"github.com/ferrocastle/blacklight/sample"
)

// TestUnpolarizedOpticallyThin checks the alpha_I -> 0 limit: I should
// accumulate as a plain integral of j_I dlambda.
func TestUnpolarizedOpticallyThin(t *testing.T) {
	chk.PrintTitle("UnpolarizedOpticallyThin")
	coArr := coeff.NewArray(1, 2)
	sampArr := sample.NewArray(1, 2)
	sampArr.N[0] = 2
	sampArr.DLambda[0][0], sampArr.DLambda[0][1] = 1, 2
	coArr.JI[0][0], coArr.JI[0][1] = 3, 5

	res := Unpolarized(coArr, sampArr, 0, nil)
	chk.Scalar(t, "I", 1e-12, res.I, 3*1+5*2)
	chk.Scalar(t, "Tau", 1e-12, res.Tau, 0)
}

// TestUnpolarizedOpaqueSaturatesToSourceFunction checks that a very
// large, constant absorptivity drives I toward the local source
// function j_I/alpha_I regardless of the incoming boundary value.
func TestUnpolarizedOpaqueSaturatesToSourceFunction(t *testing.T) {
	chk.PrintTitle("UnpolarizedOpaqueSaturatesToSourceFunction")
	coArr := coeff.NewArray(1, 1)
	sampArr := sample.NewArray(1, 1)
	sampArr.N[0] = 1
	sampArr.DLambda[0][0] = 1
	coArr.JI[0][0] = 4
	coArr.AI[0][0] = 50

	res := Unpolarized(coArr, sampArr, 0, nil)
	chk.Scalar(t, "I -> j/alpha", 1e-6, res.I, 4.0/50.0)
}

func TestUnpolarizedClampsNegativeIntensity(t *testing.T) {
	chk.PrintTitle("UnpolarizedClampsNegativeIntensity")
	coArr := coeff.NewArray(1, 1)
	sampArr := sample.NewArray(1, 1)
	sampArr.N[0] = 1
	sampArr.DLambda[0][0] = 1
	coArr.JI[0][0] = -10
	coArr.AI[0][0] = 0

	res := Unpolarized(coArr, sampArr, 0, nil)
	if res.I != 0 {
		t.Errorf("expected negative intensity to clamp to 0, got %g", res.I)
	}
}

func TestUnpolarizedPropagatesNaN(t *testing.T) {
	chk.PrintTitle("UnpolarizedPropagatesNaN")
	coArr := coeff.NewArray(1, 1)
	sampArr := sample.NewArray(1, 1)
	sampArr.N[0] = 1
	sampArr.DLambda[0][0] = 1
	coArr.JI[0][0] = math.NaN()

	res := Unpolarized(coArr, sampArr, 0, nil)
	if !math.IsNaN(res.I) {
		t.Errorf("expected NaN emissivity to propagate to I, got %g", res.I)
	}
}

// TestRedshiftIdentityInFlatSpace checks that in flat
// space with the camera's own frame as the comoving frame, the
// redshift factor is 1 everywhere along the ray.
func TestRedshiftIdentityInFlatSpace(t *testing.T) {
	chk.PrintTitle("RedshiftIdentityInFlatSpace")
	geo := metric.NewFlat()
	sampArr := sample.NewArray(1, 2)
	sampArr.N[0] = 2
	sampArr.X[0][0] = [4]float64{0, 10, 0, 0}
	sampArr.X[0][1] = [4]float64{0, 20, 0, 0}
	sampArr.K[0][0] = [4]float64{-1, 1, 0, 0}
	sampArr.K[0][1] = [4]float64{-1, 1, 0, 0}

	nuCam := 1.0
	kDotUCam := -1.0 // k.u at the camera with u=(1,0,0,0), k_0=-1
	nu := Redshift(sampArr, 0, geo, nuCam, kDotUCam)
	for i, v := range nu {
		chk.Scalar(t, "nu_fluid", 1e-12, v, nuCam)
		_ = i
	}
}

// TestPolarizedFaradayRotationPiFlipsQ exercises the scenario
// (rho_Q=pi, rho_V=0, dlambda=1, S_in=(1,1,0,0)) -> (1,-1,0,0): a
// Faraday angle of pi rotates (Q,U)=(1,0) to (-1,0).
func TestPolarizedFaradayRotationPiFlipsQ(t *testing.T) {
	chk.PrintTitle("PolarizedFaradayRotationPiFlipsQ")
	S := polarizedStep(Stokes{I: 1, Q: 1, U: 0, V: 0}, 0, 0, 0, 0, 0, 0, math.Pi, 0, 1)
	chk.Scalar(t, "Q after pi rotation", 1e-9, S.Q, -1)
	chk.Scalar(t, "U after pi rotation", 1e-9, S.U, 0)
}

// TestPolarizedUnpolarizedIAgreesWithScalarTransport checks that with
// every Q/U/V channel left at zero, Polarized's I component matches
// the scalar Unpolarized transport exactly.
func TestPolarizedUnpolarizedIAgreesWithScalarTransport(t *testing.T) {
	chk.PrintTitle("PolarizedUnpolarizedIAgreesWithScalarTransport")
	coArr := coeff.NewArray(1, 2)
	sampArr := sample.NewArray(1, 2)
	sampArr.N[0] = 2
	sampArr.DLambda[0][0], sampArr.DLambda[0][1] = 1, 2
	coArr.JI[0][0], coArr.JI[0][1] = 3, 5
	coArr.AI[0][0], coArr.AI[0][1] = 0.1, 0.2

	scalar := Unpolarized(coArr, sampArr, 0, nil)
	polarized := Polarized(coArr, sampArr, 0, nil)
	chk.Scalar(t, "I", 1e-9, polarized.S.I, scalar.I)
	chk.Scalar(t, "Tau", 1e-12, polarized.Tau, scalar.Tau)
}

func TestRotateQUSmallAngleMatchesExact(t *testing.T) {
	chk.PrintTitle("RotateQUSmallAngleMatchesExact")
	theta := 1e-10
	q, u := rotateQU(1, 0, theta)
	chk.Scalar(t, "q", 1e-12, q, math.Cos(theta))
	chk.Scalar(t, "u", 1e-12, u, math.Sin(theta))
}

func TestWalkerPenroseAnglesZeroForStraightRay(t *testing.T) {
	chk.PrintTitle("WalkerPenroseAnglesZeroForStraightRay")
	sampArr := sample.NewArray(1, 3)
	sampArr.N[0] = 3
	for i := 0; i < 3; i++ {
		sampArr.K[0][i] = [4]float64{-1, 1, 0, 0}
	}
	angles := WalkerPenroseAngles(sampArr, 0)
	for i, a := range angles {
		if math.Abs(a) > 1e-12 {
			t.Errorf("angle[%d] = %g, want 0 for a non-turning transverse direction", i, a)
		}
	}
}
