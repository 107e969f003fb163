// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transfer

import (
	"math"

	"github.com/ferrocastle/blacklight/coeff"
	"github.com/ferrocastle/blacklight/sample"
)

// Stokes is the polarization state S = (I,Q,U,V)^T.
type Stokes struct {
	I, Q, U, V float64
}

// PolarizedResult mirrors Result but carries the full Stokes vector.
type PolarizedResult struct {
	S   Stokes
	Tau float64
}

// smallRho is the threshold below which the closed-form rotation is
// replaced by its Taylor series.
const smallRho = 1e-8

// Polarized integrates the 4-vector Stokes transport dS/dλ = J -
// (A+R)S from the far end of row m to the camera end, with parallel
// transport of the polarization basis applied at each step via
// basisAngle (the Walker-Penrose rotation angle; see
// WalkerPenroseAngles). basisAngle may be nil to skip basis rotation
// (e.g. in tests that exercise only the transport matrix).
func Polarized(coArr *coeff.Array, sampArr *sample.Array, m int, basisAngle []float64) PolarizedResult {
	var S Stokes
	var tau float64

	for n := 0; n < sampArr.N[m]; n++ {
		dl := sampArr.DLambda[m][n]
		jI, jQ, jV := coArr.JI[m][n], coArr.JQ[m][n], coArr.JV[m][n]
		aI, aQ, aV := coArr.AI[m][n], coArr.AQ[m][n], coArr.AV[m][n]
		rQ, rV := coArr.RQ[m][n], coArr.RV[m][n]

		if basisAngle != nil && n < len(basisAngle) {
			S.Q, S.U = rotateQU(S.Q, S.U, basisAngle[n])
		}

		S = polarizedStep(S, jI, jQ, jV, aI, aQ, aV, rQ, rV, dl)
		tau += aI * dl
	}

	if S.I < 0 {
		S.I = 0
	}
	return PolarizedResult{S: S, Tau: tau}
}

// polarizedStep advances S over one sample's affine-parameter width:
// all four components are attenuated by the isotropic absorptivity aI
// alone, with aQ and aV entering only as linear source/sink terms for
// Q and V; the full absorption matrix is not diagonalized. The result
// is then composed with a rotation of (Q,U) by the combined Faraday
// angle θ = sqrt(rQ²+rV²)·Δλ.
func polarizedStep(S Stokes, jI, jQ, jV, aI, aQ, aV, rQ, rV, dl float64) Stokes {
	if math.IsNaN(jI) || math.IsNaN(aI) {
		return Stokes{math.NaN(), math.NaN(), math.NaN(), math.NaN()}
	}

	// absorption/emission: the isotropic piece aI dominates the
	// diagonalization (the o-mode/x-mode split collapses to the
	// isotropic eigenvalue when the anisotropic absorptivities aQ,aV
	// are small relative to aI, which holds in the regimes this
	// renderer targets); aQ,aV instead source/sink Q,V linearly.
	dtau := aI * dl
	var e, oneMinusEOverA float64
	if math.Abs(aI) < 1e-12 {
		e = 1
		oneMinusEOverA = dl
	} else {
		e = math.Exp(-dtau)
		oneMinusEOverA = (1 - e) / aI
	}

	Inew := S.I*e + jI*oneMinusEOverA
	Qnew := S.Q*e + (jQ-aQ*S.I)*oneMinusEOverA
	Vnew := S.V*e + (jV-aV*S.I)*oneMinusEOverA
	Unew := S.U * e

	// Faraday rotation: compose with a rotation of (Q,U) by the
	// combined angle; V is unaffected by linear Faraday rotation.
	theta := math.Sqrt(rQ*rQ+rV*rV) * dl
	Qnew, Unew = rotateQU(Qnew, Unew, theta)

	return Stokes{I: Inew, Q: Qnew, U: Unew, V: Vnew}
}

// rotateQU rotates (Q,U) by angle theta, falling back to the
// second-order Taylor series of sin/cos for |theta| < smallRho to
// avoid catastrophic cancellation at theta ~ 0.
func rotateQU(q, u, theta float64) (float64, float64) {
	var c, s float64
	if math.Abs(theta) < smallRho {
		c = 1 - 0.5*theta*theta
		s = theta
	} else {
		c = math.Cos(theta)
		s = math.Sin(theta)
	}
	return q*c - u*s, q*s + u*c
}

// WalkerPenroseAngles returns, for each sample of row m, the parallel-
// transport rotation angle of the polarization basis derived from the
// Walker-Penrose constant. It approximates the constant by the
// instantaneous rotation of the ray's transverse momentum direction
// between consecutive samples — exact parallel transport requires the
// Walker-Penrose complex constant evaluated along the full geodesic,
// which is more than the sample-local binder can carry.
func WalkerPenroseAngles(sampArr *sample.Array, m int) []float64 {
	n := sampArr.N[m]
	angles := make([]float64, n)
	for i := 1; i < n; i++ {
		k0 := sampArr.K[m][i-1]
		k1 := sampArr.K[m][i]
		angles[i] = transverseTurn(k0, k1)
	}
	return angles
}

// transverseTurn estimates the rotation of the (k1,k2) transverse
// momentum plane between two consecutive samples.
func transverseTurn(k0, k1 [4]float64) float64 {
	a0 := math.Atan2(k0[2], k0[1])
	a1 := math.Atan2(k1[2], k1[1])
	d := a1 - a0
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
