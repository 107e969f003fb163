// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transfer

import (
	"math"

	"github.com/ferrocastle/blacklight/coeff"
	"github.com/ferrocastle/blacklight/sample"
)

// Result holds the scalar-transport output for one pixel: the final
// intensity plus the optional diagnostic integrals.
type Result struct {
	I                float64
	PathLength       float64 // total path length along the ray
	TotalLambda      float64 // total affine parameter traversed
	EmissionIntegral float64 // integral of j_I dλ
	Tau              float64 // total optical depth
	WeightedMeans    map[string]float64
}

// Unpolarized integrates dI/dλ = j_I - α_I I from the far end of row m
// to the camera end, applying the analytic per-step update with the
// α_I -> 0 limit.
func Unpolarized(coArr *coeff.Array, sampArr *sample.Array, m int, diagnostics map[string][]float64) Result {
	var res Result
	res.WeightedMeans = make(map[string]float64)
	var sums map[string]float64
	if len(diagnostics) > 0 {
		sums = make(map[string]float64, len(diagnostics))
	}

	for n := 0; n < sampArr.N[m]; n++ {
		dl := sampArr.DLambda[m][n]
		jI := coArr.JI[m][n]
		aI := coArr.AI[m][n]

		if math.IsNaN(jI) || math.IsNaN(aI) {
			res.I = math.NaN()
			continue
		}

		dtau := aI * dl
		if math.Abs(aI) < 1e-12 {
			res.I += jI * dl
		} else {
			e := math.Exp(-dtau)
			res.I = res.I*e + jI*(1-e)/aI
		}

		res.PathLength += math.Abs(dl)
		res.TotalLambda += dl
		res.EmissionIntegral += jI * dl
		res.Tau += dtau

		for key, vals := range diagnostics {
			if n < len(vals) {
				sums[key] += vals[n] * dtau
			}
		}
	}

	// negative I from numerical blow-up is clamped to zero; the NaN
	// the computation may already carry
	// (from an invalid sample upstream) is left for the caller to
	// record as a diagnostic.
	if !math.IsNaN(res.I) && res.I < 0 {
		res.I = 0
	}

	if res.Tau > 1e-300 {
		for key, s := range sums {
			res.WeightedMeans[key] = s / res.Tau
		}
	}
	return res
}
