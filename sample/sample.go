// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sample implements Component D: it resamples an integrated
// geodesic onto the midpoints the radiative-transfer integrator steps
// over, clipping any sample that would fall inside the horizon.
package sample

import (
	"github.com/cpmech/gosl/utl"

	"github.com/ferrocastle/blacklight/geodesic"
	"github.com/ferrocastle/blacklight/metric"
)

// Array holds the resampled midpoint data for one refinement level,
// indexed [ray][step]. Allocated once per level on first use; N
// records the clipped sample count per ray so
// downstream loops never read past a clipped ray's valid samples.
type Array struct {
	X       [][][4]float64 // midpoint contravariant position
	K       [][][4]float64 // midpoint covariant momentum
	R       [][]float64    // resolved radial coordinate at each midpoint
	DLambda [][]float64    // affine-parameter step width at each midpoint
	N       []int          // valid sample count per ray; N[m] <= geodesic_num_steps
}

// NewArray allocates an Array sized for numRays rays of up to maxSteps
// samples each.
func NewArray(numRays, maxSteps int) *Array {
	a := &Array{
		X:       make([][][4]float64, numRays),
		K:       make([][][4]float64, numRays),
		R:       utl.Alloc(numRays, maxSteps),
		DLambda: utl.Alloc(numRays, maxSteps),
		N:       make([]int, numRays),
	}
	for m := 0; m < numRays; m++ {
		a.X[m] = make([][4]float64, maxSteps)
		a.K[m] = make([][4]float64, maxSteps)
	}
	return a
}

// Resample fills row m of arr from ray's accepted states: one midpoint
// sample per consecutive state pair, linearly interpolated. Samples
// inside the horizon are clipped (N[m] shrinks accordingly); geo is
// used only to resolve r at each midpoint for the downstream
// coefficient lookup.
func Resample(arr *Array, m int, ray *geodesic.Ray, geo metric.Geometry) {
	if ray.Flagged() && len(ray.States) < 2 {
		arr.N[m] = 0
		return
	}
	rHorizon := geo.HorizonRadius()
	n := 0
	maxN := len(arr.X[m])
	for i := 0; i+1 < len(ray.States) && n < maxN; i++ {
		s0, s1 := ray.States[i], ray.States[i+1]
		var xm, km [4]float64
		for c := 0; c < 4; c++ {
			xm[c] = 0.5 * (s0.X[c] + s1.X[c])
			km[c] = 0.5 * (s0.K[c] + s1.K[c])
		}
		r, err := geo.Radius(xm[1], xm[2], xm[3])
		if err != nil {
			break
		}
		if r <= rHorizon {
			break // clip: remaining samples would be inside the horizon
		}
		arr.X[m][n] = xm
		arr.K[m][n] = km
		arr.R[m][n] = r
		arr.DLambda[m][n] = s1.Lambda - s0.Lambda
		n++
	}
	arr.N[m] = n
}
