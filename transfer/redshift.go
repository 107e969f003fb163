// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package transfer implements Component F: the polarized and
// unpolarized radiative-transfer integrators, and the redshift factor
// both variants share.
package transfer

import (
	"math"

	"github.com/ferrocastle/blacklight/metric"
	"github.com/ferrocastle/blacklight/sample"
)

// Redshift returns, for every valid sample of row m, the fluid-frame
// frequency nuCam * (k.u)_emit / (k.u)_cam. The emission frame is
// always the static observer u^mu = (1/sqrt(-g_00), 0,0,0); a fluid
// 4-velocity, where a model has one, is not used here. In flat space
// this frame coincides with the camera's, giving a factor of 1.
func Redshift(sampArr *sample.Array, m int, geo metric.Geometry, nuCam, kDotUCam float64) []float64 {
	n := sampArr.N[m]
	out := make([]float64, n)
	pt := metric.NewPoint()
	for i := 0; i < n; i++ {
		x := sampArr.X[m][i]
		k := sampArr.K[m][i]
		if err := geo.At(x[1], x[2], x[3], pt); err != nil {
			out[i] = nuCam
			continue
		}
		u := staticObserverU(pt.G)
		kdotu := k[0]*u[0] + k[1]*u[1] + k[2]*u[2] + k[3]*u[3]
		if kDotUCam == 0 {
			out[i] = nuCam
			continue
		}
		out[i] = nuCam * kdotu / kDotUCam
	}
	return out
}

// staticObserverU returns the static-observer 4-velocity u^mu =
// (1/sqrt(-g_00), 0,0,0), valid outside the ergosphere where g_00 < 0.
func staticObserverU(g [][]float64) [4]float64 {
	g00 := g[0][0]
	if g00 >= 0 {
		g00 = -1e-6
	}
	return [4]float64{1 / math.Sqrt(-g00), 0, 0, 0}
}
