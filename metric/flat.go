// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import "math"

// Flat is the Minkowski substitute used for pipeline validation
// (ray_flat=true). Its horizon radius is 0: rays never terminate on a
// horizon, only on the escape surface.
type Flat struct{}

// NewFlat constructs the flat-space geometry.
func NewFlat() *Flat { return &Flat{} }

// HorizonRadius always returns 0 for flat space.
func (Flat) HorizonRadius() float64 { return 0 }

// Radius returns the ordinary Euclidean radius.
func (Flat) Radius(x, y, z float64) (float64, error) {
	return math.Sqrt(x*x + y*y + z*z), nil
}

// At fills pt with the constant Minkowski metric; all derivatives are
// zero since the metric does not depend on position.
func (f Flat) At(x, y, z float64, pt *Point) error {
	r, _ := f.Radius(x, y, z)
	pt.R = r
	eta := diagEta()
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			pt.G[mu][nu] = eta[mu][nu]
			pt.Ginv[mu][nu] = eta[mu][nu]
		}
	}
	for alpha := 0; alpha < 4; alpha++ {
		for mu := 0; mu < 4; mu++ {
			for nu := 0; nu < 4; nu++ {
				pt.DG[alpha][mu][nu] = 0
			}
		}
	}
	return nil
}
