// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package metric implements Component A: the Kerr spacetime metric,
// its inverse and derivatives in Cartesian Kerr-Schild coordinates, and
// the flat (Minkowski) substitute used for pipeline validation.
package metric

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"
)

// Point holds the metric data at a single spacetime event: the
// covariant metric G, its inverse Ginv, and the partial derivatives
// DG[α][μ][ν] = ∂_α g^μν needed by the geodesic right-hand side.
type Point struct {
	R    float64        // Kerr-Schild radial coordinate
	G    [][]float64    // g_μν, 4x4
	Ginv [][]float64    // g^μν, 4x4
	DG   [4][][]float64 // DG[α] = ∂_α g^μν, each 4x4
}

// NewPoint allocates a zeroed Point using gosl/la's dense allocator.
func NewPoint() *Point {
	p := &Point{
		G:    la.MatAlloc(4, 4),
		Ginv: la.MatAlloc(4, 4),
	}
	for a := 0; a < 4; a++ {
		p.DG[a] = la.MatAlloc(4, 4)
	}
	return p
}

// Geometry is the capability every coordinate model (Kerr, Flat)
// implements. The geodesic integrator depends only on this interface,
// never on a concrete metric.
type Geometry interface {
	// Radius solves for the Kerr-Schild radial coordinate at (x,y,z).
	Radius(x, y, z float64) (r float64, err error)
	// At fills a Point with g, g^-1 and ∂g^-1 at (x,y,z). The caller
	// owns pt (reused across samples to avoid per-step allocation).
	At(x, y, z float64, pt *Point) (err error)
	// HorizonRadius returns r_+ = M + sqrt(M^2-a^2).
	HorizonRadius() float64
}

// Kerr is the rotating black-hole spacetime in Cartesian Kerr-Schild
// coordinates. M and A are immutable after New: |a| <= M is enforced
// there.
type Kerr struct {
	M float64
	A float64
}

// New constructs a Kerr geometry. M is the code-unit mass (normally 1).
func New(mass, spin float64) (*Kerr, error) {
	if math.Abs(spin) > mass {
		return nil, chk.Err("metric: |a|=%g must not exceed M=%g", spin, mass)
	}
	return &Kerr{M: mass, A: spin}, nil
}

// HorizonRadius returns r_+ = M + sqrt(M^2-a^2).
func (k *Kerr) HorizonRadius() float64 {
	return k.M + math.Sqrt(k.M*k.M-k.A*k.A)
}

// Radius solves r^4 - (x^2+y^2+z^2-a^2) r^2 - a^2 z^2 = 0 for r >= 0.
// Seeded from the flat-space estimate and refined with num.NlSolver
// (Newton); falls back to bisection on non-convergence.
func (k *Kerr) Radius(x, y, z float64) (r float64, err error) {
	rho2 := x*x + y*y + z*z
	a2 := k.A * k.A
	b := rho2 - a2
	c := -a2 * z * z

	r0 := math.Sqrt(math.Max(rho2, 1e-12))

	var nls num.NlSolver
	defer nls.Clean()
	nls.Init(1, func(fx, xv []float64) error {
		r2 := xv[0] * xv[0]
		fx[0] = r2*r2 - b*r2 + c
		return nil
	}, nil, func(J [][]float64, xv []float64) error {
		r2 := xv[0] * xv[0]
		J[0][0] = 4*xv[0]*r2 - 2*b*xv[0]
		return nil
	}, true, false, nil)
	xv := []float64{r0}
	silent := true
	serr := nls.Solve(xv, silent)
	if serr == nil && xv[0] >= 0 && isFiniteRadius(xv[0], b, c) {
		return xv[0], nil
	}

	// fallback: bisection on f(r) = r^4 - b r^2 + c over [0, 4 r0 + 4]
	return bisectRadius(b, c, 4*r0+4)
}

func isFiniteRadius(r, b, c float64) bool {
	f := r*r*r*r - b*r*r + c
	return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e-6*(1+b*b)
}

func bisectRadius(b, c, hi float64) (float64, error) {
	f := func(r float64) float64 { return r*r*r*r - b*r*r + c }
	lo := 0.0
	flo, fhi := f(lo), f(hi)
	if flo*fhi > 0 {
		return 0, chk.Err("metric: radial solve failed to bracket a root (b=%g c=%g)", b, c)
	}
	for i := 0; i < 200; i++ {
		mid := 0.5 * (lo + hi)
		fm := f(mid)
		if math.Abs(fm) < 1e-10 || (hi-lo) < 1e-12 {
			return mid, nil
		}
		if flo*fm <= 0 {
			hi, fhi = mid, fm
		} else {
			lo, flo = mid, fm
		}
	}
	return 0.5 * (lo + hi), nil
}

// At fills pt with the Kerr metric data at (x,y,z). The caller is
// expected to terminate the ray when r < r_+(1+ε); At
// itself never fails for a finite r.
func (k *Kerr) At(x, y, z float64, pt *Point) error {
	r, err := k.Radius(x, y, z)
	if err != nil {
		return chk.Err("metric: At(%g,%g,%g): %v", x, y, z, err)
	}
	pt.R = r
	a := k.A
	r2 := r * r

	// null vector l_μ (Kerr-Schild form) and scalar function f
	denom := r2*r2 + a*a*z*z
	if denom < 1e-30 {
		denom = 1e-30
	}
	f := 2 * k.M * r2 * r / denom

	lt := 1.0
	lx := (r*x + a*y) / (r2 + a*a)
	ly := (r*y - a*x) / (r2 + a*a)
	lz := z / r
	l := [4]float64{lt, lx, ly, lz}

	eta := diagEta()
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			pt.G[mu][nu] = eta[mu][nu] + f*l[mu]*l[nu]
		}
	}

	invertMetric(pt.G, pt.Ginv, f, l, eta)

	// the metric is stationary: ∂_t g^μν = 0. Only the three spatial
	// derivatives (α=1,2,3 ↔ x,y,z) are non-trivial.
	la.MatFill(pt.DG[0], 0)
	for spatial := 0; spatial < 3; spatial++ {
		radialDerivative(pt.DG[spatial+1], spatial, x, y, z, a, k.M)
	}
	return nil
}

// diagEta returns the Minkowski metric with signature (-,+,+,+).
func diagEta() [4][4]float64 {
	return [4][4]float64{
		{-1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// invertMetric uses the Sherman-Morrison identity for a rank-1 update
// of a diagonal matrix: (η + f l l^T)^-1 = η^-1 - f/(1+f l^T η^-1 l) (η^-1 l)(η^-1 l)^T.
// This is exact for Kerr-Schild form and far cheaper than a generic 4x4
// inverse; the contractions are written out as plain loops.
func invertMetric(g, ginv [][]float64, f float64, l [4]float64, eta [4][4]float64) {
	var etaInvL [4]float64
	quad := 0.0
	for mu := 0; mu < 4; mu++ {
		etaInvL[mu] = eta[mu][mu] * l[mu] // eta is diagonal
		quad += l[mu] * etaInvL[mu]
	}
	denom := 1 + f*quad
	if math.Abs(denom) < 1e-14 {
		denom = 1e-14
	}
	coef := f / denom
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			ginv[mu][nu] = eta[mu][mu]*boolToF(mu == nu) - coef*etaInvL[mu]*etaInvL[nu]
		}
	}
}

func boolToF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// radialDerivative fills dg[μ][ν] = ∂_α g^μν by differentiating each
// entry of the closed-form inverse with num.DerivCen, which sidesteps
// the lengthy closed-form expansion of the off-diagonal spin-coupling
// terms.
func radialDerivative(dg [][]float64, alpha int, x, y, z, a, m float64) {
	pos := [3]float64{x, y, z}
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			dg[mu][nu] = num.DerivCen(func(q float64, args ...interface{}) (res float64) {
				p := pos
				p[alpha] = q
				g := evalGinv(p[0], p[1], p[2], a, m)
				return g[mu][nu]
			}, pos[alpha])
		}
	}
}

// evalGinv computes g^μν alone, used by radialDerivative's
// num.DerivCen stencil.
func evalGinv(x, y, z, a, m float64) [4][4]float64 {
	rho2 := x*x + y*y + z*z
	a2 := a * a
	b := rho2 - a2
	c := -a2 * z * z
	r := solveRClosed(b, c)
	r2 := r * r
	denom := r2*r2 + a2*z*z
	if denom < 1e-30 {
		denom = 1e-30
	}
	f := 2 * m * r2 * r / denom
	lt := 1.0
	lx := (r*x + a*y) / (r2 + a2)
	ly := (r*y - a*x) / (r2 + a2)
	lz := 0.0
	if r > 1e-12 {
		lz = z / r
	}
	l := [4]float64{lt, lx, ly, lz}
	eta := diagEta()
	var ginv [4][4]float64
	var etaInvL [4]float64
	quad := 0.0
	for mu := 0; mu < 4; mu++ {
		etaInvL[mu] = eta[mu][mu] * l[mu]
		quad += l[mu] * etaInvL[mu]
	}
	denom2 := 1 + f*quad
	if math.Abs(denom2) < 1e-14 {
		denom2 = 1e-14
	}
	coef := f / denom2
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			ginv[mu][nu] = eta[mu][mu]*boolToF(mu == nu) - coef*etaInvL[mu]*etaInvL[nu]
		}
	}
	return ginv
}

// solveRClosed is a cheap closed-form-seeded Newton solve used only by
// the finite-difference stencil in evalGinv, where a handful of extra
// Newton iterations per call is cheaper than re-entering num.NlSolver.
func solveRClosed(b, c float64) float64 {
	r2 := math.Max(b, 0) // flat-space seed
	for i := 0; i < 50; i++ {
		fr := r2*r2 - b*r2 + c
		dfr := 2*r2 - b
		if math.Abs(dfr) < 1e-14 {
			break
		}
		step := fr / dfr
		r2 -= step
		if math.Abs(step) < 1e-14 {
			break
		}
	}
	if r2 < 0 {
		r2 = 0
	}
	return math.Sqrt(r2)
}
