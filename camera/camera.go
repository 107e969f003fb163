// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package camera implements Component B: it builds the camera tetrad
// and the initial (position, momentum) state for every pixel.
package camera

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"github.com/ferrocastle/blacklight/metric"
)

// Model selects how transverse pixel offsets turn into ray directions.
type Model int

const (
	// Plane: every pixel shares the same line-of-sight direction; rays
	// start parallel, offset transversely by (u,v) in the camera plane.
	Plane Model = iota
	// Pinhole: every ray emanates from the same camera point with
	// direction n + u*h + v*v, normalized to null.
	Pinhole
)

// Camera holds the immutable, read-only-after-construction camera
// state: the world point, 4-velocity, orthonormal spatial triad, and
// pixel grid geometry.
type Camera struct {
	Model      Model
	Resolution int     // R, linear pixel resolution
	Width      float64 // camera_width

	Xcam [4]float64 // world point
	U    [4]float64 // 4-velocity (timelike, u.u = -1)
	N    [4]float64 // line of sight n-hat
	H    [4]float64 // spatial triad vector h-hat
	V    [4]float64 // spatial triad vector v-hat

	NuCam float64 // observed frequency at the camera
	MomFactor float64 // CGS frequency scale factor

	g [][]float64 // g_mu_nu at Xcam, used to lower tetrad vectors
}

// InitialState is the (position, momentum) pair produced for one pixel
// at lambda=0, before geodesic integration begins.
type InitialState struct {
	PixelI, PixelJ int
	X              [4]float64 // contravariant x^mu
	K              [4]float64 // covariant k_mu
}

// Build constructs the tetrad at r, inclination, azimuth (in degrees)
// using Gram-Schmidt orthonormalization against the metric, then
// returns the per-pixel initial states in row-major
// (PixelJ*Resolution+PixelI) order.
func Build(geo metric.Geometry, r, inclinationDeg, azimuthDeg, width float64, resolution int, model Model, polarProof bool, nuCam, momFactor float64) ([]InitialState, error) {
	cam, err := BuildCamera(geo, r, inclinationDeg, azimuthDeg, width, resolution, model, polarProof, nuCam, momFactor)
	if err != nil {
		return nil, err
	}
	return cam.pixels()
}

// BuildCamera is the tetrad-only half of Build: it returns the
// constructed Camera without enumerating pixels, so a caller that
// needs only a sub-window of pixels (the refinement controller's
// finer levels) can reuse the same tetrad via PixelsWindow
// instead of rebuilding it per tile.
func BuildCamera(geo metric.Geometry, r, inclinationDeg, azimuthDeg, width float64, resolution int, model Model, polarProof bool, nuCam, momFactor float64) (*Camera, error) {
	if resolution <= 0 {
		return nil, chk.Err("camera: resolution must be positive, got %d", resolution)
	}

	incl := inclinationDeg * math.Pi / 180
	az := azimuthDeg * math.Pi / 180
	if polarProof {
		az = adjustPoleAzimuth(incl, az)
	}

	x := r * math.Sin(incl) * math.Cos(az)
	y := r * math.Sin(incl) * math.Sin(az)
	z := r * math.Cos(incl)

	pt := metric.NewPoint()
	if err := geo.At(x, y, z, pt); err != nil {
		return nil, chk.Err("camera: metric.At failed at camera position: %v", err)
	}

	cam := &Camera{
		Model: model, Resolution: resolution, Width: width,
		Xcam: [4]float64{0, x, y, z}, NuCam: nuCam, MomFactor: momFactor,
		g: pt.G,
	}
	if err := buildTetrad(cam, pt); err != nil {
		return nil, err
	}
	return cam, nil
}

// adjustPoleAzimuth nudges the azimuth away from the polar axis so the
// (theta,phi) coordinate singularity at the pole does not destabilize
// the tetrad construction (camera_pole).
func adjustPoleAzimuth(inclination, azimuth float64) float64 {
	const eps = 1e-6
	if math.Abs(inclination) < eps || math.Abs(inclination-math.Pi) < eps {
		return 0
	}
	return azimuth
}

// buildTetrad fills cam.U/N/H/V with a right-handed orthonormal tetrad
// at cam.Xcam via Gram-Schmidt against pt.G, following the line of
// sight toward the origin.
func buildTetrad(cam *Camera, pt *metric.Point) error {
	x, y, z := cam.Xcam[1], cam.Xcam[2], cam.Xcam[3]
	r := math.Sqrt(x*x + y*y + z*z)
	if r < 1e-12 {
		return chk.Err("camera: degenerate camera position at the origin")
	}

	// seed: static observer 4-velocity along coordinate time, then
	// normalize against the metric so u.u = -1.
	u := [4]float64{1, 0, 0, 0}
	normalizeTimelike(u[:], pt.G)

	// line of sight: inward radial direction, spatial part only.
	n := [4]float64{0, -x / r, -y / r, -z / r}
	orthonormalize(n[:], u[:], pt.G)

	// h: project a reference "up" vector, orthogonal to u and n.
	up := [4]float64{0, 0, 0, 1}
	if math.Abs(z/r) > 0.999 {
		up = [4]float64{0, 1, 0, 0}
	}
	h := up
	orthonormalize(h[:], u[:], pt.G)
	orthonormalize(h[:], n[:], pt.G)

	// v = completes the right-handed triad: v ~ n x h in the metric's
	// spatial block (Euclidean cross product is an adequate proxy at
	// camera distances far from the horizon, where the metric is
	// nearly flat).
	v := [4]float64{0,
		n[2]*h[3] - n[3]*h[2],
		n[3]*h[1] - n[1]*h[3],
		n[1]*h[2] - n[2]*h[1],
	}
	orthonormalize(v[:], u[:], pt.G)

	cam.U, cam.N, cam.H, cam.V = u, n, h, v
	return nil
}

// normalizeTimelike rescales u so that g_mu_nu u^mu u^nu = -1.
func normalizeTimelike(u []float64, g [][]float64) {
	norm2 := quadForm(u, g)
	if norm2 >= 0 {
		return // degenerate; leave as seeded
	}
	scale := math.Sqrt(-1 / norm2)
	for i := range u {
		u[i] *= scale
	}
}

// orthonormalize projects out the component of w along against v (both
// length-normalized in the metric g) and renormalizes w to unit length.
func orthonormalize(w, against []float64, g [][]float64) {
	proj := mixedForm(w, against, g) / mixedForm(against, against, g)
	for i := range w {
		w[i] -= proj * against[i]
	}
	norm2 := math.Abs(quadForm(w, g))
	if norm2 < 1e-30 {
		return
	}
	scale := 1 / math.Sqrt(norm2)
	for i := range w {
		w[i] *= scale
	}
}

func quadForm(w []float64, g [][]float64) float64 {
	return mixedForm(w, w, g)
}

func mixedForm(a, b []float64, g [][]float64) float64 {
	s := 0.0
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			s += g[mu][nu] * a[mu] * b[nu]
		}
	}
	return s
}

// pixels builds the (u_i, v_j) centered grid and the per-pixel initial
// states for the configured Model.
func (cam *Camera) pixels() ([]InitialState, error) {
	centers := utl.LinSpace(-0.5, 0.5, cam.Resolution+1)
	// pixel centers are the midpoints of the unit-square bins
	uv := make([]float64, cam.Resolution)
	for i := 0; i < cam.Resolution; i++ {
		uv[i] = 0.5 * (centers[i] + centers[i+1]) * cam.Width
	}

	states := make([]InitialState, 0, cam.Resolution*cam.Resolution)
	for j := 0; j < cam.Resolution; j++ {
		for i := 0; i < cam.Resolution; i++ {
			u, v := uv[i], uv[j]
			x, k := cam.pixelRay(u, v)
			states = append(states, InitialState{PixelI: i, PixelJ: j, X: x, K: k})
		}
	}
	return states, nil
}

// PixelsWindow returns initial states for one B*B sub-window of a
// virtual fullResolution*fullResolution pixel grid, with PixelI/PixelJ
// local to the window (0..size-1). It reuses the Camera's tetrad
// (tetrad construction does not depend on pixel resolution), so the
// refinement controller can resample a flagged tile at twice the
// density without rebuilding the camera (each flagged tile produces
// four children at twice the sampling density).
func (cam *Camera) PixelsWindow(fullResolution, rowStart, colStart, size int) []InitialState {
	centers := utl.LinSpace(-0.5, 0.5, fullResolution+1)
	uv := make([]float64, fullResolution)
	for i := 0; i < fullResolution; i++ {
		uv[i] = 0.5 * (centers[i] + centers[i+1]) * cam.Width
	}

	states := make([]InitialState, 0, size*size)
	for lj := 0; lj < size; lj++ {
		j := rowStart + lj
		for li := 0; li < size; li++ {
			i := colStart + li
			u, v := uv[i], uv[j]
			x, k := cam.pixelRay(u, v)
			states = append(states, InitialState{PixelI: li, PixelJ: lj, X: x, K: k})
		}
	}
	return states
}

// pixelRay returns the contravariant position and covariant momentum
// for the pixel at transverse offset (u,v), per the selected Model.
func (cam *Camera) pixelRay(u, v float64) (x, k [4]float64) {
	switch cam.Model {
	case Plane:
		for i := 0; i < 4; i++ {
			x[i] = cam.Xcam[i] + u*cam.H[i] + v*cam.V[i]
		}
		k = cam.nullMomentum(cam.N)
	default: // Pinhole
		x = cam.Xcam
		dir := [4]float64{
			cam.N[0] + u*cam.H[0] + v*cam.V[0],
			cam.N[1] + u*cam.H[1] + v*cam.V[1],
			cam.N[2] + u*cam.H[2] + v*cam.V[2],
			cam.N[3] + u*cam.H[3] + v*cam.V[3],
		}
		k = cam.nullMomentum(cam.normalizeSpatial(dir))
	}
	return
}

// nullMomentum returns the covariant initial momentum
// k_mu = -nu_cam g_mu_nu (u^nu - dir^nu): photon energy nu_cam along
// u, direction dir in the spatial triad, each lowered through the
// metric at the camera position, so the traced ray leaves the camera
// along dir. With u timelike-unit and dir spacelike-unit orthogonal to
// u, k is exactly null.
func (cam *Camera) nullMomentum(dir [4]float64) [4]float64 {
	var k [4]float64
	for mu := 0; mu < 4; mu++ {
		sum := 0.0
		for nu := 0; nu < 4; nu++ {
			sum += cam.g[mu][nu] * (cam.U[nu] - dir[nu])
		}
		k[mu] = -cam.NuCam * sum
	}
	return k
}

// normalizeSpatial rescales dir (a combination of tetrad vectors
// orthogonal to u, time component included) to unit length in the
// metric at the camera position, so the momentum built from it stays
// null away from the flat-space limit.
func (cam *Camera) normalizeSpatial(dir [4]float64) [4]float64 {
	norm2 := quadForm(dir[:], cam.g)
	if norm2 < 1e-30 {
		return dir
	}
	scale := 1 / math.Sqrt(norm2)
	return [4]float64{dir[0] * scale, dir[1] * scale, dir[2] * scale, dir[3] * scale}
}
