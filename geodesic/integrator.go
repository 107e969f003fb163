// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geodesic

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/camera"
	"github.com/ferrocastle/blacklight/metric"
)

// TermPolicy selects how the escape surface r_terminate is derived from
// the camera distance, per config.Ray.TermPolicy.
type TermPolicy int

const (
	TermAdditive TermPolicy = iota
	TermMultiplicative
)

// Config holds the per-run tuning of the adaptive integrator: the
// step-control and termination fields of config.Ray, plus the camera
// distance RCam.
type Config struct {
	Step       float64 // initial step size at the camera
	MaxSteps   int
	MaxRetries int
	TolAbs     float64
	TolRel     float64
	MinFactor  float64
	MaxFactor  float64
	ErrFactor  float64
	HorizonEps float64
	TermPolicy TermPolicy
	TermFactor float64
	RCam       float64 // camera radial distance, used to derive r_terminate
}

// terminateRadius returns r_terminate per the configured policy.
func (c Config) terminateRadius() float64 {
	if c.TermPolicy == TermMultiplicative {
		return c.RCam * c.TermFactor
	}
	return c.RCam + c.TermFactor
}

// Integrator drives the adaptive Dormand-Prince integration of a single
// ray at a time; all rays are independent, so one Integrator may be
// shared read-only across workers: each Integrate call allocates its
// own metric scratch.
type Integrator struct {
	Geo metric.Geometry
	Cfg Config
}

// New constructs an Integrator bound to one geometry and configuration.
func New(geo metric.Geometry, cfg Config) (*Integrator, error) {
	if cfg.MaxSteps <= 0 {
		return nil, chk.Err("geodesic: MaxSteps must be positive, got %d", cfg.MaxSteps)
	}
	if cfg.MaxRetries <= 0 {
		return nil, chk.Err("geodesic: MaxRetries must be positive, got %d", cfg.MaxRetries)
	}
	if cfg.Step <= 0 {
		return nil, chk.Err("geodesic: Step must be positive, got %g", cfg.Step)
	}
	return &Integrator{Geo: geo, Cfg: cfg}, nil
}

// state9 is the 9-component ODE state: (x,y,z, k0,k1,k2,k3, lambda, unused).
type state9 = [9]float64

// Integrate shoots one ray from init backward (toward decreasing
// lambda conceptually, though the affine parameter itself always
// increases; "backward" refers to propagating against the photon's
// arrow of time, from the camera out into the emitting region) until a
// termination predicate fires or the step/retry budget is exhausted.
// The returned Ray's States are already reversed to source-to-camera
// order, since transfer accumulates from source to camera.
func (in *Integrator) Integrate(init camera.InitialState) *Ray {
	ray := &Ray{PixelI: init.PixelI, PixelJ: init.PixelJ}

	y := state9{init.X[1], init.X[2], init.X[3], init.K[0], init.K[1], init.K[2], init.K[3], 0, 0}
	ray.States = append(ray.States, stateFromY(y))

	k0sign := sign(y[3])
	rTerm := in.Cfg.terminateRadius()
	rHorizon := in.Geo.HorizonRadius()

	h := in.Cfg.Step
	pt := metric.NewPoint()

	var lastPhi float64
	havePhi := false

	for step := 0; step < in.Cfg.MaxSteps; step++ {
		yNew, errEst, ok := in.tryStep(y, h, pt)
		if !ok {
			ray.Outcome = Flagged
			ray.Reason = FlagNonFinite
			return finish(ray)
		}

		e := scaledErrorNorm(errEst, in.tolerance(y, yNew))
		if e > 1 {
			// reject: shrink and retry, bounded by MaxRetries; a
			// rejected step may not grow.
			accepted := false
			for retry := 0; retry < in.Cfg.MaxRetries; retry++ {
				factor := clamp(in.Cfg.ErrFactor*math.Pow(e, -0.2), in.Cfg.MinFactor, 1.0)
				h *= factor
				if math.Abs(h) < 1e-18 {
					ray.Outcome = Flagged
					ray.Reason = FlagStepUnderflow
					return finish(ray)
				}
				yNew2, errEst2, ok2 := in.tryStep(y, h, pt)
				if !ok2 {
					break
				}
				e2 := scaledErrorNorm(errEst2, in.tolerance(y, yNew2))
				if e2 <= 1 {
					yNew, e, accepted = yNew2, e2, true
					break
				}
				e = e2
			}
			if !accepted {
				ray.Outcome = Flagged
				ray.Reason = FlagRetriesExhausted
				return finish(ray)
			}
		}

		// accept
		y = yNew
		ray.States = append(ray.States, stateFromY(y))

		if step%10 == 0 {
			phi := math.Atan2(y[1], y[0])
			if havePhi && math.Signbit(phi) != math.Signbit(lastPhi) && math.Abs(phi-lastPhi) > math.Pi {
				ray.ZTurns++
			}
			lastPhi, havePhi = phi, true
		}

		r, rerr := in.Geo.Radius(y[0], y[1], y[2])
		if rerr != nil || math.IsNaN(r) {
			ray.Outcome = Flagged
			ray.Reason = FlagNonFinite
			return finish(ray)
		}
		if r <= rHorizon*(1+in.Cfg.HorizonEps) {
			ray.Outcome = Swallowed
			return finish(ray)
		}
		if r >= rTerm {
			ray.Outcome = Escaped
			return finish(ray)
		}
		if sign(y[3]) != k0sign {
			ray.Outcome = Flagged
			ray.Reason = FlagSignFlip
			return finish(ray)
		}

		factor := clamp(in.Cfg.ErrFactor*math.Pow(e, -0.2), in.Cfg.MinFactor, in.Cfg.MaxFactor)
		h *= factor
	}

	ray.Outcome = Flagged
	ray.Reason = FlagMaxSteps
	return finish(ray)
}

// finish reverses the trajectory front-to-back (transfer accumulates
// from source to camera) and negates momentum sign to
// match the reversed propagation direction. Flagged rays are still
// reversed, so partial trajectories remain usable for diagnostics.
func finish(ray *Ray) *Ray {
	n := len(ray.States)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		ray.States[i], ray.States[j] = ray.States[j], ray.States[i]
	}
	for i := range ray.States {
		for mu := 0; mu < 4; mu++ {
			ray.States[i].K[mu] = -ray.States[i].K[mu]
		}
	}
	return ray
}

func stateFromY(y state9) State {
	return State{
		Lambda: y[7],
		X:      [4]float64{0, y[0], y[1], y[2]},
		K:      [4]float64{y[3], y[4], y[5], y[6]},
	}
}

// tryStep computes the 5th-order solution and the embedded error
// estimate for a trial step h from y. ok is false if the metric or
// right-hand side produced a non-finite value.
func (in *Integrator) tryStep(y state9, h float64, pt *metric.Point) (yNew state9, errEst state9, ok bool) {
	var stages [7]state9
	for s := 0; s < 7; s++ {
		var yi state9
		for i := 0; i < 9; i++ {
			sum := y[i]
			for j := 0; j < s; j++ {
				sum += h * dopri5A[s][j] * stages[j][i]
			}
			yi[i] = sum
		}
		dy, err := rhs(yi, in.Geo, pt)
		if err != nil {
			return y, errEst, false
		}
		stages[s] = dy
		for i := 0; i < 9; i++ {
			if math.IsNaN(dy[i]) || math.IsInf(dy[i], 0) {
				return y, errEst, false
			}
		}
	}

	for i := 0; i < 9; i++ {
		sum5, sum4 := y[i], y[i]
		for s := 0; s < 7; s++ {
			sum5 += h * dopri5B5[s] * stages[s][i]
			sum4 += h * dopri5B4[s] * stages[s][i]
		}
		yNew[i] = sum5
		errEst[i] = sum5 - sum4
	}
	return yNew, errEst, true
}

// rhs evaluates the geodesic equation right-hand side: dx^i/dλ =
// g^iν k_ν, dk_μ/dλ = 1/2 (∂_μ g^αβ) k_α k_β, dλ/dλ=1.
func rhs(y state9, geo metric.Geometry, pt *metric.Point) (state9, error) {
	var dy state9
	if err := geo.At(y[0], y[1], y[2], pt); err != nil {
		return dy, err
	}
	k := [4]float64{y[3], y[4], y[5], y[6]}

	for i := 1; i <= 3; i++ {
		sum := 0.0
		for nu := 0; nu < 4; nu++ {
			sum += pt.Ginv[i][nu] * k[nu]
		}
		dy[i-1] = sum
	}

	dy[3] = 0 // dk_0/dλ = 0: the metric is stationary
	for mu := 1; mu <= 3; mu++ {
		sum := 0.0
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				sum += pt.DG[mu][a][b] * k[a] * k[b]
			}
		}
		dy[3+mu] = 0.5 * sum
	}
	dy[7] = 1
	dy[8] = 0
	return dy, nil
}

// tolerance returns the scaled tolerance τ = atol + rtol*max(|y|,|yNew|),
// componentwise.
func (in *Integrator) tolerance(y, yNew state9) state9 {
	var tau state9
	for i := 0; i < 9; i++ {
		m := math.Max(math.Abs(y[i]), math.Abs(yNew[i]))
		tau[i] = in.Cfg.TolAbs + in.Cfg.TolRel*m
	}
	return tau
}

// scaledErrorNorm returns the RMS of errEst/tau across all components.
func scaledErrorNorm(errEst, tau state9) float64 {
	sum := 0.0
	for i := 0; i < 9; i++ {
		t := tau[i]
		if t < 1e-300 {
			t = 1e-300
		}
		r := errEst[i] / t
		sum += r * r
	}
	return math.Sqrt(sum / 9)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
