// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geodesic implements Component C: the adaptive Dormand-Prince
// null-geodesic integrator on Kerr spacetime, with retries, horizon and
// escape termination, and final trajectory reversal.
package geodesic

// State is one accepted point of a ray: affine parameter, contravariant
// spatial position (Cartesian Kerr-Schild x,y,z), and covariant
// 4-momentum.
type State struct {
	Lambda float64
	X      [4]float64
	K      [4]float64
}

// FlagReason names why a ray's integration was aborted. The zero value
// means the ray was not flagged.
type FlagReason int

const (
	NotFlagged FlagReason = iota
	FlagRetriesExhausted
	FlagStepUnderflow
	FlagSignFlip
	FlagMaxSteps
	FlagNonFinite
)

func (r FlagReason) String() string {
	switch r {
	case NotFlagged:
		return "not-flagged"
	case FlagRetriesExhausted:
		return "retries-exhausted"
	case FlagStepUnderflow:
		return "step-underflow"
	case FlagSignFlip:
		return "sign-flip"
	case FlagMaxSteps:
		return "max-steps"
	case FlagNonFinite:
		return "non-finite"
	default:
		return "unknown"
	}
}

// Outcome names how a ray's integration ended.
type Outcome int

const (
	Unfinished Outcome = iota
	Swallowed          // r <= r_+(1+eps)
	Escaped            // r >= r_terminate
	Flagged
)

// Ray is the ordered sequence of accepted states for one pixel, plus
// its flag state.
type Ray struct {
	PixelI, PixelJ int
	States         []State
	Outcome        Outcome
	Reason         FlagReason
	ZTurns         int // loop-back diagnostic counter, stride 10
}

// Flagged reports whether the integrator aborted this ray.
func (r *Ray) Flagged() bool { return r.Outcome == Flagged }
