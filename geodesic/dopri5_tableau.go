// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geodesic

// dopri5C, dopri5A, dopri5B5 and dopri5B4 hold the classic 7-stage
// Dormand-Prince(4,5) Butcher tableau, the same order of method gosl/ode exposes as its "Dopri5"
// solver. The step-control loop is hand-rolled instead so the
// integrator can report per-ray retry exhaustion and horizon/escape
// termination directly.
var dopri5C = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}

var dopri5A = [7][6]float64{
	{},
	{1.0 / 5},
	{3.0 / 40, 9.0 / 40},
	{44.0 / 45, -56.0 / 15, 32.0 / 9},
	{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
	{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
	{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
}

// dopri5B5 is the 5th-order solution weights (identical to the 7th
// stage row: the method is FSAL, first-same-as-last).
var dopri5B5 = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}

// dopri5B4 is the embedded 4th-order solution weights, used only to
// form the error estimate dopri5B5 - dopri5B4.
var dopri5B4 = [7]float64{
	5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40,
}
