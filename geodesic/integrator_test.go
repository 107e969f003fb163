// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geodesic

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/camera"
	"github.com/ferrocastle/blacklight/metric"
)

func defaultConfig(rcam float64) Config {
	return Config{
		Step: 0.5, MaxSteps: 2000, MaxRetries: 12,
		TolAbs: 1e-10, TolRel: 1e-8,
		MinFactor: 0.2, MaxFactor: 5, ErrFactor: 0.9,
		HorizonEps: 1e-6, TermPolicy: TermAdditive, TermFactor: 10, RCam: rcam,
	}
}

func TestFlatSpaceStraightLine(t *testing.T) {
	chk.PrintTitle("FlatSpaceStraightLine")
	geo := metric.NewFlat()
	cfg := defaultConfig(100)
	integ, err := New(geo, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	init := camera.InitialState{
		X: [4]float64{0, 100, 0, 0},
		K: [4]float64{-1, 1, 0, 0},
	}
	ray := integ.Integrate(init)
	if ray.Outcome != Escaped {
		t.Fatalf("expected Escaped, got outcome=%v reason=%v", ray.Outcome, ray.Reason)
	}
	if len(ray.States) < 2 {
		t.Fatalf("expected at least 2 states, got %d", len(ray.States))
	}
	// reversed: first state is the far end, last is the camera
	last := ray.States[len(ray.States)-1]
	chk.Scalar(t, "x at camera end", 1e-2, last.X[1], 100)
}

func TestMaxStepsFlagsEveryRay(t *testing.T) {
	chk.PrintTitle("MaxStepsFlagsEveryRay")
	geo := metric.NewFlat()
	cfg := defaultConfig(100)
	cfg.MaxSteps = 1
	integ, err := New(geo, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	init := camera.InitialState{
		X: [4]float64{0, 100, 0, 0},
		K: [4]float64{-1, 1, 0, 0},
	}
	ray := integ.Integrate(init)
	if !ray.Flagged() {
		t.Fatalf("expected ray to be flagged with MaxSteps=1")
	}
	if ray.Reason != FlagMaxSteps {
		t.Errorf("expected FlagMaxSteps, got %v", ray.Reason)
	}
}

func TestNullConditionHoldsAlongKerrRay(t *testing.T) {
	chk.PrintTitle("NullConditionHoldsAlongKerrRay")
	geo, err := metric.New(1.0, 0.5)
	if err != nil {
		t.Fatalf("metric.New failed: %v", err)
	}
	cfg := defaultConfig(50)
	cfg.Step = 0.1
	integ, err := New(geo, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	init := camera.InitialState{
		X: [4]float64{0, 50, 0, 0.1},
		K: [4]float64{-1, -1, 0, 0},
	}
	ray := integ.Integrate(init)
	pt := metric.NewPoint()
	for _, s := range ray.States {
		if err := geo.At(s.X[1], s.X[2], s.X[3], pt); err != nil {
			continue
		}
		null := 0.0
		for mu := 0; mu < 4; mu++ {
			for nu := 0; nu < 4; nu++ {
				null += pt.Ginv[mu][nu] * s.K[mu] * s.K[nu]
			}
		}
		if math.Abs(null) > 1e-2 {
			t.Errorf("null condition violated: g^munu k_mu k_nu = %g", null)
		}
	}
}
