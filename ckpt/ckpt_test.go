// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ckpt

import (
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/geodesic"
	"github.com/ferrocastle/blacklight/sample"
)

func TestGeodesicRoundTrip(t *testing.T) {
	chk.PrintTitle("GeodesicRoundTrip")
	rays := []*geodesic.Ray{
		{
			PixelI: 1, PixelJ: 2, Outcome: geodesic.Escaped, Reason: geodesic.NotFlagged, ZTurns: 3,
			States: []geodesic.State{
				{Lambda: 0, X: [4]float64{0, 10, 0, 0}, K: [4]float64{-1, 1, 0, 0}},
				{Lambda: 1, X: [4]float64{1, 11, 0.5, 0}, K: [4]float64{-1, 0.9, 0.1, 0}},
			},
		},
		{
			PixelI: 0, PixelJ: 0, Outcome: geodesic.Flagged, Reason: geodesic.FlagMaxSteps,
			States: []geodesic.State{{Lambda: 0, X: [4]float64{0, 5, 0, 0}, K: [4]float64{-1, 1, 0, 0}}},
		},
	}

	path := filepath.Join(t.TempDir(), "rays.ckpt")
	if err := SaveGeodesic(path, 0, 8, rays); err != nil {
		t.Fatalf("SaveGeodesic failed: %v", err)
	}
	got, err := LoadGeodesic(path, 0, 8, len(rays))
	if err != nil {
		t.Fatalf("LoadGeodesic failed: %v", err)
	}
	if len(got) != len(rays) {
		t.Fatalf("expected %d rays, got %d", len(rays), len(got))
	}
	for m, want := range rays {
		if got[m].PixelI != want.PixelI || got[m].PixelJ != want.PixelJ {
			t.Errorf("ray %d: pixel mismatch", m)
		}
		if got[m].Outcome != want.Outcome || got[m].Reason != want.Reason || got[m].ZTurns != want.ZTurns {
			t.Errorf("ray %d: metadata mismatch", m)
		}
		if len(got[m].States) != len(want.States) {
			t.Fatalf("ray %d: expected %d states, got %d", m, len(want.States), len(got[m].States))
		}
		for i, s := range want.States {
			g := got[m].States[i]
			if g.Lambda != s.Lambda || g.X != s.X || g.K != s.K {
				t.Errorf("ray %d state %d: mismatch, got %+v want %+v", m, i, g, s)
			}
		}
	}
}

func TestLoadGeodesicRejectsLevelMismatch(t *testing.T) {
	chk.PrintTitle("LoadGeodesicRejectsLevelMismatch")
	rays := []*geodesic.Ray{{PixelI: 0, PixelJ: 0, Outcome: geodesic.Escaped}}
	path := filepath.Join(t.TempDir(), "rays.ckpt")
	if err := SaveGeodesic(path, 0, 4, rays); err != nil {
		t.Fatalf("SaveGeodesic failed: %v", err)
	}
	if _, err := LoadGeodesic(path, 1, 4, len(rays)); err == nil {
		t.Errorf("expected an error loading with a mismatched level")
	}
}

func TestSampleRoundTrip(t *testing.T) {
	chk.PrintTitle("SampleRoundTrip")
	arr := sample.NewArray(2, 4)
	arr.N[0] = 2
	arr.X[0][0] = [4]float64{0, 10, 0, 0}
	arr.K[0][0] = [4]float64{-1, 1, 0, 0}
	arr.R[0][0] = 10
	arr.DLambda[0][0] = 0.5
	arr.X[0][1] = [4]float64{1, 11, 0, 0}
	arr.K[0][1] = [4]float64{-1, 0.9, 0, 0}
	arr.R[0][1] = 11
	arr.DLambda[0][1] = 0.6
	arr.N[1] = 0

	path := filepath.Join(t.TempDir(), "samples.ckpt")
	if err := SaveSample(path, 2, 4, arr); err != nil {
		t.Fatalf("SaveSample failed: %v", err)
	}
	got, err := LoadSample(path, 2, 4, 2, 4)
	if err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}
	if got.N[0] != 2 || got.N[1] != 0 {
		t.Fatalf("unexpected N: %v", got.N)
	}
	for i := 0; i < got.N[0]; i++ {
		if got.X[0][i] != arr.X[0][i] || got.K[0][i] != arr.K[0][i] {
			t.Errorf("sample %d: X/K mismatch", i)
		}
		if got.R[0][i] != arr.R[0][i] || got.DLambda[0][i] != arr.DLambda[0][i] {
			t.Errorf("sample %d: R/DLambda mismatch", i)
		}
	}
}

func TestLoadRejectsWrongKind(t *testing.T) {
	chk.PrintTitle("LoadRejectsWrongKind")
	arr := sample.NewArray(1, 2)
	arr.N[0] = 0
	path := filepath.Join(t.TempDir(), "samples.ckpt")
	if err := SaveSample(path, 0, 4, arr); err != nil {
		t.Fatalf("SaveSample failed: %v", err)
	}
	if _, err := LoadGeodesic(path, 0, 4, 1); err == nil {
		t.Errorf("expected an error loading a sample checkpoint as a geodesic checkpoint")
	}
}
