// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refine

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/config"
	"github.com/ferrocastle/blacklight/image"
)

func flatTile(size int, v float64) *image.Tile {
	tile := image.NewTile(0, image.TileIndex{}, size, 1)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			tile.Set(i, j, v)
		}
	}
	return tile
}

func TestEvaluateNeverFlagsWithEveryCriterionDisabled(t *testing.T) {
	chk.PrintTitle("EvaluateNeverFlagsWithEveryCriterionDisabled")
	ctrl := New(config.Adaptive{MaxLevel: 2})
	tile := flatTile(4, 1000) // a value that would trip any enabled criterion
	if ctrl.Evaluate(tile) {
		t.Errorf("expected no flag with every criterion disabled")
	}
}

func TestEvaluateFlagsOnValueCriterion(t *testing.T) {
	chk.PrintTitle("EvaluateFlagsOnValueCriterion")
	cfg := config.Adaptive{
		MaxLevel: 2,
		Value:    config.Criterion{Enabled: true, Fraction: 0.1, Cut: 5},
	}
	ctrl := New(cfg)
	tile := flatTile(4, 10)
	if !ctrl.Evaluate(tile) {
		t.Errorf("expected a flag when every pixel exceeds the value cut")
	}
}

func TestEvaluateRespectsFractionThreshold(t *testing.T) {
	chk.PrintTitle("EvaluateRespectsFractionThreshold")
	cfg := config.Adaptive{
		MaxLevel: 2,
		Value:    config.Criterion{Enabled: true, Fraction: 0.9, Cut: 5},
	}
	ctrl := New(cfg)
	tile := image.NewTile(0, image.TileIndex{}, 4, 1)
	// only one of 16 pixels exceeds the cut: 1/16 < 0.9
	tile.Set(0, 0, 100)
	if ctrl.Evaluate(tile) {
		t.Errorf("expected no flag when too few pixels exceed the cut")
	}
}

func TestEvaluateFlagsOnGradient(t *testing.T) {
	chk.PrintTitle("EvaluateFlagsOnGradient")
	cfg := config.Adaptive{
		MaxLevel: 2,
		GradAbs:  config.Criterion{Enabled: true, Fraction: 0.05, Cut: 1},
	}
	ctrl := New(cfg)
	tile := image.NewTile(0, image.TileIndex{}, 4, 1)
	// a sharp edge down the middle column produces a large gradient at
	// the boundary pixels.
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if j < 2 {
				tile.Set(i, j, 0)
			} else {
				tile.Set(i, j, 100)
			}
		}
	}
	if !ctrl.Evaluate(tile) {
		t.Errorf("expected a flag at a sharp edge under the gradient criterion")
	}
}

func TestScheduleStopsAtMaxLevel(t *testing.T) {
	chk.PrintTitle("ScheduleStopsAtMaxLevel")
	ctrl := New(config.Adaptive{MaxLevel: 1})
	if ctrl.Schedule(1, true) {
		t.Errorf("expected Schedule to stop once level+1 exceeds MaxLevel")
	}
	if !ctrl.Schedule(0, true) {
		t.Errorf("expected Schedule to continue when flagged and under MaxLevel")
	}
}

func TestScheduleStopsWithNoFlags(t *testing.T) {
	chk.PrintTitle("ScheduleStopsWithNoFlags")
	ctrl := New(config.Adaptive{MaxLevel: 5})
	if ctrl.Schedule(0, false) {
		t.Errorf("expected Schedule to stop when no tile was flagged")
	}
}
