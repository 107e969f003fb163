// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package image

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/config"
)

func TestNewSchemaOffsetsInOrder(t *testing.T) {
	chk.PrintTitle("NewSchemaOffsetsInOrder")
	sel := config.ImageSelect{Light: true, Tau: true, Render: true}
	s := NewSchema(sel, 3)

	if !s.Has("light") || !s.Has("tau") || !s.Has("render") {
		t.Fatalf("expected light/tau/render to be selected")
	}
	if s.Has("time") {
		t.Errorf("expected time to be unselected")
	}
	if s.Offset("light") != 0 {
		t.Errorf("expected light at offset 0, got %d", s.Offset("light"))
	}
	if s.Offset("tau") != 1 {
		t.Errorf("expected tau at offset 1, got %d", s.Offset("tau"))
	}
	if s.Offset("render") != 2 {
		t.Errorf("expected render at offset 2, got %d", s.Offset("render"))
	}
	if s.Width("render") != 3 {
		t.Errorf("expected render width 3, got %d", s.Width("render"))
	}
	if s.Total() != 5 {
		t.Errorf("expected total 5 slots (1+1+3), got %d", s.Total())
	}
}

func TestSchemaOffsetPanicsForUnselectedChannel(t *testing.T) {
	chk.PrintTitle("SchemaOffsetPanicsForUnselectedChannel")
	defer func() {
		if recover() == nil {
			t.Errorf("expected Offset to panic for an unselected channel")
		}
	}()
	s := NewSchema(config.ImageSelect{Light: true}, 0)
	s.Offset("tau")
}
