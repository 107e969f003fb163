// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package image

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/config"
)

func uniformTile(level int, idx TileIndex, size, channelTotal int, v float64) *Tile {
	tile := NewTile(level, idx, size, channelTotal)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			tile.Set(i, j, v)
		}
	}
	return tile
}

func TestAssembleUnrefinedLevelZero(t *testing.T) {
	chk.PrintTitle("AssembleUnrefinedLevelZero")
	schema := NewSchema(config.ImageSelect{Light: true}, 0)
	p := NewPyramid(schema, 4, 4)
	p.EnsureLevel(0).Tiles[TileIndex{0, 0}] = uniformTile(0, TileIndex{0, 0}, 4, schema.Total(), 7)

	img := p.Assemble()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if img.I[i][j] != 7 {
				t.Errorf("I[%d][%d] = %g, want 7", i, j, img.I[i][j])
			}
		}
	}
}

func TestAssembleFinestLevelOverridesParent(t *testing.T) {
	chk.PrintTitle("AssembleFinestLevelOverridesParent")
	schema := NewSchema(config.ImageSelect{Light: true}, 0)
	p := NewPyramid(schema, 4, 4)
	root := TileIndex{0, 0}
	p.EnsureLevel(0).Tiles[root] = uniformTile(0, root, 4, schema.Total(), 1)

	children := [4]*Tile{
		uniformTile(1, TileIndex{}, 4, schema.Total(), 10),
		uniformTile(1, TileIndex{}, 4, schema.Total(), 20),
		uniformTile(1, TileIndex{}, 4, schema.Total(), 30),
		uniformTile(1, TileIndex{}, 4, schema.Total(), 40),
	}
	p.Refine(0, root, children)

	img := p.Assemble()
	// ChildIndices(0,0) = (0,0),(0,1),(1,0),(1,1); each covers a 2x2
	// base-pixel quadrant at scale=2, region=4/2=2.
	want := [][]float64{{10, 10, 20, 20}, {10, 10, 20, 20}, {30, 30, 40, 40}, {30, 30, 40, 40}}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if img.I[i][j] != want[i][j] {
				t.Errorf("I[%d][%d] = %g, want %g (root value 1 must not leak through)", i, j, img.I[i][j], want[i][j])
			}
		}
	}
}

func TestChildIndicesCoverQuadrants(t *testing.T) {
	chk.PrintTitle("ChildIndicesCoverQuadrants")
	got := ChildIndices(TileIndex{3, 5})
	want := [4]TileIndex{{6, 10}, {6, 11}, {7, 10}, {7, 11}}
	if got != want {
		t.Errorf("ChildIndices(3,5) = %v, want %v", got, want)
	}
}

func TestEnsureLevelGridSizeDoubles(t *testing.T) {
	chk.PrintTitle("EnsureLevelGridSizeDoubles")
	schema := NewSchema(config.ImageSelect{Light: true}, 0)
	p := NewPyramid(schema, 8, 4)
	if p.Levels[0].GridSize != 2 {
		t.Fatalf("expected level 0 grid size 2, got %d", p.Levels[0].GridSize)
	}
	lvl2 := p.EnsureLevel(2)
	if lvl2.GridSize != 8 {
		t.Errorf("expected level 2 grid size 8, got %d", lvl2.GridSize)
	}
}
