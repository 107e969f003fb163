// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package image

import "github.com/cpmech/gosl/chk"

// TileIndex addresses one tile within a pyramid level's tile grid.
type TileIndex struct {
	Row, Col int
}

// Tile is one B*B block of samples: an intensity plane plus a flat
// per-pixel channel block laid out per Schema.
type Tile struct {
	Level int
	Index TileIndex
	Size  int // B

	I        []float64 // row-major, length Size*Size
	Channels []float64 // row-major, length Size*Size*channelTotal
}

// NewTile allocates a zeroed tile.
func NewTile(level int, idx TileIndex, size, channelTotal int) *Tile {
	return &Tile{
		Level:    level,
		Index:    idx,
		Size:     size,
		I:        make([]float64, size*size),
		Channels: make([]float64, size*size*channelTotal),
	}
}

// At returns the intensity sample at local pixel (i,j).
func (t *Tile) At(i, j int) float64 { return t.I[i*t.Size+j] }

// Set writes the intensity sample at local pixel (i,j).
func (t *Tile) Set(i, j int, v float64) { t.I[i*t.Size+j] = v }

// Channel returns the slice of channelTotal values at local pixel
// (i,j); callers index into it with Schema.Offset/Width.
func (t *Tile) Channel(channelTotal, i, j int) []float64 {
	off := (i*t.Size + j) * channelTotal
	return t.Channels[off : off+channelTotal]
}

// Level holds the tiles present at one refinement depth. GridSize is
// the number of tiles per side of the image plane at this level; it
// doubles with each level since each child samples the same physical
// area as a quarter of its parent's, at the parent's own tile size B.
type Level struct {
	GridSize int
	Tiles    map[TileIndex]*Tile
}

// ChildIndices returns the four child tile indices one level deeper
// that together cover the same image-plane region as idx.
func ChildIndices(idx TileIndex) [4]TileIndex {
	r, c := 2*idx.Row, 2*idx.Col
	return [4]TileIndex{{r, c}, {r, c + 1}, {r + 1, c}, {r + 1, c + 1}}
}

// Pyramid is the sparse multi-resolution tile structure of Component
// H: level 0 is fully populated at GridSize = Resolution/BlockSize
// tiles; higher levels hold only the tiles a refinement decision
// produced.
type Pyramid struct {
	Schema     *Schema
	Resolution int
	BlockSize  int
	Levels     []*Level
}

// NewPyramid constructs a pyramid with an empty, but sized, level 0.
// Callers populate level 0's tiles via EnsureLevel(0).Tiles[idx] = tile.
func NewPyramid(schema *Schema, resolution, blockSize int) *Pyramid {
	if resolution%blockSize != 0 {
		chk.Panic("image: resolution %d is not a multiple of block size %d", resolution, blockSize)
	}
	p := &Pyramid{Schema: schema, Resolution: resolution, BlockSize: blockSize}
	p.EnsureLevel(0)
	return p
}

// EnsureLevel returns level l, lazily allocating it (and any skipped
// intermediate levels) on first use.
func (p *Pyramid) EnsureLevel(l int) *Level {
	for len(p.Levels) <= l {
		depth := len(p.Levels)
		gridSize := (p.Resolution / p.BlockSize) << depth
		p.Levels = append(p.Levels, &Level{GridSize: gridSize, Tiles: make(map[TileIndex]*Tile)})
	}
	return p.Levels[l]
}

// Refine installs four child tiles at level+1 for the given parent
// index, implementing the monotonicity invariant: the parent's tile
// data is superseded (Assemble never reads a refined parent) but is
// left in place as reference until the caller explicitly drops it.
func (p *Pyramid) Refine(level int, idx TileIndex, children [4]*Tile) {
	child := p.EnsureLevel(level + 1)
	for i, ci := range ChildIndices(idx) {
		child.Tiles[ci] = children[i]
	}
}

// AssembledImage is the flattened, finest-first assembly of a pyramid
// back onto the uniform base grid.
type AssembledImage struct {
	Resolution int
	I          [][]float64
	Channels   [][][]float64 // [row][col][channel slot]
}

// Assemble walks the pyramid finest level first; a base pixel's value
// is taken from the deepest level whose tile covers it, downsampled by
// averaging that tile's finer samples over the pixel's footprint.
// Root tiles that were never refined contribute directly (scale 1).
func (p *Pyramid) Assemble() *AssembledImage {
	out := &AssembledImage{Resolution: p.Resolution}
	out.I = make([][]float64, p.Resolution)
	out.Channels = make([][][]float64, p.Resolution)
	covered := make([][]bool, p.Resolution)
	channelTotal := p.Schema.Total()
	for r := 0; r < p.Resolution; r++ {
		out.I[r] = make([]float64, p.Resolution)
		out.Channels[r] = make([][]float64, p.Resolution)
		covered[r] = make([]bool, p.Resolution)
		for c := 0; c < p.Resolution; c++ {
			out.Channels[r][c] = make([]float64, channelTotal)
		}
	}

	for l := len(p.Levels) - 1; l >= 0; l-- {
		lvl := p.Levels[l]
		if lvl == nil {
			continue
		}
		scale := 1 << uint(l)
		for idx, tile := range lvl.Tiles {
			region := tile.Size / scale
			if region == 0 {
				chk.Panic("image: level %d tile size %d cannot cover a base pixel at scale %d", l, tile.Size, scale)
			}
			baseRow0 := idx.Row * region
			baseCol0 := idx.Col * region
			for bi := 0; bi < region; bi++ {
				for bj := 0; bj < region; bj++ {
					baseR, baseC := baseRow0+bi, baseCol0+bj
					if baseR >= p.Resolution || baseC >= p.Resolution || covered[baseR][baseC] {
						continue
					}
					assembleBasePixel(out, tile, channelTotal, baseR, baseC, bi, bj, scale)
					covered[baseR][baseC] = true
				}
			}
		}
	}
	return out
}

// assembleBasePixel averages the scale*scale finer samples (intensity
// and channels) a tile holds for one base pixel's footprint.
func assembleBasePixel(out *AssembledImage, tile *Tile, channelTotal, baseR, baseC, bi, bj, scale int) {
	var sumI float64
	sumCh := make([]float64, channelTotal)
	n := float64(scale * scale)
	for si := 0; si < scale; si++ {
		for sj := 0; sj < scale; sj++ {
			i, j := bi*scale+si, bj*scale+sj
			sumI += tile.At(i, j)
			ch := tile.Channel(channelTotal, i, j)
			for k := range ch {
				sumCh[k] += ch[k]
			}
		}
	}
	out.I[baseR][baseC] = sumI / n
	for k := range sumCh {
		out.Channels[baseR][baseC][k] = sumCh[k] / n
	}
}
