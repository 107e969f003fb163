// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package image implements Component H: the sparse multi-resolution
// tile pyramid and the channel-schema descriptor that lays out each
// tile's auxiliary image channels.
package image

import (
	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/config"
)

// ChannelSpec names one auxiliary channel and how many float64 slots
// it occupies in a pixel's channel block; offsets and widths derive
// from the ordered channel list rather than hand-computed flag offsets.
type ChannelSpec struct {
	Name  string
	Width int
}

// Schema is an ordered, immutable list of ChannelSpec, built once from
// config.ImageSelect and shared by every tile/level a render produces.
type Schema struct {
	specs   []ChannelSpec
	offsets map[string]int
	total   int
}

// NewSchema builds the channel schema selected by sel. "render" is
// always last, since its width depends on the number of configured
// rendering features rather than a fixed constant.
func NewSchema(sel config.ImageSelect, numRenderFeatures int) *Schema {
	s := &Schema{offsets: make(map[string]int)}
	add := func(name string, enabled bool, width int) {
		if !enabled {
			return
		}
		s.offsets[name] = s.total
		s.specs = append(s.specs, ChannelSpec{Name: name, Width: width})
		s.total += width
	}
	add("light", sel.Light, 1)
	add("time", sel.Time, 1)
	add("length", sel.Length, 1)
	add("lambda", sel.Lambda, 1)
	add("emission", sel.Emission, 1)
	add("tau", sel.Tau, 1)
	add("lambda_ave", sel.LambdaAve, 1)
	add("emission_ave", sel.EmissionAve, 1)
	add("tau_int", sel.TauInt, 1)
	add("render", sel.Render, numRenderFeatures)
	return s
}

// Has reports whether name is one of the schema's selected channels.
func (s *Schema) Has(name string) bool {
	_, ok := s.offsets[name]
	return ok
}

// Offset returns the slot offset of the named channel within a pixel's
// channel block.
func (s *Schema) Offset(name string) int {
	off, ok := s.offsets[name]
	if !ok {
		chk.Panic("image: channel %q is not selected by this schema", name)
	}
	return off
}

// Width returns the number of float64 slots the named channel occupies.
func (s *Schema) Width(name string) int {
	for _, spec := range s.specs {
		if spec.Name == name {
			return spec.Width
		}
	}
	chk.Panic("image: channel %q is not selected by this schema", name)
	return 0
}

// Total is the total number of float64 slots one pixel's channel block
// occupies across every selected channel.
func (s *Schema) Total() int { return s.total }

// Specs returns the schema's channels in slot order.
func (s *Schema) Specs() []ChannelSpec { return s.specs }
