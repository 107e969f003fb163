// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"github.com/ferrocastle/blacklight/config"
	"github.com/ferrocastle/blacklight/image"
)

// ComposeFeatures fills the "render" channel of assembled in place
// from img's feature list: each feature maps the pixel's base
// intensity to one render slot (config.Validate already rejected any
// feature type other than rise/fall/fill). A config without the
// render channel selected, or a RenderImage with no features, leaves
// assembled untouched.
func ComposeFeatures(assembled *image.AssembledImage, schema *image.Schema, img config.RenderImage) *image.AssembledImage {
	if len(img.Features) == 0 || !schema.Has("render") {
		return assembled
	}
	off := schema.Offset("render")
	for i := range assembled.I {
		for j := range assembled.I[i] {
			v := assembled.I[i][j]
			for k, f := range img.Features {
				assembled.Channels[i][j][off+k] = applyFeature(f, v)
			}
		}
	}
	return assembled
}

// applyFeature maps a base intensity value through one named feature.
func applyFeature(f config.Feature, v float64) float64 {
	switch f.Type {
	case "rise":
		lo, hi := f.Params["low"], f.Params["high"]
		if hi <= lo {
			return 0
		}
		return clamp01((v - lo) / (hi - lo))
	case "fall":
		lo, hi := f.Params["low"], f.Params["high"]
		if hi <= lo {
			return 0
		}
		return 1 - clamp01((v-lo)/(hi-lo))
	case "fill":
		return f.Params["value"]
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
