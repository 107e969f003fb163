// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package render implements the orchestration layer: it drives camera
// construction, geodesic integration, resampling, coefficient binding,
// transfer, and adaptive refinement per level, over a fixed-size
// goroutine worker pool.
package render

import (
	"runtime"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/ferrocastle/blacklight/camera"
	"github.com/ferrocastle/blacklight/coeff"
	"github.com/ferrocastle/blacklight/config"
	"github.com/ferrocastle/blacklight/image"
	"github.com/ferrocastle/blacklight/metric"
	"github.com/ferrocastle/blacklight/refine"
)

// ImageWriter is the output-image persistence collaborator: Integrate
// calls WriteImage once per configured rendering image after assembly.
type ImageWriter interface {
	WriteImage(name string, img *image.AssembledImage) error
}

// Timers accumulates per-phase wall-clock durations. Only the driving
// goroutine ever writes to it, after each phase's WaitGroup.Wait()
// returns.
type Timers struct {
	Geodesic time.Duration
	Sample   time.Duration
	Coeff    time.Duration
	Transfer time.Duration
	Refine   time.Duration
}

// Renderer owns every read-only-after-construction collaborator the
// render loop needs: geometry, camera tetrad, coefficient source, and
// the channel schema. These are shared, unsynchronized, across worker
// goroutines; all are read-only after construction.
type Renderer struct {
	Cfg    *config.Config
	Geo    metric.Geometry
	Cam    *camera.Camera
	Src    coeff.Source
	Schema *image.Schema

	numThreads int
}

// New constructs a Renderer from a validated configuration.
func New(cfg *config.Config) (*Renderer, error) {
	geo, err := buildGeometry(cfg)
	if err != nil {
		return nil, err
	}

	cam, err := camera.BuildCamera(geo, cfg.Camera.R, cfg.Camera.Inclination, cfg.Camera.Azimuth,
		cfg.Camera.Width, cfg.Camera.Resolution, cameraModel(cfg.Camera.Model), cfg.Camera.PolarProof,
		cfg.Camera.NuCam, cfg.Camera.MomFactor)
	if err != nil {
		return nil, err
	}

	src, err := coeff.New(string(cfg.ModelType))
	if err != nil {
		return nil, err
	}

	numFeatures := 0
	for _, img := range cfg.Rendering {
		if len(img.Features) > numFeatures {
			numFeatures = len(img.Features)
		}
	}
	schema := image.NewSchema(cfg.ImageSelect, numFeatures)

	numThreads := cfg.NumThreads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	return &Renderer{Cfg: cfg, Geo: geo, Cam: cam, Src: src, Schema: schema, numThreads: numThreads}, nil
}

func buildGeometry(cfg *config.Config) (metric.Geometry, error) {
	if cfg.Ray.Flat {
		return metric.NewFlat(), nil
	}
	return metric.New(1, cfg.Geometry.Spin)
}

func cameraModel(m config.CameraModel) camera.Model {
	if m == config.CameraPinhole {
		return camera.Pinhole
	}
	return camera.Plane
}

// Integrate runs the full adaptive render: level 0 over every root
// tile, then repeated refinement passes until the controller declares
// completion, then assembles and hands off each configured rendering
// image to writer.
func (r *Renderer) Integrate(writer ImageWriter) (*Timers, error) {
	blockSize := r.Cfg.Adaptive.BlockSize
	gridSize := r.Cfg.Camera.Resolution / blockSize
	pyr := image.NewPyramid(r.Schema, r.Cfg.Camera.Resolution, blockSize)
	ctrl := refine.New(r.Cfg.Adaptive)
	timers := &Timers{}

	parents := make([]image.TileIndex, 0, gridSize*gridSize)
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			parents = append(parents, image.TileIndex{Row: row, Col: col})
		}
	}

	fullResolution := r.Cfg.Camera.Resolution
	level := 0
	for {
		tiles := r.processTiles(level, fullResolution, parents, timers)
		lvl := pyr.EnsureLevel(level)
		for idx, tile := range tiles {
			lvl.Tiles[idx] = tile
		}

		t0 := time.Now()
		var flagged []image.TileIndex
		for _, idx := range parents {
			if ctrl.Evaluate(tiles[idx]) {
				flagged = append(flagged, idx)
			}
		}
		timers.Refine += time.Since(t0)

		if !ctrl.Schedule(level, len(flagged) > 0) {
			break
		}

		var children []image.TileIndex
		for _, idx := range flagged {
			for _, ci := range image.ChildIndices(idx) {
				children = append(children, ci)
			}
		}
		parents = children
		fullResolution *= 2
		level++
	}

	assembled := pyr.Assemble()
	for _, img := range r.Cfg.Rendering {
		composed := ComposeFeatures(assembled, r.Schema, img)
		if err := writer.WriteImage(img.Name, composed); err != nil {
			return timers, chk.Err("render: writing image %q: %v", img.Name, err)
		}
	}
	io.Pf(". render complete: %d level(s)\n", level+1)
	return timers, nil
}
