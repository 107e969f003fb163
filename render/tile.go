// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"sync"
	"time"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/coeff"
	"github.com/ferrocastle/blacklight/config"
	"github.com/ferrocastle/blacklight/geodesic"
	"github.com/ferrocastle/blacklight/image"
	"github.com/ferrocastle/blacklight/sample"
	"github.com/ferrocastle/blacklight/transfer"
)

// processTiles drives a fixed-size worker pool (one goroutine per
// configured thread) over indices, at fullResolution's sampling
// density, and returns each tile's finished image.Tile keyed by index.
func (r *Renderer) processTiles(level, fullResolution int, indices []image.TileIndex, timers *Timers) map[image.TileIndex]*image.Tile {
	blockSize := r.Cfg.Adaptive.BlockSize
	maxSteps := r.Cfg.Ray.MaxSteps

	jobs := make(chan image.TileIndex, len(indices))
	for _, idx := range indices {
		jobs <- idx
	}
	close(jobs)

	results := make(map[image.TileIndex]*image.Tile, len(indices))
	var resultsMu sync.Mutex
	var wg sync.WaitGroup

	workers := r.numThreads
	if len(indices) > 0 && workers > len(indices) {
		workers = len(indices)
	}
	if workers < 1 {
		workers = 1
	}

	durations := make([]phaseDurations, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			scratch := NewScratch(blockSize, maxSteps)
			for idx := range jobs {
				tile, d := r.processTile(level, idx, fullResolution, blockSize, scratch)
				durations[w].add(d)
				resultsMu.Lock()
				results[idx] = tile
				resultsMu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	// tally only from the driving goroutine, after the WaitGroup
	// barrier.
	for _, d := range durations {
		timers.Geodesic += d.geo
		timers.Sample += d.samp
		timers.Coeff += d.coeff
		timers.Transfer += d.transfer
	}
	return results
}

type phaseDurations struct {
	geo, samp, coeff, transfer time.Duration
}

func (p *phaseDurations) add(d phaseDurations) {
	p.geo += d.geo
	p.samp += d.samp
	p.coeff += d.coeff
	p.transfer += d.transfer
}

// processTile integrates, resamples, binds coefficients, and
// transfers every pixel of one blockSize*blockSize tile.
func (r *Renderer) processTile(level int, idx image.TileIndex, fullResolution, blockSize int, scratch *Scratch) (*image.Tile, phaseDurations) {
	var d phaseDurations
	tile := image.NewTile(level, idx, blockSize, r.Schema.Total())

	states := r.Cam.PixelsWindow(fullResolution, idx.Row*blockSize, idx.Col*blockSize, blockSize)

	integCfg := geodesic.Config{
		Step: r.Cfg.Ray.Step, MaxSteps: r.Cfg.Ray.MaxSteps, MaxRetries: r.Cfg.Ray.MaxRetries,
		TolAbs: r.Cfg.Ray.TolAbs, TolRel: r.Cfg.Ray.TolRel,
		MinFactor: r.Cfg.Ray.MinFactor, MaxFactor: r.Cfg.Ray.MaxFactor, ErrFactor: r.Cfg.Ray.ErrFactor,
		HorizonEps: r.Cfg.Ray.HorizonEps, TermPolicy: termPolicy(r.Cfg.Ray.TermPolicy),
		TermFactor: r.Cfg.Ray.TermFactor, RCam: r.Cfg.Camera.R,
	}
	integ, err := geodesic.New(r.Geo, integCfg)
	if err != nil {
		chk.Panic("render: %v", err)
	}

	binder := &coeff.Binder{Source: r.Src, FallbackNaN: r.Cfg.FallbackNaN}

	// camera-frame reference k.u: the momentum construction in
	// camera.Build gives every ray k.u = +nu_cam at lambda=0, and the
	// trajectory reversal negates k, so the sampled rays carry
	// k.u = -nu_cam at their camera end, independent of pixel.
	kDotUCam := -r.Cam.NuCam

	rays := make([]*geodesic.Ray, len(states))
	for i, init := range states {
		t0 := time.Now()
		rays[i] = integ.Integrate(init)
		d.geo += time.Since(t0)
	}

	for _, ray := range rays {
		m := ray.PixelJ*blockSize + ray.PixelI
		t0 := time.Now()
		sample.Resample(scratch.Samp, m, ray, r.Geo)
		d.samp += time.Since(t0)
	}

	numRays := blockSize * blockSize
	for m := 0; m < numRays; m++ {
		t0 := time.Now()
		nuFluid := transfer.Redshift(scratch.Samp, m, r.Geo, r.Cam.NuCam, kDotUCam)
		binder.Fill(scratch.Co, scratch.Samp, m, nuFluid)
		d.coeff += time.Since(t0)

		t0 = time.Now()
		out := r.transferPixel(scratch.Co, scratch.Samp, m)
		d.transfer += time.Since(t0)

		li := m % blockSize
		lj := m / blockSize
		tile.Set(lj, li, out.I)
		r.fillChannels(tile, lj, li, out)
	}

	return tile, d
}

// pixelOutput is the per-pixel transfer summary that feeds both the
// base intensity plane and the auxiliary channel block.
type pixelOutput struct {
	I, Tau, PathLength, TotalLambda, EmissionIntegral float64
	LambdaAve, EmissionAve, TauInt                    float64
}

// transferPixel runs the polarized or unpolarized transfer variant
// selected by config.Polarization.
func (r *Renderer) transferPixel(coArr *coeff.Array, sampArr *sample.Array, m int) pixelOutput {
	if r.Cfg.Polarization {
		angles := transfer.WalkerPenroseAngles(sampArr, m)
		res := transfer.Polarized(coArr, sampArr, m, angles)
		return pixelOutput{I: res.S.I, Tau: res.Tau, TauInt: res.Tau}
	}

	diagnostics := map[string][]float64{}
	res := transfer.Unpolarized(coArr, sampArr, m, diagnostics)
	return pixelOutput{
		I: res.I, Tau: res.Tau, PathLength: res.PathLength, TotalLambda: res.TotalLambda,
		EmissionIntegral: res.EmissionIntegral, TauInt: res.Tau,
		LambdaAve: res.WeightedMeans["lambda"], EmissionAve: res.WeightedMeans["emission"],
	}
}

// fillChannels writes the schema-selected auxiliary channels for one
// pixel; "render" is left zeroed here and populated by ComposeFeatures
// after assembly, since its contents depend on the full assembled
// image rather than a single ray's transfer output.
func (r *Renderer) fillChannels(tile *image.Tile, i, j int, out pixelOutput) {
	total := r.Schema.Total()
	ch := tile.Channel(total, i, j)
	for _, spec := range r.Schema.Specs() {
		off := r.Schema.Offset(spec.Name)
		switch spec.Name {
		case "light":
			ch[off] = out.I
		case "time":
			ch[off] = out.TotalLambda
		case "length":
			ch[off] = out.PathLength
		case "lambda":
			ch[off] = out.TotalLambda
		case "emission":
			ch[off] = out.EmissionIntegral
		case "tau":
			ch[off] = out.Tau
		case "lambda_ave":
			ch[off] = out.LambdaAve
		case "emission_ave":
			ch[off] = out.EmissionAve
		case "tau_int":
			ch[off] = out.TauInt
		}
	}
}

func termPolicy(p config.TerminationPolicy) geodesic.TermPolicy {
	if p == config.TermMultiplicative {
		return geodesic.TermMultiplicative
	}
	return geodesic.TermAdditive
}
