// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/rnd"
)

// fractionRange describes the plausible range of an electron-population
// fraction; reuses gosl/rnd's VarData shape purely as a bounds carrier.
var fractionRange = rnd.VarData{Min: 0, Max: 1}

// Validate checks the configuration's invariants. Configuration errors
// are fatal at construction.
func (c *Config) Validate() error {
	if math.Abs(c.Geometry.Spin) >= 1 {
		return chk.Err("config: spin a=%g must satisfy |a| < 1", c.Geometry.Spin)
	}
	if c.Geometry.MassMsun <= 0 {
		return chk.Err("config: mass_msun must be positive, got %g", c.Geometry.MassMsun)
	}

	switch c.Camera.Model {
	case CameraPlane, CameraPinhole:
	default:
		return chk.Err("config: camera.model must be %q or %q, got %q", CameraPlane, CameraPinhole, c.Camera.Model)
	}
	if c.Camera.Resolution <= 0 {
		return chk.Err("config: camera.resolution must be positive, got %d", c.Camera.Resolution)
	}
	if c.Camera.Width <= 0 {
		return chk.Err("config: camera.width must be positive, got %g", c.Camera.Width)
	}
	if c.Camera.NuCam <= 0 {
		return chk.Err("config: camera.nu_cam must be positive, got %g", c.Camera.NuCam)
	}

	switch c.Ray.TermPolicy {
	case TermAdditive, TermMultiplicative:
	default:
		return chk.Err("config: ray.term_policy must be %q or %q, got %q", TermAdditive, TermMultiplicative, c.Ray.TermPolicy)
	}
	if c.Ray.Step <= 0 {
		return chk.Err("config: ray.step must be positive, got %g", c.Ray.Step)
	}
	if c.Ray.MaxSteps <= 0 {
		return chk.Err("config: ray.max_steps must be positive, got %d", c.Ray.MaxSteps)
	}
	if c.Ray.MaxRetries <= 0 {
		return chk.Err("config: ray.max_retries must be positive, got %d", c.Ray.MaxRetries)
	}

	if !c.ImageSelect.AnySelected() {
		return chk.Err("config: image_select must enable at least one channel")
	}

	switch c.ModelType {
	case ModelSimulation, ModelFormula:
	default:
		return chk.Err("config: model_type must be %q or %q, got %q", ModelSimulation, ModelFormula, c.ModelType)
	}
	if c.Polarization && c.ModelType != ModelSimulation {
		return chk.Err("config: polarization flag is only valid for model_type=%q", ModelSimulation)
	}

	switch c.Plasma.Model {
	case PlasmaTiTeBeta, PlasmaCodeKappa:
	default:
		return chk.Err("config: plasma.model must be %q or %q, got %q", PlasmaTiTeBeta, PlasmaCodeKappa, c.Plasma.Model)
	}
	if err := checkFraction("frac_thermal", c.Plasma.FracThermal); err != nil {
		return err
	}
	if err := checkFraction("frac_power_law", c.Plasma.FracPowerLaw); err != nil {
		return err
	}
	if err := checkFraction("frac_kappa", c.Plasma.FracKappa); err != nil {
		return err
	}
	sum := c.Plasma.FracThermal + c.Plasma.FracPowerLaw + c.Plasma.FracKappa
	if math.Abs(sum-1) > 1e-6 {
		io.Pfyel("warning: electron-population fractions sum to %g, not 1\n", sum)
	}

	if c.Adaptive.BlockSize <= 0 {
		return chk.Err("config: adaptive.block_size must be positive, got %d", c.Adaptive.BlockSize)
	}
	if c.Camera.Resolution%c.Adaptive.BlockSize != 0 {
		return chk.Err("config: camera.resolution (%d) must be divisible by adaptive.block_size (%d)",
			c.Camera.Resolution, c.Adaptive.BlockSize)
	}
	if c.Adaptive.MaxLevel < 0 {
		return chk.Err("config: adaptive.max_level must be non-negative, got %d", c.Adaptive.MaxLevel)
	}

	for _, img := range c.Rendering {
		for _, f := range img.Features {
			switch f.Type {
			case "rise", "fall", "fill":
			default:
				return chk.Err("config: rendering image %q has unknown feature type %q", img.Name, f.Type)
			}
		}
	}

	return nil
}

// checkFraction warns when an electron-population fraction lies
// outside its plausible range [0,1], and returns an error when it is
// negative.
func checkFraction(name string, v float64) error {
	if v < fractionRange.Min || v > fractionRange.Max {
		io.Pfyel("warning: %s=%g is outside the plausible range [%g,%g]\n", name, v, fractionRange.Min, fractionRange.Max)
	}
	if v < 0 {
		return chk.Err("config: %s must be non-negative, got %g", name, v)
	}
	return nil
}
