// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config implements the input-reader contract: it decodes and
// validates the JSON configuration that drives a Blacklight render.
package config

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// CameraModel selects the pixel-ray construction used by camera.Build.
type CameraModel string

const (
	CameraPlane   CameraModel = "plane"
	CameraPinhole CameraModel = "pinhole"
)

// TerminationPolicy selects how ray_terminate combines with r.
type TerminationPolicy string

const (
	TermAdditive       TerminationPolicy = "additive"
	TermMultiplicative TerminationPolicy = "multiplicative"
)

// ModelType selects the coefficient source (Component E).
type ModelType string

const (
	ModelSimulation ModelType = "simulation"
	ModelFormula    ModelType = "formula"
)

// PlasmaModel selects the electron-temperature sub-model.
type PlasmaModel string

const (
	PlasmaTiTeBeta  PlasmaModel = "ti_te_beta"
	PlasmaCodeKappa PlasmaModel = "code_kappa"
)

// Geometry holds the black-hole geometry options.
type Geometry struct {
	Spin     float64 `json:"spin"`      // a, dimensionless, in (-1,1)
	MassMsun float64 `json:"mass_msun"` // mass scale in solar masses
}

// Camera holds camera construction options.
type Camera struct {
	Model       CameraModel `json:"model"`        // plane or pinhole
	R           float64     `json:"r"`            // radial distance of camera, in M
	Inclination float64     `json:"inclination"`  // degrees from spin axis
	Azimuth     float64     `json:"azimuth"`      // degrees
	Width       float64     `json:"width"`        // camera plane/pinhole opening width, in M
	Resolution  int         `json:"resolution"`   // R, linear pixel resolution
	PolarProof  bool        `json:"camera_pole"`  // adjust azimuth near the coordinate pole
	NuCam       float64     `json:"nu_cam"`       // observed frequency at the camera
	MomFactor   float64     `json:"mom_factor"`   // CGS photon-frequency scale factor
}

// Ray holds geodesic-integration tuning.
type Ray struct {
	Flat          bool              `json:"flat"`           // substitute Minkowski metric
	TermPolicy    TerminationPolicy `json:"term_policy"`     // additive or multiplicative
	TermFactor    float64           `json:"term_factor"`     // combines with r_+ per TermPolicy
	Step          float64           `json:"step"`            // initial step size
	MaxSteps      int               `json:"max_steps"`       // hard cap on accepted steps
	MaxRetries    int               `json:"max_retries"`     // hard cap on rejected-step retries
	TolAbs        float64           `json:"tol_abs"`          // absolute tolerance
	TolRel        float64           `json:"tol_rel"`          // relative tolerance
	MinFactor     float64           `json:"min_factor"`       // minimum step-scale factor
	MaxFactor     float64           `json:"max_factor"`       // maximum step-scale factor
	ErrFactor     float64           `json:"err_factor"`       // safety factor on error-based scaling
	HorizonEps    float64           `json:"horizon_eps"`      // ε in r <= r_+(1+ε)
}

// ImageSelect is the set of auxiliary channels requested.
type ImageSelect struct {
	Light       bool `json:"light"`
	Time        bool `json:"time"`
	Length      bool `json:"length"`
	Lambda      bool `json:"lambda"`
	Emission    bool `json:"emission"`
	Tau         bool `json:"tau"`
	LambdaAve   bool `json:"lambda_ave"`
	EmissionAve bool `json:"emission_ave"`
	TauInt      bool `json:"tau_int"`
	Render      bool `json:"render"`
}

// AnySelected reports whether at least one channel is requested.
func (s ImageSelect) AnySelected() bool {
	return s.Light || s.Time || s.Length || s.Lambda || s.Emission ||
		s.Tau || s.LambdaAve || s.EmissionAve || s.TauInt || s.Render
}

// Plasma holds the electron-population plasma model options.
type Plasma struct {
	Model PlasmaModel `json:"model"`

	// ti_te_beta sub-mode
	TiTeRatio float64 `json:"ti_te_ratio"`
	BetaCrit  float64 `json:"beta_crit"`

	// code_kappa sub-mode
	KappaFrac float64 `json:"kappa_frac"`
	KappaWidth float64 `json:"kappa_width"`

	// electron-population fractions; must sum to ~1
	FracThermal   float64 `json:"frac_thermal"`
	FracPowerLaw  float64 `json:"frac_power_law"`
	FracKappa     float64 `json:"frac_kappa"`
}

// SlowLight holds the slow-light (time-dependent snapshot) block.
type SlowLight struct {
	Enabled       bool    `json:"enabled"`
	Interpolate   bool    `json:"interpolate"`
	ChunkSize     int     `json:"chunk_size"`
	TStart        float64 `json:"t_start"`
	Dt            float64 `json:"dt"`
}

// Criterion holds a fraction/cut pair used by one adaptive criterion.
type Criterion struct {
	Enabled  bool    `json:"enabled"`
	Fraction float64 `json:"fraction"` // threshold on fraction of pixels exceeding Cut
	Cut      float64 `json:"cut"`
}

// Adaptive holds the refinement-controller options.
type Adaptive struct {
	MaxLevel    int       `json:"max_level"`
	BlockSize   int       `json:"block_size"` // B, must divide Camera.Resolution
	Value       Criterion `json:"value"`
	GradAbs     Criterion `json:"grad_abs"`
	GradRel     Criterion `json:"grad_rel"`
	LaplaceAbs  Criterion `json:"laplace_abs"`
	LaplaceRel  Criterion `json:"laplace_rel"`
}

// Feature is one rendering feature within a rendered image.
type Feature struct {
	Type   string             `json:"type"` // rise, fall, fill
	Params map[string]float64 `json:"params"`
}

// RenderImage is one output image composed of features.
type RenderImage struct {
	Name     string    `json:"name"`
	Features []Feature `json:"features"`
}

// Config is the root configuration decoded from an input file.
type Config struct {
	Geometry    Geometry      `json:"geometry"`
	Camera      Camera        `json:"camera"`
	Ray         Ray           `json:"ray"`
	ImageSelect ImageSelect   `json:"image_select"`
	Polarization bool         `json:"polarization"` // simulation model only
	ModelType   ModelType     `json:"model_type"`
	Plasma      Plasma        `json:"plasma"`
	SlowLight   SlowLight     `json:"slow_light"`
	Adaptive    Adaptive      `json:"adaptive"`
	Rendering   []RenderImage `json:"rendering"`

	// FallbackNaN selects the fallback policy: true propagates NaN
	// for flagged/invalid samples, false substitutes zero coefficients
	// (a transparent, non-emitting sample); no fallback density or
	// pressure is substituted.
	FallbackNaN bool `json:"fallback_nan"`

	// derived
	NumThreads int `json:"-"`
}

// SetDefault fills the step-control tolerances and scale factors with
// the values the integrator needs if the input file omitted them.
func (r *Ray) SetDefault() {
	if r.TolAbs == 0 {
		r.TolAbs = 1e-10
	}
	if r.TolRel == 0 {
		r.TolRel = 1e-8
	}
	if r.MinFactor == 0 {
		r.MinFactor = 0.2
	}
	if r.MaxFactor == 0 {
		r.MaxFactor = 5.0
	}
	if r.ErrFactor == 0 {
		r.ErrFactor = 0.9
	}
	if r.HorizonEps == 0 {
		r.HorizonEps = 1e-6
	}
	if r.MaxRetries == 0 {
		r.MaxRetries = 12
	}
}

// Load reads and decodes a JSON configuration file and applies defaults.
func Load(path string) (cfg *Config, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("config: cannot read input file %q: %v", path, err)
	}
	cfg = new(Config)
	cfg.Ray.SetDefault()
	if err = json.Unmarshal(b, cfg); err != nil {
		return nil, chk.Err("config: cannot unmarshal input file %q: %v", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is a convenience wrapper used by the CLI driver; it panics
// via chk.Panic on any error, matching main.go's recover-based exit.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		chk.Panic("%v", err)
	}
	io.Pf(". config loaded from %s\n", path)
	return cfg
}
