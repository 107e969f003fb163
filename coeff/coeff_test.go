// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coeff

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ferrocastle/blacklight/sample"
)

type constantSource struct {
	ch    Channels
	valid bool
}

func (s constantSource) Coeffs(x, k [4]float64, nuFluid float64) (Channels, bool) {
	return s.ch, s.valid
}

func TestNewUnregisteredModel(t *testing.T) {
	chk.PrintTitle("NewUnregisteredModel")
	if _, err := New("does-not-exist"); err == nil {
		t.Errorf("expected error for an unregistered model name")
	}
}

func TestBinderFillNormalizesFrequency(t *testing.T) {
	chk.PrintTitle("BinderFillNormalizesFrequency")
	src := constantSource{ch: Channels{JI: 4, AI: 2}, valid: true}
	binder := &Binder{Source: src}

	sampArr := sample.NewArray(1, 2)
	sampArr.N[0] = 1
	sampArr.X[0][0] = [4]float64{0, 10, 0, 0}
	sampArr.K[0][0] = [4]float64{-1, 1, 0, 0}

	coArr := NewArray(1, 2)
	nu := 2.0
	binder.Fill(coArr, sampArr, 0, []float64{nu})

	chk.Scalar(t, "JI/nu^2", 1e-12, coArr.JI[0][0], 4.0/(nu*nu))
	chk.Scalar(t, "AI*nu", 1e-12, coArr.AI[0][0], 2.0*nu)
}

func TestBinderFillFallbackNaN(t *testing.T) {
	chk.PrintTitle("BinderFillFallbackNaN")
	src := constantSource{valid: false}
	binder := &Binder{Source: src, FallbackNaN: true}

	sampArr := sample.NewArray(1, 1)
	sampArr.N[0] = 1
	coArr := NewArray(1, 1)
	binder.Fill(coArr, sampArr, 0, []float64{1})

	if !math.IsNaN(coArr.JI[0][0]) || !math.IsNaN(coArr.AI[0][0]) {
		t.Errorf("expected NaN channels on an invalid sample with fallback_nan set")
	}
}

func TestBinderFillSubstitutesFallbackChannels(t *testing.T) {
	chk.PrintTitle("BinderFillSubstitutesFallbackChannels")
	src := constantSource{valid: false}
	binder := &Binder{Source: src, FallbackNaN: false}

	sampArr := sample.NewArray(1, 1)
	sampArr.N[0] = 1
	coArr := NewArray(1, 1)
	binder.Fill(coArr, sampArr, 0, []float64{1})

	if math.IsNaN(coArr.JI[0][0]) || coArr.JI[0][0] != 0 {
		t.Errorf("expected the zero fallback emissivity, got %g", coArr.JI[0][0])
	}
}
