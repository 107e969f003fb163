// Copyright 2026 The Blacklight Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"github.com/ferrocastle/blacklight/coeff/formula"
	"github.com/ferrocastle/blacklight/coeff/simulation"
)

// enforce loading of all coefficient models
func init() {
	_ = formula.Model{}
	_ = simulation.Model{}
}
