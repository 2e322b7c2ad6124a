// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package diffusion implements models for the cooperativity length of the
// nonlocal fluidity (diffusion-like) problem
package diffusion

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines cooperativity models
type Model interface {
	Init(prms dbf.Params) error // Init initialises this structure
	Xisq(τ, p float64) float64  // Xisq returns ξ² for shear stress τ and pressure p
}

// New diffusion model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'diffusion' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}
