// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package granular implements the local rheology of dense granular media
/*
 *   elastic predictor (Jaumann)          return mapping
 *  ============================================================
 *   σ_tr = σ + Δt (C:D + W·σ - σ·W)   |  open:   σ = 0
 *   p_tr = -tr(σ_tr)/3                 |  τ <= S0: σ = σ_tr
 *   t0   = σ_tr + p_tr δ               |  τ >  S0: σ = s t0 - p δ
 *   τ_tr = √(½ t0:t0)                  |           s = τ_final/τ_tr
 */
package granular

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines granular models
type Model interface {
	Init(prms dbf.Params) error      // initialises model
	GetPrms() dbf.Params             // gets (an example) of parameters
	Prms() *Params                   // returns the immutable parameters
	Update(tr *Trial, ρ, Δt float64) // classifies and resolves a trial state given the mixture density ρ
	Nonlocal() bool                  // the resolved state only seeds the nonlocal stage
}

// New returns new granular model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'granular' database", name)
	}
	return allocator(), nil
}

// LocalStep runs the elastic predictor followed by the model's return mapping
func LocalStep(m Model, σ Stress, d Rate, ρ, Δt float64) Trial {
	prms := m.Prms()
	tr := TrialStress(σ, d, prms.G, prms.La, Δt)
	m.Update(&tr, ρ, Δt)
	return tr
}

// allocators holds all available granular models; modelname => allocator
var allocators = map[string]func() Model{}
