// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package granular

import (
	"math"

	"github.com/cpmech/gosl/fun/dbf"
)

// RhoJam is the absolute jamming density of the Coulomb model
const RhoJam = 1485.0

// Coulomb implements a rate-independent model with a Coulomb cap S0 = μs·p
// and an absolute jamming density
type Coulomb struct {
	prms *Params
}

// Mu2 implements the local μ(I) rheology
//
//   μ = μs + (μ2 - μs) / (I0/I + 1)    I = γ̇ d / √(p/ρs)
//
type Mu2 struct {
	prms *Params
}

// Ngf implements the nonlocal granular fluidity model. Its local update is
// that of Mu2 and only seeds the diffusion stage.
type Ngf struct {
	Mu2
}

// add models to factory
func init() {
	allocators["coulomb"] = func() Model { return new(Coulomb) }
	allocators["mu2"] = func() Model { return new(Mu2) }
	allocators["ngf"] = func() Model { return new(Ngf) }
}

// Coulomb //////////////////////////////////////////////////////////////////////////////////////

// Init initialises model
func (o *Coulomb) Init(prms dbf.Params) (err error) {
	o.prms, err = elasticParams("coulomb", prms)
	return
}

// GetPrms gets (an example) of parameters
func (o *Coulomb) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "E", V: 1e6},
		&dbf.P{N: "nu", V: 0.3},
		&dbf.P{N: "mu_s", V: 0.3819},
	}
}

// Prms returns the immutable parameters
func (o *Coulomb) Prms() *Params { return o.prms }

// Nonlocal returns false
func (o *Coulomb) Nonlocal() bool { return false }

// Update classifies and resolves the trial state
func (o *Coulomb) Update(tr *Trial, ρ, Δt float64) {
	if ρ < RhoJam || tr.P <= 0 {
		tr.Relieve(o.prms.G, Δt)
		return
	}
	S0 := o.prms.MuS * tr.P
	if tr.Tau <= S0 {
		tr.elastic()
		return
	}
	tr.resolve(S0, o.prms.G, Δt)
}

// Mu2 //////////////////////////////////////////////////////////////////////////////////////////

// Init initialises model
func (o *Mu2) Init(prms dbf.Params) (err error) {
	o.prms, err = NewParams("mu2", prms)
	return
}

// GetPrms gets (an example) of parameters
func (o *Mu2) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "E", V: 1e6},
		&dbf.P{N: "nu", V: 0.3},
		&dbf.P{N: "mu_s", V: 0.3819},
		&dbf.P{N: "mu_2", V: 0.6435},
		&dbf.P{N: "I_0", V: 0.278},
		&dbf.P{N: "rho_s", V: 2450},
		&dbf.P{N: "rho_c", V: 1500},
		&dbf.P{N: "d", V: 0.005},
		&dbf.P{N: "A", V: 0.48},
	}
}

// Prms returns the immutable parameters
func (o *Mu2) Prms() *Params { return o.prms }

// Nonlocal returns false
func (o *Mu2) Nonlocal() bool { return false }

// Update classifies and resolves the trial state
func (o *Mu2) Update(tr *Trial, ρ, Δt float64) {
	if ρ < o.prms.RhoC || tr.P <= 0 {
		tr.Relieve(o.prms.G, Δt)
		return
	}
	S0 := o.prms.MuS * tr.P
	if tr.Tau <= S0 {
		tr.elastic()
		return
	}
	tr.resolve(o.Resolve(tr.Tau, tr.P, Δt), o.prms.G, Δt)
}

// Resolve returns the admissible root of
//
//   τ² - B τ + H = 0    B = S2 + τ_tr + α    H = S2 τ_tr + S0 α
//
// written as 2H / (B + √(B² - 4H)) to avoid cancellation
func (o *Mu2) Resolve(τtr, p, Δt float64) float64 {
	S0 := o.prms.MuS * p
	S2 := o.prms.Mu2 * p
	α := o.prms.G * o.prms.I0 * Δt * math.Sqrt(p/o.prms.RhoS) / o.prms.D
	B := S2 + τtr + α
	H := S2*τtr + S0*α
	return 2.0 * H / (B + math.Sqrt(B*B-4.0*H))
}

// Ngf //////////////////////////////////////////////////////////////////////////////////////////

// Init initialises model
func (o *Ngf) Init(prms dbf.Params) (err error) {
	o.prms, err = NewParams("ngf", prms)
	return
}

// Nonlocal returns true
func (o *Ngf) Nonlocal() bool { return true }
