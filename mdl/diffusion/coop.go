// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffusion

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Coop implements the cooperativity length of the nonlocal granular fluidity
// model
//
//   ξ² = A² d² |S2 - τ| / ((μ2 - μs) |τ - S0|)     S0 = μs p   S2 = μ2 p
//
//   ξ² <= (Cap d)²
//
type Coop struct {
	MuS, Mu2 float64 // friction coefficients
	D        float64 // grain diameter
	A        float64 // nonlocal amplitude
	Cap      float64 // ξ is limited to Cap·d
}

// Const implements a constant cooperativity length
type Const struct {
	Val float64 // ξ²
}

// add models to factory
func init() {
	allocators["coop"] = func() Model { return new(Coop) }
	allocators["const"] = func() Model { return new(Const) }
}

// Init initialises this structure
func (o *Coop) Init(prms dbf.Params) (err error) {
	o.Cap = 15
	var found int
	for _, p := range prms {
		switch p.N {
		case "mu_s":
			o.MuS = p.V
			found++
		case "mu_2":
			o.Mu2 = p.V
			found++
		case "d":
			o.D = p.V
			found++
		case "A":
			o.A = p.V
			found++
		case "xi_cap":
			o.Cap = p.V
		}
	}
	if found != 4 {
		return chk.Err("coop model: mu_s, mu_2, d and A must be given in database of material parameters")
	}
	if o.Mu2 <= o.MuS || o.D <= 0 || o.Cap <= 0 {
		return chk.Err("coop model: invalid parameters. mu_s=%g mu_2=%g d=%g xi_cap=%g", o.MuS, o.Mu2, o.D, o.Cap)
	}
	return
}

// Xisq returns ξ²
func (o *Coop) Xisq(τ, p float64) float64 {
	if p <= 0 {
		return 0
	}
	xisqc := o.Cap * o.D * o.Cap * o.D
	S0 := o.MuS * p
	S2 := o.Mu2 * p
	if τ > S2 {
		τ = S2
	}
	den := math.Abs(τ-S0) * (o.Mu2 - o.MuS)
	if den == 0 {
		return xisqc
	}
	xisq := o.A * o.A * o.D * o.D * math.Abs(S2-τ) / den
	if xisq > xisqc {
		return xisqc
	}
	return xisq
}

// Init initialises this structure
func (o *Const) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		if p.N == "xisq" {
			o.Val = p.V
			if o.Val < 0 {
				return chk.Err("const model: xisq must be non-negative. xisq=%g", o.Val)
			}
			return
		}
	}
	return chk.Err("const model: xisq must be given in database of material parameters")
}

// Xisq returns ξ²
func (o *Const) Xisq(τ, p float64) float64 {
	return o.Val
}
