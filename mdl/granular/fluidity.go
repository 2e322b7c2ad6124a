// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package granular

import (
	"errors"
	"fmt"
	"math"
)

// ErrYieldOrder is matched by errors raised when a shear stress reaches the
// limiting bound S2 = μ2·p where the local fluidity is unbounded
var ErrYieldOrder = errors.New("granular: shear stress at or above μ2·p")

// Gloc computes the local fluidity of the μ(I) law
//
//   g_loc = p^{3/2} ζ (1 - S0/τ) / (S2 - τ)     for S0 < τ < S2
//
//   g_loc = 0                                  for τ <= S0 or p <= 0
//
func (o *Params) Gloc(τ, p float64) (float64, error) {
	if p <= 0 {
		return 0, nil
	}
	S0 := o.MuS * p
	if τ <= S0 {
		return 0, nil
	}
	S2 := o.Mu2 * p
	if τ >= S2 {
		return 0, fmt.Errorf("%w: τ=%g S2=%g p=%g", ErrYieldOrder, τ, S2, p)
	}
	return p * math.Sqrt(p) * o.Zeta() * (1.0 - S0/τ) / (S2 - τ), nil
}

// ImpliedTau returns the shear stress consistent with fluidity g:
//
//   τ(g) = τ_tr p / (p + G Δt g)
//
func (o *Params) ImpliedTau(τtr, p, g, Δt float64) float64 {
	if p <= 0 {
		return 0
	}
	return τtr * p / (p + o.G*Δt*g)
}

// Gmin returns the fluidity below which the implied stress reaches μ2·p
func (o *Params) Gmin(τtr, p, Δt float64) float64 {
	return (τtr/o.Mu2 - p) / (o.G * Δt)
}

// GlocFromG evaluates the local fluidity at the stress implied by g and its
// derivative with respect to g. With μ = τ_tr/(p + GΔt g):
//
//   g_loc(g) = √p ζ (μ - μs) / (μ (μ2 - μ))
//
//   dg_loc/dg = -√p ζ GΔt (μ² - 2μs μ + μs μ2) / (τ_tr (μ2 - μ)²)
//
func (o *Params) GlocFromG(τtr, p, g, Δt float64) (gl, dgl float64, err error) {
	if p <= 0 {
		return
	}
	μ := τtr / (p + o.G*Δt*g)
	if μ <= o.MuS {
		return
	}
	if μ >= o.Mu2 {
		err = fmt.Errorf("%w: μ=%g μ2=%g at g=%g", ErrYieldOrder, μ, o.Mu2, g)
		return
	}
	c := math.Sqrt(p) * o.Zeta()
	gl = c * (μ - o.MuS) / (μ * (o.Mu2 - μ))
	dgl = -c * o.G * Δt * (μ*μ - 2.0*o.MuS*μ + o.MuS*o.Mu2) / (τtr * (o.Mu2 - μ) * (o.Mu2 - μ))
	return
}

// Lift returns an admissible linearisation point for a reconstructed
// fluidity g. Values at or below Gmin are moved halfway towards the local
// fluidity gLoc of the same point.
func (o *Params) Lift(g, gLoc, τtr, p, Δt float64) (float64, error) {
	gmin := o.Gmin(τtr, p, Δt)
	if g > gmin {
		return g, nil
	}
	if gLoc <= gmin {
		return 0, fmt.Errorf("%w: local fluidity %g is not above %g", ErrYieldOrder, gLoc, gmin)
	}
	return gmin + 0.5*(gLoc-gmin), nil
}
