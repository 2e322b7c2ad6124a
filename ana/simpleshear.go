// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// SimpleShear computes the one-step solution of a jammed material point
// under pressure p0 and simple shear with the μ(I) rheology
//
//       exy
//     ---->
//    o-------o
//    |       |    σxx = σyy = σzz = -p0
//    |  p0   |    σxy = sxy0 + 2 G Δt exy  (trial)
//    |       |
//    o-------o
//
// The resolved shear stress τ solves
//
//   G Δt √p ζ (τ - S0) = (τ_tr - τ)(S2 - τ)    ζ = I0 / (d √ρs)
//
type SimpleShear struct {
	G  float64 // shear modulus
	μs float64 // static friction coefficient
	μ2 float64 // limiting friction coefficient
	I0 float64 // reference inertial number
	ρs float64 // grain density
	d  float64 // grain diameter
	p0 float64 // pressure
	Δt float64 // timestep
}

// Init initialises this structure
func (o *SimpleShear) Init(prms dbf.Params) {

	// default values
	E, ν := 1e6, 0.3
	o.μs, o.μ2 = 0.3819, 0.6435
	o.I0, o.ρs, o.d = 0.278, 2450, 0.005
	o.p0, o.Δt = 1000, 1e-4

	// parameters
	for _, p := range prms {
		switch p.N {
		case "E":
			E = p.V
		case "nu":
			ν = p.V
		case "mu_s":
			o.μs = p.V
		case "mu_2":
			o.μ2 = p.V
		case "I_0":
			o.I0 = p.V
		case "rho_s":
			o.ρs = p.V
		case "d":
			o.d = p.V
		case "p0":
			o.p0 = p.V
		case "dt":
			o.Δt = p.V
		}
	}

	// derived
	o.G = E / (2.0 * (1.0 + ν))
}

// TrialShear returns the trial equivalent shear stress
func (o SimpleShear) TrialShear(sxy0, exy float64) float64 {
	return math.Abs(sxy0 + 2.0*o.G*o.Δt*exy)
}

// Tau returns the resolved equivalent shear stress for the trial value τtr
func (o SimpleShear) Tau(τtr float64) float64 {
	S0 := o.μs * o.p0
	if τtr <= S0 {
		return τtr
	}
	S2 := o.μ2 * o.p0
	c := o.G * o.Δt * math.Sqrt(o.p0) * o.I0 / (o.d * math.Sqrt(o.ρs))
	b := S2 + τtr + c
	return (b - math.Sqrt(b*b-4.0*(S2*τtr+S0*c))) / 2.0
}

// Mu returns the friction coefficient μ(I)
func (o SimpleShear) Mu(I float64) float64 {
	if I <= 0 {
		return o.μs
	}
	return o.μs + (o.μ2-o.μs)/(o.I0/I+1.0)
}

// Stress returns σxy after one step
func (o SimpleShear) Stress(sxy0, exy float64) float64 {
	sxy := sxy0 + 2.0*o.G*o.Δt*exy
	τtr := math.Abs(sxy)
	if τtr == 0 {
		return 0
	}
	return sxy * o.Tau(τtr) / τtr
}

// CheckStress checks σxy within a relative tolerance
func (o SimpleShear) CheckStress(tst *testing.T, sxy0, exy, sxy, tol float64) {
	ana := o.Stress(sxy0, exy)
	chk.Float64(tst, "σxy", tol*math.Max(1, math.Abs(ana)), sxy, ana)
}
