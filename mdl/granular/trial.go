// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package granular

import "math"

// Stress holds the in-plane stress components and the out-of-plane
// history value σzz
type Stress struct {
	Sxx, Sxy, Syy, Szz float64
}

// Rate holds the strain rate and spin of a material point
type Rate struct {
	Exx, Exy, Eyy float64 // symmetric part of the velocity gradient
	Wxy           float64 // spin
}

// Trial holds the elastic predictor and the locally resolved state of one
// material point during one timestep
type Trial struct {

	// predictor
	T0xx, T0xy, T0yy, T0zz float64 // trial deviator
	P                      float64 // trial pressure p_tr
	Tau                    float64 // trial equivalent shear τ_tr

	// resolved
	Dense    bool    // jammed
	TauTau   float64 // resolved equivalent shear τ_final
	PTau     float64 // resolved pressure
	S        float64 // scale factor τ_final / τ_tr
	GammaDot float64 // local plastic shear rate
}

// TrialStress computes the elastic trial state using the Jaumann rate
// integrated over Δt
func TrialStress(σ Stress, d Rate, G, λ, Δt float64) (o Trial) {

	// objective increment
	trD := d.Exx + d.Eyy
	dσxx := λ*trD + 2.0*G*d.Exx + 2.0*d.Wxy*σ.Sxy
	dσxy := 2.0*G*d.Exy - d.Wxy*(σ.Sxx-σ.Syy)
	dσyy := λ*trD + 2.0*G*d.Eyy - 2.0*d.Wxy*σ.Sxy
	dσzz := λ * trD

	// trial stresses
	sxx := σ.Sxx + Δt*dσxx
	sxy := σ.Sxy + Δt*dσxy
	syy := σ.Syy + Δt*dσyy
	szz := σ.Szz + Δt*dσzz

	// invariants
	o.P = -(sxx + syy + szz) / 3.0
	o.T0xx = sxx + o.P
	o.T0xy = sxy
	o.T0yy = syy + o.P
	o.T0zz = szz + o.P
	o.Tau = math.Sqrt(0.5 * (o.T0xx*o.T0xx + 2.0*o.T0xy*o.T0xy + o.T0yy*o.T0yy + o.T0zz*o.T0zz))
	return
}

// Relieve sets the free-flowing (open) state
func (o *Trial) Relieve(G, Δt float64) {
	o.Dense = false
	o.S = 0
	o.TauTau = 0
	o.PTau = 0
	o.GammaDot = o.Tau / (G * Δt)
}

// elastic sets the purely elastic jammed state
func (o *Trial) elastic() {
	o.Dense = true
	o.S = 1
	o.TauTau = o.Tau
	o.PTau = o.P
	o.GammaDot = 0
}

// resolve sets the jammed state with resolved shear τ
func (o *Trial) resolve(τ, G, Δt float64) {
	o.Dense = true
	o.TauTau = τ
	o.PTau = o.P
	o.S = τ / o.Tau
	o.GammaDot = o.Tau * (1.0 - o.S) / (G * Δt)
}

// Scaled returns the stress s·t0 - p·δ
func (o *Trial) Scaled(s float64) Stress {
	return Stress{
		Sxx: s*o.T0xx - o.P,
		Sxy: s * o.T0xy,
		Syy: s*o.T0yy - o.P,
		Szz: s*o.T0zz - o.P,
	}
}

// Final returns the locally resolved stress. Open points are stress free.
func (o *Trial) Final() Stress {
	if !o.Dense {
		return Stress{}
	}
	return o.Scaled(o.S)
}
