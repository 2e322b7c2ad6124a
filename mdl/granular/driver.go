// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package granular

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Path defines a homogeneous loading path made of segments of constant
// strain rate
type Path struct {
	Rates  []Rate  // one rate per segment
	Nincs  []int   // number of increments per segment
	Δt     float64 // timestep
	Rho    float64 // mixture density
	Stress Stress  // initial stress
}

// Record holds the state after one increment
type Record struct {
	Time     float64
	Stress   Stress
	P        float64 // pressure
	Tau      float64 // equivalent shear
	GammaDot float64 // plastic shear rate
	GammaP   float64 // accumulated plastic shear
	Dense    bool
}

// Driver runs a granular model through a loading path at a single
// material point. Nonlocal models are run with their local update only.
type Driver struct {
	model Model
	Res   []*Record // results
}

// Init initialises driver
func (o *Driver) Init(modelname string, prms dbf.Params) (err error) {
	o.model, err = New(modelname)
	if err != nil {
		return
	}
	return o.model.Init(prms)
}

// Run runs simulation
func (o *Driver) Run(pth *Path) (err error) {
	if len(pth.Rates) != len(pth.Nincs) {
		return chk.Err("path must have the same number of rates and increments. %d != %d", len(pth.Rates), len(pth.Nincs))
	}
	if pth.Δt <= 0 {
		return chk.Err("timestep must be positive. Δt=%g", pth.Δt)
	}
	σ := pth.Stress
	σ.Szz = 0.5 * (σ.Sxx + σ.Syy)
	t, γp := 0.0, 0.0
	o.Res = []*Record{{Stress: σ, P: -(σ.Sxx + σ.Syy + σ.Szz) / 3.0}}
	for k, d := range pth.Rates {
		for i := 0; i < pth.Nincs[k]; i++ {
			tr := LocalStep(o.model, σ, d, pth.Rho, pth.Δt)
			σ = tr.Final()
			γp += tr.GammaDot * pth.Δt
			t += pth.Δt
			o.Res = append(o.Res, &Record{
				Time:     t,
				Stress:   σ,
				P:        tr.PTau,
				Tau:      tr.TauTau,
				GammaDot: tr.GammaDot,
				GammaP:   γp,
				Dense:    tr.Dense,
			})
		}
	}
	return
}
