// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosl/rnd"
	"github.com/cpmech/gosl/utl"
	"github.com/tomerwei/mpm-2d/inp"
	"github.com/tomerwei/mpm-2d/mpm"
)

// NewBody allocates the grid and seeds ppe×ppe material points per element
// inside the box of the scenario. Points are placed at the centres of a
// regular lattice and perturbed by a uniform jitter.
func NewBody(sc *inp.Scenario) (body *mpm.Body, err error) {
	g, err := mpm.NewGrid(sc.Grid.N, sc.Grid.H, sc.Grid.Periodic)
	if err != nil {
		return
	}
	body = &mpm.Body{Grid: g}

	// lattice
	pd := &sc.Particles
	δ := sc.Grid.H / float64(pd.Ppe)
	nx := int(math.Round((pd.Box[1] - pd.Box[0]) / δ))
	ny := int(math.Round((pd.Box[3] - pd.Box[2]) / δ))
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	X := lattice(pd.Box[0], δ, nx)
	Y := lattice(pd.Box[2], δ, ny)

	// points
	rnd.Init(pd.Seed)
	v := δ * δ
	a := pd.Jitter * δ
	body.Particles = make([]mpm.Particle, 0, nx*ny)
	for _, y := range Y {
		for _, x := range X {
			p := mpm.Particle{X: x, Y: y, V: v, M: pd.Rho * v, Active: true, Elem: -1}
			if a > 0 {
				p.X += rnd.Float64(-a, a)
				p.Y += rnd.Float64(-a, a)
			}
			p.InitStress(-pd.P0, pd.Sxy0, -pd.P0)
			body.Particles = append(body.Particles, p)
		}
	}
	if err = body.Check(); err != nil {
		return
	}
	err = body.Locate()
	return
}

// lattice returns n cell centres spaced δ apart starting at x0
func lattice(x0, δ float64, n int) []float64 {
	if n == 1 {
		return []float64{x0 + 0.5*δ}
	}
	return utl.LinSpace(x0+0.5*δ, x0+(float64(n)-0.5)*δ, n)
}

// SetRates sets the strain rate and spin of all active points
func SetRates(body *mpm.Body, ld *inp.LoadingData) {
	for i := range body.Particles {
		p := &body.Particles[i]
		if !p.Active {
			continue
		}
		p.Exx, p.Exy, p.Eyy, p.Wxy = ld.Exx, ld.Exy, ld.Eyy, ld.Wxy
	}
}

// Advect moves the points with the uniform velocity gradient
//  vx = exx x + (exy + wxy) y
//  vy = (exy - wxy) x + eyy y
// and updates their volumes. Points are wrapped across periodic sides.
func Advect(body *mpm.Body, Δt float64) {
	g := body.Grid
	L := g.Length()
	for i := range body.Particles {
		p := &body.Particles[i]
		if !p.Active {
			continue
		}
		p.Vx = p.Exx*p.X + (p.Exy+p.Wxy)*p.Y
		p.Vy = (p.Exy-p.Wxy)*p.X + p.Eyy*p.Y
		p.X += Δt * p.Vx
		p.Y += Δt * p.Vy
		p.V *= 1.0 + Δt*(p.Exx+p.Eyy)
		if g.Periodic == "x" || g.Periodic == "xy" {
			p.X = wrap(p.X, L)
		}
		if g.Periodic == "y" || g.Periodic == "xy" {
			p.Y = wrap(p.Y, L)
		}
	}
}

// wrap returns x in [0, L)
func wrap(x, L float64) float64 {
	x = math.Mod(x, L)
	if x < 0 {
		x += L
	}
	return x
}
