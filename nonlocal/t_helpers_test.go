// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/tomerwei/mpm-2d/mdl/diffusion"
	"github.com/tomerwei/mpm-2d/mdl/granular"
	"github.com/tomerwei/mpm-2d/mpm"
	"github.com/tomerwei/mpm-2d/par"
)

const testΔt = 1e-4

// newTestEngine returns an engine with the default material and solver kind
func newTestEngine(tst *testing.T, model, solver string) *Engine {
	mdl, err := granular.New(model)
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	prms := new(granular.Mu2).GetPrms()
	if err = mdl.Init(prms); err != nil {
		tst.Fatalf("%v\n", err)
	}
	coop, err := diffusion.New("coop")
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	if err = coop.Init(prms); err != nil {
		tst.Fatalf("%v\n", err)
	}
	eng, err := NewEngine(mdl, coop)
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	eng.Solver, err = NewChain(solver)
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	eng.Sink = &DirSink{Dir: tst.TempDir()}
	eng.Dispatcher = &par.Dispatcher{Nworkers: 2}
	return eng
}

// newTestParticle returns a jammed material point under pressure p0 and shear sxy
func newTestParticle(x, y, v, p0, sxy, exy float64) mpm.Particle {
	p := mpm.Particle{X: x, Y: y, V: v, M: 1600 * v, Active: true, Exy: exy}
	p.InitStress(-p0, sxy, -p0)
	return p
}

// newTestBody returns a body with nppe×nppe particles per element of an N×N grid
func newTestBody(tst *testing.T, N int, h float64, periodic string, nppe int, setp func(x, y float64) mpm.Particle) *mpm.Body {
	g, err := mpm.NewGrid(N, h, periodic)
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	b := &mpm.Body{Grid: g}
	δ := h / float64(nppe)
	for j := 0; j < (N-1)*nppe; j++ {
		for i := 0; i < (N-1)*nppe; i++ {
			b.Particles = append(b.Particles, setp((float64(i)+0.5)*δ, (float64(j)+0.5)*δ))
		}
	}
	if err = b.Locate(); err != nil {
		tst.Fatalf("%v\n", err)
	}
	if err = b.Check(); err != nil {
		tst.Fatalf("%v\n", err)
	}
	return b
}

type failSolver struct{}

func (failSolver) Name() string                         { return "fail" }
func (failSolver) Solve(x []float64, sys *System) error { return chk.Err("always fails") }

type nanCoop struct{}

func (nanCoop) Init(prms dbf.Params) error { return nil }
func (nanCoop) Xisq(τ, p float64) float64  { return math.NaN() }

// stubSolver counts its calls and returns a constant field
type stubSolver struct {
	calls int
	val   float64
}

func (o *stubSolver) Name() string { return "stub" }
func (o *stubSolver) Solve(x []float64, sys *System) error {
	o.calls++
	for i := range x {
		x[i] = o.val
	}
	return nil
}

// overYield resolves dense trial states above μ2·p
type overYield struct {
	granular.Ngf
}

func (o *overYield) Update(tr *granular.Trial, ρ, Δt float64) {
	o.Ngf.Update(tr, ρ, Δt)
	if tr.Dense {
		tr.TauTau = 1.01 * o.Prms().Mu2 * tr.PTau
	}
}
