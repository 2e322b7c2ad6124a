// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tomerwei/mpm-2d/inp"
	"github.com/tomerwei/mpm-2d/mdl/granular"
)

const testMat = `{"materials":[
  {"name":"beads-ngf", "type":"granular", "model":"ngf", "coop":"coop", "prms":[
    {"n":"E","v":1e6}, {"n":"nu","v":0.3}, {"n":"mu_s","v":0.3819}, {"n":"mu_2","v":0.6435},
    {"n":"I_0","v":0.278}, {"n":"rho_s","v":2450}, {"n":"rho_c","v":1500}, {"n":"d","v":0.005}, {"n":"A","v":0.48}]},
  {"name":"beads-mu2", "type":"granular", "model":"mu2", "prms":[
    {"n":"E","v":1e6}, {"n":"nu","v":0.3}, {"n":"mu_s","v":0.3819}, {"n":"mu_2","v":0.6435},
    {"n":"I_0","v":0.278}, {"n":"rho_s","v":2450}, {"n":"rho_c","v":1500}, {"n":"d","v":0.005}, {"n":"A","v":0.48}]}
]}`

// writeScenario writes a materials file and a periodic shear scenario into a
// temporary directory and returns the scenario path
func writeScenario(tst *testing.T, material, solver string, jitter float64, nsteps int) string {
	dir := tst.TempDir()
	require.NoError(tst, os.WriteFile(filepath.Join(dir, "beads.mat"), []byte(testMat), 0644))
	require.NoError(tst, os.WriteFile(filepath.Join(dir, "shear.toml"), []byte(io.Sf(`desc = "test"
matfile = "beads.mat"
material = %q
[grid]
n = 5
h = 0.02
periodic = "xy"
[particles]
ppe = 2
rho = 1600
jitter = %g
seed = 7
p0 = 1000
sxy0 = 500
[loading]
exy = 0.5
[solver]
kind = %q
workers = 2
[run]
dt = 1e-4
nsteps = %d
dirout = %q
`, material, jitter, solver, nsteps, filepath.Join(dir, "out"))), 0644))
	return filepath.Join(dir, "shear.toml")
}

func Test_setup01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("setup01")

	sc, err := inp.ReadScenario(writeScenario(tst, "beads-mu2", "direct", 0, 1))
	require.NoError(tst, err)
	body, err := NewBody(sc)
	require.NoError(tst, err)
	require.Len(tst, body.Particles, 64)
	chk.Float64(tst, "x0", 1e-15, body.Particles[0].X, 0.005)
	chk.Float64(tst, "y0", 1e-15, body.Particles[0].Y, 0.005)
	chk.Float64(tst, "x7", 1e-15, body.Particles[7].X, 0.075)
	mass := 0.0
	for i := range body.Particles {
		p := &body.Particles[i]
		require.True(tst, p.Located())
		chk.Float64(tst, "ρ", 1e-10, p.Density(), 1600)
		chk.Float64(tst, "szz", 1e-15, p.Szz, -1000)
		mass += p.M
	}
	chk.Float64(tst, "mass", 1e-12, mass, 1600*0.08*0.08)

	// jitter
	sc.Particles.Jitter = 0.2
	body, err = NewBody(sc)
	require.NoError(tst, err)
	moved := 0
	for i := range body.Particles {
		p := &body.Particles[i]
		i0, j0 := i%8, i/8
		dx, dy := p.X-(float64(i0)+0.5)*0.01, p.Y-(float64(j0)+0.5)*0.01
		if math.Abs(dx) > 0.002+1e-15 || math.Abs(dy) > 0.002+1e-15 {
			tst.Errorf("point %d was moved too far: dx=%g dy=%g\n", i, dx, dy)
		}
		if dx != 0 || dy != 0 {
			moved++
		}
	}
	require.Greater(tst, moved, 0)
}

func Test_advect01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("advect01")

	sc, err := inp.ReadScenario(writeScenario(tst, "beads-mu2", "direct", 0, 1))
	require.NoError(tst, err)
	sc.Loading = inp.LoadingData{Exx: 1, Eyy: -1, Exy: 0.5, Wxy: 0.25}
	body, err := NewBody(sc)
	require.NoError(tst, err)
	SetRates(body, &sc.Loading)
	p := body.Particles[9]
	x, y, v := p.X, p.Y, p.V
	Advect(body, 1e-3)
	q := body.Particles[9]
	chk.Float64(tst, "vx", 1e-15, q.Vx, x+0.75*y)
	chk.Float64(tst, "vy", 1e-15, q.Vy, 0.25*x-y)
	chk.Float64(tst, "x", 1e-15, q.X, x+1e-3*(x+0.75*y))
	chk.Float64(tst, "y", 1e-15, q.Y, y+1e-3*(0.25*x-y))
	chk.Float64(tst, "v", 1e-15, q.V, v)

	// wrapping
	chk.Float64(tst, "wrap-", 1e-15, wrap(-0.01, 0.08), 0.07)
	chk.Float64(tst, "wrap+", 1e-15, wrap(0.09, 0.08), 0.01)
	chk.Float64(tst, "wrap0", 1e-15, wrap(0.03, 0.08), 0.03)
}

func Test_run01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("run01. local model against single point driver")

	nsteps := 4
	m, err := NewMain(writeScenario(tst, "beads-mu2", "direct", 0, nsteps), 0, nil, chk.Verbose)
	require.NoError(tst, err)
	require.NoError(tst, m.Run(context.Background()))

	// single point
	drv := new(granular.Driver)
	require.NoError(tst, drv.Init("mu2", m.Mat.Prms))
	require.NoError(tst, drv.Run(&granular.Path{
		Rates:  []granular.Rate{{Exy: 0.5}},
		Nincs:  []int{nsteps},
		Δt:     1e-4,
		Rho:    1600,
		Stress: granular.Stress{Sxx: -1000, Sxy: 500, Syy: -1000},
	}))
	σ := drv.Res[len(drv.Res)-1].Stress
	for i := range m.Body.Particles {
		chk.Float64(tst, "sxy", 1e-9, m.Body.Particles[i].Sxy, σ.Sxy)
		chk.Float64(tst, "sxx", 1e-9, m.Body.Particles[i].Sxx, σ.Sxx)
	}

	// summary
	sum, err := ReadSummary(m.Sc.Run.DirOut, "shear")
	require.NoError(tst, err)
	_, err = uuid.Parse(sum.RunID)
	require.NoError(tst, err)
	require.Equal(tst, m.Summary.RunID, sum.RunID)
	require.Equal(tst, "umfpack→lstsq→bicgstab", sum.Solver)
	require.Len(tst, sum.Reports, nsteps)
	require.Len(tst, sum.Steps, nsteps)
	require.Empty(tst, sum.Error)
	chk.Float64(tst, "mean sxy", 1e-9, sum.Steps[nsteps-1].Sxy, σ.Sxy)
	chk.Int(tst, "nopen", sum.Steps[nsteps-1].NumOpen, 0)
	for k, rep := range sum.Reports {
		chk.Int(tst, "step", rep.Step, k+1)
		chk.Int(tst, "njammed", rep.NumJammed, 64)
	}
}

func Test_run02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("run02. nonlocal model on a uniform periodic state")

	nsteps := 3
	ngf, err := NewMain(writeScenario(tst, "beads-ngf", "iterative", 0, nsteps), 3, nil, chk.Verbose)
	require.NoError(tst, err)
	require.Equal(tst, 3, ngf.Engine.Dispatcher.Nworkers)
	require.NoError(tst, ngf.Run(context.Background()))
	mu2, err := NewMain(writeScenario(tst, "beads-mu2", "iterative", 0, nsteps), 1, nil, false)
	require.NoError(tst, err)
	require.NoError(tst, mu2.Run(context.Background()))

	for k, rep := range ngf.Summary.Reports {
		chk.Int(tst, "ndofs", rep.NumDofs, 16)
		require.True(tst, rep.Converged, "step %d: %+v", k+1, rep)
	}
	sxy := mu2.Body.Particles[0].Sxy
	for i := range ngf.Body.Particles {
		p := &ngf.Body.Particles[i]
		chk.Float64(tst, "sxy", 1e-8*math.Abs(sxy), p.Sxy, sxy)
		chk.Float64(tst, "g", 1e-8*p.GfLocal, p.Gf, p.GfLocal)
	}
}

func Test_run03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("run03. failures")

	// unknown material
	path := writeScenario(tst, "granite", "direct", 0, 1)
	_, err := NewMain(path, 0, nil, false)
	require.True(tst, errors.Is(err, inp.ErrScenario), "err = %v", err)

	// cancelled run still saves summary
	m, err := NewMain(writeScenario(tst, "beads-mu2", "direct", 0, 2), 0, nil, false)
	require.NoError(tst, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.Run(ctx)
	require.ErrorIs(tst, err, context.Canceled)
	sum, err := ReadSummary(m.Sc.Run.DirOut, m.Sc.Key)
	require.NoError(tst, err)
	require.Empty(tst, sum.Reports)
	require.NotEmpty(tst, sum.Error)
}
