// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim implements the time stepping of a granular body under a
// uniform velocity gradient
package sim

import (
	"context"
	"time"

	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"
	"github.com/tomerwei/mpm-2d/inp"
	"github.com/tomerwei/mpm-2d/mpm"
	"github.com/tomerwei/mpm-2d/nonlocal"
	"github.com/tomerwei/mpm-2d/par"
	"go.uber.org/zap"
)

// Main holds all data for a simulation
type Main struct {
	Sc      *inp.Scenario    // scenario data
	Mat     *inp.Material    // material data
	Body    *mpm.Body        // material points and grid
	Engine  *nonlocal.Engine // stress update
	Summary *Summary         // summary structure
	Logger  *zap.Logger      // structured logger
	ShowMsg bool             // show messages
}

// NewMain returns a new Main structure
//  Input:
//   scenario -- scenario (.toml) filename including full path
//   workers  -- number of workers; overrides the scenario if positive
//   logger   -- structured logger; nil means no logging
//   verbose  -- show messages
func NewMain(scenario string, workers int, logger *zap.Logger, verbose bool) (o *Main, err error) {

	// new Main object
	o = &Main{Logger: logger, ShowMsg: verbose}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	// read input data
	o.Sc, err = inp.ReadScenario(scenario)
	if err != nil {
		return nil, err
	}
	if workers > 0 {
		o.Sc.Solver.Workers = workers
	}
	o.Mat, err = o.Sc.ReadMat()
	if err != nil {
		return nil, err
	}
	if o.ShowMsg {
		io.Pf("> Scenario (.toml) and materials (.mat) files read\n")
	}

	// material points
	o.Body, err = NewBody(o.Sc)
	if err != nil {
		return nil, err
	}
	SetRates(o.Body, &o.Sc.Loading)

	// stress update
	o.Engine, err = nonlocal.NewEngine(o.Mat.Gran, o.Mat.Xi)
	if err != nil {
		return nil, err
	}
	o.Engine.Solver, err = nonlocal.NewChain(o.Sc.Solver.Kind)
	if err != nil {
		return nil, err
	}
	o.Engine.Dispatcher = &par.Dispatcher{Nworkers: o.Sc.Solver.Workers}
	o.Engine.Sink = &nonlocal.DirSink{Dir: o.Sc.Run.DirOut}
	o.Engine.Logger = o.Logger
	o.Engine.Tol = o.Sc.Solver.Tol
	o.Engine.MaxIt = o.Sc.Solver.MaxIt

	// summary
	o.Summary = &Summary{
		RunID:    uuid.NewString(),
		Desc:     o.Sc.Desc,
		Key:      o.Sc.Key,
		Material: o.Mat.Name,
		Model:    o.Mat.Model,
		Solver:   o.Engine.Solver.Name(),
		Workers:  o.Sc.Solver.Workers,
		Nparts:   len(o.Body.Particles),
		Dt:       o.Sc.Run.Dt,
	}
	if o.ShowMsg {
		io.Pf("> %d material points on a %d×%d grid\n", len(o.Body.Particles), o.Sc.Grid.N, o.Sc.Grid.N)
	}
	return
}

// Run runs all steps. The summary is saved even if a step fails.
func (o *Main) Run(ctx context.Context) (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// message
	log := o.Logger.With(zap.String("runid", o.Summary.RunID))
	log.Info("run started",
		zap.String("material", o.Mat.Name),
		zap.String("solver", o.Summary.Solver),
		zap.Int("nparts", o.Summary.Nparts),
		zap.Int("nsteps", o.Sc.Run.Nsteps))

	// time loop
	Δt := o.Sc.Run.Dt
	for step := 0; step < o.Sc.Run.Nsteps; step++ {
		if err = ctx.Err(); err != nil {
			return
		}
		rep, e := o.Engine.Update(ctx, o.Body, Δt)
		if e != nil {
			return e
		}
		o.Summary.Record(rep, o.Body)
		if !rep.Converged && !rep.Skipped && o.Mat.Gran.Nonlocal() {
			log.Debug("fixed point not converged", zap.Int("step", rep.Step), zap.Float64("residual", rep.Residual))
		}
		if o.ShowMsg {
			s := o.Summary.Steps[len(o.Summary.Steps)-1]
			io.Pf("> step %4d: njammed=%d it=%d res=%.3e sxy=%g\n", rep.Step, rep.NumJammed, rep.Iterations, rep.Residual, s.Sxy)
		}

		// move points
		Advect(o.Body, Δt)
		if err = o.Body.Locate(); err != nil {
			return
		}
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// onexit prints final message and saves summary
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {

	// show final message
	o.Summary.CPUTime = time.Since(cputime).String()
	if prevErr == nil {
		o.Logger.Info("run finished", zap.Int("steps", len(o.Summary.Reports)), zap.String("cputime", o.Summary.CPUTime))
		if o.ShowMsg {
			io.Pfgreen("> Success\n")
			io.Pf("> CPU time = %v\n", o.Summary.CPUTime)
		}
	} else {
		o.Summary.Error = prevErr.Error()
		o.Logger.Error("run failed", zap.Int("steps", len(o.Summary.Reports)), zap.Error(prevErr))
		if o.ShowMsg {
			io.Pfred("> Failed\n")
		}
	}

	// save summary
	err = o.Summary.Save(o.Sc.Run.DirOut, o.Sc.Key)
	if prevErr != nil {
		if err != nil {
			o.Logger.Error("cannot save summary", zap.Error(err))
		}
		return prevErr
	}
	return
}
