// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

import (
	"math"

	"go.uber.org/zap"
)

// constants
const (
	PICARD_TOL   = 1e-5  // tolerance on the relative change of resolved shear stress
	PICARD_NIT   = 8     // maximum number of fixed-point iterations
	SKIP_LOAD    = 1e-12 // the system is not solved when the sum of loads is below this value
	CLAMP_NEGTOL = 1e-10 // nodal values in (-CLAMP_NEGTOL, 0) are set to zero
)

// Result holds the outcome of the fixed-point iterations
type Result struct {
	Iterations int
	Residual   float64
	Converged  bool
	Skipped    bool // the local source vanished; the field is zero
	Negative   int  // number of projected values clamped to zero
}

// Coupler runs the fixed-point iterations between the nodal fluidity field
// and the resolved shear stress of jammed particles
type Coupler struct {
	Solver Solver
	Sink   Sink
	Logger *zap.Logger
	Tol    float64
	MaxIt  int
	Step   int // only used in diagnostics
}

// Run runs the iterations. On return every particle holds its fluidity Gf.
func (o *Coupler) Run(st *State) (res Result, err error) {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tol, maxit := o.Tol, o.MaxIt
	if tol <= 0 {
		tol = PICARD_TOL
	}
	if maxit <= 0 {
		maxit = PICARD_NIT
	}
	res.Residual = 1

	// nothing to solve
	if st.Dofs.Ndofs == 0 {
		Project(st, nil)
		res.Skipped, res.Converged, res.Residual = true, true, 0
		return
	}

	// accepted shear stresses
	τacc := make([]float64, len(st.Jammed))
	for k, i := range st.Jammed {
		τacc[k] = st.Trials[i].TauTau
	}

	g := make([]float64, st.Dofs.Ndofs)
	x := make([]float64, st.Dofs.Ndofs)
	for it := 1; it <= maxit; it++ {

		// assemble
		mode := Linear
		if it > 1 {
			mode = Nonlinear
		}
		sys, e := Assemble(st, mode, g)
		if e != nil {
			return res, o.fail(e, sys, g)
		}
		if it == 1 && sys.LoadSum() < SKIP_LOAD {
			log.Debug("local source vanished; skipping fluidity solve",
				zap.Int("step", o.Step), zap.Float64("load", sys.LoadSum()))
			Project(st, nil)
			res.Skipped, res.Converged, res.Residual = true, true, 0
			return
		}

		// solve
		if e = o.Solver.Solve(x, sys); e != nil {
			if _, ok := e.(*SolveError); !ok {
				e = &SolveError{Attempts: []error{e}}
			}
			return res, o.fail(e, sys, nil)
		}
		for I, v := range x {
			if v < 0 {
				if v <= -CLAMP_NEGTOL {
					return res, o.fail(&InvariantError{What: "nodal fluidity", Index: I, Value: v}, sys, x)
				}
				x[I] = 0
			}
		}
		copy(g, x)

		// project
		neg := Project(st, g)
		if len(neg) > 0 {
			res.Negative += len(neg)
			log.Warn("negative projected fluidity clamped to zero",
				zap.Int("step", o.Step), zap.Int("iteration", it), zap.Ints("particles", neg))
		}

		// check
		rtr := 0.0
		for k, i := range st.Jammed {
			tr := &st.Trials[i]
			τ := st.Prms.ImpliedTau(tr.Tau, tr.P, st.Body.Particles[i].Gf, st.Δt)
			den := τacc[k]
			if den <= 0 {
				den = τ
			}
			if den > 0 {
				rel := (τ - τacc[k]) / den
				rtr += rel * rel
			}
			τacc[k] = τ
		}
		res.Iterations = it
		res.Residual = math.Sqrt(rtr / float64(len(st.Jammed)))
		log.Debug("fluidity iteration",
			zap.Int("step", o.Step), zap.Int("iteration", it),
			zap.Int("ndofs", st.Dofs.Ndofs), zap.Float64("residual", res.Residual))
		if res.Residual <= tol {
			res.Converged = true
			return
		}
	}
	log.Debug("fluidity iterations did not converge",
		zap.Int("step", o.Step), zap.Float64("residual", res.Residual))
	return
}

// fail dumps the diagnostics and returns the error to be reported
func (o *Coupler) fail(err error, sys *System, g []float64) error {
	return fatal(o.Sink, o.Step, err, sys, g)
}

// fatal dumps the diagnostics of a fatal failure into sink and returns err.
// sys and g may be nil. A failed dump is attached to err.
func fatal(sink Sink, step int, err error, sys *System, g []float64) error {
	switch e := err.(type) {
	case *InvariantError:
		e.dumped = true
	case *SolveError:
		e.dumped = true
	}
	if sink == nil {
		return err
	}
	derr := sink.Dump(&Dump{Step: step, Reason: err.Error(), Sys: sys, G: g})
	if derr == nil {
		return err
	}
	switch e := err.(type) {
	case *InvariantError:
		e.DumpErr = derr
	case *SolveError:
		e.DumpErr = derr
	}
	return err
}
