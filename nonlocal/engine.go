// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package nonlocal implements the stress update of material points with the
// nonlocal granular fluidity model
/*
 *   local stage (parallel)           global stage (worker 0)
 *  =========================================================================
 *   trial stress                  |  active dofs from jammed particles
 *   jammed/open + μ(I) return     |  K g = f   (Picard, at most PICARD_NIT)
 *   g_loc, ξ²                     |  g_p = Σ S_i g_i
 *                                 |  σ = s t0 - p δ,  s = p / (p + G Δt g_p)
 */
package nonlocal

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/cpmech/gosl/chk"
	"github.com/tomerwei/mpm-2d/mdl/diffusion"
	"github.com/tomerwei/mpm-2d/mdl/granular"
	"github.com/tomerwei/mpm-2d/mpm"
	"github.com/tomerwei/mpm-2d/par"
	"go.uber.org/zap"
)

// Report summarises one stress update
type Report struct {
	Step       int     `json:"step"`
	NumJammed  int     `json:"njammed"`
	NumDofs    int     `json:"ndofs"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`
	Converged  bool    `json:"converged"`
	Skipped    bool    `json:"skipped"`
	Relieved   int     `json:"relieved"` // open particles under non-positive trial pressure
	Negative   int     `json:"negative"` // projected fluidities clamped to zero
}

// Engine updates the stresses of all active material points
type Engine struct {
	Model      granular.Model  // local rheology
	Coop       diffusion.Model // cooperativity length; used by nonlocal models only
	Solver     Solver          // fluidity system solver
	Dispatcher *par.Dispatcher // partitioning of the local stage
	Sink       Sink            // diagnostics on fatal failures
	Logger     *zap.Logger     // structured logger
	Tol        float64         // fixed-point tolerance
	MaxIt      int             // maximum number of fixed-point iterations
	step       int
}

// NewEngine returns an engine with default settings: direct solver chain,
// GOMAXPROCS workers, diagnostics written to the working directory and
// no logging
func NewEngine(model granular.Model, coop diffusion.Model) (o *Engine, err error) {
	if model == nil || model.Prms() == nil {
		return nil, chk.Err("granular model must be initialised")
	}
	if model.Nonlocal() && coop == nil {
		return nil, chk.Err("nonlocal model requires a cooperativity model")
	}
	chain, err := NewChain("direct")
	if err != nil {
		return
	}
	o = &Engine{
		Model:      model,
		Coop:       coop,
		Solver:     chain,
		Dispatcher: new(par.Dispatcher),
		Sink:       &DirSink{Dir: "."},
		Logger:     zap.NewNop(),
		Tol:        PICARD_TOL,
		MaxIt:      PICARD_NIT,
	}
	return
}

// Update updates the stresses of the active particles of body over Δt.
// Shape functions of the particles must be up to date (mpm.Body.Locate).
func (o *Engine) Update(ctx context.Context, body *mpm.Body, Δt float64) (rep *Report, err error) {
	if !(Δt > 0) {
		return nil, chk.Err("timestep must be positive. Δt=%g", Δt)
	}
	if o.Dispatcher == nil {
		o.Dispatcher = new(par.Dispatcher)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	o.step++
	rep = &Report{Step: o.step}
	prms := o.Model.Prms()
	nonlocal := o.Model.Nonlocal()
	ps := body.Particles
	trials := make([]granular.Trial, len(ps))
	var relieved int64

	// local stage
	local := func(ctx context.Context, b par.Block) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := b.Lo; i < b.Hi; i++ {
			p := &ps[i]
			if !p.Active {
				continue
			}
			tr := &trials[i]
			*tr = granular.LocalStep(o.Model,
				granular.Stress{Sxx: p.Sxx, Sxy: p.Sxy, Syy: p.Syy, Szz: p.Szz},
				granular.Rate{Exx: p.Exx, Exy: p.Exy, Eyy: p.Eyy, Wxy: p.Wxy},
				p.Density(), Δt)
			if !tr.Dense && tr.P <= 0 {
				atomic.AddInt64(&relieved, 1)
			}
			if !nonlocal {
				writeBack(p, tr, tr.S, prms.G, Δt)
				continue
			}
			if tr.Dense && !p.Located() {
				tr.Relieve(prms.G, Δt)
			}
			p.Jammed = tr.Dense
			p.Xisq, p.GfLocal = 0, 0
			if !tr.Dense {
				continue
			}
			p.Xisq = o.Coop.Xisq(tr.TauTau, tr.PTau)
			gl, e := prms.Gloc(tr.TauTau, tr.PTau)
			if e != nil {
				return &InvariantError{What: "local fluidity", Index: i, Value: tr.TauTau, Err: e}
			}
			p.GfLocal = gl
		}
		return nil
	}

	// global stage
	global := func(ctx context.Context) error {
		st := &State{Body: body, Trials: trials, Prms: prms, Δt: Δt}
		for i := range ps {
			if ps[i].Active && trials[i].Dense {
				st.Jammed = append(st.Jammed, i)
			}
		}
		st.Dofs = SelectDofs(body.Grid, ps, st.Jammed)
		rep.NumJammed, rep.NumDofs = len(st.Jammed), st.Dofs.Ndofs

		cpl := Coupler{
			Solver: o.Solver,
			Sink:   o.Sink,
			Logger: o.Logger,
			Tol:    o.Tol,
			MaxIt:  o.MaxIt,
			Step:   o.step,
		}
		res, err := cpl.Run(st)
		if err != nil {
			return err
		}
		rep.Iterations, rep.Residual = res.Iterations, res.Residual
		rep.Converged, rep.Skipped, rep.Negative = res.Converged, res.Skipped, res.Negative

		// write back
		for i := range ps {
			p := &ps[i]
			if !p.Active {
				continue
			}
			tr := &trials[i]
			s := 0.0
			if tr.Dense {
				s = tr.P / (tr.P + prms.G*Δt*p.Gf)
			}
			writeBack(p, tr, s, prms.G, Δt)
		}
		return nil
	}
	if !nonlocal {
		global = nil
	}

	if err = o.Dispatcher.Run(ctx, len(ps), local, global); err != nil {
		var ierr *InvariantError
		if errors.As(err, &ierr) && !ierr.dumped {
			err = fatal(o.Sink, o.step, err, nil, nil)
		}
		return nil, err
	}
	rep.Relieved = int(relieved)
	if !nonlocal {
		for i := range ps {
			if ps[i].Active && trials[i].Dense {
				rep.NumJammed++
			}
		}
	}
	if rep.Relieved > 0 {
		o.Logger.Debug("open particles under non-positive pressure relieved",
			zap.Int("step", o.step), zap.Int("count", rep.Relieved))
	}
	return
}

// writeBack sets the final stress s·t0 - p δ of a jammed particle (zero for
// open ones) and updates the plastic shear
func writeBack(p *mpm.Particle, tr *granular.Trial, s, G, Δt float64) {
	p.Jammed = tr.Dense
	if !tr.Dense {
		p.Sxx, p.Sxy, p.Syy, p.Szz = 0, 0, 0, 0
		p.GammaDotP = tr.Tau / (G * Δt)
	} else {
		σ := tr.Scaled(s)
		p.Sxx, p.Sxy, p.Syy, p.Szz = σ.Sxx, σ.Sxy, σ.Syy, σ.Szz
		p.GammaDotP = tr.Tau * (1.0 - s) / (G * Δt)
	}
	p.GammaP += p.GammaDotP * Δt
}
