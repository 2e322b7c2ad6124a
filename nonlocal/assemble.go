// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

import (
	"math"

	"github.com/tomerwei/mpm-2d/mdl/granular"
	"github.com/tomerwei/mpm-2d/mpm"
)

// Mode selects how the source term is built
type Mode int

const (
	// Linear uses the frozen local fluidity as source
	Linear Mode = iota

	// Nonlinear linearises the source about the current nodal field
	Nonlinear
)

// State holds the data shared by the stages of one nonlocal update
type State struct {
	Body   *mpm.Body
	Trials []granular.Trial // per particle
	Jammed []int            // jammed and located particles
	Dofs   *DofMap
	Prms   *granular.Params
	Δt     float64
}

// Assemble builds the fluidity system
//
//   K_ij = Σ_p V_p (m_p S_i S_j + ξ²_p ∇S_i·∇S_j)
//
//   f_i  = Σ_p V_p S_i q_p
//
// with m = 1 and q = g_loc in Linear mode, and with the Newton tangent
// m = 1 - g'_loc, q = g_loc - g'_loc g_p about the field g in Nonlinear mode
func Assemble(st *State, mode Mode, g []float64) (sys *System, err error) {
	sys = NewSystem(st.Dofs.Ndofs, 16*len(st.Jammed))
	grid := st.Body.Grid
	for _, i := range st.Jammed {
		p := &st.Body.Particles[i]
		tr := &st.Trials[i]
		dofs := st.Dofs.Dofs(grid, p)

		// particle quantities
		if !(p.V >= 0) || math.IsInf(p.V, 0) {
			return sys, &InvariantError{What: "particle volume", Index: i, Value: p.V}
		}
		if !(p.Xisq >= 0) || math.IsInf(p.Xisq, 0) {
			return sys, &InvariantError{What: "cooperativity length ξ²", Index: i, Value: p.Xisq}
		}

		// source and mass coefficient
		m, q := 1.0, p.GfLocal
		if mode == Nonlinear {
			gp := 0.0
			for k, I := range dofs {
				gp += p.S[k] * g[I]
			}
			gp, err = st.Prms.Lift(gp, p.GfLocal, tr.Tau, tr.P, st.Δt)
			if err != nil {
				return sys, &InvariantError{What: "linearisation point", Index: i, Value: gp, Err: err}
			}
			gl, dgl, e := st.Prms.GlocFromG(tr.Tau, tr.P, gp, st.Δt)
			if e != nil {
				return sys, &InvariantError{What: "local fluidity", Index: i, Value: gp, Err: e}
			}
			m, q = 1.0-dgl, gl-dgl*gp
		}
		if !(q >= 0) || math.IsInf(q, 0) || !(m > 0) || math.IsInf(m, 0) {
			return sys, &InvariantError{What: "source term", Index: i, Value: q}
		}

		// add to system
		for a, I := range dofs {
			fa := p.V * p.S[a] * q
			if !(fa >= 0) || math.IsInf(fa, 0) {
				return sys, &InvariantError{What: "load contribution", Index: I, Value: fa}
			}
			sys.F[I] += fa
			for b, J := range dofs {
				kab := p.V * (m*p.S[a]*p.S[b] + p.Xisq*(p.B[a][0]*p.B[b][0]+p.B[a][1]*p.B[b][1]))
				if math.IsNaN(kab) || math.IsInf(kab, 0) {
					return sys, &InvariantError{What: "matrix entry", Index: I, Value: kab}
				}
				sys.Kb.Put(I, J, kab)
			}
		}
	}
	return
}
