// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Solver solves the fluidity system
type Solver interface {
	Name() string
	Solve(x []float64, sys *System) error // x = K⁻¹ f
}

// NewSolver returns a solver strategy by name
func NewSolver(name string) (Solver, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("solver %q is not available", name)
	}
	return allocator(), nil
}

// allocators holds all available solver strategies
var allocators = map[string]func() Solver{}

// Chain tries strategies in order and accepts the first finite solution
// whose relative residual is below RelTol
type Chain struct {
	Strategies []Solver
	RelTol     float64
}

// NewChain returns the strategy sequence of a solver kind:
//  direct    -- umfpack, lstsq, bicgstab
//  iterative -- bicgstab, lstsq
// Single strategy names are also accepted.
func NewChain(kind string) (o *Chain, err error) {
	var names []string
	switch kind {
	case "", "direct":
		names = []string{"umfpack", "lstsq", "bicgstab"}
	case "iterative":
		names = []string{"bicgstab", "lstsq"}
	default:
		names = []string{kind}
	}
	o = &Chain{RelTol: 1e-8}
	for _, name := range names {
		s, e := NewSolver(name)
		if e != nil {
			return nil, e
		}
		o.Strategies = append(o.Strategies, s)
	}
	return
}

// Name returns the names of the strategies
func (o *Chain) Name() (l string) {
	for i, s := range o.Strategies {
		if i > 0 {
			l += "→"
		}
		l += s.Name()
	}
	return
}

// Solve solves the system. On failure the error is a *SolveError.
func (o *Chain) Solve(x []float64, sys *System) error {
	var attempts []error
	for _, s := range o.Strategies {
		for i := range x {
			x[i] = 0
		}
		err := s.Solve(x, sys)
		if err == nil {
			if !finite(x) {
				err = chk.Err("%s: solution is not finite", s.Name())
			} else if r := sys.RelResidual(x); r > o.RelTol {
				err = chk.Err("%s: relative residual %g is above %g", s.Name(), r, o.RelTol)
			}
		}
		if err == nil {
			return nil
		}
		attempts = append(attempts, err)
	}
	return &SolveError{Attempts: attempts}
}

// Umfpack solves the system with a sparse LU factorisation
type Umfpack struct{}

func init() {
	allocators["umfpack"] = func() Solver { return new(Umfpack) }
}

// Name returns "umfpack"
func (o *Umfpack) Name() string { return "umfpack" }

// Solve solves the system
func (o *Umfpack) Solve(x []float64, sys *System) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("umfpack: %v", r)
		}
	}()
	if sys.N == 0 {
		return
	}
	lis := la.NewSparseSolver("umfpack")
	defer lis.Free()
	if err = lis.Init(sys.Kb, nil); err != nil {
		return chk.Err("umfpack: initialisation failed:\n%v", err)
	}
	if err = lis.Fact(); err != nil {
		return chk.Err("umfpack: factorisation failed:\n%v", err)
	}
	if err = lis.Solve(x, sys.F, false); err != nil {
		return chk.Err("umfpack: solution failed:\n%v", err)
	}
	return
}
