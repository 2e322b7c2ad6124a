// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// Bicgstab solves the system with the stabilised biconjugate gradient method
// using the sparse matrix-vector product
type Bicgstab struct {
	Tol   float64 // tolerance on |r|/|f|
	MaxIt int     // maximum number of iterations; 0 means max(1000, 10n)
}

func init() {
	allocators["bicgstab"] = func() Solver { return &Bicgstab{Tol: 1e-13} }
}

// Name returns "bicgstab"
func (o *Bicgstab) Name() string { return "bicgstab" }

// Solve solves the system starting from x
func (o *Bicgstab) Solve(x []float64, sys *System) error {
	n := sys.N
	if n == 0 {
		return nil
	}
	maxit := o.MaxIt
	if maxit <= 0 {
		maxit = 10 * n
		if maxit < 1000 {
			maxit = 1000
		}
	}
	nf := floats.Norm(sys.F, 2)
	if nf == 0 {
		for i := range x {
			x[i] = 0
		}
		return nil
	}
	tol := o.Tol * nf

	// r = f - K x
	r := make([]float64, n)
	sys.MatVec(r, x)
	floats.SubTo(r, sys.F, r)
	rh := append([]float64{}, r...)
	p := make([]float64, n)
	v := make([]float64, n)
	s := make([]float64, n)
	t := make([]float64, n)
	ρ, α, ω := 1.0, 1.0, 1.0
	for it := 0; it < maxit; it++ {
		ρnew := floats.Dot(rh, r)
		if ρnew == 0 {
			return chk.Err("bicgstab: breakdown (ρ = 0) at iteration %d", it)
		}
		β := (ρnew / ρ) * (α / ω)

		// p = r + β (p - ω v)
		for i := range p {
			p[i] = r[i] + β*(p[i]-ω*v[i])
		}
		sys.MatVec(v, p)
		den := floats.Dot(rh, v)
		if den == 0 {
			return chk.Err("bicgstab: breakdown (r̂·v = 0) at iteration %d", it)
		}
		α = ρnew / den

		// s = r - α v
		floats.AddScaledTo(s, r, -α, v)
		if floats.Norm(s, 2) <= tol {
			floats.AddScaled(x, α, p)
			return nil
		}
		sys.MatVec(t, s)
		tt := floats.Dot(t, t)
		if tt == 0 {
			return chk.Err("bicgstab: breakdown (t·t = 0) at iteration %d", it)
		}
		ω = floats.Dot(t, s) / tt

		// x += α p + ω s;  r = s - ω t
		floats.AddScaled(x, α, p)
		floats.AddScaled(x, ω, s)
		floats.AddScaledTo(r, s, -ω, t)
		if floats.Norm(r, 2) <= tol {
			return nil
		}
		if ω == 0 {
			return chk.Err("bicgstab: breakdown (ω = 0) at iteration %d", it)
		}
		ρ = ρnew
	}
	return chk.Err("bicgstab: did not converge after %d iterations", maxit)
}
