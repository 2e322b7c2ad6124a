// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Lstsq solves the system in the least-squares sense with a dense SVD. On
// rank-deficient systems the minimum-norm solution is returned.
type Lstsq struct {
	Rcond float64 // singular values below Rcond·σmax are discarded
}

func init() {
	allocators["lstsq"] = func() Solver { return &Lstsq{Rcond: 1e-12} }
}

// Name returns "lstsq"
func (o *Lstsq) Name() string { return "lstsq" }

// Solve solves the system
func (o *Lstsq) Solve(x []float64, sys *System) error {
	n := sys.N
	if n == 0 {
		return nil
	}
	K := sys.Dense()
	A := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		A.SetRow(i, K[i])
	}
	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return chk.Err("lstsq: SVD factorisation failed")
	}
	rank := svd.Rank(o.Rcond)
	if rank == 0 {
		return chk.Err("lstsq: matrix has rank zero")
	}
	b := mat.NewVecDense(n, append([]float64{}, sys.F...))
	sol := mat.NewVecDense(n, nil)
	svd.SolveVecTo(sol, b, rank)
	for i := 0; i < n; i++ {
		x[i] = sol.AtVec(i)
	}
	return nil
}
