// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

import (
	"math"

	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/floats"
)

// System holds the sparse fluidity system K g = f. Entries are accumulated
// in triplet form; duplicates are summed on compression.
type System struct {
	N  int         // number of unknowns
	Kb *la.Triplet // accumulated matrix
	F  []float64   // load vector
	km *la.CCMatrix
}

// NewSystem allocates a system with n unknowns and room for nnz entries
func NewSystem(n, nnz int) (o *System) {
	if nnz < 1 {
		nnz = 1
	}
	o = &System{N: n, Kb: new(la.Triplet), F: make([]float64, n)}
	o.Kb.Init(n, n, nnz)
	return
}

// Matrix returns the compressed matrix
func (o *System) Matrix() *la.CCMatrix {
	if o.km == nil {
		o.km = o.Kb.ToMatrix(nil)
	}
	return o.km
}

// Dense returns the matrix in dense form [n][n]
func (o *System) Dense() [][]float64 {
	d := o.Matrix().ToDense()
	K := make([][]float64, o.N)
	for i := 0; i < o.N; i++ {
		K[i] = make([]float64, o.N)
		for j := 0; j < o.N; j++ {
			K[i][j] = d.Get(i, j)
		}
	}
	return K
}

// MatVec computes v = K u
func (o *System) MatVec(v, u []float64) {
	la.SpMatVecMul(v, 1, o.Matrix(), u)
}

// RelResidual returns |K x - f| / |f|, or |K x| if f is zero
func (o *System) RelResidual(x []float64) float64 {
	r := make([]float64, o.N)
	o.MatVec(r, x)
	floats.Sub(r, o.F)
	nf := floats.Norm(o.F, 2)
	nr := floats.Norm(r, 2)
	if nf == 0 {
		return nr
	}
	return nr / nf
}

// LoadSum returns the sum of the load vector
func (o *System) LoadSum() float64 {
	return floats.Sum(o.F)
}

// finite tells whether every value is finite
func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
