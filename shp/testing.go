// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// loop over all vertices
	errS := 0.0
	r := []float64{0, 0}
	for n := 0; n < shape.Nverts; n++ {

		// natural coordinates @ vertex
		for i := 0; i < shape.Gndim; i++ {
			r[i] = shape.NatCoords[i][n]
		}

		// compute function
		shape.Func(shape.S, shape.DSdR, r, false)

		// check
		if verbose {
			io.Pf("S = %v\n", shape.S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(shape.S[m] - 1.0)
			} else {
				errS += math.Abs(shape.S[m])
			}
		}
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckDSdR checks dSdR derivatives of shape structures using central
// differences
func CheckDSdR(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {

	// analytical
	shape.Func(shape.S, shape.DSdR, r, true)
	dana := make([][]float64, shape.Nverts)
	for m := range dana {
		dana[m] = append([]float64{}, shape.DSdR[m]...)
	}

	// numerical
	h := 1e-3
	fp := make([]float64, shape.Nverts)
	fm := make([]float64, shape.Nverts)
	rr := make([]float64, shape.Gndim)
	for j := 0; j < shape.Gndim; j++ {
		copy(rr, r)
		rr[j] = r[j] + h
		shape.Func(fp, nil, rr, false)
		rr[j] = r[j] - h
		shape.Func(fm, nil, rr, false)
		for m := 0; m < shape.Nverts; m++ {
			dnum := (fp[m] - fm[m]) / (2.0 * h)
			if verbose {
				io.Pf("dS%d/dR%d: ana=%23.15e num=%23.15e\n", m, j, dana[m][j], dnum)
			}
			chk.Float64(tst, io.Sf("dS%d/dR%d", m, j), tol, dana[m][j], dnum)
		}
	}
}

// CheckDSdx checks G=dSdx derivatives of shape structures using central
// differences in real coordinates
func CheckDSdx(tst *testing.T, shape *Shape, xmat [][]float64, x []float64, tol float64, verbose bool) {

	// analytical
	r := make([]float64, 2)
	if err := shape.InvMap(r, x, xmat); err != nil {
		tst.Errorf("InvMap failed:\n%v", err)
		return
	}
	if err := shape.CalcAtR(xmat, r, true); err != nil {
		tst.Errorf("CalcAtR failed:\n%v", err)
		return
	}
	dana := make([][]float64, shape.Nverts)
	for m := range dana {
		dana[m] = append([]float64{}, shape.G[m]...)
	}

	// numerical
	h := 1e-4
	eval := func(y []float64) []float64 {
		if err := shape.InvMap(r, y, xmat); err != nil {
			chk.Panic("InvMap failed: %v", err)
		}
		shape.Func(shape.S, shape.DSdR, r, false)
		return append([]float64{}, shape.S...)
	}
	y := make([]float64, 2)
	for j := 0; j < 2; j++ {
		copy(y, x)
		y[j] = x[j] + h
		fp := eval(y)
		y[j] = x[j] - h
		fm := eval(y)
		for m := 0; m < shape.Nverts; m++ {
			dnum := (fp[m] - fm[m]) / (2.0 * h)
			if verbose {
				io.Pf("dS%d/dx%d: ana=%23.15e num=%23.15e\n", m, j, dana[m][j], dnum)
			}
			chk.Float64(tst, io.Sf("dS%d/dx%d", m, j), tol, dana[m][j], dnum)
		}
	}
}
