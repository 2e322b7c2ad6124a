// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape structures/routines
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// constants
const (
	MINDET     = 1.0e-14 // minimum determinant allowed for dxdR
	INVMAP_TOL = 1.0e-10 // tolerance for inverse mapping function
	INVMAP_NIT = 25      // maximum number of iterations for inverse mapping
)

// ShpFunc is the shape functions callback function
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds geometry data of 2D cells
type Shape struct {

	// geometry
	Type      string      // name; e.g. "qua4"
	Func      ShpFunc     // shape/derivs function callback function
	Gndim     int         // geometry of shape
	Nverts    int         // number of vertices in cell
	NatCoords [][]float64 // natural coordinates [gndim][nverts]

	// scratchpad
	S    []float64   // [nverts] shape functions
	G    [][]float64 // [nverts][gndim] G == dSdx. derivative of shape function
	J    float64     // Jacobian: determinant of dxdr
	DSdR [][]float64 // [nverts][gndim] derivatives of S w.r.t natural coordinates
	DxdR [][]float64 // [gndim][gndim] derivatives of real coordinates w.r.t natural coordinates
	DRdx [][]float64 // [gndim][gndim] dRdx == inverse(dxdR)
}

// factory holds all Shapes available
var factory = make(map[string]*Shape)

// Get returns a new Shape structure; nil if geoType is not available.
// Each caller gets its own scratchpad and may use it concurrently with
// other callers.
func Get(geoType string) *Shape {
	s, ok := factory[geoType]
	if !ok {
		return nil
	}
	o := &Shape{
		Type:      s.Type,
		Func:      s.Func,
		Gndim:     s.Gndim,
		Nverts:    s.Nverts,
		NatCoords: s.NatCoords,
	}
	o.init_scratchpad()
	return o
}

// CalcAtR calculates volume data such as S and G at natural coordinate r
//  Input:
//   x[ndim][nverts] -- coordinates matrix of element
//   r[2]            -- local/natural coordinates
//  Output:
//   S, DSdR, DxdR, DRdx, G, and J
func (o *Shape) CalcAtR(x [][]float64, r []float64, derivs bool) (err error) {

	// S and dSdR
	o.Func(o.S, o.DSdR, r, derivs)
	if !derivs {
		return
	}

	// dxdR := sum_n x * dSdR   =>  dx_i/dR_j := sum_n x^n_i * dS^n/dR_j
	for i := 0; i < o.Gndim; i++ {
		for j := 0; j < o.Gndim; j++ {
			o.DxdR[i][j] = 0.0
			for n := 0; n < o.Nverts; n++ {
				o.DxdR[i][j] += x[i][n] * o.DSdR[n][j]
			}
		}
	}

	// dRdx := inv(dxdR)
	if err = o.invert(); err != nil {
		return
	}

	// G == dSdx := dSdR * dRdx  =>  dS^m/dx_j := sum_i dS^m/dR_i * dR_i/dx_j
	for m := 0; m < o.Nverts; m++ {
		for j := 0; j < o.Gndim; j++ {
			o.G[m][j] = 0.0
			for i := 0; i < o.Gndim; i++ {
				o.G[m][j] += o.DSdR[m][i] * o.DRdx[i][j]
			}
		}
	}
	return
}

// InvMap computes the natural coordinates r, given the real coordinate y
//  Input:
//   y[ndim]         -- are the 2D point coordinates
//   x[ndim][nverts] -- coordinates matrix of element
//  Output:
//   r[2] -- are the natural coordinates of given point
func (o *Shape) InvMap(r, y []float64, x [][]float64) (err error) {
	var δRnorm float64
	e := make([]float64, o.Gndim)  // residual
	δr := make([]float64, o.Gndim) // corrector
	r[0], r[1] = 0, 0              // first trial
	for it := 0; it < INVMAP_NIT; it++ {

		// shape functions and derivatives
		o.Func(o.S, o.DSdR, r, true)

		// residual: e = y - x * S
		for i := 0; i < o.Gndim; i++ {
			e[i] = y[i]
			for j := 0; j < o.Nverts; j++ {
				e[i] -= x[i][j] * o.S[j]
			}
		}

		// Jmat == dxdR = x * dSdR;
		for i := 0; i < o.Gndim; i++ {
			for j := 0; j < o.Gndim; j++ {
				o.DxdR[i][j] = 0.0
				for k := 0; k < o.Nverts; k++ {
					o.DxdR[i][j] += x[i][k] * o.DSdR[k][j]
				}
			}
		}
		if err = o.invert(); err != nil {
			return
		}

		// corrector: dR = Jimat * e
		δRnorm = 0.0
		for i := 0; i < o.Gndim; i++ {
			δr[i] = 0.0
			for j := 0; j < o.Gndim; j++ {
				δr[i] += o.DRdx[i][j] * e[j]
			}
			r[i] += δr[i]
			δRnorm += δr[i] * δr[i]
		}
		if math.Sqrt(δRnorm) < INVMAP_TOL {
			return
		}
	}
	return chk.Err("inverse mapping did not converge after %d iterations", INVMAP_NIT)
}

// invert computes DRdx and J from DxdR (2x2)
func (o *Shape) invert() error {
	a, b := o.DxdR[0][0], o.DxdR[0][1]
	c, d := o.DxdR[1][0], o.DxdR[1][1]
	o.J = a*d - b*c
	if math.Abs(o.J) < MINDET {
		return chk.Err("inverse of dxdR failed: determinant %g is too small", o.J)
	}
	o.DRdx[0][0], o.DRdx[0][1] = d/o.J, -b/o.J
	o.DRdx[1][0], o.DRdx[1][1] = -c/o.J, a/o.J
	return nil
}

func (o *Shape) init_scratchpad() {
	o.S = make([]float64, o.Nverts)
	o.G = utl.Alloc(o.Nverts, o.Gndim)
	o.DSdR = utl.Alloc(o.Nverts, o.Gndim)
	o.DxdR = utl.Alloc(o.Gndim, o.Gndim)
	o.DRdx = utl.Alloc(o.Gndim, o.Gndim)
}
