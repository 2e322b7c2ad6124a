// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/tomerwei/mpm-2d/shp"
)

// Body holds the material points and the grid they live on
type Body struct {
	Grid      *Grid
	Particles []Particle
}

// Check checks mass and volume of active particles
func (o *Body) Check() error {
	for i := range o.Particles {
		p := &o.Particles[i]
		if !p.Active {
			continue
		}
		if !(p.M > 0) || !(p.V > 0) || math.IsInf(p.M, 0) || math.IsInf(p.V, 0) {
			return chk.Err("particle %d has invalid mass or volume. m=%g v=%g", i, p.M, p.V)
		}
	}
	return nil
}

// Locate finds the element of each active particle and evaluates the shape
// functions and their gradients at the particle
func (o *Body) Locate() (err error) {
	shape := shp.Get("qua4")
	r := make([]float64, 2)
	for i := range o.Particles {
		p := &o.Particles[i]
		p.Elem = -1
		if !p.Active {
			continue
		}
		e := o.Grid.ElementAt(p.X, p.Y)
		if e < 0 {
			continue
		}
		X := o.Grid.ElemCoords(e)
		r[0] = 2.0*(p.X-X[0][0])/o.Grid.H - 1.0
		r[1] = 2.0*(p.Y-X[1][0])/o.Grid.H - 1.0
		for k := range r {
			r[k] = math.Max(-1, math.Min(1, r[k]))
		}
		if err = shape.CalcAtR(X, r, true); err != nil {
			return chk.Err("cannot compute shape functions of particle %d:\n%v", i, err)
		}
		p.Elem = e
		for m := 0; m < 4; m++ {
			p.S[m] = shape.S[m]
			p.B[m][0] = shape.G[m][0]
			p.B[m][1] = shape.G[m][1]
		}
	}
	return
}
