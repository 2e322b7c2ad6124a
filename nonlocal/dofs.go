// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

import (
	"github.com/tomerwei/mpm-2d/mpm"
)

// DofMap maps canonical node ids onto the unknowns of the fluidity system.
// Inactive nodes map to -1.
type DofMap struct {
	Map   []int // [nnodes] canonical id => dof or -1
	Ndofs int   // number of active dofs
}

// SelectDofs activates the canonical nodes supporting jammed particles.
// Dofs are numbered by ascending canonical id.
func SelectDofs(g *mpm.Grid, particles []mpm.Particle, jammed []int) (o *DofMap) {
	nn := g.NumNodes()
	o = &DofMap{Map: make([]int, nn)}
	mark := make([]bool, nn)
	for _, i := range jammed {
		for _, n := range g.Elements[particles[i].Elem].Nodes {
			mark[g.Canon(n)] = true
		}
	}
	for c := 0; c < nn; c++ {
		o.Map[c] = -1
		if mark[c] {
			o.Map[c] = o.Ndofs
			o.Ndofs++
		}
	}
	return
}

// Dofs returns the dofs of the nodes supporting particle p
func (o *DofMap) Dofs(g *mpm.Grid, p *mpm.Particle) (dofs [4]int) {
	for m, n := range g.Elements[p.Elem].Nodes {
		dofs[m] = o.Map[g.Canon(n)]
	}
	return
}
