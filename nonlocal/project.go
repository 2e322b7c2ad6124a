// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

// Project interpolates the nodal fluidity g onto the particles. Particles
// that are not jammed get zero. Negative values are set to zero; their
// indices are returned.
func Project(st *State, g []float64) (negative []int) {
	ps := st.Body.Particles
	for i := range ps {
		ps[i].Gf = 0
	}
	if len(g) == 0 {
		return
	}
	grid := st.Body.Grid
	for _, i := range st.Jammed {
		p := &ps[i]
		dofs := st.Dofs.Dofs(grid, p)
		gp := 0.0
		for k, I := range dofs {
			gp += p.S[k] * g[I]
		}
		if gp < 0 {
			negative = append(negative, i)
			gp = 0
		}
		p.Gf = gp
	}
	return
}
