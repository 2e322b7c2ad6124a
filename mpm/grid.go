// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Element holds the nodes of a grid cell ordered counter-clockwise from the
// bottom-left corner
type Element struct {
	Nodes [4]int
}

// Grid is a square background grid with N×N nodes (number = i + j·N) and
// spacing H. Nodes on periodic sides are folded onto canonical ids.
type Grid struct {
	N        int       // number of nodes per side
	H        float64   // spacing
	Periodic string    // "", "x", "y" or "xy"
	Elements []Element // (N-1)² cells
	canon    []int     // node => canonical node
}

// NewGrid allocates a new grid
func NewGrid(N int, h float64, periodic string) (o *Grid, err error) {
	if N < 2 {
		return nil, chk.Err("grid must have at least 2 nodes per side. N=%d", N)
	}
	if h <= 0 || math.IsInf(h, 0) || math.IsNaN(h) {
		return nil, chk.Err("grid spacing must be positive. h=%g", h)
	}
	var px, py bool
	switch periodic {
	case "", "none":
		periodic = ""
	case "x":
		px = true
	case "y":
		py = true
	case "xy":
		px, py = true, true
	default:
		return nil, chk.Err("periodic axis %q is invalid. options: none, x, y, xy", periodic)
	}
	o = &Grid{N: N, H: h, Periodic: periodic}

	// elements
	ne := N - 1
	o.Elements = make([]Element, ne*ne)
	for j := 0; j < ne; j++ {
		for i := 0; i < ne; i++ {
			bl := i + j*N
			o.Elements[i+j*ne].Nodes = [4]int{bl, bl + 1, bl + 1 + N, bl + N}
		}
	}

	// periodic folding: top row onto bottom row, right column onto left column
	o.canon = make([]int, N*N)
	for n := range o.canon {
		i, j := n%N, n/N
		if py && j == N-1 {
			j = 0
		}
		if px && i == N-1 {
			i = 0
		}
		o.canon[n] = i + j*N
	}
	return
}

// NumNodes returns the number of physical nodes
func (o *Grid) NumNodes() int { return o.N * o.N }

// Canon returns the canonical id of node n
func (o *Grid) Canon(n int) int { return o.canon[n] }

// Length returns the side length of the domain
func (o *Grid) Length() float64 { return float64(o.N-1) * o.H }

// NodeCoords returns the coordinates of node n
func (o *Grid) NodeCoords(n int) (x, y float64) {
	return float64(n%o.N) * o.H, float64(n/o.N) * o.H
}

// ElementAt returns the element containing (x, y) or -1 if the point lies
// outside of the grid
func (o *Grid) ElementAt(x, y float64) int {
	L := o.Length()
	if !(x >= 0 && x <= L && y >= 0 && y <= L) {
		return -1
	}
	ne := o.N - 1
	i := int(math.Floor(x / o.H))
	j := int(math.Floor(y / o.H))
	if i == ne {
		i--
	}
	if j == ne {
		j--
	}
	return i + j*ne
}

// ElemCoords returns the coordinates matrix [2][4] of element e
func (o *Grid) ElemCoords(e int) [][]float64 {
	X := [][]float64{make([]float64, 4), make([]float64, 4)}
	for m, n := range o.Elements[e].Nodes {
		X[0][m], X[1][m] = o.NodeCoords(n)
	}
	return X
}
