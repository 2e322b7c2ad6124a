// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// qua4
//
//    3-----------2
//    |     s     |
//    |     |     |
//    |     +--r  |
//    |           |
//    |           |
//    0-----------1
//
func init() {
	factory["qua4"] = &Shape{
		Type:   "qua4",
		Func:   Qua4,
		Gndim:  2,
		Nverts: 4,
		NatCoords: [][]float64{
			{-1, 1, 1, -1},
			{-1, -1, 1, 1},
		},
	}
}

// Qua4 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua4
// elements at {r,s} natural coordinates
func Qua4(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	rr, ss := r[0], r[1]
	S[0] = (1.0 - rr - ss + rr*ss) / 4.0
	S[1] = (1.0 + rr - ss - rr*ss) / 4.0
	S[2] = (1.0 + rr + ss + rr*ss) / 4.0
	S[3] = (1.0 - rr + ss - rr*ss) / 4.0
	if !derivs {
		return
	}
	dSdR[0][0] = (-1.0 + ss) / 4.0
	dSdR[0][1] = (-1.0 + rr) / 4.0
	dSdR[1][0] = (+1.0 - ss) / 4.0
	dSdR[1][1] = (-1.0 - rr) / 4.0
	dSdR[2][0] = (+1.0 + ss) / 4.0
	dSdR[2][1] = (+1.0 + rr) / 4.0
	dSdR[3][0] = (-1.0 - ss) / 4.0
	dSdR[3][1] = (+1.0 - rr) / 4.0
}
