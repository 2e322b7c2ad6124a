// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mpm holds material points and the background grid
package mpm

// Particle holds the state of one material point
type Particle struct {

	// kinematics
	X, Y   float64 // position
	Vx, Vy float64 // velocity

	// mass and volume
	M float64 // mass
	V float64 // volume

	// stress; Szz is the out-of-plane history value
	Sxx, Sxy, Syy, Szz float64

	// strain rate and spin
	Exx, Exy, Eyy float64
	Wxy           float64

	// state
	Active    bool    // takes part in the update
	Jammed    bool    // dense (jammed) in the last update
	GammaP    float64 // accumulated plastic shear
	GammaDotP float64 // plastic shear rate
	Gf        float64 // nonlocal fluidity
	GfLocal   float64 // local fluidity
	Xisq      float64 // squared cooperativity length

	// grid
	Elem int           // element containing the point; -1 if unlocated
	S    [4]float64    // shape functions of Elem's nodes at the point
	B    [4][2]float64 // gradients of shape functions
}

// Density returns the mixture density m/v
func (o *Particle) Density() float64 {
	return o.M / o.V
}

// Located tells whether the particle lies inside an element
func (o *Particle) Located() bool {
	return o.Elem >= 0
}

// InitStress sets the in-plane stress and the out-of-plane history
// σzz = ½(σxx + σyy)
func (o *Particle) InitStress(sxx, sxy, syy float64) {
	o.Sxx, o.Sxy, o.Syy = sxx, sxy, syy
	o.Szz = 0.5 * (sxx + syy)
}
