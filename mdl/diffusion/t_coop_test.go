// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffusion

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

func Test_coop01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("coop01")

	mdl, err := New("coop")
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	prms := []*dbf.P{
		&dbf.P{N: "mu_s", V: 0.4},
		&dbf.P{N: "mu_2", V: 0.6},
		&dbf.P{N: "d", V: 0.01},
		&dbf.P{N: "A", V: 0.5},
	}
	if err = mdl.Init(prms); err != nil {
		tst.Errorf("cannot initialise model: %v\n", err)
		return
	}

	p := 100.0
	xisqc := 0.15 * 0.15
	chk.Float64(tst, "p <= 0", 1e-15, mdl.Xisq(10, 0), 0)
	chk.Float64(tst, "τ = S0", 1e-15, mdl.Xisq(40, p), xisqc)
	chk.Float64(tst, "τ = S2", 1e-15, mdl.Xisq(60, p), 0)
	chk.Float64(tst, "τ > S2", 1e-15, mdl.Xisq(90, p), 0)

	// mid-range: A² d² (S2-τ) / ((μ2-μs)(τ-S0))
	chk.Float64(tst, "τ = 50", 1e-15, mdl.Xisq(50, p), 0.25*1e-4*10/(0.2*10))

	// near S0 the cap applies
	chk.Float64(tst, "τ → S0", 1e-15, mdl.Xisq(40+1e-9, p), xisqc)
}

func Test_const01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("const01")

	mdl, err := New("const")
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	if err = mdl.Init([]*dbf.P{&dbf.P{N: "xisq", V: 1}}); err != nil {
		tst.Errorf("cannot initialise model: %v\n", err)
		return
	}
	chk.Float64(tst, "ξ²", 1e-15, mdl.Xisq(1, 2), 1)
	if err = mdl.Init(nil); err == nil {
		tst.Errorf("missing xisq must fail\n")
	}
}
