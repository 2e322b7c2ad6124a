// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/tomerwei/mpm-2d/inp"
	"github.com/tomerwei/mpm-2d/mdl/granular"
	"github.com/tomerwei/mpm-2d/nonlocal"
)

func Test_exit01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("exit01")

	chk.Int(tst, "nil", exitCode(nil), ExitOK)
	chk.Int(tst, "other", exitCode(errors.New("disk full")), ExitError)
	chk.Int(tst, "config", exitCode(&granular.ConfigError{Model: "ngf", Msg: "bad"}), ExitConfig)
	chk.Int(tst, "scenario", exitCode(fmt.Errorf("a.toml: %w", fmt.Errorf("%w: grid.n", inp.ErrScenario))), ExitConfig)
	chk.Int(tst, "materials", exitCode(fmt.Errorf("%w: cannot read \"none.mat\"", inp.ErrMat)), ExitConfig)
	chk.Int(tst, "solve", exitCode(&nonlocal.SolveError{}), ExitSolve)
	chk.Int(tst, "invariant", exitCode(&nonlocal.InvariantError{What: "fluidity", Index: 3, Value: -1}), ExitInvalid)
}
