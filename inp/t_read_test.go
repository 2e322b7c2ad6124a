// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
	"github.com/tomerwei/mpm-2d/mdl/granular"
)

func Test_mat01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat01")

	mdb, err := ReadMat("data", "glass.mat")
	require.NoError(tst, err)
	require.Len(tst, mdb.Materials, 3)
	if chk.Verbose {
		io.Pforan("%v\n", mdb)
	}

	ngf := mdb.Get("glass-beads")
	require.NotNil(tst, ngf)
	require.True(tst, ngf.Gran.Nonlocal())
	require.NotNil(tst, ngf.Xi)
	chk.Float64(tst, "μ2", 1e-15, ngf.Gran.Prms().Mu2, 0.6435)
	chk.Float64(tst, "G", 1e-9, ngf.Gran.Prms().G, 1e6/2.6)

	loc := mdb.Get("glass-local")
	require.NotNil(tst, loc)
	require.False(tst, loc.Gran.Nonlocal())
	require.Nil(tst, loc.Xi)

	cou := mdb.Get("sand-coulomb")
	require.NotNil(tst, cou)
	chk.Float64(tst, "μs", 1e-15, cou.Gran.Prms().MuS, 0.5)

	require.Nil(tst, mdb.Get("unknown"))

	// write and read back
	dir := tst.TempDir()
	require.NoError(tst, os.WriteFile(filepath.Join(dir, "copy.mat"), []byte(mdb.String()), 0644))
	mdb2, err := ReadMat(dir, "copy.mat")
	require.NoError(tst, err)
	require.Len(tst, mdb2.Materials, 3)
	for i, m := range mdb.Materials {
		require.Equal(tst, m.Name, mdb2.Materials[i].Name)
		require.Equal(tst, m.Model, mdb2.Materials[i].Model)
		require.Equal(tst, m.Coop, mdb2.Materials[i].Coop)
		require.Equal(tst, len(m.Prms), len(mdb2.Materials[i].Prms))
	}
}

func Test_mat02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat02")

	dir := tst.TempDir()
	write := func(fn, content string) {
		require.NoError(tst, os.WriteFile(filepath.Join(dir, fn), []byte(content), 0644))
	}

	// missing parameter
	write("short.mat", `{"materials":[{"name":"a","type":"granular","model":"ngf",
		"prms":[{"n":"E","v":1e6},{"n":"nu","v":0.3},{"n":"mu_s","v":0.38}]}]}`)
	_, err := ReadMat(dir, "short.mat")
	require.Error(tst, err)
	require.True(tst, errors.Is(err, granular.ErrConfig), "err = %v", err)

	// unknown model
	write("model.mat", `{"materials":[{"name":"a","type":"granular","model":"dp","prms":[]}]}`)
	_, err = ReadMat(dir, "model.mat")
	require.True(tst, errors.Is(err, granular.ErrConfig), "err = %v", err)

	// wrong type
	write("type.mat", `{"materials":[{"name":"a","type":"solid","model":"mu2","prms":[]}]}`)
	_, err = ReadMat(dir, "type.mat")
	require.True(tst, errors.Is(err, ErrMat), "err = %v", err)

	// invalid JSON
	write("json.mat", `{"materials":[`)
	_, err = ReadMat(dir, "json.mat")
	require.True(tst, errors.Is(err, ErrMat), "err = %v", err)

	// duplicated
	write("dup.mat", `{"materials":[
		{"name":"a","type":"granular","model":"coulomb","prms":[{"n":"E","v":1},{"n":"nu","v":0.3},{"n":"mu_s","v":0.5}]},
		{"name":"a","type":"granular","model":"coulomb","prms":[{"n":"E","v":1},{"n":"nu","v":0.3},{"n":"mu_s","v":0.5}]}]}`)
	_, err = ReadMat(dir, "dup.mat")
	require.True(tst, errors.Is(err, ErrMat), "err = %v", err)

	// missing file is an error, not a panic
	_, err = ReadMat(dir, "none.mat")
	require.True(tst, errors.Is(err, ErrMat), "err = %v", err)
}

func Test_scenario01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("scenario01")

	sc, err := ReadScenario("data/shear.toml")
	require.NoError(tst, err)
	require.Equal(tst, "shear", sc.Key)
	require.Equal(tst, "data", sc.Dir)
	require.Equal(tst, 6, sc.Grid.N)
	require.Equal(tst, "xy", sc.Grid.Periodic)
	require.Equal(tst, 2, sc.Particles.Ppe)
	require.Equal(tst, 5, sc.Run.Nsteps)
	require.Equal(tst, 2, sc.Solver.Workers)
	chk.Float64(tst, "exy", 1e-15, sc.Loading.Exy, 0.5)
	chk.Array(tst, "box", 1e-15, sc.Particles.Box[:], []float64{0, 0.1, 0, 0.1})

	mat, err := sc.ReadMat()
	require.NoError(tst, err)
	require.Equal(tst, "glass-beads", mat.Name)

	sc.Material = "granite"
	_, err = sc.ReadMat()
	require.True(tst, errors.Is(err, ErrScenario), "err = %v", err)
}

func Test_scenario02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("scenario02")

	_, err := ReadScenario("data/bad.toml")
	require.Error(tst, err)
	require.True(tst, errors.Is(err, ErrScenario), "err = %v", err)
	io.Pforan("%v\n", err)

	_, err = ParseScenario([]byte("matfile = "))
	require.True(tst, errors.Is(err, ErrScenario))

	// defaults
	sc, err := ParseScenario([]byte(`
matfile  = "glass.mat"
material = "glass-beads"
[grid]
n = 3
h = 0.5
[particles]
rho = 1600
[run]
dt = 1e-3
`))
	require.NoError(tst, err)
	require.Equal(tst, "direct", sc.Solver.Kind)
	require.Equal(tst, 8, sc.Solver.MaxIt)
	require.Equal(tst, 1, sc.Run.Nsteps)
	chk.Float64(tst, "tol", 1e-20, sc.Solver.Tol, 1e-5)
	chk.Array(tst, "box", 1e-15, sc.Particles.Box[:], []float64{0, 1, 0, 1})

	for _, bad := range []string{
		`matfile="a"
material="b"
[grid]
n=3
h=1
periodic="z"
[particles]
rho=1
[run]
dt=1`,
		`matfile="a"
material="b"
[grid]
n=3
h=1
[particles]
rho=1
box=[0,3,0,1]
[run]
dt=1`,
		`matfile="a"
material="b"
[grid]
n=3
h=1
[particles]
rho=1
jitter=0.6
[run]
dt=1`,
	} {
		_, err = ParseScenario([]byte(bad))
		require.True(tst, errors.Is(err, ErrScenario), "err = %v", err)
	}
}
