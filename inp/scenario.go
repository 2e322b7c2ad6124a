// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrScenario is matched by every invalid scenario file
var ErrScenario = errors.New("invalid scenario")

// GridData holds the background grid
type GridData struct {
	N        int     `toml:"n"`        // nodes per side
	H        float64 `toml:"h"`        // node spacing
	Periodic string  `toml:"periodic"` // "", "x", "y" or "xy"
}

// ParticlesData holds the initial material points
type ParticlesData struct {
	Ppe    int        `toml:"ppe"`    // particles per element side
	Rho    float64    `toml:"rho"`    // initial mixture density
	Box    [4]float64 `toml:"box"`    // xmin, xmax, ymin, ymax of the filled region; zero means whole grid
	Jitter float64    `toml:"jitter"` // random perturbation of positions as a fraction of the spacing
	Seed   int        `toml:"seed"`   // seed of the jitter
	P0     float64    `toml:"p0"`     // initial isotropic pressure
	Sxy0   float64    `toml:"sxy0"`   // initial shear stress
}

// LoadingData holds the uniform velocity gradient
type LoadingData struct {
	Exx float64 `toml:"exx"`
	Exy float64 `toml:"exy"`
	Eyy float64 `toml:"eyy"`
	Wxy float64 `toml:"wxy"`
}

// SolverData holds the fluidity solver settings
type SolverData struct {
	Kind    string  `toml:"kind"`    // "direct", "iterative" or a single strategy
	Tol     float64 `toml:"tol"`     // fixed-point tolerance
	MaxIt   int     `toml:"maxit"`   // maximum fixed-point iterations
	Workers int     `toml:"workers"` // number of workers; 0 means GOMAXPROCS
}

// RunData holds the time stepping
type RunData struct {
	Dt     float64 `toml:"dt"`     // timestep
	Nsteps int     `toml:"nsteps"` // number of steps
	DirOut string  `toml:"dirout"` // output directory
}

// Scenario holds all data of a simulation
type Scenario struct {
	Desc      string        `toml:"desc"`     // description
	MatFile   string        `toml:"matfile"`  // materials file; relative to the scenario file
	Material  string        `toml:"material"` // name of material in MatFile
	Grid      GridData      `toml:"grid"`
	Particles ParticlesData `toml:"particles"`
	Loading   LoadingData   `toml:"loading"`
	Solver    SolverData    `toml:"solver"`
	Run       RunData       `toml:"run"`

	// derived
	Dir string `toml:"-"` // directory of the scenario file
	Key string `toml:"-"` // file name without extension
}

// ReadScenario reads and parses a scenario file
func ReadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	o, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	o.Dir = filepath.Dir(path)
	base := filepath.Base(path)
	o.Key = base[:len(base)-len(filepath.Ext(base))]
	return o, nil
}

// ParseScenario parses scenario content from bytes
func ParseScenario(data []byte) (*Scenario, error) {
	var o Scenario
	if _, err := toml.Decode(string(data), &o); err != nil {
		return nil, fmt.Errorf("%w: parsing TOML: %v", ErrScenario, err)
	}
	o.setDefaults()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// setDefaults fills unset optional fields
func (o *Scenario) setDefaults() {
	if o.Particles.Ppe == 0 {
		o.Particles.Ppe = 2
	}
	if o.Solver.Kind == "" {
		o.Solver.Kind = "direct"
	}
	if o.Solver.Tol == 0 {
		o.Solver.Tol = 1e-5
	}
	if o.Solver.MaxIt == 0 {
		o.Solver.MaxIt = 8
	}
	if o.Run.Nsteps == 0 {
		o.Run.Nsteps = 1
	}
	if o.Run.DirOut == "" {
		o.Run.DirOut = "/tmp/mpm-2d"
	}
	if o.Particles.Box == [4]float64{} {
		L := float64(o.Grid.N-1) * o.Grid.H
		o.Particles.Box = [4]float64{0, L, 0, L}
	}
}

// Validate checks that the scenario has all required fields
func (o *Scenario) Validate() error {
	if o.MatFile == "" {
		return fmt.Errorf("%w: matfile is required", ErrScenario)
	}
	if o.Material == "" {
		return fmt.Errorf("%w: material is required", ErrScenario)
	}
	if o.Grid.N < 2 {
		return fmt.Errorf("%w: grid.n must be at least 2; got %d", ErrScenario, o.Grid.N)
	}
	if !(o.Grid.H > 0) {
		return fmt.Errorf("%w: grid.h must be positive; got %g", ErrScenario, o.Grid.H)
	}
	switch o.Grid.Periodic {
	case "", "none", "x", "y", "xy":
	default:
		return fmt.Errorf("%w: grid.periodic must be one of none, x, y or xy; got %q", ErrScenario, o.Grid.Periodic)
	}
	if o.Particles.Ppe < 1 {
		return fmt.Errorf("%w: particles.ppe must be positive; got %d", ErrScenario, o.Particles.Ppe)
	}
	if !(o.Particles.Rho > 0) {
		return fmt.Errorf("%w: particles.rho must be positive; got %g", ErrScenario, o.Particles.Rho)
	}
	if o.Particles.Jitter < 0 || o.Particles.Jitter >= 0.5 {
		return fmt.Errorf("%w: particles.jitter must be in [0, 0.5); got %g", ErrScenario, o.Particles.Jitter)
	}
	b := o.Particles.Box
	L := float64(o.Grid.N-1) * o.Grid.H
	if b[0] < 0 || b[2] < 0 || b[1] > L || b[3] > L || !(b[1] > b[0]) || !(b[3] > b[2]) {
		return fmt.Errorf("%w: particles.box %v must be a non-empty region inside [0, %g]²", ErrScenario, b, L)
	}
	if !(o.Run.Dt > 0) {
		return fmt.Errorf("%w: run.dt must be positive; got %g", ErrScenario, o.Run.Dt)
	}
	if o.Run.Nsteps < 1 {
		return fmt.Errorf("%w: run.nsteps must be positive; got %d", ErrScenario, o.Run.Nsteps)
	}
	if !(o.Solver.Tol > 0) || o.Solver.MaxIt < 1 || o.Solver.Workers < 0 {
		return fmt.Errorf("%w: solver tol=%g maxit=%d workers=%d are invalid", ErrScenario, o.Solver.Tol, o.Solver.MaxIt, o.Solver.Workers)
	}
	return nil
}

// ReadMat reads the materials file and returns the selected material
func (o *Scenario) ReadMat() (*Material, error) {
	mdb, err := ReadMat(o.Dir, o.MatFile)
	if err != nil {
		return nil, err
	}
	mat := mdb.Get(o.Material)
	if mat == nil {
		return nil, fmt.Errorf("%w: material %q is not in %q", ErrScenario, o.Material, o.MatFile)
	}
	return mat, nil
}
