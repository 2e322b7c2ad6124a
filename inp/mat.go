// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from (.mat) JSON files and
// (.toml) scenario files
package inp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/tomerwei/mpm-2d/mdl/diffusion"
	"github.com/tomerwei/mpm-2d/mdl/granular"
)

// ErrMat is matched by every unreadable or invalid materials file
var ErrMat = errors.New("invalid materials file")

// Material holds material data
type Material struct {

	// input
	Name  string     `json:"name"`  // name of material
	Type  string     `json:"type"`  // type of material; only "granular"
	Model string     `json:"model"` // name of model; e.g. "ngf", "mu2", "coulomb"
	Coop  string     `json:"coop"`  // name of cooperativity model; default "coop"
	Extra string     `json:"extra"` // extra information about this material
	Prms  dbf.Params `json:"prms"`  // prms holds all model parameters for this material

	// derived
	Gran granular.Model  // pointer to actual granular model
	Xi   diffusion.Model // pointer to actual cooperativity model; nil for local models
}

// MatsData holds materials
type MatsData []*Material

// MatDb implements a database of materials
type MatDb struct {
	Materials MatsData `json:"materials"` // all materials
}

// ReadMat reads all materials data from a .mat JSON file
func ReadMat(dir, fn string) (mdb *MatDb, err error) {

	// new database
	mdb = new(MatDb)

	// read file
	b, err := os.ReadFile(filepath.Join(dir, fn))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %q: %v", ErrMat, fn, err)
	}

	// decode
	err = json.Unmarshal(b, mdb)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %q: %v", ErrMat, fn, err)
	}

	// alloc/init
	names := make(map[string]bool)
	for _, m := range mdb.Materials {
		if names[m.Name] {
			return nil, fmt.Errorf("%w: material %q is defined more than once", ErrMat, m.Name)
		}
		names[m.Name] = true
		if m.Type != "granular" {
			return nil, fmt.Errorf("%w: material type %q is incorrect; the only option is \"granular\"", ErrMat, m.Type)
		}
		if err = m.init(); err != nil {
			return nil, err
		}
	}
	return
}

// init allocates and initialises the models of a material
func (o *Material) init() (err error) {
	o.Gran, err = granular.New(o.Model)
	if err != nil {
		return &granular.ConfigError{Model: o.Model, Msg: err.Error()}
	}
	if err = o.Gran.Init(o.Prms); err != nil {
		if errors.Is(err, granular.ErrConfig) {
			return err
		}
		return &granular.ConfigError{Model: o.Model, Msg: err.Error()}
	}
	if !o.Gran.Nonlocal() {
		return
	}
	if o.Coop == "" {
		o.Coop = "coop"
	}
	o.Xi, err = diffusion.New(o.Coop)
	if err != nil {
		return &granular.ConfigError{Model: o.Model, Msg: err.Error()}
	}
	if err = o.Xi.Init(o.Prms); err != nil {
		return &granular.ConfigError{Model: o.Model, Msg: err.Error()}
	}
	return
}

// Get returns a material
//  Note: returns nil if not found
func (o MatDb) Get(name string) *Material {
	for _, mat := range o.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// String prints one material
func (o *Material) String() string {
	l := io.Sf("    {\n      \"name\"  : %q,\n      \"type\"  : %q,\n      \"model\" : %q,\n      \"coop\"  : %q,\n      \"prms\"  : [\n", o.Name, o.Type, o.Model, o.Coop)
	for i, p := range o.Prms {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("        {\"n\":%q, \"v\":%g}", p.N, p.V)
	}
	return l + "\n      ]\n    }"
}

// String prints materials
func (o MatsData) String() string {
	l := "  \"materials\" : [\n"
	for i, m := range o {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("%v", m)
	}
	l += "\n  ]"
	return l
}

// String outputs all materials
func (o MatDb) String() string {
	return io.Sf("{\n%v\n}", o.Materials)
}
