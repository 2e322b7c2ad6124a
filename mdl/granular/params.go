// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package granular

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// ErrConfig is matched by every configuration error of this package
var ErrConfig = errors.New("granular: invalid configuration")

// ConfigError reports a material configuration that cannot be used
type ConfigError struct {
	Model string // model name
	Msg   string // what is wrong
}

func (o *ConfigError) Error() string {
	return "granular: " + o.Model + ": " + o.Msg
}

// Is makes errors.Is(err, ErrConfig) true
func (o *ConfigError) Is(target error) bool { return target == ErrConfig }

// NamesMu2 lists the parameters of the rate-dependent models in their
// positional order
var NamesMu2 = []string{"E", "nu", "mu_s", "mu_2", "I_0", "rho_s", "rho_c", "d", "A"}

// Params holds material parameters. Once built it must not be modified;
// it is passed by pointer into each call.
type Params struct {

	// elasticity
	E  float64 // Young's modulus
	Nu float64 // Poisson's coefficient
	G  float64 // shear modulus
	K  float64 // bulk modulus
	La float64 // Lamé's λ = K - 2G/3

	// μ(I) rheology
	MuS  float64 // static friction coefficient μs
	Mu2  float64 // limiting friction coefficient μ2
	I0   float64 // reference inertial number
	RhoS float64 // grain density
	RhoC float64 // critical (jamming) mixture density
	D    float64 // grain diameter

	// nonlocal
	A float64 // nonlocal amplitude
}

// NewParams builds parameters from a list of named values.
// All of NamesMu2 are required.
func NewParams(model string, prms dbf.Params) (o *Params, err error) {
	vals := make(map[string]float64)
	for _, p := range prms {
		vals[p.N] = p.V
	}
	v := make([]float64, len(NamesMu2))
	for i, name := range NamesMu2 {
		val, ok := vals[name]
		if !ok {
			return nil, &ConfigError{model, io.Sf("parameter %q is missing", name)}
		}
		v[i] = val
	}
	return ParamsFromValues(model, v)
}

// ParamsFromValues builds parameters from positional values in the
// order of NamesMu2. Extra values are ignored.
func ParamsFromValues(model string, v []float64) (o *Params, err error) {
	if len(v) < len(NamesMu2) {
		return nil, &ConfigError{model, io.Sf("%d parameters are required but %d were given", len(NamesMu2), len(v))}
	}
	o = &Params{
		E:    v[0],
		Nu:   v[1],
		MuS:  v[2],
		Mu2:  v[3],
		I0:   v[4],
		RhoS: v[5],
		RhoC: v[6],
		D:    v[7],
		A:    v[8],
	}
	if err = o.init(model); err != nil {
		return nil, err
	}
	return
}

// elasticParams builds the parameters of models that only need elasticity
// and the static friction coefficient
func elasticParams(model string, prms dbf.Params) (o *Params, err error) {
	o = new(Params)
	var found int
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
			found++
		case "nu":
			o.Nu = p.V
			found++
		case "mu_s":
			o.MuS = p.V
			found++
		}
	}
	if found < 3 {
		return nil, &ConfigError{model, "E, nu and mu_s are required"}
	}
	if o.E <= 0 || o.Nu <= -1 || o.Nu >= 0.5 {
		return nil, &ConfigError{model, io.Sf("invalid elastic constants: E=%g nu=%g", o.E, o.Nu)}
	}
	o.G = o.E / (2.0 * (1.0 + o.Nu))
	o.K = o.E / (3.0 * (1.0 - 2.0*o.Nu))
	o.La = o.K - 2.0*o.G/3.0
	return
}

func (o *Params) init(model string) error {
	for _, v := range []float64{o.E, o.Nu, o.MuS, o.Mu2, o.I0, o.RhoS, o.RhoC, o.D, o.A} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ConfigError{model, "parameters must be finite"}
		}
	}
	if o.E <= 0 || o.Nu <= -1 || o.Nu >= 0.5 {
		return &ConfigError{model, io.Sf("invalid elastic constants: E=%g nu=%g", o.E, o.Nu)}
	}
	if o.MuS < 0 || o.Mu2 <= o.MuS {
		return &ConfigError{model, io.Sf("friction coefficients must satisfy 0 <= mu_s < mu_2. mu_s=%g mu_2=%g", o.MuS, o.Mu2)}
	}
	if o.I0 <= 0 || o.RhoS <= 0 || o.D <= 0 {
		return &ConfigError{model, io.Sf("I_0, rho_s and d must be positive. I_0=%g rho_s=%g d=%g", o.I0, o.RhoS, o.D)}
	}
	if o.A < 0 {
		return &ConfigError{model, io.Sf("A must be non-negative. A=%g", o.A)}
	}
	o.G = o.E / (2.0 * (1.0 + o.Nu))
	o.K = o.E / (3.0 * (1.0 - 2.0*o.Nu))
	o.La = o.K - 2.0*o.G/3.0
	return nil
}

// Zeta returns ζ = I0 / (d √ρs)
func (o *Params) Zeta() float64 {
	return o.I0 / (o.D * math.Sqrt(o.RhoS))
}

// GetPrms returns the parameters as a list of named values
func (o *Params) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "E", V: o.E},
		&dbf.P{N: "nu", V: o.Nu},
		&dbf.P{N: "mu_s", V: o.MuS},
		&dbf.P{N: "mu_2", V: o.Mu2},
		&dbf.P{N: "I_0", V: o.I0},
		&dbf.P{N: "rho_s", V: o.RhoS},
		&dbf.P{N: "rho_c", V: o.RhoC},
		&dbf.P{N: "d", V: o.D},
		&dbf.P{N: "A", V: o.A},
	}
}
