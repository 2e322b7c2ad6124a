// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/tomerwei/mpm-2d/mpm"
	"github.com/tomerwei/mpm-2d/nonlocal"
	"gonum.org/v1/gonum/stat"
)

// Stats holds averages over the active material points
type Stats struct {
	Sxx     float64 `json:"sxx"`
	Sxy     float64 `json:"sxy"`
	Syy     float64 `json:"syy"`
	Szz     float64 `json:"szz"`
	Gf      float64 `json:"gf"`
	GammaP  float64 `json:"gammap"`
	NumOpen int     `json:"nopen"`
}

// Summary records the outcome of a run
type Summary struct {
	RunID    string             `json:"runid"`    // unique id of this run
	Desc     string             `json:"desc"`     // description of scenario
	Key      string             `json:"key"`      // scenario file key
	Material string             `json:"material"` // material name
	Model    string             `json:"model"`    // granular model
	Solver   string             `json:"solver"`   // solver strategies
	Workers  int                `json:"workers"`  // number of workers
	Nparts   int                `json:"nparts"`   // number of material points
	Dt       float64            `json:"dt"`       // timestep
	Reports  []*nonlocal.Report `json:"reports"`  // one per completed step
	Steps    []Stats            `json:"steps"`    // averages after each completed step
	CPUTime  string             `json:"cputime"`  // wall time of the run
	Error    string             `json:"error"`    // error message of failed runs
}

// Record appends the report and averages of a completed step
func (o *Summary) Record(rep *nonlocal.Report, body *mpm.Body) {
	o.Reports = append(o.Reports, rep)
	o.Steps = append(o.Steps, Average(body))
}

// Average computes the averages over the active points of body
func Average(body *mpm.Body) (s Stats) {
	n := len(body.Particles)
	sxx, sxy, syy, szz := make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n)
	gf, γp := make([]float64, 0, n), make([]float64, 0, n)
	for i := range body.Particles {
		p := &body.Particles[i]
		if !p.Active {
			continue
		}
		if !p.Jammed {
			s.NumOpen++
		}
		sxx, sxy, syy, szz = append(sxx, p.Sxx), append(sxy, p.Sxy), append(syy, p.Syy), append(szz, p.Szz)
		gf, γp = append(gf, p.Gf), append(γp, p.GammaP)
	}
	if len(sxx) == 0 {
		return
	}
	s.Sxx, s.Sxy, s.Syy, s.Szz = stat.Mean(sxx, nil), stat.Mean(sxy, nil), stat.Mean(syy, nil), stat.Mean(szz, nil)
	s.Gf, s.GammaP = stat.Mean(gf, nil), stat.Mean(γp, nil)
	return
}

// Save saves summary to dirout/key_sum.json
func (o *Summary) Save(dirout, key string) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	if err = os.MkdirAll(dirout, 0777); err != nil {
		return chk.Err("cannot create output directory:\n%v", err)
	}
	if err = os.WriteFile(sumPath(dirout, key), b, 0644); err != nil {
		return chk.Err("cannot save summary:\n%v", err)
	}
	return
}

// ReadSummary reads summary back
func ReadSummary(dirout, key string) (o *Summary, err error) {
	b, err := os.ReadFile(sumPath(dirout, key))
	if err != nil {
		return nil, chk.Err("cannot read summary:\n%v", err)
	}
	o = new(Summary)
	if err = json.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot decode summary:\n%v", err)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func sumPath(dirout, key string) string {
	return filepath.Join(dirout, io.Sf("%s_sum.json", key))
}
