// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/gofrs/flock"
)

// diagnostics filenames
const (
	MatrixFile = "matrix.cs"
	LoadFile   = "load.cs"
	FieldFile  = "g_nodes.cs"
	ReasonFile = "reason.txt"
)

// Dump holds the data written on a fatal failure
type Dump struct {
	Step   int
	Reason string
	Sys    *System   // may be nil
	G      []float64 // nodal field; may be nil
}

// Sink receives diagnostics. It is only used on failure paths.
type Sink interface {
	Dump(d *Dump) error
}

// NopSink discards diagnostics
type NopSink struct{}

// Dump does nothing
func (NopSink) Dump(d *Dump) error { return nil }

// DirSink writes diagnostics as comma-separated files into Dir:
//  matrix.cs  -- dense matrix, one row per line
//  load.cs    -- load vector, one value per line
//  g_nodes.cs -- nodal field, one value per line
//  reason.txt -- step and error message; always written
type DirSink struct {
	Dir string
}

// Dump writes the files. The directory is locked while writing.
func (o *DirSink) Dump(d *Dump) (err error) {
	dir := o.Dir
	if dir == "" {
		dir = "."
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return chk.Err("cannot create diagnostics directory:\n%v", err)
	}
	lock := flock.New(filepath.Join(dir, ".diag.lock"))
	if err = lock.Lock(); err != nil {
		return chk.Err("cannot lock diagnostics directory:\n%v", err)
	}
	defer lock.Unlock()

	var br bytes.Buffer
	io.Ff(&br, "step %d\n%s\n", d.Step, d.Reason)
	if err = write(dir, ReasonFile, &br); err != nil {
		return
	}
	if d.Sys != nil {
		var bm bytes.Buffer
		for _, row := range d.Sys.Dense() {
			for j, v := range row {
				if j > 0 {
					io.Ff(&bm, ",")
				}
				io.Ff(&bm, "%.17g", v)
			}
			io.Ff(&bm, "\n")
		}
		if err = write(dir, MatrixFile, &bm); err != nil {
			return
		}
		if err = write(dir, LoadFile, column(d.Sys.F)); err != nil {
			return
		}
	}
	if d.G != nil {
		err = write(dir, FieldFile, column(d.G))
	}
	return
}

func column(x []float64) *bytes.Buffer {
	var b bytes.Buffer
	for _, v := range x {
		io.Ff(&b, "%.17g\n", v)
	}
	return &b
}

func write(dir, fn string, b *bytes.Buffer) error {
	if err := os.WriteFile(filepath.Join(dir, fn), b.Bytes(), 0644); err != nil {
		return chk.Err("cannot write %s:\n%v", fn, err)
	}
	return nil
}
