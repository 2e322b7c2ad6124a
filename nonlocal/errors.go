// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlocal

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

// ErrInvariant is matched by every invariant violation of the update
var ErrInvariant = errors.New("nonlocal: invariant violated")

// ErrSolve is matched when no solver strategy could solve the fluidity system
var ErrSolve = errors.New("nonlocal: cannot solve the fluidity system")

// InvariantError reports a violated numerical invariant
type InvariantError struct {
	What    string  // quantity that failed
	Index   int     // particle or dof index; -1 if not applicable
	Value   float64 // offending value
	Err     error   // cause, if any
	DumpErr error   // set when the diagnostics dump failed
	dumped  bool
}

func (o *InvariantError) Error() string {
	msg := io.Sf("nonlocal: invariant violated: %s at %d (value = %g)", o.What, o.Index, o.Value)
	if o.Err != nil {
		msg += ": " + o.Err.Error()
	}
	if o.DumpErr != nil {
		msg += "; dump failed: " + o.DumpErr.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrInvariant) true
func (o *InvariantError) Is(target error) bool { return target == ErrInvariant }

// Unwrap returns the cause
func (o *InvariantError) Unwrap() error { return o.Err }

// SolveError reports the failures of every attempted strategy
type SolveError struct {
	Attempts []error
	DumpErr  error
	dumped   bool
}

func (o *SolveError) Error() string {
	msg := "nonlocal: cannot solve the fluidity system"
	for _, e := range o.Attempts {
		msg += "\n  " + e.Error()
	}
	if o.DumpErr != nil {
		msg += "\n  dump failed: " + o.DumpErr.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrSolve) true
func (o *SolveError) Is(target error) bool { return target == ErrSolve }
