// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
mpm-2d runs the nonlocal granular fluidity stress update of plane strain
material points.

Usage:

	mpm-2d run <scenario.toml> [--workers n] [--verbose]
	mpm-2d drive <file.mat> <material> [--exy r] [--dt Δt] [--nsteps n]

Exit status: 0 success, 3 invalid configuration, 4 fluidity system could
not be solved, 5 invalid state found during the update, 1 other errors.
*/
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"
	"github.com/tomerwei/mpm-2d/inp"
	"github.com/tomerwei/mpm-2d/mdl/granular"
	"github.com/tomerwei/mpm-2d/nonlocal"
	"github.com/tomerwei/mpm-2d/sim"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// exit statuses
const (
	ExitOK      = 0
	ExitError   = 1
	ExitConfig  = 3
	ExitSolve   = 4
	ExitInvalid = 5
)

var (
	// global flags
	verbose bool

	// run flags
	workers int

	// drive flags
	driveExy    float64
	driveP0     float64
	driveRho    float64
	driveDt     float64
	driveNsteps int

	// logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mpm-2d",
	Short: "Nonlocal granular fluidity stress update for 2D MPM",
	Long: `mpm-2d updates the stresses of plane strain material points made of
dense granular media with the μ(I) rheology and the nonlocal granular
fluidity model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run <scenario.toml>",
	Short: "Run a scenario",
	Long: `Runs the time steps of a scenario file. The summary of the run is saved
as <dirout>/<key>_sum.json even when a step fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runScenario,
}

var driveCmd = &cobra.Command{
	Use:   "drive <file.mat> <material>",
	Short: "Run a granular model at a single material point under simple shear",
	Args:  cobra.ExactArgs(2),
	RunE:  runDriver,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show messages and debug logs")
	runCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of workers; overrides the scenario")
	driveCmd.Flags().Float64Var(&driveExy, "exy", 1, "shear strain rate")
	driveCmd.Flags().Float64Var(&driveP0, "p0", 1000, "initial pressure")
	driveCmd.Flags().Float64Var(&driveRho, "rho", 1600, "mixture density")
	driveCmd.Flags().Float64Var(&driveDt, "dt", 1e-4, "timestep")
	driveCmd.Flags().IntVar(&driveNsteps, "nsteps", 100, "number of increments")
	rootCmd.AddCommand(runCmd, driveCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if verbose {
		io.PfWhite("\nmpm-2d -- nonlocal granular fluidity\n\n")
	}
	m, err := sim.NewMain(args[0], workers, logger, verbose)
	if err != nil {
		return err
	}
	return m.Run(ctx)
}

func runDriver(cmd *cobra.Command, args []string) error {
	mdb, err := inp.ReadMat(filepath.Dir(args[0]), filepath.Base(args[0]))
	if err != nil {
		return err
	}
	mat := mdb.Get(args[1])
	if mat == nil {
		return &granular.ConfigError{Model: args[1], Msg: "material is not in " + args[0]}
	}
	drv := new(granular.Driver)
	if err = drv.Init(mat.Model, mat.Prms); err != nil {
		return err
	}
	err = drv.Run(&granular.Path{
		Rates:  []granular.Rate{{Exy: driveExy}},
		Nincs:  []int{driveNsteps},
		Δt:     driveDt,
		Rho:    driveRho,
		Stress: granular.Stress{Sxx: -driveP0, Syy: -driveP0},
	})
	if err != nil {
		return err
	}
	io.Pf("%12s %14s %14s %14s %14s %14s %6s\n", "t", "sxy", "p", "tau", "gdot", "gammap", "dense")
	for _, r := range drv.Res {
		io.Pf("%12.6g %14.6g %14.6g %14.6g %14.6g %14.6g %6v\n", r.Time, r.Stress.Sxy, r.P, r.Tau, r.GammaDot, r.GammaP, r.Dense)
	}
	return nil
}

// exitCode maps errors to exit statuses
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, granular.ErrConfig), errors.Is(err, inp.ErrScenario), errors.Is(err, inp.ErrMat):
		return ExitConfig
	case errors.Is(err, nonlocal.ErrSolve):
		return ExitSolve
	case errors.Is(err, nonlocal.ErrInvariant):
		return ExitInvalid
	}
	return ExitError
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		io.PfRed("ERROR: %v\n", err)
	}
	os.Exit(exitCode(err))
}
