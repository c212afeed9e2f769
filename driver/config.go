// Package driver implements the simulation driver: it constructs the
// graph, partition, PEs and network for one run, seeds the initial
// messages, runs the per-cycle loop in fixed PE order, detects
// zero-message-superstep termination, and reports per-superstep
// diagnostics (spec.md §4.8), grounded on
// original_source/sim/core/sim_main.cpp and the Config/Logger idiom of
// agneta/service/pagerank.
package driver

import (
	"io/ioutil"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/nakengelhardt/fpgagraphsim/graph"
	"github.com/nakengelhardt/fpgagraphsim/vertexprogram"
)

// Config encapsulates the settings for running one simulation.
type Config struct {
	// GraphConfig determines PE/FPGA/channel counts and the per-PE vertex
	// capacity derived from the loaded graph.
	GraphConfig graph.Config
	// Graph is the loaded CSR graph this run operates over.
	Graph *graph.Graph

	// Program is the vertex program driving every PE's gather/apply
	// sweep. Exactly one of Program or FusedProgram must be set.
	Program vertexprogram.Program
	// FusedProgram is the vertex program driving every PE's fused
	// gather+apply delivery mode. Exactly one of Program or FusedProgram
	// must be set.
	FusedProgram vertexprogram.FusedProgram
	// Seeder injects the initial messages before the first superstep.
	Seeder vertexprogram.Seeder

	// MaxSupersteps bounds the run as a safety net against algorithms
	// that never converge; zero means unbounded.
	MaxSupersteps int

	// Logger receives per-superstep diagnostics. Defaults to a discarding
	// entry.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Graph == nil {
		err = multierror.Append(err, xerrors.New("graph has not been provided"))
	}
	if cfg.Program == nil && cfg.FusedProgram == nil {
		err = multierror.Append(err, xerrors.New("exactly one of Program or FusedProgram must be set"))
	}
	if cfg.Program != nil && cfg.FusedProgram != nil {
		err = multierror.Append(err, xerrors.New("only one of Program or FusedProgram may be set"))
	}
	if cfg.Seeder == nil {
		err = multierror.Append(err, xerrors.New("seeder has not been provided"))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard, Level: logrus.PanicLevel, Formatter: &logrus.TextFormatter{}})
	}
	return err
}
