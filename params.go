package xtb

import (
	"log/slog"
	"math"

	"github.com/ntBre/go-xtb/libxtb"
)

// Parameters configures a Model. It carries no engine state, so the same
// value can seed any number of Models.
type Parameters struct {
	Charge            float64
	UnpairedElectrons int
	Verbosity         libxtb.Verbosity
	Method            libxtb.Method

	Accuracy              float64
	MaxIterations         int
	ElectronicTemperature float64 // Kelvin

	// Lattice makes the system periodic. Nil is a free cluster.
	Lattice *libxtb.Lattice

	// Engine defaults to libxtb.Native().
	Engine libxtb.Engine
	// Logger receives debug output about the handle lifecycle. Nil
	// discards it.
	Logger *slog.Logger
}

// DefaultParameters returns a neutral closed-shell GFN2-xTB setup with the
// engine's default numerical settings and no engine output.
func DefaultParameters() *Parameters {
	return &Parameters{
		Verbosity:             libxtb.Muted,
		Method:                libxtb.GFN2xTB,
		Accuracy:              1.0,
		MaxIterations:         250,
		ElectronicTemperature: 300.0,
	}
}

// SetMethod sets the method from one of its names, such as "GFN2-xTB" or
// "gfnff". It panics on an unknown name; use libxtb.ParseMethod for names
// that come from input.
func (p *Parameters) SetMethod(name string) *Parameters {
	p.Method = libxtb.MustParseMethod(name)
	return p
}

// SetLattice makes the system periodic along all three vectors.
func (p *Parameters) SetLattice(vectors [9]float64) *Parameters {
	p.Lattice = libxtb.NewLattice(vectors)
	return p
}

// Validate rejects settings the engine would only reject after the
// handles were built.
func (p *Parameters) Validate() error {
	const op = "parameters"
	switch {
	case p.UnpairedElectrons < 0:
		return &libxtb.ConfigError{Op: op, Reason: "negative number of unpaired electrons"}
	case math.IsNaN(p.Charge) || math.IsInf(p.Charge, 0):
		return &libxtb.ConfigError{Op: op, Reason: "non-finite charge"}
	case !(p.Accuracy > 0) || math.IsInf(p.Accuracy, 0):
		return &libxtb.ConfigError{Op: op, Reason: "accuracy must be positive"}
	case p.MaxIterations < 1:
		return &libxtb.ConfigError{Op: op, Reason: "need at least one SCF iteration"}
	case !(p.ElectronicTemperature > 0) || math.IsInf(p.ElectronicTemperature, 0):
		return &libxtb.ConfigError{Op: op, Reason: "electronic temperature must be positive"}
	}
	return p.Lattice.Validate()
}

func (p *Parameters) engine() libxtb.Engine {
	if p.Engine == nil {
		return libxtb.Native()
	}
	return p.Engine
}

func (p *Parameters) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
