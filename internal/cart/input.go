package cart

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	xtb "github.com/ntBre/go-xtb"
	"github.com/ntBre/go-xtb/libxtb"
)

// Input describes one run. Lengths are in Units, except Delta which is
// always in Bohr.
type Input struct {
	Derivative  int              `toml:"derivative"`
	Workers     int              `toml:"workers"`
	Delta       float64          `toml:"delta"`
	Method      libxtb.Method    `toml:"method"`
	Charge      float64          `toml:"charge"`
	Unpaired    int              `toml:"unpaired"`
	Accuracy    float64          `toml:"accuracy"`
	MaxIter     int              `toml:"max_iterations"`
	Temperature float64          `toml:"electronic_temperature"`
	Verbosity   libxtb.Verbosity `toml:"verbosity"`
	Units       string           `toml:"units"`
	Geometry    string           `toml:"geometry"`
	Lattice     []float64        `toml:"lattice"`
}

// DefaultInput returns the settings used for keywords an input leaves out.
func DefaultInput() Input {
	return Input{
		Workers:     1,
		Delta:       0.005,
		Method:      libxtb.GFN2xTB,
		Accuracy:    1.0,
		MaxIter:     250,
		Temperature: 300.0,
		Verbosity:   libxtb.Muted,
		Units:       "angstrom",
	}
}

// LoadInput reads filename as TOML when it has a .toml extension and as a
// keyword input file otherwise.
func LoadInput(filename string) (*Input, error) {
	in := DefaultInput()
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		md, err := toml.DecodeFile(filename, &in)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", filename, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", filename, undecoded[0].String())
		}
	} else {
		keymap, err := ParseInfileFile(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", filename, err)
		}
		if err := in.apply(keymap); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &in, nil
}

func (in *Input) apply(keymap map[Key]string) error {
	var errs []error
	parseInt := func(k Key, dst *int) {
		if v, ok := keymap[k]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%v: %w", k, err))
			}
			*dst = n
		}
	}
	parseFloat := func(k Key, dst *float64) {
		if v, ok := keymap[k]; ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%v: %w", k, err))
			}
			*dst = f
		}
	}
	parseInt(WorkersKey, &in.Workers)
	parseInt(DLevelKey, &in.Derivative)
	parseFloat(DeltaKey, &in.Delta)
	parseFloat(ChargeKey, &in.Charge)
	parseInt(SpinKey, &in.Unpaired)
	parseFloat(AccuracyKey, &in.Accuracy)
	parseInt(MaxIterKey, &in.MaxIter)
	parseFloat(TemperatureKey, &in.Temperature)
	if v, ok := keymap[MethodKey]; ok {
		if err := in.Method.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, err)
		}
	}
	if v, ok := keymap[VerbosityKey]; ok {
		if err := in.Verbosity.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, err)
		}
	}
	if v, ok := keymap[UnitsKey]; ok {
		in.Units = strings.ToLower(v)
	}
	if v, ok := keymap[GeomKey]; ok {
		in.Geometry = v
	}
	if v, ok := keymap[LatticeKey]; ok {
		l, err := ParseFloats(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%v: %w", LatticeKey, err))
		}
		in.Lattice = l
	}
	return errors.Join(errs...)
}

// Validate checks the settings that belong to the driver rather than to
// the engine.
func (in *Input) Validate() error {
	switch {
	case in.Derivative < 0 || in.Derivative > 2:
		return fmt.Errorf("derivative must be 0, 1 or 2, got %d", in.Derivative)
	case in.Workers < 1:
		return fmt.Errorf("need at least one worker, got %d", in.Workers)
	case !(in.Delta > 0):
		return fmt.Errorf("step size must be positive, got %g", in.Delta)
	case in.Units != "angstrom" && in.Units != "bohr":
		return fmt.Errorf("units must be angstrom or bohr, got %q", in.Units)
	case len(in.Lattice) != 0 && len(in.Lattice) != 9:
		return fmt.Errorf("lattice needs 9 values, got %d", len(in.Lattice))
	case strings.TrimSpace(in.Geometry) == "":
		return ErrNoAtoms
	}
	return nil
}

func (in *Input) scale() float64 {
	if in.Units == "bohr" {
		return 1
	}
	return AngstromToBohr
}

// Structure returns the atomic numbers and the coordinates in Bohr.
func (in *Input) Structure() ([]int, []float64, error) {
	g, err := ParseGeometry(in.Geometry)
	if err != nil {
		return nil, nil, err
	}
	numbers, err := g.Numbers()
	if err != nil {
		return nil, nil, err
	}
	return numbers, g.Scaled(in.scale()).Coords, nil
}

// Parameters translates the input into Model parameters. A nil engine
// selects the native library.
func (in *Input) Parameters(engine libxtb.Engine, logger *slog.Logger) *xtb.Parameters {
	p := xtb.DefaultParameters()
	p.Charge = in.Charge
	p.UnpairedElectrons = in.Unpaired
	p.Verbosity = in.Verbosity
	p.Method = in.Method
	p.Accuracy = in.Accuracy
	p.MaxIterations = in.MaxIter
	p.ElectronicTemperature = in.Temperature
	p.Engine = engine
	p.Logger = logger
	if len(in.Lattice) == 9 {
		var v [9]float64
		for i, x := range in.Lattice {
			v[i] = x * in.scale()
		}
		p.SetLattice(v)
	}
	return p
}
