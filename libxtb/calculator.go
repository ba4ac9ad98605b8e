package libxtb

import (
	"fmt"
	"math"
	"runtime"
)

// CalculatorState tracks whether a Calculator can run a single point.
type CalculatorState int

const (
	// Empty calculators have no parametrization loaded.
	Empty CalculatorState = iota
	// MethodLoaded calculators can evaluate the molecule the method was
	// loaded for.
	MethodLoaded
)

func (s CalculatorState) String() string {
	if s == MethodLoaded {
		return "method loaded"
	}
	return "empty"
}

// Calculator holds a parametrization and its numerical settings.
type Calculator struct {
	env    *Environment
	calc   Handle
	state  CalculatorState
	method Method
	mol    *Molecule
}

// NewCalculator allocates a calculator with no method loaded.
func NewCalculator(env *Environment) *Calculator {
	c := &Calculator{env: env, calc: env.api.NewCalculator()}
	runtime.SetFinalizer(c, (*Calculator).Close)
	return c
}

// State returns Empty until a method has been loaded.
func (c *Calculator) State() CalculatorState {
	return c.state
}

// Method returns the loaded method. It is only meaningful once State is
// MethodLoaded.
func (c *Calculator) Method() Method {
	return c.method
}

func (c *Calculator) usable(op string, mol *Molecule) error {
	if c.Closed() || c.env.Closed() {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	if mol != nil {
		if mol.Closed() {
			return fmt.Errorf("%s: %w", op, ErrClosed)
		}
		if mol.env != c.env {
			return configErrorf(op, "molecule belongs to a different environment")
		}
	}
	return nil
}

// SetMethod loads a parametrization for mol. It has to be called again
// whenever the molecule or the method changes.
func (c *Calculator) SetMethod(mol *Molecule, m Method) error {
	op := "load " + m.String()
	if mol == nil {
		return configErrorf(op, "nil molecule")
	}
	if err := c.usable(op, mol); err != nil {
		return err
	}
	api, env := c.env.api, c.env.env
	switch m {
	case GFN0xTB:
		api.LoadGFN0xTB(env, mol.mol, c.calc)
	case GFN1xTB:
		api.LoadGFN1xTB(env, mol.mol, c.calc)
	case GFN2xTB:
		api.LoadGFN2xTB(env, mol.mol, c.calc)
	case GFNFF:
		api.LoadGFNFF(env, mol.mol, c.calc)
	default:
		return fmt.Errorf("%s: %w", op, ErrUnimplemented)
	}
	if err := c.env.check(op); err != nil {
		c.state, c.mol = Empty, nil
		return err
	}
	c.state, c.method, c.mol = MethodLoaded, m, mol
	return nil
}

// SetAccuracy scales the numerical thresholds; 1 is the engine default.
func (c *Calculator) SetAccuracy(accuracy float64) error {
	const op = "set accuracy"
	if err := c.usable(op, nil); err != nil {
		return err
	}
	if !(accuracy > 0) || math.IsInf(accuracy, 0) {
		return configErrorf(op, "accuracy must be positive, got %g", accuracy)
	}
	c.env.api.SetAccuracy(c.env.env, c.calc, accuracy)
	return c.env.check(op)
}

// SetMaxIterations bounds the number of SCF iterations.
func (c *Calculator) SetMaxIterations(n int) error {
	const op = "set max iterations"
	if err := c.usable(op, nil); err != nil {
		return err
	}
	if n < 1 {
		return configErrorf(op, "need at least one iteration, got %d", n)
	}
	c.env.api.SetMaxIter(c.env.env, c.calc, n)
	return c.env.check(op)
}

// SetElectronicTemperature sets the Fermi smearing temperature in Kelvin.
func (c *Calculator) SetElectronicTemperature(kelvin float64) error {
	const op = "set electronic temperature"
	if err := c.usable(op, nil); err != nil {
		return err
	}
	if !(kelvin > 0) || math.IsInf(kelvin, 0) {
		return configErrorf(op, "temperature must be positive, got %g K", kelvin)
	}
	c.env.api.SetElectronicTemp(c.env.env, c.calc, kelvin)
	return c.env.check(op)
}

// SinglePoint evaluates mol with the loaded method and returns fresh
// Results, which the caller must Close.
func (c *Calculator) SinglePoint(mol *Molecule) (*Results, error) {
	const op = "single point"
	if mol == nil {
		return nil, configErrorf(op, "nil molecule")
	}
	if err := c.usable(op, mol); err != nil {
		return nil, err
	}
	if c.state != MethodLoaded || c.mol != mol {
		return nil, fmt.Errorf("%s: %w", op, ErrMethodNotLoaded)
	}
	res := newResults(c.env, mol.natoms)
	c.env.api.Singlepoint(c.env.env, mol.mol, c.calc, res.res)
	if err := c.env.check(op); err != nil {
		res.Close()
		return nil, err
	}
	return res, nil
}

// Closed reports whether the handle has been released.
func (c *Calculator) Closed() bool {
	return c.calc == nil
}

// Close releases the calculator. Closing twice is a no-op.
func (c *Calculator) Close() {
	if c.calc == nil {
		return
	}
	c.env.api.DelCalculator(&c.calc)
	if c.calc != nil {
		panic("libxtb: calculator handle survived release")
	}
	c.state, c.mol = Empty, nil
	runtime.SetFinalizer(c, nil)
}
