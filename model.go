package xtb

import (
	"fmt"
	"log/slog"

	"github.com/ntBre/go-xtb/libxtb"
)

// Model evaluates one molecular system repeatedly. It owns a full handle
// chain (environment, molecule and calculator) and reuses it for every
// evaluation; results are released as soon as the energy, gradient and
// dipole are extracted.
//
// A Model must not be used from more than one goroutine at a time. For
// parallel work, build one Model per goroutine.
type Model struct {
	params    Parameters
	numbers   []int
	positions []float64
	lattice   *libxtb.Lattice

	env  *libxtb.Environment
	mol  *libxtb.Molecule
	calc *libxtb.Calculator

	dipole    [3]float64
	hasDipole bool
	log       *slog.Logger
}

// New builds a Model for the atoms in numbers at coords, three Cartesian
// components per atom in Bohr. Nil params selects DefaultParameters. The
// input is checked before anything is allocated in the engine, and a
// failure part way through construction releases what was already built.
func New(numbers []int, coords []float64, params *Parameters) (*Model, error) {
	if params == nil {
		params = DefaultParameters()
	}
	if len(numbers) == 0 {
		return nil, &libxtb.ConfigError{Op: "new model", Reason: "no atoms"}
	}
	if len(coords) != 3*len(numbers) {
		return nil, &libxtb.ConfigError{Op: "new model",
			Reason: fmt.Sprintf("%d coordinates for %d atoms, want %d",
				len(coords), len(numbers), 3*len(numbers))}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		params:    *params,
		numbers:   append([]int(nil), numbers...),
		positions: append([]float64(nil), coords...),
		log:       params.logger(),
	}
	if params.Lattice != nil {
		l := *params.Lattice
		m.lattice = &l
		m.params.Lattice = &l
	}
	if err := m.build(); err != nil {
		m.Close()
		return nil, err
	}
	m.log.Debug("created model",
		slog.Int("atoms", len(numbers)),
		slog.String("method", m.params.Method.String()),
		slog.Bool("periodic", m.lattice != nil))
	return m, nil
}

func (m *Model) build() error {
	p := &m.params
	m.env = libxtb.NewEnvironment(p.engine())
	if err := m.env.SetVerbosity(p.Verbosity); err != nil {
		return err
	}
	mol, err := libxtb.NewMolecule(m.env, m.numbers, m.positions,
		p.Charge, p.UnpairedElectrons, m.lattice)
	if err != nil {
		return err
	}
	m.mol = mol
	m.calc = libxtb.NewCalculator(m.env)
	return m.calc.SetMethod(m.mol, p.Method)
}

// Len returns the number of atoms.
func (m *Model) Len() int {
	return len(m.numbers)
}

// Parameters returns a copy of the parameters the Model evaluates with.
func (m *Model) Parameters() Parameters {
	p := m.params
	if m.lattice != nil {
		l := *m.lattice
		p.Lattice = &l
	}
	return p
}

// SetMethod switches the method used from the next evaluation on.
func (m *Model) SetMethod(method libxtb.Method) {
	m.params.Method = method
}

// Positions returns a copy of the current geometry.
func (m *Model) Positions() []float64 {
	return append([]float64(nil), m.positions...)
}

// UpdateStructure replaces the geometry used by the next evaluation. A
// non-nil lattice replaces the cell of a periodic Model; it must keep the
// periodicity flags the Model was built with. Turning a free cluster into a
// periodic system is not supported.
func (m *Model) UpdateStructure(positions []float64, lattice *libxtb.Lattice) error {
	const op = "update structure"
	if m.closed() {
		return fmt.Errorf("xtb: %s: %w", op, libxtb.ErrClosed)
	}
	if len(positions) != len(m.positions) {
		return &libxtb.ConfigError{Op: op,
			Reason: fmt.Sprintf("%d coordinates for %d atoms, want %d",
				len(positions), m.Len(), len(m.positions))}
	}
	if lattice != nil {
		if m.lattice == nil {
			return fmt.Errorf("xtb: %s: lattice for a free cluster: %w", op, libxtb.ErrUnimplemented)
		}
		if lattice.Periodic != m.lattice.Periodic {
			return fmt.Errorf("xtb: %s: change of periodicity: %w", op, libxtb.ErrUnimplemented)
		}
		if err := lattice.Validate(); err != nil {
			return err
		}
		*m.lattice = *lattice
	}
	copy(m.positions, positions)
	return nil
}

// CalculateEnergyAndGradient evaluates the current geometry, writes the
// gradient in Hartree/Bohr into gradient and returns the energy in
// Hartree. The method and numerical settings are pushed to the engine on
// every call.
func (m *Model) CalculateEnergyAndGradient(gradient []float64) (float64, error) {
	const op = "calculate"
	if m.closed() {
		return 0, fmt.Errorf("xtb: %s: %w", op, libxtb.ErrClosed)
	}
	if len(gradient) != len(m.positions) {
		return 0, &libxtb.ConfigError{Op: op,
			Reason: fmt.Sprintf("gradient buffer holds %d values, want %d",
				len(gradient), len(m.positions))}
	}

	p := &m.params
	if err := m.mol.Update(m.positions, m.lattice); err != nil {
		return 0, err
	}
	if err := m.calc.SetMethod(m.mol, p.Method); err != nil {
		return 0, err
	}
	if err := m.calc.SetAccuracy(p.Accuracy); err != nil {
		return 0, err
	}
	if err := m.calc.SetMaxIterations(p.MaxIterations); err != nil {
		return 0, err
	}
	if err := m.calc.SetElectronicTemperature(p.ElectronicTemperature); err != nil {
		return 0, err
	}

	res, err := m.calc.SinglePoint(m.mol)
	if err != nil {
		return 0, err
	}
	defer res.Close()

	energy, err := res.Energy()
	if err != nil {
		return 0, err
	}
	if err := res.Gradient(gradient); err != nil {
		return 0, err
	}
	dipole, err := res.Dipole()
	if err != nil {
		return 0, err
	}
	m.dipole, m.hasDipole = dipole, true

	m.log.Debug("evaluated model",
		slog.String("method", p.Method.String()),
		slog.Float64("energy", energy))
	return energy, nil
}

// Dipole returns the dipole moment in e Bohr from the last successful
// evaluation. The second result is false before the first one.
func (m *Model) Dipole() ([3]float64, bool) {
	return m.dipole, m.hasDipole
}

func (m *Model) closed() bool {
	return m.env == nil || m.env.Closed()
}

// Close releases the handles in reverse order of creation. Closing twice
// is a no-op.
func (m *Model) Close() {
	if m.calc != nil {
		m.calc.Close()
	}
	if m.mol != nil {
		m.mol.Close()
	}
	if m.env != nil && !m.env.Closed() {
		m.env.Close()
		m.log.Debug("closed model")
	}
}
