package libxtb

import (
	"fmt"
	"runtime"
)

// Molecule holds the atomic composition and geometry known to the engine.
// Positions are in Bohr.
type Molecule struct {
	env      *Environment
	mol      Handle
	natoms   int
	periodic bool
}

// NewMolecule creates molecular structure data. A nil lattice creates a
// free cluster. Inconsistent input is rejected before the engine is called.
func NewMolecule(env *Environment, numbers []int, positions []float64,
	charge float64, uhf int, lattice *Lattice) (*Molecule, error) {
	const op = "new molecule"
	if env.Closed() {
		return nil, fmt.Errorf("%s: %w", op, ErrClosed)
	}
	if len(numbers) == 0 {
		return nil, configErrorf(op, "no atoms")
	}
	if len(positions) != 3*len(numbers) {
		return nil, configErrorf(op, "%d coordinates for %d atoms, want %d",
			len(positions), len(numbers), 3*len(numbers))
	}
	if uhf < 0 {
		return nil, configErrorf(op, "negative number of unpaired electrons %d", uhf)
	}
	if err := lattice.Validate(); err != nil {
		return nil, err
	}

	h := env.api.NewMolecule(env.env, numbers, positions, charge, uhf,
		lattice.vectors(), lattice.flags())
	m := &Molecule{env: env, mol: h, natoms: len(numbers), periodic: lattice != nil}
	if h != nil {
		runtime.SetFinalizer(m, (*Molecule).Close)
	}
	if err := env.check(op); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// Len returns the number of atoms.
func (m *Molecule) Len() int {
	return m.natoms
}

// Periodic reports whether the molecule was created with a lattice.
func (m *Molecule) Periodic() bool {
	return m.periodic
}

// Update replaces the geometry in place and, when lattice is non-nil, the
// lattice. Asking a free cluster to take a lattice (or the reverse) is left
// to the engine, whose error is returned.
func (m *Molecule) Update(positions []float64, lattice *Lattice) error {
	const op = "update molecule"
	if m.Closed() || m.env.Closed() {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	if len(positions) != 3*m.natoms {
		return configErrorf(op, "%d coordinates for %d atoms, want %d",
			len(positions), m.natoms, 3*m.natoms)
	}
	if err := lattice.Validate(); err != nil {
		return err
	}
	m.env.api.UpdateMolecule(m.env.env, m.mol, positions, lattice.vectors())
	return m.env.check(op)
}

// Closed reports whether the handle has been released.
func (m *Molecule) Closed() bool {
	return m.mol == nil
}

// Close releases the molecule. Closing twice is a no-op.
func (m *Molecule) Close() {
	if m.mol == nil {
		return
	}
	m.env.api.DelMolecule(&m.mol)
	if m.mol != nil {
		panic("libxtb: molecule handle survived release")
	}
	runtime.SetFinalizer(m, nil)
}
