package libxtb

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// minLatticeVolume is the smallest |det| accepted for a lattice basis, in
// cubic Bohr.
const minLatticeVolume = 1e-12

// Lattice is a periodic boundary condition: three basis vectors stored row
// by row, in Bohr, and one periodicity flag per vector.
type Lattice struct {
	Vectors  [9]float64
	Periodic [3]bool
}

// NewLattice returns a lattice periodic along all three vectors.
func NewLattice(vectors [9]float64) *Lattice {
	return &Lattice{Vectors: vectors, Periodic: [3]bool{true, true, true}}
}

// Matrix returns the basis as a 3x3 matrix with one vector per row.
func (l *Lattice) Matrix() *mat.Dense {
	v := l.Vectors
	return mat.NewDense(3, 3, v[:])
}

// Volume is the signed cell volume det(L).
func (l *Lattice) Volume() float64 {
	return mat.Det(l.Matrix())
}

// Validate reports whether the lattice can describe a periodic system: the
// basis must span space and at least one direction must be periodic.
func (l *Lattice) Validate() error {
	if l == nil {
		return nil
	}
	for _, x := range l.Vectors {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return configErrorf("lattice", "non-finite lattice component")
		}
	}
	if math.Abs(l.Volume()) < minLatticeVolume {
		return configErrorf("lattice", "lattice vectors are linearly dependent")
	}
	if l.Periodic == [3]bool{} {
		return configErrorf("lattice", "lattice given without any periodic direction")
	}
	return nil
}

func (l *Lattice) vectors() []float64 {
	if l == nil {
		return nil
	}
	v := l.Vectors
	return v[:]
}

func (l *Lattice) flags() []bool {
	if l == nil {
		return nil
	}
	p := l.Periodic
	return p[:]
}
