package cart

import (
	xtb "github.com/ntBre/go-xtb"
	"github.com/ntBre/go-xtb/libxtb"
)

// Program evaluates energies and gradients for one molecular system.
type Program interface {
	UpdateStructure(positions []float64, lattice *libxtb.Lattice) error
	CalculateEnergyAndGradient(gradient []float64) (float64, error)
	Close()
}

// Factory builds a fresh Program. Every worker calls it once, so no
// Program is ever shared between goroutines.
type Factory func() (Program, error)

// ModelFactory returns a Factory of xtb Models over the same system. A
// library whose API version does not match the bindings is reported as a
// *libxtb.VersionError instead of a panic; any other panic propagates.
func ModelFactory(numbers []int, coords []float64, params *xtb.Parameters) Factory {
	return func() (prog Program, err error) {
		defer func() {
			if r := recover(); r != nil {
				verr, ok := r.(*libxtb.VersionError)
				if !ok {
					panic(r)
				}
				prog, err = nil, verr
			}
		}()
		m, err := xtb.New(numbers, coords, params)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

var _ Program = (*xtb.Model)(nil)
