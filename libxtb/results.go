package libxtb

import (
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

// Results holds the output of one single point. Every getter is followed by
// a status check, since the extraction calls cannot fail on their own.
type Results struct {
	env    *Environment
	res    Handle
	natoms int
}

func newResults(env *Environment, natoms int) *Results {
	r := &Results{env: env, res: env.api.NewResults(), natoms: natoms}
	runtime.SetFinalizer(r, (*Results).Close)
	return r
}

// Len returns the number of atoms the results were computed for.
func (r *Results) Len() int {
	return r.natoms
}

func (r *Results) usable(op string) error {
	if r.Closed() || r.env.Closed() {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	return nil
}

// Energy returns the total energy in Hartree.
func (r *Results) Energy() (float64, error) {
	const op = "get energy"
	if err := r.usable(op); err != nil {
		return math.NaN(), err
	}
	energy := math.NaN()
	r.env.api.GetEnergy(r.env.env, r.res, &energy)
	if err := r.env.check(op); err != nil {
		return math.NaN(), err
	}
	return energy, nil
}

// Dipole returns the dipole moment in e Bohr.
func (r *Results) Dipole() ([3]float64, error) {
	const op = "get dipole"
	dipole := [3]float64{math.NaN(), math.NaN(), math.NaN()}
	if err := r.usable(op); err != nil {
		return dipole, err
	}
	r.env.api.GetDipole(r.env.env, r.res, dipole[:])
	return dipole, r.env.check(op)
}

// Gradient writes the nuclear gradient in Hartree/Bohr into gradient, which
// must hold exactly 3 values per atom.
func (r *Results) Gradient(gradient []float64) error {
	const op = "get gradient"
	if err := r.usable(op); err != nil {
		return err
	}
	if len(gradient) != 3*r.natoms {
		return configErrorf(op, "gradient buffer holds %d values, want %d",
			len(gradient), 3*r.natoms)
	}
	r.env.api.GetGradient(r.env.env, r.res, gradient)
	return r.env.check(op)
}

// Virial returns the 3x3 virial in Hartree, row by row.
func (r *Results) Virial() ([9]float64, error) {
	const op = "get virial"
	var virial [9]float64
	if err := r.usable(op); err != nil {
		return virial, err
	}
	r.env.api.GetVirial(r.env.env, r.res, virial[:])
	return virial, r.env.check(op)
}

// Charges returns the partial charge of each atom in e.
func (r *Results) Charges() ([]float64, error) {
	const op = "get charges"
	if err := r.usable(op); err != nil {
		return nil, err
	}
	charges := make([]float64, r.natoms)
	r.env.api.GetCharges(r.env.env, r.res, charges)
	if err := r.env.check(op); err != nil {
		return nil, err
	}
	return charges, nil
}

// BondOrders returns the Wiberg bond order matrix.
func (r *Results) BondOrders() (*mat.SymDense, error) {
	const op = "get bond orders"
	if err := r.usable(op); err != nil {
		return nil, err
	}
	wbo := make([]float64, r.natoms*r.natoms)
	r.env.api.GetBondOrders(r.env.env, r.res, wbo)
	if err := r.env.check(op); err != nil {
		return nil, err
	}
	return mat.NewSymDense(r.natoms, wbo), nil
}

// OrbitalCount returns the number of atomic orbitals in the basis. GFN-FF
// has none and the engine reports an error.
func (r *Results) OrbitalCount() (int, error) {
	const op = "get orbital count"
	if err := r.usable(op); err != nil {
		return 0, err
	}
	var nao int
	r.env.api.GetNao(r.env.env, r.res, &nao)
	if err := r.env.check(op); err != nil {
		return 0, err
	}
	if nao < 0 {
		return 0, &EngineError{Op: op, Message: fmt.Sprintf("negative orbital count %d", nao)}
	}
	return nao, nil
}

func (r *Results) orbitalVector(op string, get func(env, res Handle, out []float64)) ([]float64, error) {
	nao, err := r.OrbitalCount()
	if err != nil {
		return nil, err
	}
	out := make([]float64, nao)
	if nao == 0 {
		return out, nil
	}
	get(r.env.env, r.res, out)
	if err := r.env.check(op); err != nil {
		return nil, err
	}
	return out, nil
}

// OrbitalEigenvalues returns the orbital energies in Hartree.
func (r *Results) OrbitalEigenvalues() ([]float64, error) {
	return r.orbitalVector("get orbital eigenvalues", r.env.api.GetOrbitalEigenvalues)
}

// OrbitalOccupations returns the fractional occupation of each orbital.
func (r *Results) OrbitalOccupations() ([]float64, error) {
	return r.orbitalVector("get orbital occupations", r.env.api.GetOrbitalOccupations)
}

// OrbitalCoefficients returns the nao x nao orbital coefficient matrix.
func (r *Results) OrbitalCoefficients() (*mat.Dense, error) {
	const op = "get orbital coefficients"
	nao, err := r.OrbitalCount()
	if err != nil {
		return nil, err
	}
	if nao == 0 {
		return &mat.Dense{}, nil
	}
	coeffs := make([]float64, nao*nao)
	r.env.api.GetOrbitalCoefficients(r.env.env, r.res, coeffs)
	if err := r.env.check(op); err != nil {
		return nil, err
	}
	return mat.NewDense(nao, nao, coeffs), nil
}

// Closed reports whether the handle has been released.
func (r *Results) Closed() bool {
	return r.res == nil
}

// Close releases the results. Closing twice is a no-op.
func (r *Results) Close() {
	if r.res == nil {
		return
	}
	r.env.api.DelResults(&r.res)
	if r.res != nil {
		panic("libxtb: results handle survived release")
	}
	runtime.SetFinalizer(r, nil)
}
