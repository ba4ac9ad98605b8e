package libxtb

import "unsafe"

// Handle is an opaque pointer to memory owned by the engine. A nil Handle
// marks a released (or never allocated) resource.
type Handle = unsafe.Pointer

// Engine is the call-level interface into the foreign xtb library. Apart
// from the version queries and allocators, no call reports failure through
// its return value: callers must query CheckEnvironment afterwards.
//
// The wrappers in this package are the only intended callers.
type Engine interface {
	// CompiledVersion is the API version the bindings were written against.
	CompiledVersion() int
	// APIVersion is the version reported by the linked library.
	APIVersion() int

	NewEnvironment() Handle
	DelEnvironment(env *Handle)
	CheckEnvironment(env Handle) int
	// DrainErrors returns the accumulated error messages and empties the
	// error stack.
	DrainErrors(env Handle) string
	SetVerbosity(env Handle, level int)

	NewMolecule(env Handle, numbers []int, positions []float64, charge float64,
		uhf int, lattice []float64, periodic []bool) Handle
	DelMolecule(mol *Handle)
	UpdateMolecule(env, mol Handle, positions, lattice []float64)

	NewCalculator() Handle
	DelCalculator(calc *Handle)
	LoadGFN0xTB(env, mol, calc Handle)
	LoadGFN1xTB(env, mol, calc Handle)
	LoadGFN2xTB(env, mol, calc Handle)
	LoadGFNFF(env, mol, calc Handle)
	SetAccuracy(env, calc Handle, accuracy float64)
	SetMaxIter(env, calc Handle, iterations int)
	SetElectronicTemp(env, calc Handle, temperature float64)

	NewResults() Handle
	DelResults(res *Handle)
	Singlepoint(env, mol, calc, res Handle)

	GetEnergy(env, res Handle, energy *float64)
	GetDipole(env, res Handle, dipole []float64)
	GetGradient(env, res Handle, gradient []float64)
	GetVirial(env, res Handle, virial []float64)
	GetCharges(env, res Handle, charges []float64)
	GetBondOrders(env, res Handle, wbo []float64)
	GetNao(env, res Handle, nao *int)
	GetOrbitalEigenvalues(env, res Handle, emo []float64)
	GetOrbitalOccupations(env, res Handle, focc []float64)
	GetOrbitalCoefficients(env, res Handle, coeffs []float64)
}
