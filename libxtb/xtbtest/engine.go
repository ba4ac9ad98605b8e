// Package xtbtest provides an in-process stand-in for the xtb library.
//
// The Engine here follows the same contract as the native one: errors are
// only visible through the environment status, deallocators nil the handle
// they are given, and unsupported combinations (multipole electrostatics
// under periodic boundaries, lattice updates on free clusters) are reported
// as engine errors. Its energy is a pairwise harmonic model, which is cheap,
// deterministic and has an exact analytic gradient.
//
// Every allocation, release and call is recorded so tests can assert on
// lifecycles and call order.
package xtbtest

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/ntBre/go-xtb/libxtb"
)

// Version is the API version reported by a default Engine.
const Version = 60600

// Kind names one of the four handle types.
type Kind int

const (
	EnvironmentKind Kind = iota
	MoleculeKind
	CalculatorKind
	ResultsKind
	numKinds
)

func (k Kind) String() string {
	return [...]string{"environment", "molecule", "calculator", "results"}[k]
}

// bondLength is the equilibrium pair distance of the harmonic model, in
// Bohr.
const bondLength = 2.0

// model holds the per-method parameters of the harmonic model, so that
// switching methods changes the result.
type model struct {
	energy    float64 // Hartree
	stiffness float64 // Hartree/Bohr^2
}

var models = map[string]model{
	"GFN0xTB": {-7.5, 0.040},
	"GFN1xTB": {-8.4, 0.050},
	"GFN2xTB": {-8.3, 0.055},
	"GFNFF":   {-1.2, 0.030},
}

// Engine is a fake libxtb.Engine. The zero value is not usable; call New.
type Engine struct {
	Compiled int
	Reported int

	// KeepHandles makes deallocators record the release but leave the
	// caller's handle untouched, to exercise double-release detection.
	KeepHandles bool

	mu       sync.Mutex
	allocs   [numKinds]int
	releases [numKinds]int
	doubles  int
	calls    []string
	failures map[string]string
}

// New returns an Engine whose versions match.
func New() *Engine {
	return &Engine{Compiled: Version, Reported: Version, failures: map[string]string{}}
}

// FailOn makes the next call named call (for example "Singlepoint" or
// "GetEnergy") push msg onto the error stack instead of doing its work.
func (e *Engine) FailOn(call, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[call] = msg
}

// Calls returns the names of the engine calls made so far.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// CallCount returns how often call was made.
func (e *Engine) CallCount(call string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c == call {
			n++
		}
	}
	return n
}

// ResetCalls forgets the recorded calls.
func (e *Engine) ResetCalls() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

// Allocated returns how many handles of kind k were created.
func (e *Engine) Allocated(k Kind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.allocs[k]
}

// Released returns how many handles of kind k were released.
func (e *Engine) Released(k Kind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.releases[k]
}

// Live returns the number of handles allocated but not released.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for k := range e.allocs {
		n += e.allocs[k] - e.releases[k]
	}
	return n
}

// DoubleReleases counts releases of handles that were already released.
func (e *Engine) DoubleReleases() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doubles
}

// record logs call and reports whether an injected failure is pending for
// it.
func (e *Engine) record(call string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call)
	msg, ok := e.failures[call]
	if ok {
		delete(e.failures, call)
	}
	return msg, ok
}

func (e *Engine) alloc(k Kind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.allocs[k]++
}

func (e *Engine) release(k Kind, h *libxtb.Handle, released *bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if *released {
		e.doubles++
	}
	*released = true
	e.releases[k]++
	if !e.KeepHandles {
		*h = nil
	}
}

type environment struct {
	status    int
	messages  []string
	verbosity int
	released  bool
}

func (env *environment) fail(format string, args ...any) {
	env.status = 1
	env.messages = append(env.messages, fmt.Sprintf(format, args...))
}

type molecule struct {
	numbers   []int
	positions []float64
	charge    float64
	uhf       int
	lattice   []float64
	periodic  []bool
	released  bool
}

func (m *molecule) isPeriodic() bool {
	return len(m.lattice) == 9
}

type calculator struct {
	method   string
	mol      *molecule
	accuracy float64
	maxIter  int
	etemp    float64
	released bool
}

type results struct {
	valid    bool
	method   string
	natoms   int
	energy   float64
	gradient []float64
	dipole   [3]float64
	charges  []float64
	wbo      []float64
	virial   [9]float64
	nao      int
	emo      []float64
	focc     []float64
	coeffs   []float64
	released bool
}

func envOf(h libxtb.Handle) *environment { return (*environment)(h) }
func molOf(h libxtb.Handle) *molecule    { return (*molecule)(h) }
func calcOf(h libxtb.Handle) *calculator { return (*calculator)(h) }
func resOf(h libxtb.Handle) *results     { return (*results)(h) }

func (e *Engine) CompiledVersion() int { return e.Compiled }
func (e *Engine) APIVersion() int      { return e.Reported }

func (e *Engine) NewEnvironment() libxtb.Handle {
	e.record("NewEnvironment")
	e.alloc(EnvironmentKind)
	return libxtb.Handle(&environment{})
}

func (e *Engine) DelEnvironment(h *libxtb.Handle) {
	e.record("DelEnvironment")
	e.release(EnvironmentKind, h, &envOf(*h).released)
}

func (e *Engine) CheckEnvironment(h libxtb.Handle) int {
	e.record("CheckEnvironment")
	return envOf(h).status
}

func (e *Engine) DrainErrors(h libxtb.Handle) string {
	e.record("DrainErrors")
	env := envOf(h)
	msg := strings.Join(env.messages, "\n")
	env.status, env.messages = 0, nil
	return msg
}

func (e *Engine) SetVerbosity(h libxtb.Handle, level int) {
	env := envOf(h)
	if msg, ok := e.record("SetVerbosity"); ok {
		env.fail("%s", msg)
		return
	}
	if level < 0 || level > 2 {
		env.fail("Invalid verbosity level %d", level)
		return
	}
	env.verbosity = level
}

func (e *Engine) NewMolecule(h libxtb.Handle, numbers []int, positions []float64, charge float64,
	uhf int, lattice []float64, periodic []bool) libxtb.Handle {
	env := envOf(h)
	if msg, ok := e.record("NewMolecule"); ok {
		env.fail("%s", msg)
		return nil
	}
	if len(lattice) > 0 && len(periodic) == 0 {
		env.fail("Lattice given without periodicity")
		return nil
	}
	e.alloc(MoleculeKind)
	return libxtb.Handle(&molecule{
		numbers:   append([]int(nil), numbers...),
		positions: append([]float64(nil), positions...),
		charge:    charge,
		uhf:       uhf,
		lattice:   append([]float64(nil), lattice...),
		periodic:  append([]bool(nil), periodic...),
	})
}

func (e *Engine) DelMolecule(h *libxtb.Handle) {
	e.record("DelMolecule")
	e.release(MoleculeKind, h, &molOf(*h).released)
}

func (e *Engine) UpdateMolecule(h, mh libxtb.Handle, positions, lattice []float64) {
	env, mol := envOf(h), molOf(mh)
	if msg, ok := e.record("UpdateMolecule"); ok {
		env.fail("%s", msg)
		return
	}
	if len(lattice) > 0 && !mol.isPeriodic() {
		env.fail("Cannot update lattice of a molecule without periodicity")
		return
	}
	copy(mol.positions, positions)
	if len(lattice) > 0 {
		copy(mol.lattice, lattice)
	}
}

func (e *Engine) NewCalculator() libxtb.Handle {
	e.record("NewCalculator")
	e.alloc(CalculatorKind)
	return libxtb.Handle(&calculator{accuracy: 1, maxIter: 250, etemp: 300})
}

func (e *Engine) DelCalculator(h *libxtb.Handle) {
	e.record("DelCalculator")
	e.release(CalculatorKind, h, &calcOf(*h).released)
}

func (e *Engine) load(name string, maxZ int, h, mh, ch libxtb.Handle) {
	env, mol, calc := envOf(h), molOf(mh), calcOf(ch)
	if msg, ok := e.record("Load" + name); ok {
		env.fail("%s", msg)
		return
	}
	for _, z := range mol.numbers {
		if z < 1 || z > maxZ {
			env.fail("Element %d not parametrized in %s", z, name)
			return
		}
	}
	calc.method, calc.mol = name, mol
}

func (e *Engine) LoadGFN0xTB(h, mh, ch libxtb.Handle) { e.load("GFN0xTB", 86, h, mh, ch) }
func (e *Engine) LoadGFN1xTB(h, mh, ch libxtb.Handle) { e.load("GFN1xTB", 86, h, mh, ch) }
func (e *Engine) LoadGFN2xTB(h, mh, ch libxtb.Handle) { e.load("GFN2xTB", 86, h, mh, ch) }
func (e *Engine) LoadGFNFF(h, mh, ch libxtb.Handle)   { e.load("GFNFF", 103, h, mh, ch) }

func (e *Engine) SetAccuracy(h, ch libxtb.Handle, accuracy float64) {
	env := envOf(h)
	if msg, ok := e.record("SetAccuracy"); ok {
		env.fail("%s", msg)
		return
	}
	if accuracy < 1e-4 || accuracy > 1e3 {
		env.fail("Accuracy %g out of range", accuracy)
		return
	}
	calcOf(ch).accuracy = accuracy
}

func (e *Engine) SetMaxIter(h, ch libxtb.Handle, iterations int) {
	env := envOf(h)
	if msg, ok := e.record("SetMaxIter"); ok {
		env.fail("%s", msg)
		return
	}
	calcOf(ch).maxIter = iterations
}

func (e *Engine) SetElectronicTemp(h, ch libxtb.Handle, temperature float64) {
	env := envOf(h)
	if msg, ok := e.record("SetElectronicTemp"); ok {
		env.fail("%s", msg)
		return
	}
	calcOf(ch).etemp = temperature
}

func (e *Engine) NewResults() libxtb.Handle {
	e.record("NewResults")
	e.alloc(ResultsKind)
	return libxtb.Handle(&results{})
}

func (e *Engine) DelResults(h *libxtb.Handle) {
	e.record("DelResults")
	e.release(ResultsKind, h, &resOf(*h).released)
}

func (e *Engine) Singlepoint(h, mh, ch, rh libxtb.Handle) {
	env, mol, calc, res := envOf(h), molOf(mh), calcOf(ch), resOf(rh)
	if msg, ok := e.record("Singlepoint"); ok {
		env.fail("%s", msg)
		return
	}
	switch {
	case calc.method == "":
		env.fail("Calculator has no method loaded")
		return
	case calc.mol != mol:
		env.fail("Calculator was set up for another molecule")
		return
	case calc.method == "GFN2xTB" && mol.isPeriodic():
		env.fail("Multipoles not available with PBC")
		return
	case calc.maxIter < 2:
		env.fail("SCF not converged in %d iterations", calc.maxIter)
		return
	}
	evaluate(mol, calc, res)
}

// evaluate fills res from the harmonic pair model
//
//	E = E0 + k/2 sum_{i<j} (r_ij - r0)^2
func evaluate(mol *molecule, calc *calculator, res *results) {
	n := len(mol.numbers)
	x := mol.positions
	p := models[calc.method]
	k := p.stiffness
	res.valid, res.method, res.natoms = true, calc.method, n
	res.energy = p.energy
	res.gradient = make([]float64, 3*n)
	res.wbo = make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var d [3]float64
			r := 0.0
			for c := 0; c < 3; c++ {
				d[c] = x[3*i+c] - x[3*j+c]
				r += d[c] * d[c]
			}
			r = math.Sqrt(r)
			if r == 0 {
				continue
			}
			dr := r - bondLength
			res.energy += 0.5 * k * dr * dr
			for c := 0; c < 3; c++ {
				g := k * dr * d[c] / r
				res.gradient[3*i+c] += g
				res.gradient[3*j+c] -= g
			}
			bo := math.Exp(-dr * dr)
			res.wbo[i*n+j], res.wbo[j*n+i] = bo, bo
		}
	}

	zsum := 0
	for _, z := range mol.numbers {
		zsum += z
	}
	mean := float64(zsum) / float64(n)
	res.charges = make([]float64, n)
	res.dipole = [3]float64{}
	for i, z := range mol.numbers {
		q := mol.charge/float64(n) + 0.01*(float64(z)-mean)
		res.charges[i] = q
		for c := 0; c < 3; c++ {
			res.dipole[c] += q * x[3*i+c]
		}
	}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			v := 0.0
			for i := 0; i < n; i++ {
				v -= x[3*i+a] * res.gradient[3*i+b]
			}
			res.virial[3*a+b] = v
		}
	}

	if calc.method == "GFNFF" {
		res.nao = 0
		return
	}
	nao := 0
	for _, z := range mol.numbers {
		if z <= 2 {
			nao++
		} else {
			nao += 4
		}
	}
	res.nao = nao
	res.emo = make([]float64, nao)
	res.focc = make([]float64, nao)
	res.coeffs = make([]float64, nao*nao)
	electrons := float64(zsum) - mol.charge
	for i := 0; i < nao; i++ {
		res.emo[i] = -0.7 + 0.9*float64(i)/float64(nao)
		occ := math.Min(2, math.Max(0, electrons))
		res.focc[i] = occ
		electrons -= occ
		res.coeffs[i*nao+i] = 1
	}
}

func (e *Engine) getter(call string, h, rh libxtb.Handle) (*environment, *results, bool) {
	env, res := envOf(h), resOf(rh)
	if msg, ok := e.record(call); ok {
		env.fail("%s", msg)
		return env, res, false
	}
	if !res.valid {
		env.fail("Results are empty")
		return env, res, false
	}
	return env, res, true
}

func (e *Engine) GetEnergy(h, rh libxtb.Handle, energy *float64) {
	if _, res, ok := e.getter("GetEnergy", h, rh); ok {
		*energy = res.energy
	}
}

func (e *Engine) GetDipole(h, rh libxtb.Handle, dipole []float64) {
	if _, res, ok := e.getter("GetDipole", h, rh); ok {
		copy(dipole, res.dipole[:])
	}
}

func (e *Engine) GetGradient(h, rh libxtb.Handle, gradient []float64) {
	if _, res, ok := e.getter("GetGradient", h, rh); ok {
		copy(gradient, res.gradient)
	}
}

func (e *Engine) GetVirial(h, rh libxtb.Handle, virial []float64) {
	if _, res, ok := e.getter("GetVirial", h, rh); ok {
		copy(virial, res.virial[:])
	}
}

func (e *Engine) GetCharges(h, rh libxtb.Handle, charges []float64) {
	if _, res, ok := e.getter("GetCharges", h, rh); ok {
		copy(charges, res.charges)
	}
}

func (e *Engine) GetBondOrders(h, rh libxtb.Handle, wbo []float64) {
	if _, res, ok := e.getter("GetBondOrders", h, rh); ok {
		copy(wbo, res.wbo)
	}
}

func (e *Engine) GetNao(h, rh libxtb.Handle, nao *int) {
	env, res, ok := e.getter("GetNao", h, rh)
	if !ok {
		return
	}
	if res.method == "GFNFF" {
		env.fail("Force field results carry no wavefunction")
		return
	}
	*nao = res.nao
}

func (e *Engine) GetOrbitalEigenvalues(h, rh libxtb.Handle, emo []float64) {
	if _, res, ok := e.getter("GetOrbitalEigenvalues", h, rh); ok {
		copy(emo, res.emo)
	}
}

func (e *Engine) GetOrbitalOccupations(h, rh libxtb.Handle, focc []float64) {
	if _, res, ok := e.getter("GetOrbitalOccupations", h, rh); ok {
		copy(focc, res.focc)
	}
}

func (e *Engine) GetOrbitalCoefficients(h, rh libxtb.Handle, coeffs []float64) {
	if _, res, ok := e.getter("GetOrbitalCoefficients", h, rh); ok {
		copy(coeffs, res.coeffs)
	}
}

var _ libxtb.Engine = (*Engine)(nil)
