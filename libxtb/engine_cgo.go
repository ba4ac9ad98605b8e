//go:build xtb && cgo

package libxtb

/*
#cgo pkg-config: xtb
#include <stdbool.h>
#include <stdlib.h>
#include "xtb.h"

// Read the message before showEnvironment empties the stack.
static void gx_drain(xtb_TEnvironment env, char* buf, int size) {
	xtb_getError(env, buf, &size);
	xtb_showEnvironment(env, NULL);
}
*/
import "C"

import "unsafe"

const errorBufferSize = 512

type cEngine struct{}

// Native returns the engine backed by the linked xtb library.
func Native() Engine {
	return cEngine{}
}

func envOf(h Handle) C.xtb_TEnvironment { return C.xtb_TEnvironment(h) }
func molOf(h Handle) C.xtb_TMolecule    { return C.xtb_TMolecule(h) }
func calcOf(h Handle) C.xtb_TCalculator { return C.xtb_TCalculator(h) }
func resOf(h Handle) C.xtb_TResults     { return C.xtb_TResults(h) }

func doubles(s []float64) *C.double {
	if len(s) == 0 {
		return nil
	}
	return (*C.double)(unsafe.Pointer(&s[0]))
}

func (cEngine) CompiledVersion() int { return int(C.XTB_API_VERSION) }
func (cEngine) APIVersion() int      { return int(C.xtb_getAPIVersion()) }

func (cEngine) NewEnvironment() Handle {
	return Handle(C.xtb_newEnvironment())
}

func (cEngine) DelEnvironment(env *Handle) {
	p := envOf(*env)
	C.xtb_delEnvironment(&p)
	*env = Handle(p)
}

func (cEngine) CheckEnvironment(env Handle) int {
	return int(C.xtb_checkEnvironment(envOf(env)))
}

func (cEngine) DrainErrors(env Handle) string {
	buf := (*C.char)(C.calloc(errorBufferSize, 1))
	defer C.free(unsafe.Pointer(buf))
	C.gx_drain(envOf(env), buf, errorBufferSize)
	return C.GoString(buf)
}

func (cEngine) SetVerbosity(env Handle, level int) {
	C.xtb_setVerbosity(envOf(env), C.int(level))
}

func (cEngine) NewMolecule(env Handle, numbers []int, positions []float64, charge float64,
	uhf int, lattice []float64, periodic []bool) Handle {
	natoms := C.int(len(numbers))
	cnumbers := make([]C.int, len(numbers))
	for i, z := range numbers {
		cnumbers[i] = C.int(z)
	}
	ccharge := C.double(charge)
	cuhf := C.int(uhf)
	var cperiodic *C.bool
	if len(periodic) > 0 {
		flags := make([]C.bool, len(periodic))
		for i, p := range periodic {
			flags[i] = C.bool(p)
		}
		cperiodic = &flags[0]
	}
	return Handle(C.xtb_newMolecule(envOf(env), &natoms, &cnumbers[0], doubles(positions),
		&ccharge, &cuhf, doubles(lattice), cperiodic))
}

func (cEngine) DelMolecule(mol *Handle) {
	p := molOf(*mol)
	C.xtb_delMolecule(&p)
	*mol = Handle(p)
}

func (cEngine) UpdateMolecule(env, mol Handle, positions, lattice []float64) {
	C.xtb_updateMolecule(envOf(env), molOf(mol), doubles(positions), doubles(lattice))
}

func (cEngine) NewCalculator() Handle {
	return Handle(C.xtb_newCalculator())
}

func (cEngine) DelCalculator(calc *Handle) {
	p := calcOf(*calc)
	C.xtb_delCalculator(&p)
	*calc = Handle(p)
}

func (cEngine) LoadGFN0xTB(env, mol, calc Handle) {
	C.xtb_loadGFN0xTB(envOf(env), molOf(mol), calcOf(calc), nil)
}

func (cEngine) LoadGFN1xTB(env, mol, calc Handle) {
	C.xtb_loadGFN1xTB(envOf(env), molOf(mol), calcOf(calc), nil)
}

func (cEngine) LoadGFN2xTB(env, mol, calc Handle) {
	C.xtb_loadGFN2xTB(envOf(env), molOf(mol), calcOf(calc), nil)
}

func (cEngine) LoadGFNFF(env, mol, calc Handle) {
	C.xtb_loadGFNFF(envOf(env), molOf(mol), calcOf(calc), nil)
}

func (cEngine) SetAccuracy(env, calc Handle, accuracy float64) {
	C.xtb_setAccuracy(envOf(env), calcOf(calc), C.double(accuracy))
}

func (cEngine) SetMaxIter(env, calc Handle, iterations int) {
	C.xtb_setMaxIter(envOf(env), calcOf(calc), C.int(iterations))
}

func (cEngine) SetElectronicTemp(env, calc Handle, temperature float64) {
	C.xtb_setElectronicTemp(envOf(env), calcOf(calc), C.double(temperature))
}

func (cEngine) NewResults() Handle {
	return Handle(C.xtb_newResults())
}

func (cEngine) DelResults(res *Handle) {
	p := resOf(*res)
	C.xtb_delResults(&p)
	*res = Handle(p)
}

func (cEngine) Singlepoint(env, mol, calc, res Handle) {
	C.xtb_singlepoint(envOf(env), molOf(mol), calcOf(calc), resOf(res))
}

func (cEngine) GetEnergy(env, res Handle, energy *float64) {
	var e C.double
	C.xtb_getEnergy(envOf(env), resOf(res), &e)
	*energy = float64(e)
}

func (cEngine) GetDipole(env, res Handle, dipole []float64) {
	C.xtb_getDipole(envOf(env), resOf(res), doubles(dipole))
}

func (cEngine) GetGradient(env, res Handle, gradient []float64) {
	C.xtb_getGradient(envOf(env), resOf(res), doubles(gradient))
}

func (cEngine) GetVirial(env, res Handle, virial []float64) {
	C.xtb_getVirial(envOf(env), resOf(res), doubles(virial))
}

func (cEngine) GetCharges(env, res Handle, charges []float64) {
	C.xtb_getCharges(envOf(env), resOf(res), doubles(charges))
}

func (cEngine) GetBondOrders(env, res Handle, wbo []float64) {
	C.xtb_getBondOrders(envOf(env), resOf(res), doubles(wbo))
}

func (cEngine) GetNao(env, res Handle, nao *int) {
	var n C.int
	C.xtb_getNao(envOf(env), resOf(res), &n)
	*nao = int(n)
}

func (cEngine) GetOrbitalEigenvalues(env, res Handle, emo []float64) {
	C.xtb_getOrbitalEigenvalues(envOf(env), resOf(res), doubles(emo))
}

func (cEngine) GetOrbitalOccupations(env, res Handle, focc []float64) {
	C.xtb_getOrbitalOccupations(envOf(env), resOf(res), doubles(focc))
}

func (cEngine) GetOrbitalCoefficients(env, res Handle, coeffs []float64) {
	C.xtb_getOrbitalCoefficients(envOf(env), resOf(res), doubles(coeffs))
}
