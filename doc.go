/*
Package xtb evaluates energies and gradients with the xtb tight-binding
engine.

A Model owns the engine handles for one system and is meant to be evaluated
over and over, for example inside a geometry optimization or a
finite-difference loop:

	params := xtb.DefaultParameters().SetMethod("GFN1-xTB")
	model, err := xtb.New(numbers, coords, params)
	if err != nil {
		return err
	}
	defer model.Close()

	grad := make([]float64, len(coords))
	energy, err := model.CalculateEnergyAndGradient(grad)

Errors caused by inconsistent input match libxtb.ErrConfig. Failures
reported by the engine are *libxtb.EngineError values.

The lower-level handles are in package libxtb.
*/
package xtb
