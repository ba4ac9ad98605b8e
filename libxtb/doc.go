/*
Package libxtb wraps the handle-based C API of the xtb tight-binding
program.

The engine exposes four kinds of handles: a calculation Environment, a
Molecule, a Calculator and a set of Results. Each wrapper type owns exactly
one handle, releases it at most once through Close, and nils it afterwards.
A finalizer releases handles that were leaked without Close.

The engine never reports failure through return values. Instead, status
accumulates on the Environment, so every call made by this package is
followed by a status check that turns a non-zero code into an *EngineError.
Inconsistent input, such as a coordinate slice that does not hold three
values per atom, is rejected with a *ConfigError before the engine is
called.

A typical sequence is

	env := libxtb.NewEnvironment(libxtb.Native())
	defer env.Close()
	mol, err := libxtb.NewMolecule(env, numbers, positions, 0, 0, nil)
	...
	defer mol.Close()
	calc := libxtb.NewCalculator(env)
	defer calc.Close()
	if err := calc.SetMethod(mol, libxtb.GFN2xTB); err != nil { ... }
	res, err := calc.SinglePoint(mol)
	...
	defer res.Close()
	energy, err := res.Energy()

The native engine is only compiled with the xtb build tag, and it finds the
library through pkg-config. Without the tag, Native returns an engine that
panics with a version mismatch on first use.
*/
package libxtb
