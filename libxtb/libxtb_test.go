package libxtb_test

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/ntBre/go-xtb/libxtb"
	"github.com/ntBre/go-xtb/libxtb/xtbtest"
)

var (
	testNumbers = xtbtest.PropyneNumbers
	testCoords  = xtbtest.PropyneCoords
	testLattice = libxtb.NewLattice(xtbtest.CrystalLattice)
)

func newChain(t *testing.T, e *xtbtest.Engine, lattice *libxtb.Lattice) (*libxtb.Environment, *libxtb.Molecule, *libxtb.Calculator) {
	t.Helper()
	env := libxtb.NewEnvironment(e)
	t.Cleanup(env.Close)
	mol, err := libxtb.NewMolecule(env, testNumbers, testCoords, 0, 0, lattice)
	if err != nil {
		t.Fatalf("NewMolecule: %v", err)
	}
	t.Cleanup(mol.Close)
	calc := libxtb.NewCalculator(env)
	t.Cleanup(calc.Close)
	return env, mol, calc
}

func TestVersionMismatchPanics(t *testing.T) {
	e := xtbtest.New()
	e.Reported = e.Compiled + 1
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("wanted a panic, but didn't get one")
		}
		verr, ok := r.(*libxtb.VersionError)
		if !ok {
			t.Fatalf("got %v, wanted a *VersionError", r)
		}
		if verr.Library != e.Reported || verr.Bindings != e.Compiled {
			t.Errorf("got %+v, wanted library %d and bindings %d", verr, e.Reported, e.Compiled)
		}
		if !strings.Contains(verr.Error(), "API version mismatch") {
			t.Errorf("got %q, wanted a version mismatch", verr.Error())
		}
		if got := e.Allocated(xtbtest.EnvironmentKind); got != 0 {
			t.Errorf("got %d environments, wanted 0", got)
		}
	}()
	libxtb.NewEnvironment(e)
}

func TestNativeWithoutLibraryPanics(t *testing.T) {
	if libxtb.Native().CompiledVersion() == libxtb.Native().APIVersion() {
		t.Skip("linked against a real library")
	}
	defer func() {
		if recover() == nil {
			t.Error("wanted a panic, but didn't get one")
		}
	}()
	libxtb.NewEnvironment(libxtb.Native())
}

func TestCheckError(t *testing.T) {
	e := xtbtest.New()
	env := libxtb.NewEnvironment(e)
	defer env.Close()

	t.Run("clean status", func(t *testing.T) {
		if err := env.CheckError(); err != nil {
			t.Errorf("got %v, wanted nil", err)
		}
	})

	t.Run("error is drained", func(t *testing.T) {
		e.FailOn("SetVerbosity", "something broke")
		err := env.SetOutputVerbose()
		var ee *libxtb.EngineError
		if !errors.As(err, &ee) {
			t.Fatalf("got %v, wanted an EngineError", err)
		}
		if ee.Code != 1 || ee.Message != "something broke" || ee.Op != "set verbosity" {
			t.Errorf("got %+v", ee)
		}
		if err := env.CheckError(); err != nil {
			t.Errorf("error stack not emptied: %v", err)
		}
	})
}

func TestSetVerbosity(t *testing.T) {
	env := libxtb.NewEnvironment(xtbtest.New())
	defer env.Close()
	for _, f := range []func() error{env.SetOutputMuted, env.SetOutputMinimal, env.SetOutputVerbose} {
		if err := f(); err != nil {
			t.Errorf("got %v, wanted nil", err)
		}
	}
	if err := env.SetVerbosity(libxtb.Verbosity(7)); !errors.Is(err, libxtb.ErrConfig) {
		t.Errorf("got %v, wanted a config error", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	tests := []struct {
		kind  xtbtest.Kind
		build func(*testing.T, *xtbtest.Engine) func()
	}{
		{xtbtest.EnvironmentKind, func(t *testing.T, e *xtbtest.Engine) func() {
			return libxtb.NewEnvironment(e).Close
		}},
		{xtbtest.MoleculeKind, func(t *testing.T, e *xtbtest.Engine) func() {
			mol, err := libxtb.NewMolecule(libxtb.NewEnvironment(e), testNumbers, testCoords, 0, 0, nil)
			if err != nil {
				t.Fatal(err)
			}
			return mol.Close
		}},
		{xtbtest.CalculatorKind, func(t *testing.T, e *xtbtest.Engine) func() {
			return libxtb.NewCalculator(libxtb.NewEnvironment(e)).Close
		}},
		{xtbtest.ResultsKind, func(t *testing.T, e *xtbtest.Engine) func() {
			env := libxtb.NewEnvironment(e)
			mol, _ := libxtb.NewMolecule(env, testNumbers, testCoords, 0, 0, nil)
			calc := libxtb.NewCalculator(env)
			if err := calc.SetMethod(mol, libxtb.GFN2xTB); err != nil {
				t.Fatal(err)
			}
			res, err := calc.SinglePoint(mol)
			if err != nil {
				t.Fatal(err)
			}
			return res.Close
		}},
	}
	for _, test := range tests {
		t.Run(test.kind.String(), func(t *testing.T) {
			e := xtbtest.New()
			closer := test.build(t, e)
			closer()
			closer()
			if got := e.Released(test.kind); got != 1 {
				t.Errorf("got %d releases, wanted 1", got)
			}
			if got := e.DoubleReleases(); got != 0 {
				t.Errorf("got %d double releases, wanted 0", got)
			}
		})
	}
}

func TestSurvivingHandlePanics(t *testing.T) {
	e := xtbtest.New()
	e.KeepHandles = true
	env := libxtb.NewEnvironment(e)
	defer func() {
		if recover() == nil {
			t.Error("wanted a panic, but didn't get one")
		}
		e.KeepHandles = false
		env.Close()
		if !env.Closed() {
			t.Error("second release left the handle set")
		}
	}()
	env.Close()
}

func TestNewMolecule(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		coords  []float64
		uhf     int
		lattice *libxtb.Lattice
	}{
		{"no atoms", nil, nil, 0, nil},
		{"short coordinates", []int{6, 6, 1}, make([]float64, 8), 0, nil},
		{"long coordinates", []int{1}, make([]float64, 4), 0, nil},
		{"negative uhf", []int{1}, make([]float64, 3), -1, nil},
		{"singular lattice", []int{1}, make([]float64, 3), 0, libxtb.NewLattice([9]float64{1, 0, 0, 2, 0, 0, 0, 0, 1})},
		{"no periodic direction", []int{1}, make([]float64, 3), 0, &libxtb.Lattice{Vectors: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := xtbtest.New()
			env := libxtb.NewEnvironment(e)
			defer env.Close()
			_, err := libxtb.NewMolecule(env, test.numbers, test.coords, 0, test.uhf, test.lattice)
			if !errors.Is(err, libxtb.ErrConfig) {
				t.Errorf("got %v, wanted a config error", err)
			}
			if n := e.CallCount("NewMolecule"); n != 0 {
				t.Errorf("engine was called %d times", n)
			}
		})
	}

	t.Run("engine failure", func(t *testing.T) {
		e := xtbtest.New()
		env := libxtb.NewEnvironment(e)
		defer env.Close()
		e.FailOn("NewMolecule", "bad structure")
		_, err := libxtb.NewMolecule(env, testNumbers, testCoords, 0, 0, nil)
		var ee *libxtb.EngineError
		if !errors.As(err, &ee) || ee.Message != "bad structure" {
			t.Errorf("got %v, wanted the engine message", err)
		}
	})

	t.Run("periodic", func(t *testing.T) {
		_, mol, _ := newChain(t, xtbtest.New(), testLattice)
		if !mol.Periodic() || mol.Len() != 7 {
			t.Errorf("got periodic=%v len=%d", mol.Periodic(), mol.Len())
		}
	})
}

func TestMoleculeUpdate(t *testing.T) {
	t.Run("wrong size", func(t *testing.T) {
		e := xtbtest.New()
		_, mol, _ := newChain(t, e, nil)
		err := mol.Update(testCoords[:20], nil)
		if !errors.Is(err, libxtb.ErrConfig) {
			t.Errorf("got %v, wanted a config error", err)
		}
		if n := e.CallCount("UpdateMolecule"); n != 0 {
			t.Errorf("engine was called %d times", n)
		}
	})

	t.Run("lattice on a free cluster", func(t *testing.T) {
		_, mol, _ := newChain(t, xtbtest.New(), nil)
		err := mol.Update(testCoords, testLattice)
		var ee *libxtb.EngineError
		if !errors.As(err, &ee) {
			t.Errorf("got %v, wanted an engine error", err)
		}
	})

	t.Run("geometry and lattice", func(t *testing.T) {
		_, mol, _ := newChain(t, xtbtest.New(), testLattice)
		if err := mol.Update(testCoords, testLattice); err != nil {
			t.Errorf("got %v, wanted nil", err)
		}
	})

	t.Run("closed", func(t *testing.T) {
		_, mol, _ := newChain(t, xtbtest.New(), nil)
		mol.Close()
		if err := mol.Update(testCoords, nil); !errors.Is(err, libxtb.ErrClosed) {
			t.Errorf("got %v, wanted ErrClosed", err)
		}
	})
}

func TestCalculatorStates(t *testing.T) {
	e := xtbtest.New()
	env, mol, calc := newChain(t, e, nil)
	if calc.State() != libxtb.Empty {
		t.Fatalf("got %v, wanted empty", calc.State())
	}
	if _, err := calc.SinglePoint(mol); !errors.Is(err, libxtb.ErrMethodNotLoaded) {
		t.Errorf("got %v, wanted ErrMethodNotLoaded", err)
	}
	if err := calc.SetMethod(mol, libxtb.GFN2xTB); err != nil {
		t.Fatal(err)
	}
	if calc.State() != libxtb.MethodLoaded || calc.Method() != libxtb.GFN2xTB {
		t.Errorf("got %v %v", calc.State(), calc.Method())
	}

	other, err := libxtb.NewMolecule(env, testNumbers, testCoords, 0, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer other.Close()
	if _, err := calc.SinglePoint(other); !errors.Is(err, libxtb.ErrMethodNotLoaded) {
		t.Errorf("got %v, wanted ErrMethodNotLoaded for another molecule", err)
	}

	for i := 0; i < 2; i++ {
		res, err := calc.SinglePoint(mol)
		if err != nil {
			t.Fatal(err)
		}
		res.Close()
	}
	if got := e.Live(); got != 4 {
		t.Errorf("got %d live handles, wanted 4", got)
	}
}

func TestSetMethod(t *testing.T) {
	t.Run("unknown variant", func(t *testing.T) {
		_, mol, calc := newChain(t, xtbtest.New(), nil)
		err := calc.SetMethod(mol, libxtb.Method(42))
		if !errors.Is(err, libxtb.ErrUnimplemented) {
			t.Errorf("got %v, wanted ErrUnimplemented", err)
		}
	})

	t.Run("foreign environment", func(t *testing.T) {
		e := xtbtest.New()
		_, mol, _ := newChain(t, e, nil)
		env2 := libxtb.NewEnvironment(e)
		defer env2.Close()
		calc := libxtb.NewCalculator(env2)
		defer calc.Close()
		if err := calc.SetMethod(mol, libxtb.GFN1xTB); !errors.Is(err, libxtb.ErrConfig) {
			t.Errorf("got %v, wanted a config error", err)
		}
	})

	t.Run("engine failure resets state", func(t *testing.T) {
		e := xtbtest.New()
		_, mol, calc := newChain(t, e, nil)
		if err := calc.SetMethod(mol, libxtb.GFN1xTB); err != nil {
			t.Fatal(err)
		}
		e.FailOn("LoadGFN2xTB", "no parameters")
		if err := calc.SetMethod(mol, libxtb.GFN2xTB); err == nil {
			t.Fatal("wanted an error, but didn't get one")
		}
		if calc.State() != libxtb.Empty {
			t.Errorf("got %v, wanted empty", calc.State())
		}
	})
}

func TestCalculatorSetters(t *testing.T) {
	e := xtbtest.New()
	_, _, calc := newChain(t, e, nil)
	if err := calc.SetAccuracy(1); err != nil {
		t.Error(err)
	}
	if err := calc.SetMaxIterations(250); err != nil {
		t.Error(err)
	}
	if err := calc.SetElectronicTemperature(300); err != nil {
		t.Error(err)
	}

	configErrors := map[string]error{
		"zero accuracy":        calc.SetAccuracy(0),
		"NaN accuracy":         calc.SetAccuracy(math.NaN()),
		"zero iterations":      calc.SetMaxIterations(0),
		"negative temperature": calc.SetElectronicTemperature(-300),
		"zero temperature":     calc.SetElectronicTemperature(0),
	}
	for name, err := range configErrors {
		if !errors.Is(err, libxtb.ErrConfig) {
			t.Errorf("%s: got %v, wanted a config error", name, err)
		}
	}

	var ee *libxtb.EngineError
	if err := calc.SetAccuracy(1e6); !errors.As(err, &ee) {
		t.Errorf("got %v, wanted the engine to reject the accuracy", err)
	}
}

func TestSinglePointFailure(t *testing.T) {
	t.Run("periodic GFN2", func(t *testing.T) {
		e := xtbtest.New()
		_, mol, calc := newChain(t, e, testLattice)
		if err := calc.SetMethod(mol, libxtb.GFN2xTB); err != nil {
			t.Fatal(err)
		}
		_, err := calc.SinglePoint(mol)
		var ee *libxtb.EngineError
		if !errors.As(err, &ee) || !strings.Contains(ee.Message, "PBC") {
			t.Fatalf("got %v, wanted the multipole error", err)
		}
		if e.Allocated(xtbtest.ResultsKind) != e.Released(xtbtest.ResultsKind) {
			t.Error("results leaked on failure")
		}

		if err := calc.SetMethod(mol, libxtb.GFN1xTB); err != nil {
			t.Fatal(err)
		}
		res, err := calc.SinglePoint(mol)
		if err != nil {
			t.Fatalf("GFN1 under PBC: %v", err)
		}
		res.Close()
	})

	t.Run("injected", func(t *testing.T) {
		e := xtbtest.New()
		_, mol, calc := newChain(t, e, nil)
		if err := calc.SetMethod(mol, libxtb.GFN2xTB); err != nil {
			t.Fatal(err)
		}
		e.FailOn("Singlepoint", "SCF did not converge")
		_, err := calc.SinglePoint(mol)
		want := "xtb: single point: engine error code 1: SCF did not converge"
		if err == nil || err.Error() != want {
			t.Errorf("got %v, wanted %q", err, want)
		}
	})
}

func TestResults(t *testing.T) {
	e := xtbtest.New()
	_, mol, calc := newChain(t, e, nil)
	if err := calc.SetMethod(mol, libxtb.GFN2xTB); err != nil {
		t.Fatal(err)
	}
	res, err := calc.SinglePoint(mol)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	energy, err := res.Energy()
	if err != nil || math.IsNaN(energy) {
		t.Errorf("got %v, %v", energy, err)
	}
	if _, err := res.Dipole(); err != nil {
		t.Error(err)
	}

	t.Run("gradient buffer size", func(t *testing.T) {
		e.ResetCalls()
		err := res.Gradient(make([]float64, 20))
		if !errors.Is(err, libxtb.ErrConfig) {
			t.Errorf("got %v, wanted a config error", err)
		}
		if n := e.CallCount("GetGradient"); n != 0 {
			t.Errorf("engine was called %d times", n)
		}
	})

	t.Run("translation invariant gradient", func(t *testing.T) {
		grad := make([]float64, 21)
		if err := res.Gradient(grad); err != nil {
			t.Fatal(err)
		}
		var sum [3]float64
		for i, g := range grad {
			sum[i%3] += g
		}
		for _, s := range sum {
			if math.Abs(s) > 1e-12 {
				t.Errorf("got net force %v", sum)
			}
		}
	})

	t.Run("charges and bond orders", func(t *testing.T) {
		charges, err := res.Charges()
		if err != nil || len(charges) != 7 {
			t.Fatalf("got %v, %v", charges, err)
		}
		wbo, err := res.BondOrders()
		if err != nil {
			t.Fatal(err)
		}
		if r, c := wbo.Dims(); r != 7 || c != 7 {
			t.Errorf("got %dx%d bond orders", r, c)
		}
	})

	t.Run("virial", func(t *testing.T) {
		if _, err := res.Virial(); err != nil {
			t.Error(err)
		}
	})

	t.Run("orbitals", func(t *testing.T) {
		nao, err := res.OrbitalCount()
		if err != nil {
			t.Fatal(err)
		}
		if want := 3*4 + 4*1; nao != want {
			t.Errorf("got %d orbitals, wanted %d", nao, want)
		}
		emo, err := res.OrbitalEigenvalues()
		if err != nil || len(emo) != nao {
			t.Errorf("got %d eigenvalues, %v", len(emo), err)
		}
		focc, err := res.OrbitalOccupations()
		if err != nil || len(focc) != nao {
			t.Errorf("got %d occupations, %v", len(focc), err)
		}
		coeffs, err := res.OrbitalCoefficients()
		if err != nil {
			t.Fatal(err)
		}
		if r, c := coeffs.Dims(); r != nao || c != nao {
			t.Errorf("got %dx%d coefficients", r, c)
		}
	})

	t.Run("every getter is checked", func(t *testing.T) {
		e.FailOn("GetEnergy", "no energy")
		_, err := res.Energy()
		var ee *libxtb.EngineError
		if !errors.As(err, &ee) || ee.Op != "get energy" {
			t.Errorf("got %v, wanted a get energy failure", err)
		}
	})

	t.Run("closed", func(t *testing.T) {
		res.Close()
		if _, err := res.Energy(); !errors.Is(err, libxtb.ErrClosed) {
			t.Errorf("got %v, wanted ErrClosed", err)
		}
	})
}

func TestForceFieldHasNoOrbitals(t *testing.T) {
	_, mol, calc := newChain(t, xtbtest.New(), nil)
	if err := calc.SetMethod(mol, libxtb.GFNFF); err != nil {
		t.Fatal(err)
	}
	res, err := calc.SinglePoint(mol)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	if _, err := res.OrbitalCount(); err == nil {
		t.Error("wanted an error, but didn't get one")
	}
}

func TestCallOrder(t *testing.T) {
	e := xtbtest.New()
	env := libxtb.NewEnvironment(e)
	mol, err := libxtb.NewMolecule(env, testNumbers, testCoords, 0, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	calc := libxtb.NewCalculator(env)
	if err := calc.SetMethod(mol, libxtb.GFN2xTB); err != nil {
		t.Fatal(err)
	}
	res, err := calc.SinglePoint(mol)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := res.Energy(); err != nil {
		t.Fatal(err)
	}
	res.Close()
	calc.Close()
	mol.Close()
	env.Close()
	want := []string{
		"NewEnvironment",
		"NewMolecule", "CheckEnvironment",
		"NewCalculator",
		"LoadGFN2xTB", "CheckEnvironment",
		"NewResults", "Singlepoint", "CheckEnvironment",
		"GetEnergy", "CheckEnvironment",
		"DelResults", "DelCalculator", "DelMolecule", "DelEnvironment",
	}
	if got := e.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %q\nwanted %q", got, want)
	}
	if e.Live() != 0 {
		t.Errorf("got %d live handles", e.Live())
	}
}
