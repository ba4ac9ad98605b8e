package cart

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

var testgeom = Geometry{[]string{"H", "O", "H"},
	[]float64{0.0000000000, 0.7574590974, 0.5217905143,
		0.0000000000, 0.0000000000, -0.0657441568,
		0.0000000000, -0.7574590974, 0.5217905143}}

func TestReadInputXYZ(t *testing.T) {
	want := testgeom
	got, err := ReadInputXYZ("testdata/geom.xyz")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, wanted %v\n", got, want)
	}
}

func TestParseGeometry(t *testing.T) {
	t.Run("without header", func(t *testing.T) {
		got, err := ParseGeometry("C 0 0 0\n8 0 0 2.1\n")
		if err != nil {
			t.Fatal(err)
		}
		want := Geometry{[]string{"C", "8"}, []float64{0, 0, 0, 0, 0, 2.1}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, wanted %v\n", got, want)
		}
	})

	t.Run("header comment with four words", func(t *testing.T) {
		got, err := ParseGeometry("1\nwater is not this\nHe 0 0 0")
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Names) != 1 {
			t.Errorf("got %d atoms, wanted 1", len(got.Names))
		}
	})

	t.Run("bad coordinate", func(t *testing.T) {
		if _, err := ParseGeometry("H 0 zero 0"); err == nil {
			t.Error("wanted an error, but didn't get one")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseGeometry("\n"); !errors.Is(err, ErrNoAtoms) {
			t.Errorf("got %v, wanted ErrNoAtoms", err)
		}
	})
}

func TestNumbers(t *testing.T) {
	got, err := testgeom.Numbers()
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{1, 8, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, wanted %v", got, want)
	}

	bad := Geometry{Names: []string{"H", "Xx"}, Coords: make([]float64, 6)}
	if _, err := bad.Numbers(); err == nil {
		t.Error("wanted an error, but didn't get one")
	}
}

func TestAtomicNumber(t *testing.T) {
	tests := map[string]int{"H": 1, "he": 2, "CL": 17, "Rn": 86, "26": 26}
	for in, want := range tests {
		got, err := AtomicNumber(in)
		if err != nil || got != want {
			t.Errorf("%s: got %d, %v, wanted %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "0", "87", "Q"} {
		if _, err := AtomicNumber(in); err == nil {
			t.Errorf("%q: wanted an error, but didn't get one", in)
		}
	}
	if got := Symbol(8); got != "O" {
		t.Errorf("got %s, wanted O", got)
	}
}

func TestScaled(t *testing.T) {
	got := testgeom.Scaled(AngstromToBohr)
	if math.Abs(got.Coords[1]-0.7574590974*AngstromToBohr) > 1e-15 {
		t.Errorf("got %v", got.Coords[1])
	}
	if testgeom.Coords[1] != 0.7574590974 {
		t.Error("Scaled modified its receiver")
	}
}
