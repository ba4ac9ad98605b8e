package cart

import (
	"reflect"
	"testing"
)

func TestCentral(t *testing.T) {
	tests := []struct {
		n       int
		formula string
		coeffs  []float64
	}{
		{1, "+1f(1Dx)-1f(-1Dx)", []float64{1, -1}},
		{2, "+1f(2Dx)-2f(0Dx)+1f(-2Dx)", []float64{1, -2, 1}},
		{3, "+1f(3Dx)-3f(1Dx)+3f(-1Dx)-1f(-3Dx)", []float64{1, -3, 3, -1}},
		{4, "+1f(4Dx)-4f(2Dx)+6f(0Dx)-4f(-2Dx)+1f(-4Dx)", []float64{1, -4, 6, -4, 1}},
	}
	for _, test := range tests {
		s := Central(test.n)
		if got := s.Format("x"); got != test.formula {
			t.Errorf("got %s, wanted %s", got, test.formula)
		}
		var coeffs []float64
		for _, term := range s.Terms {
			coeffs = append(coeffs, term.Coeff)
		}
		if !reflect.DeepEqual(coeffs, test.coeffs) {
			t.Errorf("got %v, wanted %v", coeffs, test.coeffs)
		}
	}
}

func TestDenominator(t *testing.T) {
	if got := Central(2).Denominator(0.5); got != 1 {
		t.Errorf("got %v, wanted 1", got)
	}
	if got := Central(1).Denominator(0.005); got != 0.01 {
		t.Errorf("got %v, wanted 0.01", got)
	}
}

func TestPow(t *testing.T) {
	if got := Pow(-1, 3); got != -1 {
		t.Errorf("got %d, wanted -1", got)
	}
	if got := Pow(2, 0); got != 1 {
		t.Errorf("got %d, wanted 1", got)
	}
}
