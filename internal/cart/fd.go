package cart

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/combin"
)

// Term is one point of a finite-difference stencil, Coeff*f(x + Step*delta).
type Term struct {
	Coeff float64
	Step  int
}

// Stencil approximates the Order-th derivative as sum(Terms)/(2*delta)^Order.
type Stencil struct {
	Order int
	Terms []Term
}

func Pow(i, j int) int {
	if j == 0 {
		return 1
	}
	total := 1
	for n := 0; n < j; n++ {
		total *= i
	}
	return total
}

// Central returns the central difference stencil of order n.
func Central(n int) Stencil {
	terms := make([]Term, 0, n+1)
	for i := 0; i <= n; i++ {
		coeff := Pow(-1, i) * combin.Binomial(n, i)
		terms = append(terms, Term{Coeff: float64(coeff), Step: n - 2*i})
	}
	return Stencil{Order: n, Terms: terms}
}

// Denominator is (2*delta)^Order.
func (s Stencil) Denominator(delta float64) float64 {
	return math.Pow(2*delta, float64(s.Order))
}

// Format writes the stencil as a formula in the displacement v, for
// example "+1f(1Dx)-1f(-1Dx)".
func (s Stencil) Format(v string) string {
	var b strings.Builder
	for _, t := range s.Terms {
		fmt.Fprintf(&b, "%+.0ff(%dD%s)", t.Coeff, t.Step, v)
	}
	return b.String()
}
