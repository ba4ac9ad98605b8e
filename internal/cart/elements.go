package cart

import (
	"fmt"
	"strconv"
	"strings"
)

// symbols lists the elements up to radon, which is as far as the
// tight-binding parametrizations go.
var symbols = [...]string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
}

var numbers = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for i, s := range symbols {
		m[strings.ToUpper(s)] = i + 1
	}
	return m
}()

// AtomicNumber accepts an element symbol in any case or an atomic number.
func AtomicNumber(name string) (int, error) {
	if z, ok := numbers[strings.ToUpper(name)]; ok {
		return z, nil
	}
	if z, err := strconv.Atoi(name); err == nil && z >= 1 && z <= len(symbols) {
		return z, nil
	}
	return 0, fmt.Errorf("unknown element %q", name)
}

// Symbol returns the element symbol for z.
func Symbol(z int) string {
	if z < 1 || z > len(symbols) {
		return "X"
	}
	return symbols[z-1]
}
