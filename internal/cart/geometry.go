package cart

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AngstromToBohr converts lengths from Ångström to Bohr.
const AngstromToBohr = 1.8897261254578281

var ErrNoAtoms = errors.New("no atoms in geometry")

// Geometry is a list of atoms with Cartesian coordinates, three per atom.
type Geometry struct {
	Names  []string
	Coords []float64
}

// Numbers maps the atom names onto atomic numbers.
func (g Geometry) Numbers() ([]int, error) {
	nums := make([]int, len(g.Names))
	for i, name := range g.Names {
		z, err := AtomicNumber(name)
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i+1, err)
		}
		nums[i] = z
	}
	return nums, nil
}

// Scaled returns a copy of g with every coordinate multiplied by f.
func (g Geometry) Scaled(f float64) Geometry {
	c := make([]float64, len(g.Coords))
	for i, x := range g.Coords {
		c[i] = x * f
	}
	return Geometry{Names: append([]string(nil), g.Names...), Coords: c}
}

// SplitLine splits line on runs of whitespace.
func SplitLine(line string) []string {
	return strings.Fields(line)
}

// ParseGeometry reads atoms from lines of the form "NAME X Y Z". An XYZ
// header (atom count and comment line) is skipped, as are lines with any
// other number of fields.
func ParseGeometry(text string) (Geometry, error) {
	var g Geometry
	lines := strings.Split(strings.TrimSpace(text), "\n")
	start := 0
	if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
		start = 2
	}
	for n := start; n < len(lines); n++ {
		s := SplitLine(lines[n])
		if len(s) != 4 {
			continue
		}
		for _, c := range s[1:4] {
			f, err := strconv.ParseFloat(c, 64)
			if err != nil {
				return Geometry{}, fmt.Errorf("geometry line %d: %w", n+1, err)
			}
			g.Coords = append(g.Coords, f)
		}
		g.Names = append(g.Names, s[0])
	}
	if len(g.Names) == 0 {
		return Geometry{}, ErrNoAtoms
	}
	return g, nil
}

// ReadInputXYZ reads the geometry from an XYZ file.
func ReadInputXYZ(filename string) (Geometry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Geometry{}, err
	}
	g, err := ParseGeometry(string(data))
	if err != nil {
		return Geometry{}, fmt.Errorf("%s: %w", filename, err)
	}
	return g, nil
}

// ParseFloats reads whitespace separated numbers.
func ParseFloats(text string) ([]float64, error) {
	fields := SplitLine(text)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
