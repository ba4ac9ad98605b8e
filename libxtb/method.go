package libxtb

import (
	"strconv"
	"strings"
)

// Method selects the parametrization loaded into a Calculator.
type Method int

const (
	GFN2xTB Method = iota
	GFN1xTB
	GFN0xTB
	GFNFF
)

func (m Method) String() string {
	switch m {
	case GFN2xTB:
		return "GFN2-xTB"
	case GFN1xTB:
		return "GFN1-xTB"
	case GFN0xTB:
		return "GFN0-xTB"
	case GFNFF:
		return "GFN-FF"
	}
	return "Method(" + strconv.Itoa(int(m)) + ")"
}

var methodNames = map[string]Method{
	"gfn2xtb":  GFN2xTB,
	"gfn2-xtb": GFN2xTB,
	"gfn1xtb":  GFN1xTB,
	"gfn1-xtb": GFN1xTB,
	"gfn0xtb":  GFN0xTB,
	"gfn0-xtb": GFN0xTB,
	"gfnff":    GFNFF,
	"gfn-ff":   GFNFF,
}

// ParseMethod maps a case-insensitive method name such as "GFN2-xTB" or
// "gfnff" onto a Method.
func ParseMethod(s string) (Method, error) {
	m, ok := methodNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, configErrorf("parse method", "unknown method %q", s)
	}
	return m, nil
}

// MustParseMethod is like ParseMethod but panics on an unknown name. It is
// meant for method names written as constants in calling code.
func MustParseMethod(s string) Method {
	m, err := ParseMethod(s)
	if err != nil {
		panic(err)
	}
	return m
}

// UnmarshalText lets a Method be decoded from configuration files.
func (m *Method) UnmarshalText(text []byte) error {
	v, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Verbosity controls how much the engine prints.
type Verbosity int

const (
	Muted Verbosity = iota
	Minimal
	Full
)

func (v Verbosity) String() string {
	switch v {
	case Muted:
		return "muted"
	case Minimal:
		return "minimal"
	case Full:
		return "full"
	}
	return "Verbosity(" + strconv.Itoa(int(v)) + ")"
}

// ParseVerbosity accepts "muted", "minimal", "full" or "verbose", ignoring
// case.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "muted", "mute":
		return Muted, nil
	case "minimal":
		return Minimal, nil
	case "full", "verbose":
		return Full, nil
	}
	return 0, configErrorf("parse verbosity", "unknown verbosity %q", s)
}

func (v *Verbosity) UnmarshalText(text []byte) error {
	p, err := ParseVerbosity(string(text))
	if err != nil {
		return err
	}
	*v = p
	return nil
}

func (v Verbosity) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
