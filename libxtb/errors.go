package libxtb

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig matches every *ConfigError with errors.Is.
	ErrConfig = errors.New("invalid configuration")
	// ErrUnimplemented marks combinations that are rejected on purpose
	// rather than attempted.
	ErrUnimplemented = errors.New("not implemented")
	// ErrMethodNotLoaded is returned by SinglePoint when no method has been
	// loaded for the molecule.
	ErrMethodNotLoaded = errors.New("no method loaded for this molecule")
	// ErrClosed is returned when a released handle is used.
	ErrClosed = errors.New("handle already released")
)

// ConfigError reports inconsistent caller input, detected before any call
// into the engine.
type ConfigError struct {
	Op     string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("xtb: %s: %s", e.Op, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func configErrorf(op, format string, args ...any) error {
	return &ConfigError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// VersionError is the value NewEnvironment panics with when the linked
// library reports an API version the bindings were not written against.
type VersionError struct {
	Library  int
	Bindings int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("libxtb: API version mismatch: library reports %d, bindings expect %d",
		e.Library, e.Bindings)
}

// EngineError carries a non-zero engine status and the messages drained
// from the environment's error stack.
type EngineError struct {
	Op      string
	Code    int
	Message string
}

func (e *EngineError) Error() string {
	var b strings.Builder
	b.WriteString("xtb: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "engine error code %d", e.Code)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}
