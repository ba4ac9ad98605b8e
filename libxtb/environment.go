package libxtb

import (
	"fmt"
	"runtime"
)

// Environment owns the engine's status channel. Every other handle reports
// its errors into the Environment it was created with.
//
// An Environment and everything built from it must be used by one goroutine
// at a time.
type Environment struct {
	api Engine
	env Handle
}

// NewEnvironment allocates a calculation environment. It panics with a
// *VersionError if the linked library reports a different API version than
// the bindings were written against.
func NewEnvironment(api Engine) *Environment {
	if got, want := api.APIVersion(), api.CompiledVersion(); got != want {
		panic(&VersionError{Library: got, Bindings: want})
	}
	e := &Environment{api: api, env: api.NewEnvironment()}
	runtime.SetFinalizer(e, (*Environment).Close)
	return e
}

// CheckError queries the engine status. A non-zero status empties the error
// stack into an *EngineError.
func (e *Environment) CheckError() error {
	if e.Closed() {
		return fmt.Errorf("check environment: %w", ErrClosed)
	}
	if err := e.status(""); err != nil {
		return err
	}
	return nil
}

// check is CheckError labelled with the operation that was just issued.
func (e *Environment) check(op string) error {
	if err := e.status(op); err != nil {
		return err
	}
	return nil
}

func (e *Environment) status(op string) *EngineError {
	code := e.api.CheckEnvironment(e.env)
	if code == 0 {
		return nil
	}
	return &EngineError{Op: op, Code: code, Message: e.api.DrainErrors(e.env)}
}

// SetVerbosity sets how much output the engine prints.
func (e *Environment) SetVerbosity(v Verbosity) error {
	if e.Closed() {
		return fmt.Errorf("set verbosity: %w", ErrClosed)
	}
	switch v {
	case Muted, Minimal, Full:
	default:
		return configErrorf("set verbosity", "unknown verbosity %d", int(v))
	}
	e.api.SetVerbosity(e.env, int(v))
	return e.check("set verbosity")
}

func (e *Environment) SetOutputVerbose() error { return e.SetVerbosity(Full) }
func (e *Environment) SetOutputMinimal() error { return e.SetVerbosity(Minimal) }
func (e *Environment) SetOutputMuted() error   { return e.SetVerbosity(Muted) }

// Closed reports whether the handle has been released.
func (e *Environment) Closed() bool {
	return e.env == nil
}

// Close releases the environment. Closing twice is a no-op.
func (e *Environment) Close() {
	if e.env == nil {
		return
	}
	e.api.DelEnvironment(&e.env)
	if e.env != nil {
		panic("libxtb: environment handle survived release")
	}
	runtime.SetFinalizer(e, nil)
}
