//go:build !xtb || !cgo

package libxtb

// stubEngine stands in when the module is built without the xtb library.
// Its version pair never matches, so NewEnvironment fails fatally before any
// other method (left nil through the embedded interface) can be reached.
type stubEngine struct {
	Engine
}

// Native returns the engine backed by the linked xtb library. This build
// was made without one; rebuild with -tags xtb and cgo enabled.
func Native() Engine {
	return stubEngine{}
}

func (stubEngine) CompiledVersion() int { return 0 }
func (stubEngine) APIVersion() int      { return -1 }
