// Package wasmhandle loads a WASM module and exposes one of its exported
// functions as a plain numeric callable, using wazero as the execution
// engine. It deliberately has no dependency on pkg/handle: Module.Callable
// returns a bare func([]float64) (float64, error) value, which is
// structurally identical to handle.Callable and therefore assignable to it
// without an import — the two packages would otherwise form a cycle, since
// pkg/handle.AddWASM needs this package and a Module-typed Callable would
// need pkg/handle's type.
package wasmhandle

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Module wraps one instantiated WASM module and a single resolved export.
type Module struct {
	runtime  wazero.Runtime
	instance api.Module
	fn       api.Function
}

// Load compiles and instantiates wasmBytes under ctx, then resolves
// exportedFunc as the callable's implementation. The exported function must
// take one f64 parameter per LIMEX call argument and return exactly one f64.
func Load(ctx context.Context, wasmBytes []byte, exportedFunc string) (*Module, error) {
	rt := wazero.NewRuntime(ctx)

	mod, err := rt.Instantiate(ctx, wasmBytes)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("limex: wasm instantiate: %w", err)
	}

	fn := mod.ExportedFunction(exportedFunc)
	if fn == nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("limex: wasm module has no exported function %q", exportedFunc)
	}

	return &Module{runtime: rt, instance: mod, fn: fn}, nil
}

// Close releases the underlying wazero runtime and its instantiated module.
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}

// Callable returns a numeric callable backed by m's exported function,
// invoked under ctx on every call. Each argument is encoded as an f64 and
// the function must return exactly one f64 result.
func (m *Module) Callable(ctx context.Context) func(args []float64) (float64, error) {
	return func(args []float64) (float64, error) {
		encoded := make([]uint64, len(args))
		for i, a := range args {
			encoded[i] = api.EncodeF64(a)
		}
		results, err := m.fn.Call(ctx, encoded...)
		if err != nil {
			return 0, fmt.Errorf("limex: wasm call: %w", err)
		}
		if len(results) != 1 {
			return 0, fmt.Errorf("limex: wasm function returned %d results, want 1", len(results))
		}
		return api.DecodeF64(results[0]), nil
	}
}
