package handle

import (
	"context"

	"github.com/sandrolain/limex/internal/wasmhandle"
)

// AddWASM registers a callable named name backed by the exportedFunc export
// of the WASM module encoded by wasmBytes, executed through wazero. This is
// the concrete home for LIMEX's wazero dependency: it lets a host register
// numeric callables compiled from any wazero-supported source language
// without linking host code. The loaded module is kept alive for the
// lifetime of the Handle and released by Close.
func (h *Handle) AddWASM(ctx context.Context, name string, wasmBytes []byte, exportedFunc string) error {
	mod, err := wasmhandle.Load(ctx, wasmBytes, exportedFunc)
	if err != nil {
		return err
	}
	if err := h.Add(name, mod.Callable(ctx)); err != nil {
		mod.Close(ctx)
		return err
	}
	h.closers = append(h.closers, func() error {
		return mod.Close(ctx)
	})
	return nil
}
