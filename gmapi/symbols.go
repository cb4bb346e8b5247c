package gmapi

import (
	"bytes"
	"fmt"

	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
)

// maxFunctions bounds the function table read; the runners register a few
// hundred functions.
const maxFunctions = 1 << 14

// FunctionTable is a copy of the runner's built-in function table. The
// runner fills it before any plugin loads and never changes it afterwards.
type FunctionTable []layout.FunctionInfo

// ReadFunctionTable copies the function table described by the
// FunctionInfoStorage header at addr.
func ReadFunctionTable(mem process.Process, addr process.ProcessMemoryAddress) (FunctionTable, error) {
	h, err := pod.ReadT[layout.FunctionInfoStorage](mem, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to read function table header: %w", err)
	}
	if h.Functions == 0 {
		return nil, fmt.Errorf("function table is null: %w", process.ErrInvalidPointer)
	}
	if h.Count > maxFunctions {
		return nil, fmt.Errorf("function table claims %d entries", h.Count)
	}

	fns, err := pod.ReadSliceT[layout.FunctionInfo](mem, process.ProcessMemoryAddress(h.Functions), int(h.Count))
	if err != nil {
		return nil, fmt.Errorf("failed to read function table: %w", err)
	}
	return fns, nil
}

// Resolve returns the code address of the function called name. Names
// wider than the record's name field can never match.
func (ft FunctionTable) Resolve(name string) (uint32, error) {
	if len(name) > layout.NameWidth {
		return 0, fmt.Errorf("%q is longer than %d bytes: %w", name, layout.NameWidth, ErrFunctionNotFound)
	}

	want := []byte(name)
	for i := range ft {
		fi := &ft[i]
		if int(fi.NameLength) != len(want) {
			continue
		}
		if bytes.Equal(fi.Name[:len(want)], want) {
			return fi.Address, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrFunctionNotFound)
}
