package gmapi

import (
	"errors"

	"gmapi/layout"
)

// DispatchTable maps each layout.FunctionID to the engine code address
// resolved at startup. Zero means the runner does not provide the function.
type DispatchTable [layout.DispatchCapacity]uint32

// buildDispatchTable resolves every known function name.
func buildDispatchTable(ft FunctionTable) (DispatchTable, int) {
	var d DispatchTable
	resolved := 0

	for id := layout.FunctionID(0); id < layout.FunctionCount; id++ {
		addr, err := ft.Resolve(layout.FunctionNames[id])
		if errors.Is(err, ErrFunctionNotFound) {
			log.Debugln("Function not provided by runner:", id)
			continue
		}
		d[id] = addr
		if addr != 0 {
			resolved++
		}
	}
	return d, resolved
}

// Address returns the resolved address of id, 0 when unknown.
func (d *DispatchTable) Address(id layout.FunctionID) uint32 {
	if id < 0 || int(id) >= len(d) {
		return 0
	}
	return d[id]
}

// Call invokes engine function id with args. The result is borrowed from
// the engine and needs no Release. Calling a function the runner does not
// provide returns a *FunctionUnavailableError; calling through a destroyed
// session returns ErrNotInitialized.
func (s *Session) Call(id layout.FunctionID, args ...*Variant) (*Variant, error) {
	if s.detached() {
		return nil, ErrNotInitialized
	}
	addr := s.functions.Address(id)
	if addr == 0 || s.core == nil {
		return nil, &FunctionUnavailableError{ID: id, Name: id.String()}
	}

	packed := make([]layout.Variable, len(args))
	for i, a := range args {
		v, release, err := s.pack(a)
		if err != nil {
			return nil, err
		}
		defer release()
		packed[i] = v
	}

	var result layout.Variable
	s.core.CallFunction(addr, packed, &result)

	if result.StringType == 0 {
		return borrowedReal(result.Real), nil
	}

	text, err := readString(s.mem, result.String)
	s.core.DeallocateResult(&result)
	if err != nil {
		return nil, err
	}
	return borrowedString(text), nil
}

// FunctionAddress returns the dispatch entry of id.
func (s *Session) FunctionAddress(id layout.FunctionID) uint32 {
	return s.functions.Address(id)
}

// ResolveFunction looks a function up by name in the runner's table,
// including functions without a FunctionID.
func (s *Session) ResolveFunction(name string) (uint32, error) {
	return s.functionTable.Resolve(name)
}
