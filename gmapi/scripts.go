package gmapi

import (
	"fmt"
	"unsafe"

	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
)

type Scripts struct {
	resources
	s *Session
}

func newScripts(s *Session) *Scripts {
	var h layout.ScriptStorage
	return &Scripts{
		resources: resources{newTable(s.mem, KindScript, s.loc.Scripts,
			process.ProcessMemorySize(unsafe.Offsetof(h.Scripts)),
			process.ProcessMemorySize(unsafe.Offsetof(h.Names)),
			process.ProcessMemorySize(unsafe.Offsetof(h.ArraySize)))},
		s: s,
	}
}

func (sc *Scripts) Get(id int) (*Script, error) {
	addr, err := sc.t.get(id)
	if err != nil {
		return nil, err
	}
	return &Script{s: sc.s, id: id, addr: addr}, nil
}

// Symbols returns the script symbol names known to the compiler.
func (sc *Scripts) Symbols() ([]string, error) {
	h, err := pod.ReadT[layout.ScriptStorage](sc.s.mem, sc.s.loc.Scripts)
	if err != nil {
		return nil, err
	}
	if h.Symbols == 0 || h.NSymbols == 0 {
		return nil, nil
	}
	if h.NSymbols > maxArraySize {
		return nil, fmt.Errorf("script symbol table claims %d entries", h.NSymbols)
	}
	ptrs, err := pod.ReadSliceT[uint32](sc.s.mem, process.ProcessMemoryAddress(h.Symbols), int(h.NSymbols))
	if err != nil {
		return nil, fmt.Errorf("failed to read script symbols: %w", err)
	}
	out := make([]string, 0, len(ptrs))
	for _, p := range ptrs {
		name, err := readString(sc.s.mem, p)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

type Script struct {
	s    *Session
	id   int
	addr process.ProcessMemoryAddress
}

func (sc *Script) ID() int {
	return sc.id
}

func (sc *Script) Address() process.ProcessMemoryAddress {
	return sc.addr
}

func (sc *Script) Name() (string, error) {
	return sc.s.Scripts.t.name(sc.id)
}

func (sc *Script) debugInfo() (layout.ScriptDebugInfo, error) {
	script, err := pod.ReadT[layout.Script](sc.s.mem, sc.addr)
	if err != nil {
		return layout.ScriptDebugInfo{}, err
	}
	if script.DebugInfo == 0 {
		return layout.ScriptDebugInfo{}, fmt.Errorf("script %d has no debug info: %w", sc.id, process.ErrInvalidPointer)
	}
	return pod.ReadT[layout.ScriptDebugInfo](sc.s.mem, process.ProcessMemoryAddress(script.DebugInfo))
}

func (sc *Script) Compiled() (bool, error) {
	info, err := sc.debugInfo()
	return info.IsCompiled&1 != 0, err
}

// Length is the source length in bytes.
func (sc *Script) Length() (int, error) {
	info, err := sc.debugInfo()
	if err != nil {
		return 0, err
	}
	if info.Code == 0 {
		return 0, nil
	}
	n, err := stringLength(sc.s.mem, info.Code)
	return int(n), err
}

// Code returns the script source. 7.0 runners keep it scrambled through a
// byte substitution table which is undone here.
func (sc *Script) Code() (string, error) {
	info, err := sc.debugInfo()
	if err != nil {
		return "", err
	}
	code, err := readStringBytes(sc.s.mem, info.Code)
	if err != nil {
		return "", err
	}

	if sc.s.version == layout.V70 {
		swap, err := sc.s.swapTable()
		if err != nil {
			return "", err
		}
		for i, b := range code {
			code[i] = swap[b]
		}
	}
	return string(code), nil
}
