package gmapi

import (
	"sync/atomic"

	"gmapi/process"
)

// sessionMemory is the session's handle on the runner's address space.
// Every view reads through it; once detached all reads and writes fail
// with ErrNotInitialized, so views that outlive Destroy stop touching the
// host.
type sessionMemory struct {
	process.Process
	detached atomic.Bool
}

func newSessionMemory(mem process.Process) *sessionMemory {
	return &sessionMemory{Process: mem}
}

func (m *sessionMemory) detach() {
	m.detached.Store(true)
}

func (m *sessionMemory) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	if m.detached.Load() {
		return false
	}
	return m.Process.IsValidAddress(addr)
}

func (m *sessionMemory) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if m.detached.Load() {
		return nil, ErrNotInitialized
	}
	return m.Process.ReadMemory(addr, size)
}

func (m *sessionMemory) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if m.detached.Load() {
		return ErrNotInitialized
	}
	return m.Process.WriteMemory(addr, data)
}
