//go:build windows

package process_windows

import (
	"fmt"
	"sync"

	"gmapi/process"
	"gmapi/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

const processAccess = windows.PROCESS_VM_READ |
	windows.PROCESS_VM_WRITE |
	windows.PROCESS_VM_OPERATION |
	windows.PROCESS_QUERY_INFORMATION

// WindowsProcess implements the process.Process interface for Windows systems
type WindowsProcess struct {
	pid    process.ProcessID
	handle windows.Handle
	self   bool
	log    *logger.Logger
	mm     []memory_map.MemoryMapItem
	mu     sync.Mutex
}

var _ process.Process = (*WindowsProcess)(nil)

// New creates a new WindowsProcess instance
func New() process.Process {
	return &WindowsProcess{
		log: logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")),
	}
}

// NewWithPID creates a new WindowsProcess instance and opens it with the given PID
func NewWithPID(pid process.ProcessID) (process.Process, error) {
	p := &WindowsProcess{}
	if err := p.Open(pid); err != nil {
		return nil, err
	}
	return p, nil
}

// NewSelf opens the current process. A plugin loaded into the runtime
// reads the runtime's tables through this.
func NewSelf() (process.Process, error) {
	p := &WindowsProcess{}
	if err := p.Open(process.ProcessID(windows.GetCurrentProcessId())); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *WindowsProcess) Open(pid process.ProcessID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var handle windows.Handle
	if uint32(pid) == windows.GetCurrentProcessId() {
		handle = windows.CurrentProcess()
		p.self = true
	} else {
		h, err := windows.OpenProcess(processAccess, false, uint32(pid))
		if err != nil {
			return fmt.Errorf("OpenProcess(%d) failed: %w", pid, err)
		}
		handle = h
	}

	p.pid = pid
	p.handle = handle
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))

	if err := p.updateMemoryMapInternal(); err != nil {
		p.log.Warn("Failed to initialize memory map: ", err)
	}

	p.log.Infoln("Process opened")
	return nil
}

func (p *WindowsProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != 0 && !p.self {
		if err := windows.CloseHandle(p.handle); err != nil {
			return fmt.Errorf("CloseHandle failed: %w", err)
		}
	}

	p.handle = 0
	p.self = false
	p.pid = 0
	p.mm = nil
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))
	p.log.Infoln("Process closed")

	return nil
}

func (p *WindowsProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

func (p *WindowsProcess) UpdateMemoryMap() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updateMemoryMapInternal()
}

func (p *WindowsProcess) updateMemoryMapInternal() error {
	if p.handle == 0 {
		return process.ErrProcessNotOpen
	}

	mm, err := memory_map.NewWindowsMemoryMap().ReadMemoryMapHandle(p.handle)
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}
	memory_map.Sort(mm)
	p.mm = mm
	return nil
}

func (p *WindowsProcess) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	item := memory_map.IsValidAddress2(uint64(addr), p.mm)
	return item != nil && item.IsReadable()
}

func (p *WindowsProcess) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == 0 {
		return nil, process.ErrProcessNotOpen
	}
	result := make([]memory_map.MemoryMapItem, len(p.mm))
	copy(result, p.mm)
	return result, nil
}

func (p *WindowsProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return nil, process.ErrProcessNotOpen
	}

	buf := make([]byte, size)
	var bytesRead uintptr
	if err := windows.ReadProcessMemory(handle, uintptr(addr), &buf[0], uintptr(size), &bytesRead); err != nil {
		return nil, fmt.Errorf("ReadProcessMemory(0x%x, %d) failed: %w", uint64(addr), size, err)
	}

	if bytesRead != uintptr(size) {
		return nil, fmt.Errorf("read incomplete: expected %d, got %d", size, bytesRead)
	}

	return buf, nil
}

// WriteMemory writes data, lifting page protection for the duration of the
// write when the target page is not writable (code patches).
func (p *WindowsProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return process.ErrProcessNotOpen
	}

	size := uintptr(len(data))
	var oldProtect uint32
	if err := windows.VirtualProtectEx(handle, uintptr(addr), size, windows.PAGE_EXECUTE_READWRITE, &oldProtect); err != nil {
		return fmt.Errorf("VirtualProtectEx(0x%x) failed: %w", uint64(addr), err)
	}
	defer windows.VirtualProtectEx(handle, uintptr(addr), size, oldProtect, &oldProtect)

	var written uintptr
	if err := windows.WriteProcessMemory(handle, uintptr(addr), &data[0], size, &written); err != nil {
		return fmt.Errorf("WriteProcessMemory(0x%x, %d) failed: %w", uint64(addr), len(data), err)
	}
	if written != size {
		return fmt.Errorf("only wrote %d of %d bytes", written, len(data))
	}

	return nil
}
