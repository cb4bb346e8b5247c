//go:build linux

package process_linux

import (
	"fmt"

	"gmapi/process"

	"golang.org/x/sys/unix"
)

// ReadMemory reads memory from the process with process_vm_readv
func (p *LinuxProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	p.mu.Lock()
	pid := p.pid
	region := p.regionFor(addr)
	p.mu.Unlock()

	if pid == 0 {
		return nil, process.ErrProcessNotOpen
	}
	if region == nil || !region.IsReadable() {
		return nil, fmt.Errorf("0x%x: %w", uint64(addr), process.ErrAddressNotMapped)
	}

	buf := make([]byte, size)
	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(int(size))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: int(size)}}

	n, err := unix.ProcessVMReadv(int(pid), local, remote, 0)
	if err != nil {
		return nil, fmt.Errorf("process_vm_readv: failed to read process memory: %w", err)
	}
	if n != int(size) {
		return nil, fmt.Errorf("partial read: %d of %d bytes", n, size)
	}

	return buf, nil
}

// WriteMemory writes data to a writable region with process_vm_writev
func (p *LinuxProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	p.mu.Lock()
	pid := p.pid
	region := p.regionFor(addr)
	p.mu.Unlock()

	if pid == 0 {
		return process.ErrProcessNotOpen
	}
	if region == nil {
		return fmt.Errorf("memory region not found for address %x", uint64(addr))
	}
	if !region.IsWritable() {
		return fmt.Errorf("memory region at %x is not writable", region.Address)
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	local := []unix.Iovec{{Base: &dataCopy[0]}}
	local[0].SetLen(len(dataCopy))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(dataCopy)}}

	n, err := unix.ProcessVMWritev(int(pid), local, remote, 0)
	if err != nil {
		return fmt.Errorf("failed to write process memory: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("only wrote %d of %d bytes", n, len(data))
	}

	return nil
}
