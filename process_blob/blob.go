package process_blob

import (
	"fmt"

	"gmapi/process"
)

// ProcessBlob is one contiguous region of host memory held locally.
type ProcessBlob struct {
	baseaddress process.ProcessMemoryAddress
	data        []byte
}

func NewProcessBlob(baseAddress process.ProcessMemoryAddress, data []byte) *ProcessBlob {
	return &ProcessBlob{
		baseaddress: baseAddress,
		data:        data,
	}
}

func (p *ProcessBlob) Data() []byte {
	return p.data
}

func (p *ProcessBlob) Base() process.ProcessMemoryAddress {
	return p.baseaddress
}

func (p *ProcessBlob) Size() process.ProcessMemorySize {
	return process.ProcessMemorySize(len(p.data))
}

// span returns the slice backing [addr, addr+size) or an error when the
// range leaves the blob
func (p *ProcessBlob) span(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if addr < p.baseaddress || uint64(addr-p.baseaddress)+uint64(size) > uint64(len(p.data)) {
		return nil, fmt.Errorf("range 0x%x+%d out of blob 0x%x+%d", uint64(addr), size, uint64(p.baseaddress), len(p.data))
	}
	offset := uint64(addr - p.baseaddress)
	return p.data[offset : offset+uint64(size)], nil
}

// ReadMemory returns a copy of the requested range
func (p *ProcessBlob) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	src, err := p.span(addr, size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, src)
	return out, nil
}

// WriteMemory overwrites the range starting at addr
func (p *ProcessBlob) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	dst, err := p.span(addr, process.ProcessMemorySize(len(data)))
	if err != nil {
		return err
	}
	copy(dst, data)
	return nil
}
