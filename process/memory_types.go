package process

import (
	"bytes"
	"fmt"
)

// PointerSize is the width of a pointer inside the host. The runtimes this
// module targets are 32-bit executables.
const PointerSize ProcessMemorySize = 4

// ProcessMemoryAddress represents a memory address within a process
type ProcessMemoryAddress uint64

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%08X", uint64(pma))
}

// Add returns the address moved forward by off bytes
func (pma ProcessMemoryAddress) Add(off ProcessMemorySize) ProcessMemoryAddress {
	return pma + ProcessMemoryAddress(off)
}

// ProcessMemorySize represents a size of memory region
type ProcessMemorySize uint

func (pms ProcessMemorySize) ToString() string {
	return fmt.Sprintf("%d bytes", uint(pms))
}

// AOB (Array of Bytes) represents a pattern to compare against memory
type AOB struct {
	Pattern []byte // The byte pattern to search for
	Mask    []byte // Optional mask where 0xFF means exact match and 0x00 means wildcard
}

// IsValid checks if the AOB pattern is valid
func (aob AOB) IsValid() bool {
	return len(aob.Pattern) > 0 && (aob.Mask == nil || len(aob.Pattern) == len(aob.Mask))
}

// Size is the number of bytes the pattern covers
func (aob AOB) Size() ProcessMemorySize {
	return ProcessMemorySize(len(aob.Pattern))
}

// Match reports whether data starts with the pattern, honoring the mask.
func (aob AOB) Match(data []byte) bool {
	if !aob.IsValid() || len(data) < len(aob.Pattern) {
		return false
	}
	if aob.Mask == nil {
		return bytes.Equal(data[:len(aob.Pattern)], aob.Pattern)
	}
	for i, p := range aob.Pattern {
		if aob.Mask[i] == 0xFF && data[i] != p {
			return false
		}
	}
	return true
}

func NewAOB(pattern, mask []byte) (AOB, error) {
	if len(pattern) != len(mask) {
		return AOB{}, fmt.Errorf("pattern and mask must be of the same length")
	}
	return AOB{Pattern: pattern, Mask: mask}, nil
}
