package process

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// ReadPath follows a pointer path and reads a value of type T at its end.
// Every offset except the last is one hop: add the offset, read a host
// pointer, continue from there. The last offset is added to the final
// pointer and T is read from that address. If offsets is empty, it reads
// T from base.
func ReadPath[T any](proc Process, base ProcessMemoryAddress, offsets ...ProcessMemorySize) (T, error) {
	var zero T

	addr, err := ResolvePath(proc, base, offsets...)
	if err != nil {
		return zero, err
	}

	val, err := Read[T](proc, addr)
	if err != nil {
		return zero, fmt.Errorf("failed to read final value at 0x%x: %w", addr, err)
	}
	return val, nil
}

// ResolvePath walks the same hops as ReadPath and returns the final address
// without reading it.
func ResolvePath(proc Process, base ProcessMemoryAddress, offsets ...ProcessMemorySize) (ProcessMemoryAddress, error) {
	currentAddr := base

	for i := 0; i < len(offsets)-1; i++ {
		ptrAddr := currentAddr.Add(offsets[i])

		ptrVal, err := ReadPointer(proc, ptrAddr)
		if err != nil {
			return 0, fmt.Errorf("failed to read pointer at offset %d (addr 0x%x): %w", i, ptrAddr, err)
		}
		if ptrVal == 0 {
			return 0, fmt.Errorf("pointer at offset %d (addr 0x%x) is null: %w", i, ptrAddr, ErrInvalidPointer)
		}

		currentAddr = ptrVal
	}

	if len(offsets) > 0 {
		currentAddr = currentAddr.Add(offsets[len(offsets)-1])
	}
	return currentAddr, nil
}

// ReadPointer reads a host pointer (PointerSize bytes, little endian).
func ReadPointer(proc Process, addr ProcessMemoryAddress) (ProcessMemoryAddress, error) {
	data, err := proc.ReadMemory(addr, PointerSize)
	if err != nil {
		return 0, err
	}
	return ProcessMemoryAddress(binary.LittleEndian.Uint32(data)), nil
}

// ReadNTS reads a null-terminated string with a maximum length
func ReadNTS(proc Process, addr ProcessMemoryAddress, maxLength ProcessMemorySize) (string, error) {
	if maxLength == 0 {
		return "", nil
	}

	data, err := proc.ReadMemory(addr, maxLength)
	if err != nil {
		return "", err
	}

	for i, b := range data {
		if b == 0 {
			return string(data[:i]), nil
		}
	}
	return string(data), nil
}

// Read is a helper to read a single value of type T from memory.
// T must be plain data: fixed-size numbers, arrays and structs of them.
func Read[T any](proc Process, addr ProcessMemoryAddress) (T, error) {
	var t T
	size := ProcessMemorySize(unsafe.Sizeof(t))
	if size == 0 {
		return t, nil
	}

	data, err := proc.ReadMemory(addr, size)
	if err != nil {
		return t, err
	}

	copyTo(&t, data)
	return t, nil
}

// Write stores the raw bytes of v at addr.
func Write[T any](proc Process, addr ProcessMemoryAddress, v T) error {
	size := int(unsafe.Sizeof(v))
	if size == 0 {
		return nil
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), size)
	data := make([]byte, size)
	copy(data, src)
	return proc.WriteMemory(addr, data)
}

// copyTo copies bytes to *T
func copyTo[T any](dst *T, src []byte) {
	size := int(unsafe.Sizeof(*dst))
	if len(src) < size {
		return
	}

	dstBytes := unsafe.Slice((*byte)(unsafe.Pointer(dst)), size)
	copy(dstBytes, src)
}
