// Package pod overlays plain-old-data Go structs onto host memory. The
// structs mirror host layouts byte for byte: fixed-size numbers, arrays
// and nested structs only, host pointers stored as uint32.
package pod

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"gmapi/process"
)

var ErrNotPOD = errors.New("type contains Go pointers; not POD-safe")

func SizeOf[T any]() process.ProcessMemorySize {
	var t T
	return process.ProcessMemorySize(unsafe.Sizeof(t))
}

// ReadT reads one T at addr.
func ReadT[T any](proc process.Process, addr process.ProcessMemoryAddress) (T, error) {
	var zero T

	if hasPointers[T]() {
		return zero, ErrNotPOD
	}

	size := SizeOf[T]()
	if size == 0 {
		return zero, errors.New("ReadT: size of T is zero")
	}

	data, err := proc.ReadMemory(addr, size)
	if err != nil {
		return zero, err
	}

	return FromBytes[T](data)
}

// FromBytes copies the first sizeof(T) bytes of data into a new T.
func FromBytes[T any](data []byte) (T, error) {
	var tmp T

	size := int(unsafe.Sizeof(tmp))
	if len(data) < size {
		return tmp, errors.New("FromBytes: buffer too small")
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(&tmp)), size)
	copy(dst, data[:size])
	return tmp, nil
}

// WriteT serializes a POD struct T into a raw byte slice using the in-memory layout.
func WriteT[T any](v T) []byte {
	size := int(unsafe.Sizeof(v))
	if size == 0 {
		return []byte{}
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), size)
	out := make([]byte, size)
	copy(out, src)
	return out
}

// StoreT writes v at addr.
func StoreT[T any](proc process.Process, addr process.ProcessMemoryAddress, v T) error {
	if hasPointers[T]() {
		return ErrNotPOD
	}
	return proc.WriteMemory(addr, WriteT(v))
}

// ReadSliceT reads count consecutive T values starting at addr in one read.
func ReadSliceT[T any](proc process.Process, addr process.ProcessMemoryAddress, count int) ([]T, error) {
	if count < 0 {
		return nil, errors.New("ReadSliceT: count must be positive")
	}
	if hasPointers[T]() {
		return nil, ErrNotPOD
	}

	size := SizeOf[T]()
	if size == 0 || count == 0 {
		return []T{}, nil
	}

	data, err := proc.ReadMemory(addr, size*process.ProcessMemorySize(count))
	if err != nil {
		return nil, err
	}

	result := make([]T, count)
	elementSize := int(size)
	for i := range count {
		element, err := FromBytes[T](data[i*elementSize:])
		if err != nil {
			return nil, fmt.Errorf("ReadSliceT: failed to parse element %d: %w", i, err)
		}
		result[i] = element
	}

	return result, nil
}

// hasPointers reports whether T (recursively) contains any pointer-like fields.
func hasPointers[T any]() bool {
	var t T
	return typeHasPointers(reflect.TypeOf(t))
}

func typeHasPointers(rt reflect.Type) bool {
	if rt == nil {
		return false
	}
	switch rt.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.String, reflect.Chan:
		return true
	case reflect.Array:
		return typeHasPointers(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if typeHasPointers(rt.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
