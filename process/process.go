// Package process describes a host process whose memory can be read and
// written, independent of how the memory is reached (live process, Wine
// process, saved image).
package process

import "errors"

var (
	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	// ErrInvalidPointer is returned when a pointer hop reads a null or unmapped pointer.
	ErrInvalidPointer = errors.New("invalid pointer read")
)
