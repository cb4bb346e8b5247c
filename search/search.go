// Package search finds pointer paths from a static address to a value.
// It is used to rediscover catalog locations when a runner build moves
// its globals around.
package search

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"gmapi/layout"
	"gmapi/process"
)

var ErrNoTarget = errors.New("no search target specified")

// Searcher holds configuration for the search
type Searcher struct {
	MaxStructSize uint
	MaxDepth      int
	MinAlignment  uint
	SearchFor     func([]byte) bool
}

// Option is a function that configures a Searcher
type Option func(*Searcher)

func WithMaxStructSize(size uint) Option {
	return func(s *Searcher) {
		s.MaxStructSize = size
	}
}

func WithMaxDepth(depth int) Option {
	return func(s *Searcher) {
		s.MaxDepth = depth
	}
}

func WithMinAlignment(align uint) Option {
	return func(s *Searcher) {
		s.MinAlignment = align
	}
}

// WithSearchForType matches the raw little endian bytes of val.
func WithSearchForType[T any](val T) Option {
	want := unsafe.Slice((*byte)(unsafe.Pointer(&val)), int(unsafe.Sizeof(val)))
	return WithSearchForBytes(append([]byte(nil), want...))
}

func WithSearchForBytes(want []byte) Option {
	return func(s *Searcher) {
		s.SearchFor = func(data []byte) bool {
			if len(data) < len(want) {
				return false
			}
			for i := range want {
				if data[i] != want[i] {
					return false
				}
			}
			return true
		}
	}
}

// SearchResult is one path to the target. Every offset but the last is a
// pointer hop; the last is where the value sits in the final struct.
type SearchResult struct {
	Base process.ProcessMemoryAddress
	Path []process.ProcessMemorySize
}

// Location converts the path to a catalog location that resolves to the
// address of the match.
func (r SearchResult) Location() layout.Location {
	if len(r.Path) == 0 {
		return layout.Direct(r.Base)
	}
	return layout.Chain(r.Base.Add(r.Path[0]), r.Path[1:]...)
}

func (r SearchResult) String() string {
	return r.Location().String()
}

// Search walks host pointers from base, depth first, and reports every
// offset whose bytes satisfy the target.
func Search(proc process.Process, base process.ProcessMemoryAddress, options ...Option) ([]SearchResult, error) {
	s := &Searcher{
		MaxStructSize: 256,
		MaxDepth:      3,
		MinAlignment:  4,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.SearchFor == nil {
		return nil, ErrNoTarget
	}
	if s.MinAlignment == 0 {
		return nil, fmt.Errorf("alignment must be positive")
	}

	var results []SearchResult
	visited := make(map[process.ProcessMemoryAddress]bool)
	ptrSize := uint(process.PointerSize)

	var walk func(addr process.ProcessMemoryAddress, depth int, path []process.ProcessMemorySize)
	walk = func(addr process.ProcessMemoryAddress, depth int, path []process.ProcessMemorySize) {
		if depth > s.MaxDepth || visited[addr] {
			return
		}
		visited[addr] = true

		data, err := proc.ReadMemory(addr, process.ProcessMemorySize(s.MaxStructSize))
		if err != nil {
			return
		}

		for offset := uint(0); offset+s.MinAlignment <= uint(len(data)); offset += s.MinAlignment {
			next := append(append([]process.ProcessMemorySize(nil), path...), process.ProcessMemorySize(offset))

			if s.SearchFor(data[offset:]) {
				results = append(results, SearchResult{Base: base, Path: next})
			}

			if depth == s.MaxDepth || offset%ptrSize != 0 || offset+ptrSize > uint(len(data)) {
				continue
			}
			ptr := process.ProcessMemoryAddress(binary.LittleEndian.Uint32(data[offset:]))
			if ptr != 0 && proc.IsValidAddress(ptr) {
				walk(ptr, depth+1, next)
			}
		}
	}

	walk(base, 0, nil)

	return results, nil
}
