package gmapi

import (
	"bytes"
	"fmt"
	"unsafe"

	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
)

// maxStringLength bounds Delphi string reads so a corrupt length prefix
// cannot trigger a huge allocation.
const maxStringLength = 16 << 20

// maxArraySize bounds resource array reads; a larger capacity means the
// header is corrupt or the location is wrong.
const maxArraySize = 1 << 20

// readString reads the Delphi long string at ptr. The byte length is the
// 32-bit value stored just before the first character.
func readString(mem process.Process, ptr uint32) (string, error) {
	b, err := readStringBytes(mem, ptr)
	return string(b), err
}

func readStringBytes(mem process.Process, ptr uint32) ([]byte, error) {
	if ptr == 0 {
		return nil, nil
	}
	n, err := stringLength(mem, ptr)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	return mem.ReadMemory(process.ProcessMemoryAddress(ptr), process.ProcessMemorySize(n))
}

func stringLength(mem process.Process, ptr uint32) (uint32, error) {
	if ptr < 4 {
		return 0, fmt.Errorf("string at 0x%08X: %w", ptr, process.ErrInvalidPointer)
	}
	n, err := process.Read[uint32](mem, process.ProcessMemoryAddress(ptr-4))
	if err != nil {
		return 0, fmt.Errorf("failed to read string length at 0x%08X: %w", ptr-4, err)
	}
	if n > maxStringLength {
		return 0, fmt.Errorf("string at 0x%08X claims %d bytes", ptr, n)
	}
	return n, nil
}

// table is a view of a host resource table: a header holding a pointer to
// the item slots, a pointer to the parallel name slots and the capacity.
// Every call reads the header again since the runner grows and shrinks the
// arrays at will.
type table struct {
	mem  process.Process
	kind ResourceKind
	addr process.ProcessMemoryAddress

	itemsOffset process.ProcessMemorySize
	namesOffset process.ProcessMemorySize
	sizeOffset  process.ProcessMemorySize
}

func newTable(mem process.Process, kind ResourceKind, addr process.ProcessMemoryAddress, items, names, size process.ProcessMemorySize) table {
	return table{mem: mem, kind: kind, addr: addr, itemsOffset: items, namesOffset: names, sizeOffset: size}
}

// newStorageTable views a layout.ResourceStorage header.
func newStorageTable(mem process.Process, kind ResourceKind, addr process.ProcessMemoryAddress) table {
	var h layout.ResourceStorage
	return newTable(mem, kind, addr,
		process.ProcessMemorySize(unsafe.Offsetof(h.Items)),
		process.ProcessMemorySize(unsafe.Offsetof(h.Names)),
		process.ProcessMemorySize(unsafe.Offsetof(h.ArraySize)))
}

func (t table) arraySize() (int, error) {
	n, err := process.Read[int32](t.mem, t.addr.Add(t.sizeOffset))
	if err != nil {
		return 0, fmt.Errorf("failed to read %s array size: %w", t.kind, err)
	}
	if n < 0 {
		return 0, nil
	}
	if n > maxArraySize {
		return 0, fmt.Errorf("%s array claims %d slots", t.kind, n)
	}
	return int(n), nil
}

func (t table) pointerArray(offset process.ProcessMemorySize) (process.ProcessMemoryAddress, error) {
	p, err := process.ReadPointer(t.mem, t.addr.Add(offset))
	if err != nil {
		return 0, fmt.Errorf("failed to read %s table header: %w", t.kind, err)
	}
	return p, nil
}

// slots reads the whole pointer array at offset. A null array reads as no
// slots.
func (t table) slots(offset process.ProcessMemorySize) ([]uint32, error) {
	base, err := t.pointerArray(offset)
	if err != nil || base == 0 {
		return nil, err
	}
	n, err := t.arraySize()
	if err != nil {
		return nil, err
	}
	return pod.ReadSliceT[uint32](t.mem, base, n)
}

// slot returns the item pointer for id, or 0 when id is out of range or
// the slot is empty.
func (t table) slot(id int) (uint32, error) {
	n, err := t.arraySize()
	if err != nil {
		return 0, err
	}
	if id < 0 || id >= n {
		return 0, nil
	}

	base, err := t.pointerArray(t.itemsOffset)
	if err != nil || base == 0 {
		return 0, err
	}

	p, err := process.ReadPointer(t.mem, base.Add(process.ProcessMemorySize(id)*process.PointerSize))
	if err != nil {
		return 0, fmt.Errorf("failed to read %s slot %d: %w", t.kind, id, err)
	}
	return uint32(p), nil
}

func (t table) exists(id int) bool {
	p, err := t.slot(id)
	if err != nil {
		log.Debugln("exists", t.kind, id, err)
		return false
	}
	return p != 0
}

// get returns the item address for an existing id.
func (t table) get(id int) (process.ProcessMemoryAddress, error) {
	p, err := t.slot(id)
	if err != nil {
		return 0, err
	}
	if p == 0 {
		return 0, &ResourceNotFoundError{Kind: t.kind, ID: id}
	}
	return process.ProcessMemoryAddress(p), nil
}

func (t table) count() int {
	items, err := t.slots(t.itemsOffset)
	if err != nil {
		log.Debugln("count", t.kind, err)
		return 0
	}
	count := 0
	for _, p := range items {
		if p != 0 {
			count++
		}
	}
	return count
}

func (t table) all() []int {
	items, err := t.slots(t.itemsOffset)
	if err != nil {
		log.Debugln("all", t.kind, err)
		return nil
	}
	ids := []int{}
	for id, p := range items {
		if p != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// id returns the first id whose stored name equals name, or -1. Lengths
// are compared before any name bytes are read.
func (t table) id(name string) int {
	names, err := t.slots(t.namesOffset)
	if err != nil {
		log.Debugln("id", t.kind, name, err)
		return -1
	}

	want := []byte(name)
	for id, p := range names {
		if p == 0 {
			continue
		}
		n, err := stringLength(t.mem, p)
		if err != nil || int(n) != len(want) {
			continue
		}
		if n == 0 {
			return id
		}
		got, err := t.mem.ReadMemory(process.ProcessMemoryAddress(p), process.ProcessMemorySize(n))
		if err != nil {
			continue
		}
		if bytes.Equal(got, want) {
			return id
		}
	}
	return -1
}

func (t table) name(id int) (string, error) {
	base, err := t.pointerArray(t.namesOffset)
	if err != nil {
		return "", err
	}
	if base == 0 {
		return "", nil
	}
	p, err := process.ReadPointer(t.mem, base.Add(process.ProcessMemorySize(id)*process.PointerSize))
	if err != nil {
		return "", fmt.Errorf("failed to read %s name slot %d: %w", t.kind, id, err)
	}
	return readString(t.mem, uint32(p))
}

// resources implements the lookups shared by every named resource family.
type resources struct {
	t table
}

// Exists reports whether id is inside the live array and its slot is
// occupied.
func (r resources) Exists(id int) bool {
	return r.t.exists(id)
}

// ID returns the id of the resource called name, or -1. Names are case
// sensitive.
func (r resources) ID(name string) int {
	return r.t.id(name)
}

// Count returns the number of occupied slots. It walks the array on every
// call.
func (r resources) Count() int {
	return r.t.count()
}

func (r resources) ArraySize() int {
	n, err := r.t.arraySize()
	if err != nil {
		log.Debugln("array size", r.t.kind, err)
		return 0
	}
	return n
}

// All returns the ids of every existing resource in ascending order.
func (r resources) All() []int {
	return r.t.all()
}

// Name returns the stored name of an existing resource.
func (r resources) Name(id int) (string, error) {
	if !r.Exists(id) {
		return "", &ResourceNotFoundError{Kind: r.t.kind, ID: id}
	}
	return r.t.name(id)
}
