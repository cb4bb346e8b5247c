package search

import (
	"testing"

	"gmapi/process"
	"gmapi/process_blob"

	"github.com/stretchr/testify/require"
)

func newDump(t *testing.T) *process_blob.ProcessDump {
	r := require.New(t)

	image := make([]byte, 0x1000)
	// global at 0x00400100 -> instance at 0x02000000
	image[0x100], image[0x101], image[0x102], image[0x103] = 0x00, 0x00, 0x00, 0x02

	heap := make([]byte, 0x1000)
	// instance+0x30 holds the handle
	heap[0x30], heap[0x31], heap[0x32], heap[0x33] = 0xEF, 0xBE, 0xAD, 0xDE

	dump := process_blob.NewProcessDump()
	r.NoError(dump.AddRegion(0x00400000, image, "r--p"))
	r.NoError(dump.AddRegion(0x02000000, heap, "rw-p"))
	return dump
}

func TestSearchFindsChain(t *testing.T) {
	r := require.New(t)
	dump := newDump(t)

	results, err := Search(dump, 0x00400100,
		WithSearchForType(uint32(0xDEADBEEF)),
		WithMaxStructSize(0x40),
	)
	r.NoError(err)
	r.Len(results, 1)
	r.Equal([]process.ProcessMemorySize{0, 0x30}, results[0].Path)

	loc := results[0].Location()
	r.Equal("0x00400100,0x30", loc.String())

	addr, err := process.ResolvePath(dump, loc.Address, loc.Path()...)
	r.NoError(err)
	r.EqualValues(0x02000030, addr)
}

func TestSearchDepth(t *testing.T) {
	r := require.New(t)
	dump := newDump(t)

	results, err := Search(dump, 0x00400100,
		WithSearchForBytes([]byte{0xEF, 0xBE, 0xAD, 0xDE}),
		WithMaxStructSize(0x40),
		WithMaxDepth(0),
	)
	r.NoError(err)
	r.Empty(results)

	// direct hit in the base struct
	results, err = Search(dump, 0x02000000, WithSearchForType(uint32(0xDEADBEEF)), WithMaxStructSize(0x40))
	r.NoError(err)
	r.Len(results, 1)
	r.Equal("0x02000030", results[0].String())
}

func TestSearchOptions(t *testing.T) {
	r := require.New(t)
	dump := newDump(t)

	_, err := Search(dump, 0x00400100)
	r.ErrorIs(err, ErrNoTarget)

	_, err = Search(dump, 0x00400100, WithSearchForType(uint8(1)), WithMinAlignment(0))
	r.Error(err)

	// unreadable base yields nothing
	results, err := Search(dump, 0x10000000, WithSearchForType(uint8(1)))
	r.NoError(err)
	r.Empty(results)
}
