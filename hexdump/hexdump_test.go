package hexdump

import (
	"bytes"
	"strings"
	"testing"

	"gmapi/process/memory_map"
	"gmapi/process_blob"

	"github.com/stretchr/testify/require"
)

func TestDumpPlain(t *testing.T) {
	r := require.New(t)

	data := []byte("GMAPI\x00\x01\x02abcdefgh" + "xyz")
	options := DefaultOptions()
	options.Color = false
	options.StartAddress = 0x00400000

	out := Dump(data, options)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	r.Len(lines, 2)
	r.Equal("00400000  47 4d 41 50 49 00 01 02 | 61 62 63 64 65 66 67 68 | GMAPI... abcdefgh", lines[0])
	r.True(strings.HasPrefix(lines[1], "00400010  78 79 7a "))
	r.True(strings.HasSuffix(lines[1], "| xyz"))
	// the ascii column stays aligned on short lines
	r.Equal(strings.Index(lines[0], "| G"), strings.Index(lines[1], "| x"))
}

func TestDumpMaxLines(t *testing.T) {
	r := require.New(t)

	options := DefaultOptions()
	options.Color = false
	options.MaxLines = 1

	out := Dump(make([]byte, 40), options)
	r.Contains(out, "... 24 more bytes")
}

func TestDumpPointers(t *testing.T) {
	r := require.New(t)

	mm := []memory_map.MemoryMapItem{{Address: 0x02000000, Size: 0x1000, Perms: "rw-p"}}
	data := []byte{
		0x10, 0x00, 0x00, 0x02, // mapped
		0x10, 0x00, 0x00, 0x03, // not mapped
		0x00, 0x00, 0x00, 0x00,
		0xFC, 0x0F, 0x00, 0x02, // mapped
	}
	r.Equal([]uint32{0x02000010, 0x02000FFC}, pointers(data, mm))
	r.Nil(pointers(data, nil))

	options := DefaultOptions()
	options.Color = false
	options.MemoryMap = mm
	r.Contains(Dump(data, options), "| 0x02000010 0x02000ffc")
}

func TestRegion(t *testing.T) {
	r := require.New(t)

	dump := process_blob.NewProcessDump()
	r.NoError(dump.AddRegion(0x02000000, []byte{0x04, 0x00, 0x00, 0x02, 'h', 'i', 0, 0}, "rw-p"))

	var buf bytes.Buffer
	r.NoError(Region(&buf, dump, 0x02000000, 8, false))
	r.Contains(buf.String(), "02000000  04 00 00 02 68 69 00 00")
	r.Contains(buf.String(), "| 0x02000004")

	r.Error(Region(&buf, dump, 0x05000000, 8, false))
}
