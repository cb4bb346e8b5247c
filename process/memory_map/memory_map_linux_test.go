//go:build linux

package memory_map

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMapsLine(t *testing.T) {
	r := require.New(t)

	item, ok := parseMapsLine("00400000-0068b000 r-xp 00000000 08:01 1234   /games/game.exe")
	r.True(ok)
	r.Equal(MemoryMapItem{Address: 0x00400000, Size: 0x28b000, Perms: "r-xp"}, item)

	item, ok = parseMapsLine("7f0000000000-7f0000001000 rw-p 00000000 00:00 0")
	r.True(ok)
	r.EqualValues(0x1000, item.Size)

	for _, line := range []string{"", "00400000", "zz-0040 r--p", "00500000-00400000 r--p"} {
		_, ok = parseMapsLine(line)
		r.False(ok, line)
	}

	m := NewLinuxMemoryMap()
	r.True(m.IsReadablePerms("r--p"))
	r.False(m.IsWritablePerms("r--p"))
	r.True(m.IsExecutablePerms("r-xp"))
}
