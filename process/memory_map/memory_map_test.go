package memory_map

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	r := require.New(t)

	mm := []MemoryMapItem{
		{Address: 0x02000000, Size: 0x1000, Perms: "rw-p"},
		{Address: 0x00400000, Size: 0x2000, Perms: "r-xp"},
		{Address: 0x00402000, Size: 0x1000, Perms: "---p"},
	}
	Sort(mm)
	r.EqualValues(0x00400000, mm[0].Address)
	r.EqualValues(0x02000000, mm[2].Address)

	for _, addr := range []uint64{0x00400000, 0x00401FFF, 0x00402000, 0x02000FFF} {
		r.True(IsValidAddress(addr, mm), "0x%x", addr)
		r.NotNil(IsValidAddress2(addr, mm), "0x%x", addr)
	}
	for _, addr := range []uint64{0, 0x003FFFFF, 0x00403000, 0x02001000} {
		r.False(IsValidAddress(addr, mm), "0x%x", addr)
		r.Nil(IsValidAddress2(addr, mm), "0x%x", addr)
	}

	region := GetMemoryRegionForAddress(0x00402010, mm)
	r.NotNil(region)
	r.False(region.IsReadable())
	r.True(mm[0].IsReadable())
	r.False(mm[0].IsWritable())
	r.True(mm[2].IsWritable())

	r.True(mm[0].Contains(0x00401FF0, 0x10))
	r.False(mm[0].Contains(0x00401FF0, 0x11))
	r.EqualValues(0x00402000, mm[0].End())
}
