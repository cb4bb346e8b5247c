package pod

import (
	"bytes"
	"testing"

	"gmapi/process_blob"

	"github.com/stretchr/testify/require"
)

type record struct {
	Kind  uint8
	_     [3]byte
	Count int32
	Items uint32
	Flags uint32
	Scale float64
}

type withPointer struct {
	Name *string
}

func TestReadStore(t *testing.T) {
	r := require.New(t)

	dump := process_blob.NewProcessDump()
	r.NoError(dump.AddRegion(0x02000000, make([]byte, 0x100), "rw-p"))

	r.EqualValues(24, SizeOf[record]())

	in := record{Kind: 2, Count: -3, Items: 0x02000040, Scale: 0.5}
	r.NoError(StoreT(dump, 0x02000010, in))

	out, err := ReadT[record](dump, 0x02000010)
	r.NoError(err)
	r.Equal(in, out)

	raw, err := dump.ReadMemory(0x02000010, 8)
	r.NoError(err)
	r.Equal([]byte{2, 0, 0, 0, 0xFD, 0xFF, 0xFF, 0xFF}, raw)

	_, err = ReadT[record](dump, 0x020000F0)
	r.Error(err, "record runs past the region")
}

func TestReadSlice(t *testing.T) {
	r := require.New(t)

	dump := process_blob.NewProcessDump()
	r.NoError(dump.AddRegion(0x02000000, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}, "rw-p"))

	vals, err := ReadSliceT[uint32](dump, 0x02000000, 3)
	r.NoError(err)
	r.Equal([]uint32{1, 2, 3}, vals)

	vals, err = ReadSliceT[uint32](dump, 0x02000000, 0)
	r.NoError(err)
	r.Empty(vals)

	_, err = ReadSliceT[uint32](dump, 0x02000000, -1)
	r.Error(err)
	_, err = ReadSliceT[uint32](dump, 0x02000000, 4)
	r.Error(err)
}

func TestPointersRejected(t *testing.T) {
	r := require.New(t)

	dump := process_blob.NewProcessDump()
	r.NoError(dump.AddRegion(0x02000000, make([]byte, 0x10), "rw-p"))

	_, err := ReadT[withPointer](dump, 0x02000000)
	r.ErrorIs(err, ErrNotPOD)
	r.ErrorIs(StoreT(dump, 0x02000000, withPointer{}), ErrNotPOD)
	_, err = ReadSliceT[[2]string](dump, 0x02000000, 1)
	r.ErrorIs(err, ErrNotPOD)

	_, err = FromBytes[record](make([]byte, 4))
	r.Error(err)
}

func TestTable(t *testing.T) {
	r := require.New(t)

	tbl := NewTable(
		ColumnSpec{Header: "ID", AlignRight: true},
		ColumnSpec{Header: "Name", MinWidth: 6},
		ColumnSpec{Header: "Address", FormatFunc: AddressFormatter},
	)
	tbl.AddRow("1", "spr_player", "0x02000010")
	tbl.AddRow("12", "", "0x00000000")
	r.Equal(2, tbl.Len())

	var buf bytes.Buffer
	r.NoError(tbl.Render(&buf))

	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("\n"))
	r.Len(lines, 4)
	r.Equal("ID Name       Address   ", string(lines[0]))
	r.Equal("-- ---------- ----------", string(lines[1]))
	r.Equal(" 1 spr_player 0x02000010", string(lines[2]))
	r.Equal("12 -          "+ColorGray("0x00000000"), string(lines[3]))

	r.Equal(4, visibleLength(ColorGray("abcd")))
}
