// Package hexdump renders runner memory for the inspect tool.
package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"gmapi/process"
	"gmapi/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// Options defines options for customizing the hexdump output
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// StartAddress is printed in the address column of the first line
	StartAddress process.ProcessMemoryAddress

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int

	// Color enables ANSI colors
	Color bool

	// MemoryMap, when set, annotates each line with the host pointers it
	// contains
	MemoryMap []memory_map.MemoryMapItem
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{
		BytesPerLine: 16,
		Color:        true,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(w io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}

	lines := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lines >= options.MaxLines {
			fmt.Fprintf(w, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := min(offset+options.BytesPerLine, len(data))
		formatLine(w, data[offset:end], options.StartAddress.Add(process.ProcessMemorySize(offset)), options)
		lines++
	}
}

// Region reads size bytes at addr from proc and dumps them with pointer
// annotations taken from the process memory map.
func Region(w io.Writer, proc process.Process, addr process.ProcessMemoryAddress, size process.ProcessMemorySize, color bool) error {
	data, err := proc.ReadMemory(addr, size)
	if err != nil {
		return err
	}
	mm, err := proc.GetMemoryMap()
	if err != nil {
		return err
	}

	options := DefaultOptions()
	options.StartAddress = addr
	options.Color = color
	options.MemoryMap = mm
	DumpToWriter(w, data, options)
	return nil
}

// 00400000  00 01 02 03 04 05 06 07 | 08 09 0a 0b 0c 0d 0e 0f | ........ ........ | 0x02000010
func formatLine(w io.Writer, data []byte, addr process.ProcessMemoryAddress, options Options) {
	paint := func(fg coloransi.ColorCode, s string) string {
		if !options.Color {
			return s
		}
		return coloransi.Foreground(fg, s)
	}

	fmt.Fprint(w, paint(coloransi.Cyan, fmt.Sprintf("%08x", uint64(addr))), "  ")

	half := options.BytesPerLine / 2
	for i := 0; i < options.BytesPerLine; i++ {
		if i > 0 {
			if i == half {
				fmt.Fprint(w, " | ")
			} else {
				fmt.Fprint(w, " ")
			}
		}
		switch {
		case i >= len(data):
			fmt.Fprint(w, "  ")
		case data[i] == 0:
			fmt.Fprint(w, paint(coloransi.BrightBlack, "00"))
		default:
			fmt.Fprint(w, paint(coloransi.Green, fmt.Sprintf("%02x", data[i])))
		}
	}

	fmt.Fprint(w, " | ")
	for i, b := range data {
		if i == half {
			fmt.Fprint(w, " ")
		}
		switch {
		case b == 0:
			fmt.Fprint(w, paint(coloransi.BrightBlack, "."))
		case b < 0x20 || b > 0x7e:
			fmt.Fprint(w, paint(coloransi.Red, "."))
		default:
			fmt.Fprint(w, paint(coloransi.White, string(rune(b))))
		}
	}

	if ptrs := pointers(data, options.MemoryMap); len(ptrs) > 0 {
		fmt.Fprint(w, strings.Repeat(" ", options.BytesPerLine-len(data)), " | ")
		for i, p := range ptrs {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprint(w, paint(coloransi.Yellow, fmt.Sprintf("0x%08x", p)))
		}
	}

	fmt.Fprintln(w)
}

// pointers returns the aligned host pointer values in data that land in a
// mapped region.
func pointers(data []byte, mm []memory_map.MemoryMapItem) []uint32 {
	if len(mm) == 0 {
		return nil
	}

	var out []uint32
	for off := 0; off+int(process.PointerSize) <= len(data); off += int(process.PointerSize) {
		v := binary.LittleEndian.Uint32(data[off:])
		if v != 0 && memory_map.IsValidAddress(uint64(v), mm) {
			out = append(out, v)
		}
	}
	return out
}
