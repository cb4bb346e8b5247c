// gmapi_inspect attaches to a running Game Maker 6.1/7.0 game, or loads a
// saved dump of one, and prints what the resource tables contain.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gmapi/gmapi"
	"gmapi/hexdump"
	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
	"gmapi/process_blob"
	"gmapi/search"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run does the work of main so deferred cleanup happens before the process
// exits.
func run() error {
	pidFlag := flag.Int("pid", 0, "Process ID to attach to")
	nameFlag := flag.String("name", "", "Process name to attach to (e.g. game.exe)")
	fromFlag := flag.String("from", "", "Directory containing a saved dump")
	recipesFlag := flag.String("recipes", "", "INI file with layout overrides")
	saveFlag := flag.String("save", "", "Save the attached process to this directory")
	listFlag := flag.String("list", "", "Table to print: sprites, backgrounds, scripts, sounds, surfaces, textures, functions, locations")
	rawFlag := flag.String("raw", "", "Hexdump a record: sprite:ID, background:ID, sound:ID, script:ID or a hex address")
	sizeFlag := flag.Int("size", 0, "Bytes to dump with -raw (default: record size)")
	findFlag := flag.String("findpath", "", "Find pointer paths from BASE to a 32-bit VALUE, given as BASE=VALUE in hex")
	depthFlag := flag.Int("depth", 3, "Maximum pointer depth for -findpath")
	colorFlag := flag.Bool("color", true, "Colorize hexdumps")
	flag.Parse()

	catalog := layout.DefaultCatalog()
	if *recipesFlag != "" {
		var err error
		catalog, err = layout.LoadOverrides(*recipesFlag, catalog)
		if err != nil {
			return fmt.Errorf("loading recipes: %w", err)
		}
	}

	mem, err := open(*fromFlag, *pidFlag, *nameFlag)
	if err != nil {
		flag.Usage()
		return err
	}
	defer mem.Close()

	if *saveFlag != "" {
		name := *nameFlag
		if name == "" {
			name = fmt.Sprintf("pid-%d", mem.GetPID())
		}
		if err := process_blob.SaveProcess(mem, name, *saveFlag); err != nil {
			return fmt.Errorf("saving dump: %w", err)
		}
		fmt.Printf("Dump saved to %s\n", *saveFlag)
	}

	if *findFlag != "" {
		return findPath(mem, *findFlag, *depthFlag)
	}

	s, status, err := gmapi.Create(gmapi.Options{Memory: mem, Catalog: catalog})
	if err != nil {
		return fmt.Errorf("%s: %w", status, err)
	}
	defer gmapi.Destroy()

	printSummary(s)

	if *listFlag != "" {
		if err := list(s, *listFlag); err != nil {
			return err
		}
	}

	if *rawFlag != "" {
		return raw(s, *rawFlag, *sizeFlag, *colorFlag)
	}
	return nil
}

func open(from string, pid int, name string) (process.Process, error) {
	if from != "" {
		dump := process_blob.NewProcessDump()
		if err := dump.Load(from); err != nil {
			return nil, fmt.Errorf("loading dump from %s: %w", from, err)
		}
		fmt.Printf("Loaded dump of %s (PID %d) from %s\n", dump.Name, dump.PID, from)
		return dump, nil
	}
	if pid == 0 && name == "" {
		return nil, fmt.Errorf("one of --from, --pid or --name is required")
	}
	return openProcess(pid, name)
}

func printSummary(s *gmapi.Session) {
	fmt.Printf("Runner version: %s\n", s.Version())
	fmt.Printf("Functions: %d in table\n", len(s.Functions()))
	fmt.Printf("Sprites: %d  Backgrounds: %d  Scripts: %d  Sounds: %d  Surfaces: %d\n",
		s.Sprites.Count(), s.Backgrounds.Count(), s.Scripts.Count(), s.Sounds.Count(), s.Surfaces.Count())

	fmt.Printf("Main window: 0x%08X\n", uint32(s.MainWindowHandle()))
	fmt.Printf("Debug window: 0x%08X\n", uint32(s.DebugWindowHandle()))
	if h, err := s.HighscoreWindowHandle(); err == nil {
		fmt.Printf("Highscore window: 0x%08X\n", uint32(h))
	} else {
		fmt.Printf("Highscore window: %v\n", err)
	}
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08X", v)
}

func list(s *gmapi.Session, kind string) error {
	var t *pod.Table

	switch kind {
	case "sprites":
		t = pod.NewTable(
			pod.ColumnSpec{Header: "ID", AlignRight: true},
			pod.ColumnSpec{Header: "Name"},
			pod.ColumnSpec{Header: "Size"},
			pod.ColumnSpec{Header: "Subimages", AlignRight: true},
			pod.ColumnSpec{Header: "Origin"},
			pod.ColumnSpec{Header: "BBox"},
			pod.ColumnSpec{Header: "Address", FormatFunc: pod.AddressFormatter},
		)
		for _, id := range s.Sprites.All() {
			sp, err := s.Sprites.Get(id)
			if err != nil {
				return err
			}
			name, _ := sp.Name()
			w, _ := sp.Width()
			h, _ := sp.Height()
			n, _ := sp.SubimageCount()
			x, y, _ := sp.Origin()
			bbox, _ := sp.BoundingBoxType()
			t.AddRow(strconv.Itoa(id), name, fmt.Sprintf("%dx%d", w, h), strconv.Itoa(n),
				fmt.Sprintf("%d,%d", x, y), bbox.String(), hex32(uint32(sp.Address())))
		}

	case "backgrounds":
		t = pod.NewTable(
			pod.ColumnSpec{Header: "ID", AlignRight: true},
			pod.ColumnSpec{Header: "Name"},
			pod.ColumnSpec{Header: "Size"},
			pod.ColumnSpec{Header: "Texture", AlignRight: true},
			pod.ColumnSpec{Header: "Address", FormatFunc: pod.AddressFormatter},
		)
		for _, id := range s.Backgrounds.All() {
			bg, err := s.Backgrounds.Get(id)
			if err != nil {
				return err
			}
			name, _ := bg.Name()
			w, _ := bg.Width()
			h, _ := bg.Height()
			tex, _ := bg.TextureID()
			t.AddRow(strconv.Itoa(id), name, fmt.Sprintf("%dx%d", w, h), strconv.Itoa(tex), hex32(uint32(bg.Address())))
		}

	case "scripts":
		t = pod.NewTable(
			pod.ColumnSpec{Header: "ID", AlignRight: true},
			pod.ColumnSpec{Header: "Name"},
			pod.ColumnSpec{Header: "Compiled"},
			pod.ColumnSpec{Header: "Length", AlignRight: true},
			pod.ColumnSpec{Header: "Address", FormatFunc: pod.AddressFormatter},
		)
		for _, id := range s.Scripts.All() {
			sc, err := s.Scripts.Get(id)
			if err != nil {
				return err
			}
			name, _ := sc.Name()
			compiled, _ := sc.Compiled()
			n, _ := sc.Length()
			t.AddRow(strconv.Itoa(id), name, strconv.FormatBool(compiled), strconv.Itoa(n), hex32(uint32(sc.Address())))
		}

	case "sounds":
		t = pod.NewTable(
			pod.ColumnSpec{Header: "ID", AlignRight: true},
			pod.ColumnSpec{Header: "Name"},
			pod.ColumnSpec{Header: "Type"},
			pod.ColumnSpec{Header: "File"},
			pod.ColumnSpec{Header: "Volume", AlignRight: true},
			pod.ColumnSpec{Header: "Address", FormatFunc: pod.AddressFormatter},
		)
		for _, id := range s.Sounds.All() {
			so, err := s.Sounds.Get(id)
			if err != nil {
				return err
			}
			name, _ := so.Name()
			typ, _ := so.Type()
			file, _ := so.FileName()
			vol, _ := so.Volume()
			t.AddRow(strconv.Itoa(id), name, typ.String(), file, strconv.FormatFloat(vol, 'g', 3, 64), hex32(uint32(so.Address())))
		}

	case "surfaces":
		t = pod.NewTable(
			pod.ColumnSpec{Header: "ID", AlignRight: true},
			pod.ColumnSpec{Header: "Size"},
			pod.ColumnSpec{Header: "Texture", AlignRight: true},
		)
		for _, id := range s.Surfaces.All() {
			su, err := s.Surfaces.Get(id)
			if err != nil {
				return err
			}
			w, _ := su.Width()
			h, _ := su.Height()
			tex, _ := su.TextureID()
			t.AddRow(strconv.Itoa(id), fmt.Sprintf("%dx%d", w, h), strconv.Itoa(tex))
		}

	case "textures":
		t = pod.NewTable(
			pod.ColumnSpec{Header: "ID", AlignRight: true},
			pod.ColumnSpec{Header: "Image"},
			pod.ColumnSpec{Header: "Texture"},
			pod.ColumnSpec{Header: "D3D", FormatFunc: pod.AddressFormatter},
		)
		for id := 0; id < s.Textures.ArraySize(); id++ {
			if !s.Textures.Exists(id) {
				continue
			}
			tx, err := s.Textures.Get(id)
			if err != nil {
				return err
			}
			iw, ih, _ := tx.ImageSize()
			tw, th, _ := tx.TextureSize()
			d3d, _ := s.Textures.D3DTexture(id)
			t.AddRow(strconv.Itoa(id), fmt.Sprintf("%dx%d", iw, ih), fmt.Sprintf("%dx%d", tw, th), hex32(d3d))
		}

	case "functions":
		t = pod.NewTable(
			pod.ColumnSpec{Header: "#", AlignRight: true},
			pod.ColumnSpec{Header: "Name"},
			pod.ColumnSpec{Header: "Address", FormatFunc: pod.AddressFormatter},
		)
		for i, fi := range s.Functions() {
			t.AddRow(strconv.Itoa(i), fi.String(), hex32(fi.Address))
		}

	case "locations":
		t = pod.NewTable(
			pod.ColumnSpec{Header: "Key"},
			pod.ColumnSpec{Header: "Location"},
		)
		recipe := s.Recipe()
		locs := recipe.Locations()
		keys := make([]string, 0, len(locs))
		for k := range locs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.AddRow(k, locs[k].String())
		}

	default:
		return fmt.Errorf("unknown list %q", kind)
	}

	fmt.Printf("\n%s (%d):\n", kind, t.Len())
	return t.Render(os.Stdout)
}

func parseHex(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, 32)
}

func raw(s *gmapi.Session, arg string, size int, color bool) error {
	var addr process.ProcessMemoryAddress
	var recordSize int

	kind, idStr, found := strings.Cut(arg, ":")
	if !found {
		v, err := parseHex(arg)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", arg, err)
		}
		addr, recordSize = process.ProcessMemoryAddress(v), 64
	} else {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", idStr, err)
		}
		switch kind {
		case "sprite":
			sp, err := s.Sprites.Get(id)
			if err != nil {
				return err
			}
			addr, recordSize = sp.Address(), layout.SpriteSize
		case "background":
			bg, err := s.Backgrounds.Get(id)
			if err != nil {
				return err
			}
			addr, recordSize = bg.Address(), layout.BackgroundSize
		case "sound":
			so, err := s.Sounds.Get(id)
			if err != nil {
				return err
			}
			addr, recordSize = so.Address(), layout.SoundSize
		case "script":
			sc, err := s.Scripts.Get(id)
			if err != nil {
				return err
			}
			addr, recordSize = sc.Address(), layout.ScriptSize
		default:
			return fmt.Errorf("unknown record kind %q", kind)
		}
	}

	if size <= 0 {
		size = recordSize
	}
	fmt.Printf("\nHexdump at 0x%08X (%d bytes):\n", uint64(addr), size)
	return hexdump.Region(os.Stdout, s.Memory(), addr, process.ProcessMemorySize(size), color)
}

func findPath(mem process.Process, arg string, depth int) error {
	baseStr, valueStr, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("expected BASE=VALUE, got %q", arg)
	}
	base, err := parseHex(baseStr)
	if err != nil {
		return fmt.Errorf("invalid base %q: %w", baseStr, err)
	}
	value, err := parseHex(valueStr)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", valueStr, err)
	}

	results, err := search.Search(mem, process.ProcessMemoryAddress(base),
		search.WithSearchForType(uint32(value)),
		search.WithMaxDepth(depth),
	)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d paths to 0x%08X:\n", len(results), value)
	for _, r := range results {
		fmt.Println("  " + r.String())
	}
	return nil
}
