package layout

import (
	"fmt"
	"strconv"
	"strings"

	"gmapi/process"
)

// DispatchCapacity is the number of slots in the engine function dispatch
// table. FunctionID values index it.
const DispatchCapacity = 1000

type Version int

const (
	Unsupported Version = iota
	V61
	V70
)

// Code is the version number reported by the host core's initializer.
func (v Version) Code() uint32 {
	switch v {
	case V61:
		return 61
	case V70:
		return 70
	}
	return 0
}

func (v Version) String() string {
	switch v {
	case V61:
		return "6.1"
	case V70:
		return "7.0"
	}
	return "unsupported"
}

// VersionFromCode maps a host core version code back to a Version.
func VersionFromCode(code uint32) Version {
	switch code {
	case 61:
		return V61
	case 70:
		return V70
	}
	return Unsupported
}

// Location says where a value lives in the host. With no offsets it is
// Address itself. Each offset adds one hop: the current address is read as
// a host pointer and the offset is added to it.
type Location struct {
	Address     process.ProcessMemoryAddress
	Offsets     []process.ProcessMemorySize
	Unsupported bool
}

func Direct(addr process.ProcessMemoryAddress) Location {
	return Location{Address: addr}
}

func Chain(addr process.ProcessMemoryAddress, offsets ...process.ProcessMemorySize) Location {
	return Location{Address: addr, Offsets: offsets}
}

// NotSupported marks a value this runtime version never exposes.
func NotSupported() Location {
	return Location{Unsupported: true}
}

// Path returns the offsets in the form process.ResolvePath expects.
func (l Location) Path() []process.ProcessMemorySize {
	if len(l.Offsets) == 0 {
		return nil
	}
	path := make([]process.ProcessMemorySize, 0, len(l.Offsets)+1)
	path = append(path, 0)
	return append(path, l.Offsets...)
}

func (l Location) String() string {
	if l.Unsupported {
		return "unsupported"
	}
	parts := []string{fmt.Sprintf("0x%08X", uint64(l.Address))}
	for _, off := range l.Offsets {
		parts = append(parts, fmt.Sprintf("0x%X", uint(off)))
	}
	return strings.Join(parts, ",")
}

// ParseLocation parses the String form: "unsupported" or a comma separated
// list of numbers, the first being the address and the rest hop offsets.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "unsupported") {
		return NotSupported(), nil
	}

	fields := strings.Split(s, ",")
	var loc Location
	for i, field := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(field), 0, 32)
		if err != nil {
			return Location{}, fmt.Errorf("location %q: field %d: %w", s, i, err)
		}
		if i == 0 {
			loc.Address = process.ProcessMemoryAddress(v)
			continue
		}
		loc.Offsets = append(loc.Offsets, process.ProcessMemorySize(v))
	}
	if loc.Address == 0 {
		return Location{}, fmt.Errorf("location %q: null address", s)
	}
	return loc, nil
}

// Signature identifies a runtime version by the bytes found at a fixed
// address of its image.
type Signature struct {
	Address process.ProcessMemoryAddress
	AOB     process.AOB
}

// Recipe is everything needed to find one runtime version's tables.
type Recipe struct {
	Version   Version
	Signature Signature

	FunctionInfo    Location // FunctionInfoStorage
	Sprites         Location // ResourceStorage of Sprite
	Backgrounds     Location // ResourceStorage of Background
	Scripts         Location // ScriptStorage
	Sounds          Location // ResourceStorage of Sound
	Surfaces        Location // pointer to an array of Surface
	SurfaceCount    Location // int32
	Textures        Location // pointer to an array of Texture
	TextureCount    Location // int32
	Direct3D        Location // Direct3DInfo
	ScriptSwapTable Location // [256]byte

	MainWindow      Location // HWND
	DebugWindow     Location // HWND, the debugger instance only exists in debug mode
	HighscoreWindow Location // HWND
}

// Locations returns the recipe's named locations, keyed the same way the
// override file keys them.
func (r *Recipe) Locations() map[string]*Location {
	return map[string]*Location{
		"function_info":     &r.FunctionInfo,
		"sprites":           &r.Sprites,
		"backgrounds":       &r.Backgrounds,
		"scripts":           &r.Scripts,
		"sounds":            &r.Sounds,
		"surfaces":          &r.Surfaces,
		"surface_count":     &r.SurfaceCount,
		"textures":          &r.Textures,
		"texture_count":     &r.TextureCount,
		"direct3d":          &r.Direct3D,
		"script_swap_table": &r.ScriptSwapTable,
		"main_window":       &r.MainWindow,
		"debug_window":      &r.DebugWindow,
		"highscore_window":  &r.HighscoreWindow,
	}
}

func (r Recipe) clone() Recipe {
	c := r
	for _, loc := range c.Locations() {
		loc.Offsets = append([]process.ProcessMemorySize(nil), loc.Offsets...)
	}
	c.Signature.AOB.Pattern = append([]byte(nil), r.Signature.AOB.Pattern...)
	if r.Signature.AOB.Mask != nil {
		c.Signature.AOB.Mask = append([]byte(nil), r.Signature.AOB.Mask...)
	}
	return c
}

// Catalog is the ordered list of known runtime versions. Version detection
// probes signatures in this order.
type Catalog []Recipe

func (c Catalog) Recipe(v Version) (Recipe, bool) {
	for _, r := range c {
		if r.Version == v {
			return r, true
		}
	}
	return Recipe{}, false
}

func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for i, r := range c {
		out[i] = r.clone()
	}
	return out
}

// Window field offsets inside the runner, debugger and highscore form
// instances.
const (
	RunnerWindowOffset    process.ProcessMemorySize = 0x30
	DebugWindowOffset     process.ProcessMemorySize = 0x180
	HighscoreWindowOffset process.ProcessMemorySize = 0xB8
)

// Both runners carry the "Game Maker" product string at a fixed spot of
// their resource section; the major version digit tells them apart.
var (
	signature70 = []byte("Game Maker 7.0")
	signature61 = []byte("Game Maker 6.1")
)

var defaultCatalog = Catalog{
	{
		Version:   V70,
		Signature: Signature{Address: 0x0058A3C4, AOB: process.AOB{Pattern: signature70}},

		FunctionInfo:    Direct(0x00686AE8),
		Sprites:         Direct(0x00686A28),
		Backgrounds:     Direct(0x00686A68),
		Scripts:         Direct(0x00686AA0),
		Sounds:          Direct(0x00686A48),
		Surfaces:        Direct(0x00686B28),
		SurfaceCount:    Direct(0x00686B2C),
		Textures:        Direct(0x00686B40),
		TextureCount:    Direct(0x00686B44),
		Direct3D:        Direct(0x00686B60),
		ScriptSwapTable: Direct(0x00686C00),

		MainWindow:      Chain(0x00686950, RunnerWindowOffset),
		DebugWindow:     Chain(0x00686954, DebugWindowOffset),
		HighscoreWindow: Chain(0x00686958, HighscoreWindowOffset),
	},
	{
		Version:   V61,
		Signature: Signature{Address: 0x004F7A14, AOB: process.AOB{Pattern: signature61}},

		FunctionInfo:    Direct(0x0058E338),
		Sprites:         Direct(0x0058E278),
		Backgrounds:     Direct(0x0058E2B8),
		Scripts:         Direct(0x0058E2F0),
		Sounds:          Direct(0x0058E298),
		Surfaces:        Direct(0x0058E378),
		SurfaceCount:    Direct(0x0058E37C),
		Textures:        Direct(0x0058E390),
		TextureCount:    Direct(0x0058E394),
		Direct3D:        Direct(0x0058E3B0),
		ScriptSwapTable: NotSupported(),

		MainWindow:  Chain(0x0058E1A0, RunnerWindowOffset),
		DebugWindow: Chain(0x0058E1A4, DebugWindowOffset),
		// Only valid once the highscore form has been shown.
		HighscoreWindow: NotSupported(),
	},
}

// DefaultCatalog returns a fresh copy of the built-in catalog.
//
// The addresses are placeholders for the stock 6.1 and 7.0 runners and have
// not been checked against every build. Confirm them before relying on the
// catalog: Create refuses a runner whose signature does not match, and
// gmapi_inspect -findpath locates a table in a live runner. Builds with
// different addresses are handled with LoadOverrides.
func DefaultCatalog() Catalog {
	return defaultCatalog.Clone()
}
