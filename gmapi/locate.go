package gmapi

import (
	"errors"
	"fmt"

	"gmapi/layout"
	"gmapi/process"
)

// Locations holds the resolved host addresses of every table for one
// session. The tables themselves are never copied.
type Locations struct {
	FunctionInfo    process.ProcessMemoryAddress
	Sprites         process.ProcessMemoryAddress
	Backgrounds     process.ProcessMemoryAddress
	Scripts         process.ProcessMemoryAddress
	Sounds          process.ProcessMemoryAddress
	Surfaces        process.ProcessMemoryAddress
	SurfaceCount    process.ProcessMemoryAddress
	Textures        process.ProcessMemoryAddress
	TextureCount    process.ProcessMemoryAddress
	Direct3D        process.ProcessMemoryAddress
	ScriptSwapTable process.ProcessMemoryAddress // 0 when the version has none
}

// Locate resolves every table of recipe. All tables except the script swap
// table are required.
func Locate(mem process.Process, recipe layout.Recipe) (Locations, error) {
	var locs Locations

	required := []struct {
		name string
		loc  layout.Location
		dst  *process.ProcessMemoryAddress
	}{
		{"function_info", recipe.FunctionInfo, &locs.FunctionInfo},
		{"sprites", recipe.Sprites, &locs.Sprites},
		{"backgrounds", recipe.Backgrounds, &locs.Backgrounds},
		{"scripts", recipe.Scripts, &locs.Scripts},
		{"sounds", recipe.Sounds, &locs.Sounds},
		{"surfaces", recipe.Surfaces, &locs.Surfaces},
		{"surface_count", recipe.SurfaceCount, &locs.SurfaceCount},
		{"textures", recipe.Textures, &locs.Textures},
		{"texture_count", recipe.TextureCount, &locs.TextureCount},
		{"direct3d", recipe.Direct3D, &locs.Direct3D},
	}

	for _, t := range required {
		if t.loc.Unsupported {
			return Locations{}, fmt.Errorf("%s table not supported by %s: %w", t.name, recipe.Version, ErrIncompatibleRuntime)
		}
		addr, err := resolveLocation(mem, t.loc)
		if err != nil {
			return Locations{}, fmt.Errorf("failed to locate %s table: %w", t.name, err)
		}
		*t.dst = addr
	}

	if !recipe.ScriptSwapTable.Unsupported {
		addr, err := resolveLocation(mem, recipe.ScriptSwapTable)
		if err != nil {
			return Locations{}, fmt.Errorf("failed to locate script swap table: %w", err)
		}
		locs.ScriptSwapTable = addr
	}

	log.Debugln("Located tables", fmt.Sprintf("%+v", locs))
	return locs, nil
}

// resolveLocation returns the host address a location points at.
func resolveLocation(mem process.Process, loc layout.Location) (process.ProcessMemoryAddress, error) {
	if loc.Unsupported {
		return 0, ErrHandleUnsupported
	}
	if loc.Address == 0 {
		return 0, fmt.Errorf("location has no address: %w", process.ErrInvalidPointer)
	}
	return process.ResolvePath(mem, loc.Address, loc.Path()...)
}

// WindowHandle is a host HWND. Zero means the window does not exist right
// now.
type WindowHandle uint32

// readWindowHandle reads the handle behind loc. A null instance pointer on
// the way is not an error, the window simply does not exist yet.
func readWindowHandle(mem process.Process, loc layout.Location) (WindowHandle, error) {
	if loc.Unsupported {
		return 0, ErrHandleUnsupported
	}

	addr, err := resolveLocation(mem, loc)
	if errors.Is(err, process.ErrInvalidPointer) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	h, err := process.Read[uint32](mem, addr)
	if err != nil {
		return 0, fmt.Errorf("failed to read window handle at %s: %w", addr.ToString(), err)
	}
	return WindowHandle(h), nil
}
