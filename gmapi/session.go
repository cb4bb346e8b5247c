// Package gmapi gives Go code access to the resources of a running Game
// Maker 6.1 or 7.0 runner: sprites, backgrounds, scripts, sounds, surfaces
// and textures, plus calls into the engine's built-in functions.
//
// A process holds at most one Session. Create detects the runner version,
// locates its tables, resolves the engine functions and then installs the
// dispatcher hook; any failure on the way leaves nothing behind.
package gmapi

import (
	"errors"
	"fmt"
	"sync"

	"gmapi/host"
	"gmapi/layout"
	"gmapi/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

var log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "gmapi"))

// Status is the outcome of Create.
type Status int

const (
	InitSuccess Status = iota
	InitFailed
	InitAlreadyInitialized
)

func (s Status) String() string {
	switch s {
	case InitSuccess:
		return "success"
	case InitFailed:
		return "failed"
	case InitAlreadyInitialized:
		return "already initialized"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type Options struct {
	// Memory gives access to the runner's address space. Required.
	Memory process.Process

	// Core is the host core library. Without it the session is detached:
	// tables can be read and written but no engine function can be
	// called and no hook is installed.
	Core host.Core

	// Catalog overrides the built-in layout catalog.
	Catalog layout.Catalog
}

type Session struct {
	mem     *sessionMemory
	core    host.Core
	version layout.Version
	recipe  layout.Recipe
	loc     Locations
	hook    *Hook

	functionTable FunctionTable
	functions     DispatchTable

	Sprites     *Sprites
	Backgrounds *Backgrounds
	Scripts     *Scripts
	Sounds      *Sounds
	Surfaces    *Surfaces
	Textures    *Textures
}

var (
	mu      sync.Mutex
	current *Session
)

// Create initializes the process-wide session. If a session already exists
// it is returned with InitAlreadyInitialized and ErrAlreadyInitialized.
func Create(opts Options) (*Session, Status, error) {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return current, InitAlreadyInitialized, ErrAlreadyInitialized
	}

	s, err := newSession(opts)
	if err != nil {
		log.Warn("Initialization failed: ", err)
		return nil, InitFailed, err
	}

	current = s
	return s, InitSuccess, nil
}

// Current returns the live session.
func Current() (*Session, error) {
	mu.Lock()
	defer mu.Unlock()

	if current == nil {
		return nil, ErrNotInitialized
	}
	return current, nil
}

// Destroy removes the hook and drops the session. The session and every
// view obtained from it are detached: reads fail with ErrNotInitialized
// and engine calls are refused.
func Destroy() error {
	mu.Lock()
	defer mu.Unlock()

	if current == nil {
		return ErrNotInitialized
	}

	current.hook.Uninstall()
	current.mem.detach()
	current.core = nil
	current.functions = DispatchTable{}
	current.loc = Locations{}
	current = nil
	log.Infoln("Session destroyed")
	return nil
}

func newSession(opts Options) (s *Session, err error) {
	if opts.Memory == nil {
		return nil, errors.New("no memory backend")
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = layout.DefaultCatalog()
	}

	version, err := ResolveVersion(opts.Memory, catalog)
	if err != nil {
		return nil, err
	}
	recipe, _ := catalog.Recipe(version)

	if opts.Core != nil {
		code := opts.Core.Initialize()
		if code != version.Code() {
			return nil, fmt.Errorf("host core reports version code %d for a %s runner: %w", code, version, ErrIncompatibleRuntime)
		}
	}

	s = &Session{
		mem:     newSessionMemory(opts.Memory),
		core:    opts.Core,
		version: version,
		recipe:  recipe,
		hook:    NewHook(opts.Core),
	}
	defer func() {
		if err != nil {
			s.hook.Uninstall()
			s = nil
		}
	}()

	if s.loc, err = Locate(s.mem, recipe); err != nil {
		return s, err
	}

	if s.functionTable, err = ReadFunctionTable(s.mem, s.loc.FunctionInfo); err != nil {
		return s, err
	}
	var resolved int
	s.functions, resolved = buildDispatchTable(s.functionTable)
	log.Infoln("Resolved", resolved, "of", int(layout.FunctionCount), "engine functions from", len(s.functionTable), "entries")

	s.Sprites = newSprites(s)
	s.Backgrounds = newBackgrounds(s)
	s.Scripts = newScripts(s)
	s.Sounds = newSounds(s)
	s.Surfaces = newSurfaces(s)
	s.Textures = newTextures(s)

	s.hook.Install()
	return s, nil
}

func (s *Session) Version() layout.Version {
	return s.version
}

// Memory returns the backend the session was created with.
func (s *Session) Memory() process.Process {
	return s.mem.Process
}

func (s *Session) detached() bool {
	return s.mem.detached.Load()
}

func (s *Session) Locations() Locations {
	return s.loc
}

func (s *Session) Recipe() layout.Recipe {
	return s.recipe
}

func (s *Session) Functions() FunctionTable {
	return s.functionTable
}

func (s *Session) HookInstalled() bool {
	return s.hook.Installed()
}

func (s *Session) Direct3D() *Direct3D {
	return &Direct3D{mem: s.mem, addr: s.loc.Direct3D}
}

// MainWindowHandle returns the runner's main window, 0 if it is not
// created yet.
func (s *Session) MainWindowHandle() WindowHandle {
	return s.windowHandle("main", s.recipe.MainWindow)
}

// DebugWindowHandle returns the debugger window, 0 unless the game runs in
// debug mode.
func (s *Session) DebugWindowHandle() WindowHandle {
	return s.windowHandle("debug", s.recipe.DebugWindow)
}

// HighscoreWindowHandle returns the highscore window. On 6.1 runners the
// handle is never available and ErrHandleUnsupported is returned.
func (s *Session) HighscoreWindowHandle() (WindowHandle, error) {
	if s.recipe.HighscoreWindow.Unsupported {
		return 0, ErrHandleUnsupported
	}
	return s.windowHandle("highscore", s.recipe.HighscoreWindow), nil
}

func (s *Session) windowHandle(name string, loc layout.Location) WindowHandle {
	h, err := readWindowHandle(s.mem, loc)
	if err != nil {
		log.Debugln("Window handle", name, "unavailable:", err)
		return 0
	}
	return h
}

// SymbolID asks the host core for the id of a script symbol, -1 when
// detached.
func (s *Session) SymbolID(name string) int {
	if s.core == nil {
		return -1
	}
	return s.core.FindSymbolID(name)
}

func (s *Session) swapTable() ([256]byte, error) {
	if s.loc.ScriptSwapTable == 0 {
		return [256]byte{}, fmt.Errorf("script swap table not located: %w", ErrHandleUnsupported)
	}
	return process.Read[[256]byte](s.mem, s.loc.ScriptSwapTable)
}

// pack converts v into the engine's argument record. Strings without a
// host handle are copied into a temporary host string that release frees.
func (s *Session) pack(v *Variant) (arg layout.Variable, release func(), err error) {
	release = func() {}
	if v == nil || !v.IsString() {
		if v != nil {
			arg.Real = v.Real()
		}
		return arg, release, nil
	}

	h := v.Handle()
	if h == 0 {
		tmp := NewString(s.core, v.Text())
		release = tmp.Release
		h = tmp.Handle()
	}

	ptr, err := process.ReadPointer(s.mem, process.ProcessMemoryAddress(h))
	if err != nil {
		release()
		return arg, func() {}, fmt.Errorf("failed to read host string handle: %w", err)
	}

	arg.StringType = 1
	arg.String = uint32(ptr)
	return arg, release, nil
}
