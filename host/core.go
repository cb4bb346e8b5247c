// Package host binds the primitives the runtime-side core library exports:
// host string management, engine function calls, symbol lookup, engine
// initialization and the dispatcher hook.
package host

import (
	"errors"

	"gmapi/layout"
)

var ErrUnsupportedPlatform = errors.New("host core requires a 32-bit windows build")

// StringHandle is the host address of a char* slot owned by the core.
type StringHandle uint32

// Core is the set of primitives supplied by the host process.
type Core interface {
	AllocateString() StringHandle
	DeallocateString(h StringHandle)
	DeallocateResult(result *layout.Variable)
	DeallocateBitmap(bitmap uint32)

	// CallFunction invokes the engine function at fn with args and stores
	// the engine's return value in result.
	CallFunction(fn uint32, args []layout.Variable, result *layout.Variable)

	SetString(s string, h StringHandle)
	ClearString(h StringHandle)

	FindSymbolID(name string) int

	// Initialize performs the one-time engine setup and returns the runtime
	// version code (61 or 70), or 0 on failure.
	Initialize() uint32

	HookInstall()
	HookUninstall()
}

// DefaultLibrary is the file name of the core library shipped next to the
// plugin.
const DefaultLibrary = "GMAPICore.dll"
