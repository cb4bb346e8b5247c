//go:build windows && 386

package host

import (
	"fmt"
	"unsafe"

	"gmapi/layout"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

// Library is a Core backed by the exported functions of the core DLL.
type Library struct {
	dll *windows.LazyDLL
	log *logger.Logger

	allocateString   *windows.LazyProc
	deallocateString *windows.LazyProc
	deallocateResult *windows.LazyProc
	deallocateBitmap *windows.LazyProc
	callFunction     *windows.LazyProc
	setString        *windows.LazyProc
	clearString      *windows.LazyProc
	findSymbolID     *windows.LazyProc
	initialize       *windows.LazyProc
	hookInstall      *windows.LazyProc
	hookUninstall    *windows.LazyProc
}

// NewLibrary loads path and resolves every export up front so a missing
// export fails here rather than on first use.
func NewLibrary(path string) (Core, error) {
	dll := windows.NewLazyDLL(path)
	if err := dll.Load(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l := &Library{
		dll: dll,
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "host-core")),

		allocateString:   dll.NewProc("GMAllocateString"),
		deallocateString: dll.NewProc("GMDeallocateString"),
		deallocateResult: dll.NewProc("GMDeallocateResult"),
		deallocateBitmap: dll.NewProc("GMDeallocateBitmap"),
		callFunction:     dll.NewProc("GMCallFunction"),
		setString:        dll.NewProc("GMSetString"),
		clearString:      dll.NewProc("GMClearString"),
		findSymbolID:     dll.NewProc("GMFindSymbolID"),
		initialize:       dll.NewProc("GMAPIInitialize"),
		hookInstall:      dll.NewProc("GMAPIHookInstall"),
		hookUninstall:    dll.NewProc("GMAPIHookUninstall"),
	}

	for _, p := range []*windows.LazyProc{
		l.allocateString, l.deallocateString, l.deallocateResult, l.deallocateBitmap,
		l.callFunction, l.setString, l.clearString, l.findSymbolID,
		l.initialize, l.hookInstall, l.hookUninstall,
	} {
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	l.log.Infoln("Loaded", path)
	return l, nil
}

func (l *Library) AllocateString() StringHandle {
	r, _, _ := l.allocateString.Call()
	return StringHandle(r)
}

func (l *Library) DeallocateString(h StringHandle) {
	l.deallocateString.Call(uintptr(h))
}

func (l *Library) DeallocateResult(result *layout.Variable) {
	l.deallocateResult.Call(uintptr(unsafe.Pointer(result)))
}

func (l *Library) DeallocateBitmap(bitmap uint32) {
	l.deallocateBitmap.Call(uintptr(bitmap))
}

func (l *Library) CallFunction(fn uint32, args []layout.Variable, result *layout.Variable) {
	var argv uintptr
	if len(args) > 0 {
		argv = uintptr(unsafe.Pointer(&args[0]))
	}
	l.callFunction.Call(uintptr(fn), argv, uintptr(len(args)), uintptr(unsafe.Pointer(result)))
}

func (l *Library) SetString(s string, h StringHandle) {
	p, err := windows.BytePtrFromString(s)
	if err != nil {
		l.log.Warn("String contains NUL, not set: ", err)
		return
	}
	l.setString.Call(uintptr(unsafe.Pointer(p)), uintptr(h))
}

func (l *Library) ClearString(h StringHandle) {
	l.clearString.Call(uintptr(h))
}

func (l *Library) FindSymbolID(name string) int {
	p, err := windows.BytePtrFromString(name)
	if err != nil {
		return -1
	}
	r, _, _ := l.findSymbolID.Call(uintptr(unsafe.Pointer(p)))
	return int(int32(r))
}

func (l *Library) Initialize() uint32 {
	r, _, _ := l.initialize.Call()
	return uint32(r)
}

func (l *Library) HookInstall() {
	l.hookInstall.Call()
}

func (l *Library) HookUninstall() {
	l.hookUninstall.Call()
}
