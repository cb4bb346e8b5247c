package gmapi

import (
	"gmapi/host"
)

// Hook tracks the dispatcher hook installed through the host core. A nil
// core makes both operations no-ops.
type Hook struct {
	core      host.Core
	installed bool
}

func NewHook(core host.Core) *Hook {
	return &Hook{core: core}
}

func (h *Hook) Install() {
	if h.installed || h.core == nil {
		return
	}
	h.core.HookInstall()
	h.installed = true
	log.Infoln("Dispatcher hook installed")
}

// Uninstall removes the hook. It does nothing if the hook is not
// installed, so it is safe on every teardown path.
func (h *Hook) Uninstall() {
	if !h.installed {
		return
	}
	h.core.HookUninstall()
	h.installed = false
	log.Infoln("Dispatcher hook removed")
}

func (h *Hook) Installed() bool {
	return h.installed
}
