//go:build windows

package gmapi

import (
	"golang.org/x/sys/windows"
)

func presentError(text string) {
	body, err := windows.UTF16PtrFromString(text)
	if err != nil {
		log.Warn(text)
		return
	}
	caption, _ := windows.UTF16PtrFromString(errorTitle)

	if _, err := windows.MessageBox(windows.HWND(ownerWindow()), body, caption, windows.MB_SYSTEMMODAL|windows.MB_ICONERROR); err != nil {
		log.Warn(text)
	}
}
