//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"gmapi/process"

	"golang.org/x/sys/windows"
)

// WindowsProcessFinder implements process.ProcessFinder with a Toolhelp32 snapshot
type WindowsProcessFinder struct{}

var _ process.ProcessFinder = (*WindowsProcessFinder)(nil)

// NewProcessFinder creates a new WindowsProcessFinder
func NewProcessFinder() process.ProcessFinder {
	return &WindowsProcessFinder{}
}

func (f *WindowsProcessFinder) snapshot(keep func(process.ProcessInfo) bool) ([]process.ProcessInfo, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	var result []process.ProcessInfo
	for err = windows.Process32First(snap, &entry); err == nil; err = windows.Process32Next(snap, &entry) {
		info := process.ProcessInfo{
			PID:  process.ProcessID(entry.ProcessID),
			PPID: process.ProcessID(entry.ParentProcessID),
			Name: windows.UTF16ToString(entry.ExeFile[:]),
		}
		if keep(info) {
			result = append(result, info)
		}
	}
	if !errors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return nil, fmt.Errorf("Process32Next: %w", err)
	}

	return result, nil
}

// FindProcessByPID finds a process by its PID
func (f *WindowsProcessFinder) FindProcessByPID(pid process.ProcessID) (*process.ProcessInfo, error) {
	found, err := f.snapshot(func(info process.ProcessInfo) bool { return info.PID == pid })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("process with PID %d does not exist", pid)
	}
	return &found[0], nil
}

// FindProcessByName finds processes by executable name, ignoring case
func (f *WindowsProcessFinder) FindProcessByName(name string) ([]process.ProcessInfo, error) {
	return f.snapshot(func(info process.ProcessInfo) bool { return strings.EqualFold(info.Name, name) })
}

// OpenProcessByName opens the first process with the given executable name
func OpenProcessByName(name string) (process.Process, error) {
	processes, err := NewProcessFinder().FindProcessByName(name)
	if err != nil {
		return nil, err
	}
	if len(processes) == 0 {
		return nil, fmt.Errorf("no process found with name '%s'", name)
	}
	return NewWithPID(processes[0].PID)
}
