//go:build linux

package process_linux

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gmapi/process"
)

// LinuxProcessFinder implements the process.ProcessFinder interface
type LinuxProcessFinder struct{}

var _ process.ProcessFinder = (*LinuxProcessFinder)(nil)

// NewProcessFinder creates a new LinuxProcessFinder
func NewProcessFinder() process.ProcessFinder {
	return &LinuxProcessFinder{}
}

// FindProcessByPID finds a process by its PID
func (f *LinuxProcessFinder) FindProcessByPID(pid process.ProcessID) (*process.ProcessInfo, error) {
	return getProcessInfo(pid)
}

// FindProcessByName matches the comm name or, for Wine processes, the
// basename of the Windows executable on the command line. Case is ignored.
func (f *LinuxProcessFinder) FindProcessByName(name string) ([]process.ProcessInfo, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("failed to read /proc: %w", err)
	}

	var result []process.ProcessInfo
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || !entry.IsDir() {
			continue
		}

		info, err := getProcessInfo(process.ProcessID(pid))
		if err != nil {
			continue
		}
		if strings.EqualFold(info.Name, name) || strings.EqualFold(exeBase(info.Exe), name) {
			result = append(result, *info)
		}
	}
	return result, nil
}

// exeBase handles both "/usr/bin/foo" and "C:\\games\\game.exe"
func exeBase(path string) string {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func getProcessInfo(pid process.ProcessID) (*process.ProcessInfo, error) {
	procPath := filepath.Join("/proc", strconv.Itoa(int(pid)))

	comm, err := os.ReadFile(filepath.Join(procPath, "comm"))
	if err != nil {
		return nil, fmt.Errorf("process with PID %d does not exist: %w", pid, err)
	}

	info := &process.ProcessInfo{
		PID:  pid,
		Name: strings.TrimSpace(string(comm)),
	}

	if cmdline, err := os.ReadFile(filepath.Join(procPath, "cmdline")); err == nil {
		if first, _, _ := bytes.Cut(cmdline, []byte{0}); len(first) > 0 {
			info.Exe = string(first)
		}
	}

	if stat, err := os.ReadFile(filepath.Join(procPath, "stat")); err == nil {
		// pid (comm) state ppid ...
		if i := bytes.LastIndexByte(stat, ')'); i >= 0 {
			fields := strings.Fields(string(stat[i+1:]))
			if len(fields) > 1 {
				if ppid, err := strconv.Atoi(fields[1]); err == nil {
					info.PPID = process.ProcessID(ppid)
				}
			}
		}
	}

	return info, nil
}

// OpenProcessByName opens the first process with the given name
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
