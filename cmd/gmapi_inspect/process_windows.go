package main

import (
	"gmapi/process"
	"gmapi/process_windows"
)

func openProcess(pid int, name string) (process.Process, error) {
	if name != "" {
		return process_windows.OpenProcessByName(name)
	}
	return process_windows.NewWithPID(process.ProcessID(pid))
}
