package main

import (
	"gmapi/process"
	"gmapi/process_linux"
)

func openProcess(pid int, name string) (process.Process, error) {
	if name != "" {
		return process_linux.OpenProcessByName(name)
	}
	return process_linux.NewWithPID(process.ProcessID(pid))
}
