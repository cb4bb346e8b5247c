//go:build !linux && !windows

package main

import (
	"fmt"

	"gmapi/process"
)

func openProcess(pid int, name string) (process.Process, error) {
	return nil, fmt.Errorf("attaching to a live process is not supported on this platform; use --from")
}
