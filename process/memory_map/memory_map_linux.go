//go:build linux

package memory_map

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LinuxMemoryMap implements MemoryMap for Linux. A Windows runtime hosted by
// Wine shows up here like any other process.
type LinuxMemoryMap struct{}

// NewLinuxMemoryMap creates a new LinuxMemoryMap instance
func NewLinuxMemoryMap() *LinuxMemoryMap {
	return &LinuxMemoryMap{}
}

// ReadMemoryMap reads and parses the memory map for a process from /proc/[pid]/maps
func (l *LinuxMemoryMap) ReadMemoryMap(pid int) ([]MemoryMapItem, error) {
	file, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var memoryMap []MemoryMapItem
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		item, ok := parseMapsLine(scanner.Text())
		if ok {
			memoryMap = append(memoryMap, item)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	Sort(memoryMap)
	return memoryMap, nil
}

// parseMapsLine parses "00400000-0040b000 r-xp 00000000 08:01 1234 /path"
func parseMapsLine(line string) (MemoryMapItem, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return MemoryMapItem{}, false
	}

	lo, hi, ok := strings.Cut(fields[0], "-")
	if !ok {
		return MemoryMapItem{}, false
	}

	startAddr, err := strconv.ParseUint(lo, 16, 64)
	if err != nil {
		return MemoryMapItem{}, false
	}
	endAddr, err := strconv.ParseUint(hi, 16, 64)
	if err != nil || endAddr < startAddr {
		return MemoryMapItem{}, false
	}

	return MemoryMapItem{
		Address: startAddr,
		Size:    uint(endAddr - startAddr),
		Perms:   fields[1],
	}, true
}

func (l *LinuxMemoryMap) IsReadablePerms(perms string) bool {
	return len(perms) > 0 && perms[0] == 'r'
}

func (l *LinuxMemoryMap) IsWritablePerms(perms string) bool {
	return len(perms) > 1 && perms[1] == 'w'
}

func (l *LinuxMemoryMap) IsExecutablePerms(perms string) bool {
	return len(perms) > 2 && perms[2] == 'x'
}
