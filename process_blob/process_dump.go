package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gmapi/process"
	"gmapi/process/memory_map"
)

// ProcessDump implements process.Process over locally held regions: either
// an image loaded from disk or one assembled in memory.
type ProcessDump struct {
	PID       process.ProcessID
	Name      string
	MemoryMap []memory_map.MemoryMapItem
	Blobs     map[uint64]*ProcessBlob // region address -> data
}

var _ process.Process = (*ProcessDump)(nil)

// NewProcessDump creates a new ProcessDump instance
func NewProcessDump() *ProcessDump {
	return &ProcessDump{
		Blobs: make(map[uint64]*ProcessBlob),
	}
}

// AddRegion maps data at addr. Regions may not overlap.
func (p *ProcessDump) AddRegion(addr process.ProcessMemoryAddress, data []byte, perms string) error {
	item := memory_map.MemoryMapItem{Address: uint64(addr), Size: uint(len(data)), Perms: perms}
	for _, other := range p.MemoryMap {
		if item.Address < other.End() && other.Address < item.End() {
			return fmt.Errorf("region 0x%x+%d overlaps 0x%x+%d", item.Address, item.Size, other.Address, other.Size)
		}
	}

	p.MemoryMap = append(p.MemoryMap, item)
	memory_map.Sort(p.MemoryMap)
	p.Blobs[item.Address] = NewProcessBlob(addr, data)
	return nil
}

func (p *ProcessDump) Open(pid process.ProcessID) error {
	return fmt.Errorf("Open not supported for ProcessDump, use Load")
}

func (p *ProcessDump) Close() error {
	p.Blobs = make(map[uint64]*ProcessBlob)
	p.MemoryMap = nil
	return nil
}

func (p *ProcessDump) GetPID() process.ProcessID {
	return p.PID
}

func (p *ProcessDump) UpdateMemoryMap() error {
	return nil // Memory map is static in a dump
}

func (p *ProcessDump) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	return memory_map.IsValidAddress2(uint64(addr), p.MemoryMap) != nil
}

func (p *ProcessDump) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	result := make([]memory_map.MemoryMapItem, len(p.MemoryMap))
	copy(result, p.MemoryMap)
	return result, nil
}

func (p *ProcessDump) blobFor(addr process.ProcessMemoryAddress) (*memory_map.MemoryMapItem, *ProcessBlob, error) {
	region := memory_map.IsValidAddress2(uint64(addr), p.MemoryMap)
	if region == nil {
		return nil, nil, fmt.Errorf("0x%x: %w", uint64(addr), process.ErrAddressNotMapped)
	}

	blob, ok := p.Blobs[region.Address]
	if !ok {
		return nil, nil, fmt.Errorf("no data for region 0x%x", region.Address)
	}
	return region, blob, nil
}

func (p *ProcessDump) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	_, blob, err := p.blobFor(addr)
	if err != nil {
		return nil, err
	}
	return blob.ReadMemory(addr, size)
}

func (p *ProcessDump) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	region, blob, err := p.blobFor(addr)
	if err != nil {
		return err
	}
	if !region.IsWritable() {
		return fmt.Errorf("memory region at 0x%x is not writable", region.Address)
	}
	return blob.WriteMemory(addr, data)
}

type dumpMetadata struct {
	PID  process.ProcessID `json:"pid"`
	Name string            `json:"name"`
}

func blobFileName(dirname string, region memory_map.MemoryMapItem) string {
	return filepath.Join(dirname, fmt.Sprintf("blob_0x%x_%d.bin", region.Address, region.Size))
}

// Save writes the dump in the same layout SaveProcess produces
func (p *ProcessDump) Save(dirname string) error {
	return SaveProcess(p, p.Name, dirname)
}

func (p *ProcessDump) Load(dirname string) error {
	metadataBytes, err := os.ReadFile(filepath.Join(dirname, "metadata.json"))
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata dumpMetadata
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	p.PID = metadata.PID
	p.Name = metadata.Name

	mmBytes, err := os.ReadFile(filepath.Join(dirname, "process_memory_map.json"))
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	var regions []memory_map.MemoryMapItem
	if err := json.Unmarshal(mmBytes, &regions); err != nil {
		return fmt.Errorf("failed to unmarshal memory map: %w", err)
	}

	for _, region := range regions {
		filename := blobFileName(dirname, region)
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			continue // Blob not saved (e.g. too large or not readable)
		}

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read blob %s: %w", filename, err)
		}

		if err := p.AddRegion(process.ProcessMemoryAddress(region.Address), data, region.Perms); err != nil {
			return fmt.Errorf("failed to map blob %s: %w", filename, err)
		}
	}

	return nil
}
