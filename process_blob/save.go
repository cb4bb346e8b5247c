package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gmapi/process"
	"gmapi/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// MaxSavedRegion bounds the size of a single region written by SaveProcess
const MaxSavedRegion = 100 * 1024 * 1024

var log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "process-dump"))

// SaveProcess writes metadata.json, process_memory_map.json and one
// blob_0x<addr>_<size>.bin per readable region. Unreadable and oversized
// regions are skipped; ProcessDump.Load accepts the result.
func SaveProcess(proc process.Process, name, dirname string) error {
	if err := os.MkdirAll(dirname, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	log.Infoln("Saving process to directory:", dirname)

	metadataJSON, err := json.MarshalIndent(dumpMetadata{PID: proc.GetPID(), Name: name}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, "metadata.json"), metadataJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	if err := proc.UpdateMemoryMap(); err != nil {
		return fmt.Errorf("failed to update memory map: %w", err)
	}
	regions, err := proc.GetMemoryMap()
	if err != nil {
		return fmt.Errorf("failed to get memory map: %w", err)
	}

	var saved []memory_map.MemoryMapItem
	errorCount := 0

	for _, region := range regions {
		if !region.IsReadable() {
			continue
		}
		if region.Size > MaxSavedRegion {
			log.Infoln("Skipping large region at", fmt.Sprintf("%x", region.Address), "(size:", region.Size/1024/1024, "MB)")
			continue
		}

		data, err := proc.ReadMemory(process.ProcessMemoryAddress(region.Address), process.ProcessMemorySize(region.Size))
		if err != nil {
			log.Debugln("Failed to read memory region at", fmt.Sprintf("%x", region.Address), err)
			errorCount++
			continue
		}

		if err := os.WriteFile(blobFileName(dirname, region), data, 0644); err != nil {
			return fmt.Errorf("failed to write memory file for region at %x: %w", region.Address, err)
		}
		saved = append(saved, region)
	}

	memoryMapJSON, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, "process_memory_map.json"), memoryMapJSON, 0644); err != nil {
		return fmt.Errorf("failed to write memory map file: %w", err)
	}

	log.Infoln("Process dump saved successfully:", len(saved), "regions saved,", errorCount, "errors")
	return nil
}
