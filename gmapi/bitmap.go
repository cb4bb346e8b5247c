package gmapi

import (
	"fmt"

	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
)

// maxBitmapSize bounds pixel data reads to a 4096x4096 image.
const maxBitmapSize = 64 << 20

// Bitmap is a view of a host image: 32-bit ARGB pixels, row major.
type Bitmap struct {
	mem  process.Process
	addr process.ProcessMemoryAddress
}

func (b *Bitmap) Address() process.ProcessMemoryAddress {
	return b.addr
}

func (b *Bitmap) Info() (layout.Bitmap, error) {
	return pod.ReadT[layout.Bitmap](b.mem, b.addr)
}

func (b *Bitmap) Exists() (bool, error) {
	info, err := b.Info()
	return info.Exists&1 != 0, err
}

func (b *Bitmap) Width() (int, error) {
	info, err := b.Info()
	return int(info.Width), err
}

func (b *Bitmap) Height() (int, error) {
	info, err := b.Info()
	return int(info.Height), err
}

// Size is the pixel data length in bytes.
func (b *Bitmap) Size() (int, error) {
	info, err := b.Info()
	if err != nil {
		return 0, err
	}
	return bitmapSize(info)
}

// Data copies the pixel data out of the host.
func (b *Bitmap) Data() ([]byte, error) {
	info, err := b.Info()
	if err != nil {
		return nil, err
	}
	size, err := bitmapSize(info)
	if err != nil {
		return nil, err
	}
	if info.Data == 0 || size == 0 {
		return nil, nil
	}
	return b.mem.ReadMemory(process.ProcessMemoryAddress(info.Data), process.ProcessMemorySize(size))
}

func bitmapSize(info layout.Bitmap) (int, error) {
	size := uint64(info.Width) * uint64(info.Height)
	if size > maxBitmapSize/4 {
		return 0, fmt.Errorf("bitmap %dx%d exceeds %d bytes", info.Width, info.Height, maxBitmapSize)
	}
	return int(size) * 4, nil
}
