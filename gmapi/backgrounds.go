package gmapi

import (
	"fmt"

	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
)

type Backgrounds struct {
	resources
	s *Session
}

func newBackgrounds(s *Session) *Backgrounds {
	return &Backgrounds{
		resources: resources{newStorageTable(s.mem, KindBackground, s.loc.Backgrounds)},
		s:         s,
	}
}

func (bg *Backgrounds) Get(id int) (*Background, error) {
	addr, err := bg.t.get(id)
	if err != nil {
		return nil, err
	}
	return &Background{s: bg.s, id: id, addr: addr}, nil
}

type Background struct {
	s    *Session
	id   int
	addr process.ProcessMemoryAddress
}

func (b *Background) ID() int {
	return b.id
}

func (b *Background) Address() process.ProcessMemoryAddress {
	return b.addr
}

func (b *Background) Name() (string, error) {
	return b.s.Backgrounds.t.name(b.id)
}

func (b *Background) Info() (layout.Background, error) {
	return pod.ReadT[layout.Background](b.s.mem, b.addr)
}

func (b *Background) Width() (int, error) {
	info, err := b.Info()
	return int(info.Width), err
}

func (b *Background) Height() (int, error) {
	info, err := b.Info()
	return int(info.Height), err
}

func (b *Background) BitmapExists() (bool, error) {
	info, err := b.Info()
	return info.Bitmap != 0, err
}

func (b *Background) Bitmap() (*Bitmap, error) {
	info, err := b.Info()
	if err != nil {
		return nil, err
	}
	if info.Bitmap == 0 {
		return nil, fmt.Errorf("background %d has no bitmap: %w", b.id, process.ErrInvalidPointer)
	}
	return &Bitmap{mem: b.s.mem, addr: process.ProcessMemoryAddress(info.Bitmap)}, nil
}

func (b *Background) TextureID() (int, error) {
	info, err := b.Info()
	return int(info.TextureID), err
}

func (b *Background) Texture() (uint32, error) {
	id, err := b.TextureID()
	if err != nil {
		return 0, err
	}
	return b.s.Textures.D3DTexture(id)
}

func (b *Background) Transparent() (bool, error) {
	info, err := b.Info()
	return info.Transparent != 0, err
}

func (b *Background) SmoothEdges() (bool, error) {
	info, err := b.Info()
	return info.SmoothEdges != 0, err
}

func (b *Background) Preload() (bool, error) {
	info, err := b.Info()
	return info.Preload != 0, err
}
