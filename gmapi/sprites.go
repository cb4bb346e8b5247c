package gmapi

import (
	"fmt"
	"unsafe"

	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
)

type Sprites struct {
	resources
	s *Session
}

func newSprites(s *Session) *Sprites {
	return &Sprites{
		resources: resources{newStorageTable(s.mem, KindSprite, s.loc.Sprites)},
		s:         s,
	}
}

// Get returns a view of sprite id, or a *ResourceNotFoundError.
func (sp *Sprites) Get(id int) (*Sprite, error) {
	addr, err := sp.t.get(id)
	if err != nil {
		return nil, err
	}
	return &Sprite{s: sp.s, id: id, addr: addr}, nil
}

// Rect is a bounding box in sprite pixel coordinates.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Sprite is a live view of one sprite record. It stays bound to the
// record's address; if the runner deletes the sprite the view is stale.
type Sprite struct {
	s    *Session
	id   int
	addr process.ProcessMemoryAddress
}

func (sp *Sprite) ID() int {
	return sp.id
}

func (sp *Sprite) Address() process.ProcessMemoryAddress {
	return sp.addr
}

func (sp *Sprite) Name() (string, error) {
	return sp.s.Sprites.t.name(sp.id)
}

// Info reads the whole sprite record.
func (sp *Sprite) Info() (layout.Sprite, error) {
	return pod.ReadT[layout.Sprite](sp.s.mem, sp.addr)
}

func (sp *Sprite) Width() (int, error) {
	info, err := sp.Info()
	return int(info.Width), err
}

func (sp *Sprite) Height() (int, error) {
	info, err := sp.Info()
	return int(info.Height), err
}

func (sp *Sprite) Origin() (x, y int, err error) {
	info, err := sp.Info()
	return int(info.OriginX), int(info.OriginY), err
}

func (sp *Sprite) SetOrigin(x, y int) error {
	return process.Write(sp.s.mem, sp.field(unsafe.Offsetof(layout.Sprite{}.OriginX)), [2]int32{int32(x), int32(y)})
}

func (sp *Sprite) PreciseCollision() (bool, error) {
	info, err := sp.Info()
	return info.PreciseCollision&1 != 0, err
}

func (sp *Sprite) SetPreciseCollision(enable bool) error {
	return process.Write(sp.s.mem, sp.field(unsafe.Offsetof(layout.Sprite{}.PreciseCollision)), boolWord(enable))
}

func (sp *Sprite) Transparent() (bool, error) {
	info, err := sp.Info()
	return info.Transparent != 0, err
}

func (sp *Sprite) SmoothEdges() (bool, error) {
	info, err := sp.Info()
	return info.SmoothEdges != 0, err
}

func (sp *Sprite) Preload() (bool, error) {
	info, err := sp.Info()
	return info.Preload != 0, err
}

func (sp *Sprite) BoundingBoxType() (layout.BoundingBoxType, error) {
	info, err := sp.Info()
	return info.BoundingBoxType, err
}

func (sp *Sprite) SetBoundingBoxType(t layout.BoundingBoxType) error {
	return process.Write(sp.s.mem, sp.field(unsafe.Offsetof(layout.Sprite{}.BoundingBoxType)), t)
}

func (sp *Sprite) BoundingBox() (Rect, error) {
	info, err := sp.Info()
	return Rect{
		Left:   int(info.BoundingBoxLeft),
		Top:    int(info.BoundingBoxTop),
		Right:  int(info.BoundingBoxRight),
		Bottom: int(info.BoundingBoxBottom),
	}, err
}

func (sp *Sprite) SetBoundingBox(box Rect) error {
	return process.Write(sp.s.mem, sp.field(unsafe.Offsetof(layout.Sprite{}.BoundingBoxLeft)),
		[4]int32{int32(box.Left), int32(box.Top), int32(box.Right), int32(box.Bottom)})
}

func (sp *Sprite) SubimageCount() (int, error) {
	info, err := sp.Info()
	return int(info.NSubimages), err
}

// Subimage returns subimage i, or an *InvalidSubimageError unless
// 0 <= i < SubimageCount.
func (sp *Sprite) Subimage(i int) (*Subimage, error) {
	n, err := sp.SubimageCount()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= n {
		return nil, &InvalidSubimageError{SpriteID: sp.id, Subimage: i}
	}
	return &Subimage{sprite: sp, index: i}, nil
}

func (sp *Sprite) field(offset uintptr) process.ProcessMemoryAddress {
	return sp.addr.Add(process.ProcessMemorySize(offset))
}

type Subimage struct {
	sprite *Sprite
	index  int
}

func (si *Subimage) Index() int {
	return si.index
}

// element reads entry index of the per-subimage array whose pointer sits
// at the given sprite field.
func (si *Subimage) element(field uintptr) (uint32, error) {
	mem := si.sprite.s.mem
	base, err := process.ReadPointer(mem, si.sprite.field(field))
	if err != nil {
		return 0, err
	}
	if base == 0 {
		return 0, fmt.Errorf("sprite %d subimage array is null: %w", si.sprite.id, process.ErrInvalidPointer)
	}
	return process.Read[uint32](mem, base.Add(process.ProcessMemorySize(si.index)*process.PointerSize))
}

func (si *Subimage) Bitmap() (*Bitmap, error) {
	p, err := si.element(unsafe.Offsetof(layout.Sprite{}.Bitmaps))
	if err != nil {
		return nil, err
	}
	if p == 0 {
		return nil, fmt.Errorf("sprite %d subimage %d has no bitmap: %w", si.sprite.id, si.index, process.ErrInvalidPointer)
	}
	return &Bitmap{mem: si.sprite.s.mem, addr: process.ProcessMemoryAddress(p)}, nil
}

func (si *Subimage) TextureID() (int, error) {
	id, err := si.element(unsafe.Offsetof(layout.Sprite{}.TextureIDs))
	return int(int32(id)), err
}

// Texture returns the IDirect3DTexture8 pointer of the subimage, 0 when
// the texture is not valid.
func (si *Subimage) Texture() (uint32, error) {
	id, err := si.TextureID()
	if err != nil {
		return 0, err
	}
	return si.sprite.s.Textures.D3DTexture(id)
}

func boolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
