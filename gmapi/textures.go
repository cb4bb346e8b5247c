package gmapi

import (
	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
)

type Textures struct {
	s   *Session
	arr valueArray[layout.Texture]
}

func newTextures(s *Session) *Textures {
	return &Textures{
		s:   s,
		arr: valueArray[layout.Texture]{mem: s.mem, kind: KindTexture, arrayPtr: s.loc.Textures, countAddr: s.loc.TextureCount},
	}
}

func (tx *Textures) ArraySize() int {
	return tx.arr.arraySize()
}

// Exists reports whether id holds a valid texture.
func (tx *Textures) Exists(id int) bool {
	v, ok, err := tx.arr.at(id)
	if err != nil {
		log.Debugln("exists", KindTexture, id, err)
	}
	return ok && v.IsValid&1 != 0
}

func (tx *Textures) Get(id int) (*Texture, error) {
	if !tx.Exists(id) {
		return nil, &ResourceNotFoundError{Kind: KindTexture, ID: id}
	}
	return &Texture{s: tx.s, id: id}, nil
}

// D3DTexture returns the IDirect3DTexture8 pointer of texture id, 0 when
// the slot exists but holds no valid texture.
func (tx *Textures) D3DTexture(id int) (uint32, error) {
	v, ok, err := tx.arr.at(id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &ResourceNotFoundError{Kind: KindTexture, ID: id}
	}
	if v.IsValid&1 == 0 {
		return 0, nil
	}
	return v.Texture, nil
}

type Texture struct {
	s  *Session
	id int
}

func (t *Texture) ID() int {
	return t.id
}

func (t *Texture) Info() (layout.Texture, error) {
	v, ok, err := t.s.Textures.arr.at(t.id)
	if err == nil && !ok {
		err = &ResourceNotFoundError{Kind: KindTexture, ID: t.id}
	}
	return v, err
}

func (t *Texture) ImageSize() (w, h int, err error) {
	info, err := t.Info()
	return int(info.ImageWidth), int(info.ImageHeight), err
}

// TextureSize is the power of two size the image was padded to.
func (t *Texture) TextureSize() (w, h int, err error) {
	info, err := t.Info()
	return int(info.TextureWidth), int(info.TextureHeight), err
}

// Direct3D is a view of the runner's Direct3D 8 state.
type Direct3D struct {
	mem  process.Process
	addr process.ProcessMemoryAddress
}

func (d *Direct3D) Info() (layout.Direct3DInfo, error) {
	return pod.ReadT[layout.Direct3DInfo](d.mem, d.addr)
}

// Interface returns the IDirect3D8 pointer.
func (d *Direct3D) Interface() (uint32, error) {
	info, err := d.Info()
	return info.Interface, err
}

// Device returns the IDirect3DDevice8 pointer.
func (d *Direct3D) Device() (uint32, error) {
	info, err := d.Info()
	return info.Device, err
}

func (d *Direct3D) RenderSize() (w, h int, err error) {
	info, err := d.Info()
	return int(info.RenderWidth), int(info.RenderHeight), err
}
