package gmapi

import (
	"fmt"

	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
)

// valueArray is a view of a host pointer to an array of records stored by
// value, with the element count kept in a separate int.
type valueArray[T any] struct {
	mem       process.Process
	kind      ResourceKind
	arrayPtr  process.ProcessMemoryAddress
	countAddr process.ProcessMemoryAddress
}

func (a valueArray[T]) arraySize() int {
	n, err := process.Read[int32](a.mem, a.countAddr)
	if err != nil {
		log.Debugln("array size", a.kind, err)
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > maxArraySize {
		log.Debugln("array size", a.kind, n, "exceeds", maxArraySize)
		return 0
	}
	return int(n)
}

// at reads element id. ok is false when id is out of range or the array is
// not allocated.
func (a valueArray[T]) at(id int) (v T, ok bool, err error) {
	if id < 0 || id >= a.arraySize() {
		return v, false, nil
	}
	base, err := process.ReadPointer(a.mem, a.arrayPtr)
	if err != nil || base == 0 {
		return v, false, err
	}
	v, err = pod.ReadT[T](a.mem, base.Add(pod.SizeOf[T]()*process.ProcessMemorySize(id)))
	if err != nil {
		return v, false, fmt.Errorf("failed to read %s %d: %w", a.kind, id, err)
	}
	return v, true, nil
}

func (a valueArray[T]) all() ([]T, error) {
	n := a.arraySize()
	base, err := process.ReadPointer(a.mem, a.arrayPtr)
	if err != nil || base == 0 || n == 0 {
		return nil, err
	}
	return pod.ReadSliceT[T](a.mem, base, n)
}

type Surfaces struct {
	s   *Session
	arr valueArray[layout.Surface]
}

func newSurfaces(s *Session) *Surfaces {
	return &Surfaces{
		s:   s,
		arr: valueArray[layout.Surface]{mem: s.mem, kind: KindSurface, arrayPtr: s.loc.Surfaces, countAddr: s.loc.SurfaceCount},
	}
}

func (su *Surfaces) ArraySize() int {
	return su.arr.arraySize()
}

func (su *Surfaces) Exists(id int) bool {
	v, ok, err := su.arr.at(id)
	if err != nil {
		log.Debugln("exists", KindSurface, id, err)
	}
	return ok && v.Exists&1 != 0
}

func (su *Surfaces) Count() int {
	return len(su.All())
}

func (su *Surfaces) All() []int {
	items, err := su.arr.all()
	if err != nil {
		log.Debugln("all", KindSurface, err)
		return nil
	}
	ids := []int{}
	for id, v := range items {
		if v.Exists&1 != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func (su *Surfaces) Get(id int) (*Surface, error) {
	if !su.Exists(id) {
		return nil, &ResourceNotFoundError{Kind: KindSurface, ID: id}
	}
	return &Surface{s: su.s, id: id}, nil
}

// Surface views one slot of the surface array. The array is reallocated
// when surfaces are created, so every read goes through the array pointer.
type Surface struct {
	s  *Session
	id int
}

func (su *Surface) ID() int {
	return su.id
}

func (su *Surface) Info() (layout.Surface, error) {
	v, ok, err := su.s.Surfaces.arr.at(su.id)
	if err == nil && !ok {
		err = &ResourceNotFoundError{Kind: KindSurface, ID: su.id}
	}
	return v, err
}

func (su *Surface) Width() (int, error) {
	info, err := su.Info()
	return int(info.Width), err
}

func (su *Surface) Height() (int, error) {
	info, err := su.Info()
	return int(info.Height), err
}

func (su *Surface) TextureID() (int, error) {
	info, err := su.Info()
	return int(info.TextureID), err
}

func (su *Surface) Texture() (uint32, error) {
	id, err := su.TextureID()
	if err != nil {
		return 0, err
	}
	return su.s.Textures.D3DTexture(id)
}
