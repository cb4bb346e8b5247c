package gmapi

import (
	"encoding/binary"
	"testing"

	"gmapi/host"
	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
	"gmapi/process_blob"

	"github.com/stretchr/testify/require"
)

const (
	imageBase process.ProcessMemoryAddress = 0x00400000
	imageSize                              = 0x00300000
	heapBase  process.ProcessMemoryAddress = 0x02000000
	heapSize                               = 0x00100000
)

// image is a synthetic runner address space: the executable image where
// the catalog addresses live plus a heap for everything they point to.
type image struct {
	t      *testing.T
	dump   *process_blob.ProcessDump
	recipe layout.Recipe
	next   process.ProcessMemoryAddress
}

func newImage(t *testing.T, version layout.Version) *image {
	t.Helper()
	r := require.New(t)

	dump := process_blob.NewProcessDump()
	r.NoError(dump.AddRegion(imageBase, make([]byte, imageSize), "rw-p"))
	r.NoError(dump.AddRegion(heapBase, make([]byte, heapSize), "rw-p"))

	img := &image{t: t, dump: dump, next: heapBase + 0x10}
	if version == layout.Unsupported {
		return img
	}

	recipe, ok := layout.DefaultCatalog().Recipe(version)
	r.True(ok)
	img.recipe = recipe
	r.NoError(dump.WriteMemory(recipe.Signature.Address, recipe.Signature.AOB.Pattern))

	// empty but valid tables
	img.functions(nil)
	img.storage(recipe.Sprites.Address, nil, nil)
	img.storage(recipe.Backgrounds.Address, nil, nil)
	img.storage(recipe.Sounds.Address, nil, nil)
	img.scripts(nil, nil)
	return img
}

func (img *image) alloc(n int) process.ProcessMemoryAddress {
	addr := img.next
	img.next += process.ProcessMemoryAddress((n + 3) &^ 3)
	require.LessOrEqual(img.t, uint64(img.next), uint64(heapBase)+heapSize, "fixture heap exhausted")
	return addr
}

func (img *image) write(addr process.ProcessMemoryAddress, data []byte) {
	require.NoError(img.t, img.dump.WriteMemory(addr, data))
}

func (img *image) u32(addr process.ProcessMemoryAddress, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	img.write(addr, b[:])
}

// store copies v onto the heap and returns its address.
func store[T any](img *image, v T) uint32 {
	addr := img.alloc(int(pod.SizeOf[T]()))
	require.NoError(img.t, pod.StoreT(img.dump, addr, v))
	return uint32(addr)
}

// str stores a Delphi long string and returns the address of its first
// character.
func (img *image) str(s string) uint32 {
	addr := img.alloc(4 + len(s) + 1)
	img.u32(addr, uint32(len(s)))
	img.write(addr+4, append([]byte(s), 0))
	return uint32(addr + 4)
}

func (img *image) names(names ...string) []uint32 {
	out := make([]uint32, len(names))
	for i, n := range names {
		if n != "" {
			out[i] = img.str(n)
		}
	}
	return out
}

func (img *image) array(values []uint32) uint32 {
	if values == nil {
		return 0
	}
	addr := img.alloc(4*len(values) + 4)
	for i, v := range values {
		img.u32(addr+process.ProcessMemoryAddress(4*i), v)
	}
	return uint32(addr)
}

func (img *image) storage(at process.ProcessMemoryAddress, items, names []uint32) {
	require.NoError(img.t, pod.StoreT(img.dump, at, layout.ResourceStorage{
		Items:     img.array(items),
		Names:     img.array(names),
		ArraySize: int32(len(items)),
	}))
}

func (img *image) scripts(items, names []uint32) {
	require.NoError(img.t, pod.StoreT(img.dump, img.recipe.Scripts.Address, layout.ScriptStorage{
		Scripts:   img.array(items),
		Names:     img.array(names),
		ArraySize: int32(len(items)),
	}))
}

type fn struct {
	name string
	addr uint32
}

func (img *image) functions(fns []fn) {
	var infos []layout.FunctionInfo
	for _, f := range fns {
		var fi layout.FunctionInfo
		fi.NameLength = uint8(len(f.name))
		copy(fi.Name[:], f.name)
		fi.Address = f.addr
		infos = append(infos, fi)
	}

	table := img.alloc(layout.FunctionInfoSize*len(infos) + 4)
	for i, fi := range infos {
		require.NoError(img.t, pod.StoreT(img.dump, table+process.ProcessMemoryAddress(i*layout.FunctionInfoSize), fi))
	}
	require.NoError(img.t, pod.StoreT(img.dump, img.recipe.FunctionInfo.Address, layout.FunctionInfoStorage{
		Functions: uint32(table),
		Count:     uint32(len(infos)),
	}))
}

// windowInstance creates a form instance holding hwnd at offset and stores
// its address in the instance pointer of loc.
func (img *image) windowInstance(loc layout.Location, hwnd uint32) {
	inst := img.alloc(0x200)
	img.u32(inst.Add(loc.Offsets[0]), hwnd)
	img.u32(loc.Address, uint32(inst))
}

// fakeCore records the primitives it receives and keeps host strings in
// the image.
type fakeCore struct {
	img     *image
	version uint32

	calls   []string
	freed   []host.StringHandle
	strings map[host.StringHandle]string

	lastFn   uint32
	lastArgs []layout.Variable
	result   layout.Variable
}

func newFakeCore(img *image, version uint32) *fakeCore {
	return &fakeCore{img: img, version: version, strings: map[host.StringHandle]string{}}
}

func (c *fakeCore) AllocateString() host.StringHandle {
	c.calls = append(c.calls, "AllocateString")
	h := host.StringHandle(c.img.alloc(4))
	c.strings[h] = ""
	return h
}

func (c *fakeCore) DeallocateString(h host.StringHandle) {
	c.calls = append(c.calls, "DeallocateString")
	c.freed = append(c.freed, h)
	delete(c.strings, h)
}

func (c *fakeCore) DeallocateResult(result *layout.Variable) {
	c.calls = append(c.calls, "DeallocateResult")
}

func (c *fakeCore) DeallocateBitmap(bitmap uint32) {
	c.calls = append(c.calls, "DeallocateBitmap")
}

func (c *fakeCore) CallFunction(fn uint32, args []layout.Variable, result *layout.Variable) {
	c.calls = append(c.calls, "CallFunction")
	c.lastFn = fn
	c.lastArgs = append([]layout.Variable(nil), args...)
	*result = c.result
}

func (c *fakeCore) SetString(s string, h host.StringHandle) {
	c.calls = append(c.calls, "SetString")
	c.img.u32(process.ProcessMemoryAddress(h), c.img.str(s))
	c.strings[h] = s
}

func (c *fakeCore) ClearString(h host.StringHandle) {
	c.calls = append(c.calls, "ClearString")
	c.img.u32(process.ProcessMemoryAddress(h), 0)
	c.strings[h] = ""
}

func (c *fakeCore) FindSymbolID(name string) int {
	c.calls = append(c.calls, "FindSymbolID")
	if name == "scr_main" {
		return 7
	}
	return -1
}

func (c *fakeCore) Initialize() uint32 {
	c.calls = append(c.calls, "Initialize")
	return c.version
}

func (c *fakeCore) HookInstall() {
	c.calls = append(c.calls, "HookInstall")
}

func (c *fakeCore) HookUninstall() {
	c.calls = append(c.calls, "HookUninstall")
}

func (c *fakeCore) count(call string) int {
	n := 0
	for _, name := range c.calls {
		if name == call {
			n++
		}
	}
	return n
}

// create builds a session over img and tears it down with the test.
func create(t *testing.T, img *image, core host.Core) *Session {
	t.Helper()
	s, status, err := Create(Options{Memory: img.dump, Core: core})
	require.NoError(t, err)
	require.Equal(t, InitSuccess, status)
	t.Cleanup(func() { Destroy() })
	return s
}
