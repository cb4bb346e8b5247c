package gmapi

import (
	"testing"
	"unsafe"

	"gmapi/layout"
	"gmapi/process"

	"github.com/stretchr/testify/require"
)

// spriteFixture lays out sprites {0: valid, 1: null, 2: valid, 3: null}.
func spriteFixture(img *image) (spr0, spr2 uint32) {
	bmp := store(img, layout.Bitmap{Exists: 1, Width: 2, Height: 3, Data: img.array(make([]uint32, 6))})

	spr0 = store(img, layout.Sprite{
		BoundingBoxType:  layout.BoundingBoxManual,
		BoundingBoxLeft:  1,
		BoundingBoxTop:   2,
		BoundingBoxRight: 30,
		NSubimages:       2,
		Width:            32,
		Height:           24,
		OriginX:          16,
		OriginY:          12,
		PreciseCollision: 1,
		Bitmaps:          img.array([]uint32{bmp, 0}),
		Transparent:      1,
		TextureIDs:       img.array([]uint32{1, 0}),
	})
	spr2 = store(img, layout.Sprite{NSubimages: 1, Width: 8, Height: 8})

	img.storage(img.recipe.Sprites.Address,
		[]uint32{spr0, 0, spr2, 0},
		img.names("spr_player", "", "spr_wall", "spr_gone"))
	return spr0, spr2
}

func textureFixture(img *image, textures ...layout.Texture) {
	arr := img.alloc(layout.TextureSize*len(textures) + 4)
	for i, tex := range textures {
		img.write(arr.Add(process.ProcessMemorySize(i*layout.TextureSize)), rawBytes(tex))
	}
	img.u32(img.recipe.Textures.Address, uint32(arr))
	img.u32(img.recipe.TextureCount.Address, uint32(len(textures)))
}

func rawBytes[T any](v T) []byte {
	return append([]byte(nil), unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v))...)
}

func TestSpritesLookup(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	spriteFixture(img)
	s := create(t, img, nil)

	r.Equal(4, s.Sprites.ArraySize())
	r.Equal(2, s.Sprites.Count())
	r.Equal([]int{0, 2}, s.Sprites.All())

	for id, want := range map[int]bool{-1: false, 0: true, 1: false, 2: true, 3: false, 4: false, 100: false} {
		r.Equal(want, s.Sprites.Exists(id), "id %d", id)
	}

	r.Equal(0, s.Sprites.ID("spr_player"))
	r.Equal(2, s.Sprites.ID("spr_wall"))
	// same length as spr_wall, different bytes
	r.Equal(-1, s.Sprites.ID("spr_wald"))
	r.Equal(-1, s.Sprites.ID("SPR_WALL"))
	r.Equal(-1, s.Sprites.ID("spr_"))
	// a name with no sprite behind it still resolves, like the runner does
	r.Equal(3, s.Sprites.ID("spr_gone"))

	name, err := s.Sprites.Name(2)
	r.NoError(err)
	r.Equal("spr_wall", name)
}

func TestSpritesGetMissing(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	img.storage(img.recipe.Sprites.Address, []uint32{0, 0, 0, 0, 0}, nil)
	s := create(t, img, nil)

	_, err := s.Sprites.Get(7)
	r.ErrorIs(err, ErrResourceNotFound)
	var notFound *ResourceNotFoundError
	r.ErrorAs(err, &notFound)
	r.Equal(KindSprite, notFound.Kind)
	r.Equal(7, notFound.ID)

	_, err = s.Sprites.Get(1)
	r.ErrorAs(err, &notFound)
	r.Equal(1, notFound.ID)

	_, err = s.Sprites.Name(1)
	r.ErrorIs(err, ErrResourceNotFound)
	r.Equal(-1, s.Sprites.ID("anything"))
}

func TestSpritesLiveChanges(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	spriteFixture(img)
	s := create(t, img, nil)
	r.Equal(2, s.Sprites.Count())

	// runner deletes sprite 2
	items, err := process.ReadPointer(img.dump, img.recipe.Sprites.Address)
	r.NoError(err)
	img.u32(items.Add(8), 0)
	r.Equal(1, s.Sprites.Count())
	r.False(s.Sprites.Exists(2))

	// runner grows the table
	spr := store(img, layout.Sprite{NSubimages: 1})
	img.storage(img.recipe.Sprites.Address, []uint32{0, 0, 0, 0, 0, 0, spr}, img.names("", "", "", "", "", "", "spr_new"))
	r.Equal(7, s.Sprites.ArraySize())
	r.Equal(1, s.Sprites.Count())
	r.Equal(6, s.Sprites.ID("spr_new"))
}

func TestSpriteView(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	spriteFixture(img)
	textureFixture(img,
		layout.Texture{Texture: 0xD3D00000, IsValid: 1},
		layout.Texture{Texture: 0xD3D00001, ImageWidth: 32, ImageHeight: 24, TextureWidth: 32, TextureHeight: 32, IsValid: 1},
	)
	s := create(t, img, nil)

	sp, err := s.Sprites.Get(0)
	r.NoError(err)
	r.Equal(0, sp.ID())

	name, err := sp.Name()
	r.NoError(err)
	r.Equal("spr_player", name)

	w, err := sp.Width()
	r.NoError(err)
	r.Equal(32, w)
	h, err := sp.Height()
	r.NoError(err)
	r.Equal(24, h)

	x, y, err := sp.Origin()
	r.NoError(err)
	r.Equal([2]int{16, 12}, [2]int{x, y})
	r.NoError(sp.SetOrigin(-3, 5))
	x, y, err = sp.Origin()
	r.NoError(err)
	r.Equal([2]int{-3, 5}, [2]int{x, y})

	precise, err := sp.PreciseCollision()
	r.NoError(err)
	r.True(precise)
	r.NoError(sp.SetPreciseCollision(false))
	precise, err = sp.PreciseCollision()
	r.NoError(err)
	r.False(precise)

	transparent, err := sp.Transparent()
	r.NoError(err)
	r.True(transparent)
	smooth, err := sp.SmoothEdges()
	r.NoError(err)
	r.False(smooth)
	preload, err := sp.Preload()
	r.NoError(err)
	r.False(preload)

	bbt, err := sp.BoundingBoxType()
	r.NoError(err)
	r.Equal(layout.BoundingBoxManual, bbt)
	r.NoError(sp.SetBoundingBoxType(layout.BoundingBoxFullImage))
	bbt, err = sp.BoundingBoxType()
	r.NoError(err)
	r.Equal(layout.BoundingBoxFullImage, bbt)

	box, err := sp.BoundingBox()
	r.NoError(err)
	r.Equal(Rect{Left: 1, Top: 2, Right: 30, Bottom: 0}, box)
	r.NoError(sp.SetBoundingBox(Rect{Left: 4, Top: 5, Right: 6, Bottom: 7}))
	box, err = sp.BoundingBox()
	r.NoError(err)
	r.Equal(Rect{Left: 4, Top: 5, Right: 6, Bottom: 7}, box)

	// neighbours of the written fields are untouched
	info, err := sp.Info()
	r.NoError(err)
	r.EqualValues(2, info.NSubimages)
	r.EqualValues(32, info.Width)
}

func TestSpriteSubimages(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	spriteFixture(img)
	textureFixture(img,
		layout.Texture{Texture: 0xD3D00000, IsValid: 0},
		layout.Texture{Texture: 0xD3D00001, IsValid: 1},
	)
	s := create(t, img, nil)

	sp, err := s.Sprites.Get(0)
	r.NoError(err)

	n, err := sp.SubimageCount()
	r.NoError(err)
	r.Equal(2, n)

	_, err = sp.Subimage(n)
	r.ErrorIs(err, ErrInvalidSubimage)
	var invalid *InvalidSubimageError
	r.ErrorAs(err, &invalid)
	r.Equal(InvalidSubimageError{SpriteID: 0, Subimage: 2}, *invalid)

	_, err = sp.Subimage(-1)
	r.ErrorIs(err, ErrInvalidSubimage)

	last, err := sp.Subimage(n - 1)
	r.NoError(err)
	r.Equal(1, last.Index())
	_, err = last.Bitmap()
	r.Error(err)

	first, err := sp.Subimage(0)
	r.NoError(err)
	bmp, err := first.Bitmap()
	r.NoError(err)
	exists, err := bmp.Exists()
	r.NoError(err)
	r.True(exists)
	size, err := bmp.Size()
	r.NoError(err)
	r.Equal(2*3*4, size)
	data, err := bmp.Data()
	r.NoError(err)
	r.Len(data, 24)

	id, err := first.TextureID()
	r.NoError(err)
	r.Equal(1, id)
	tex, err := first.Texture()
	r.NoError(err)
	r.Equal(uint32(0xD3D00001), tex)

	// texture 0 is not valid
	tex, err = last.Texture()
	r.NoError(err)
	r.Zero(tex)
}

func TestBackgrounds(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V61)
	bmp := store(img, layout.Bitmap{Exists: 1, Width: 1, Height: 1, Data: img.array([]uint32{0xFF00FF00})})
	bg0 := store(img, layout.Background{Width: 64, Height: 48, Bitmap: bmp, Transparent: 1, Preload: 1, TextureID: 0})
	bg1 := store(img, layout.Background{Width: 16, Height: 16, TextureID: 5})
	img.storage(img.recipe.Backgrounds.Address, []uint32{bg0, 0, bg1}, img.names("bg_sky", "", "bg_sea"))
	textureFixture(img, layout.Texture{Texture: 0xD3D0BEEF, IsValid: 1})
	s := create(t, img, nil)

	r.Equal(3, s.Backgrounds.ArraySize())
	r.Equal(2, s.Backgrounds.Count())
	r.Equal(2, s.Backgrounds.ID("bg_sea"))
	r.Equal(-1, s.Backgrounds.ID("bg_see"))

	_, err := s.Backgrounds.Get(1)
	var notFound *ResourceNotFoundError
	r.ErrorAs(err, &notFound)
	r.Equal(KindBackground, notFound.Kind)

	bg, err := s.Backgrounds.Get(0)
	r.NoError(err)
	name, err := bg.Name()
	r.NoError(err)
	r.Equal("bg_sky", name)
	w, err := bg.Width()
	r.NoError(err)
	r.Equal(64, w)
	hasBitmap, err := bg.BitmapExists()
	r.NoError(err)
	r.True(hasBitmap)
	bitmap, err := bg.Bitmap()
	r.NoError(err)
	data, err := bitmap.Data()
	r.NoError(err)
	r.Equal([]byte{0x00, 0xFF, 0x00, 0xFF}, data)
	tex, err := bg.Texture()
	r.NoError(err)
	r.Equal(uint32(0xD3D0BEEF), tex)
	transparent, err := bg.Transparent()
	r.NoError(err)
	r.True(transparent)
	preload, err := bg.Preload()
	r.NoError(err)
	r.True(preload)

	sea, err := s.Backgrounds.Get(2)
	r.NoError(err)
	hasBitmap, err = sea.BitmapExists()
	r.NoError(err)
	r.False(hasBitmap)
	_, err = sea.Bitmap()
	r.Error(err)
	_, err = sea.Texture()
	r.ErrorIs(err, ErrResourceNotFound)
}

func TestSounds(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	file := img.array([]uint32{0x46464952, 0x00000004})
	data := store(img, layout.SoundData{File: file, FileSize: 8})
	snd := store(img, layout.Sound{
		Type:     layout.SoundBackgroundMusic,
		FileExt:  img.str(".wav"),
		FileName: img.str("music.wav"),
		FilePath: img.str(`C:\game\music.wav`),
		Data:     data,
		Preload:  1,
		Effects:  0x11,
		Volume:   0.75,
		Pan:      -0.5,
		SoundID:  3,
	})
	img.storage(img.recipe.Sounds.Address, []uint32{0, snd}, img.names("", "snd_music"))
	s := create(t, img, nil)

	r.Equal(1, s.Sounds.Count())
	r.Equal(1, s.Sounds.ID("snd_music"))
	r.False(s.Sounds.Exists(0))

	so, err := s.Sounds.Get(1)
	r.NoError(err)
	typ, err := so.Type()
	r.NoError(err)
	r.Equal(layout.SoundBackgroundMusic, typ)
	ext, err := so.FileExt()
	r.NoError(err)
	r.Equal(".wav", ext)
	fname, err := so.FileName()
	r.NoError(err)
	r.Equal("music.wav", fname)
	path, err := so.FilePath()
	r.NoError(err)
	r.Equal(`C:\game\music.wav`, path)
	vol, err := so.Volume()
	r.NoError(err)
	r.Equal(0.75, vol)
	pan, err := so.Pan()
	r.NoError(err)
	r.Equal(-0.5, pan)
	id, err := so.SoundID()
	r.NoError(err)
	r.Equal(3, id)
	fx, err := so.Effects()
	r.NoError(err)
	r.EqualValues(0x11, fx)
	preload, err := so.Preload()
	r.NoError(err)
	r.True(preload)
	raw, err := so.Data()
	r.NoError(err)
	r.Equal([]byte("RIFF\x04\x00\x00\x00"), raw)
}

func scriptFixture(img *image, code []byte) uint32 {
	ptr := img.str(string(code))
	debug := store(img, layout.ScriptDebugInfo{IsCompiled: 1, Code: ptr})
	return store(img, layout.Script{DebugInfo: debug})
}

func TestScripts61(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V61)
	scr := scriptFixture(img, []byte("show_message('hi')"))
	img.scripts([]uint32{0, scr}, img.names("", "scr_hello"))
	s := create(t, img, nil)

	r.Equal(1, s.Scripts.Count())
	r.Equal(1, s.Scripts.ID("scr_hello"))
	r.True(s.Scripts.Exists(1))
	r.False(s.Scripts.Exists(2))

	_, err := s.Scripts.Get(0)
	r.ErrorIs(err, ErrResourceNotFound)

	sc, err := s.Scripts.Get(1)
	r.NoError(err)
	n, err := sc.Length()
	r.NoError(err)
	r.Equal(18, n)
	code, err := sc.Code()
	r.NoError(err)
	r.Equal("show_message('hi')", code)
	compiled, err := sc.Compiled()
	r.NoError(err)
	r.True(compiled)
}

func TestScripts70Decoding(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)

	// rotate every byte by one: stored = plain - 1, table[stored] = plain
	var table [256]byte
	for i := range table {
		table[i] = byte(i + 1)
	}
	img.write(img.recipe.ScriptSwapTable.Address, table[:])

	plain := "x = 1;"
	stored := make([]byte, len(plain))
	for i := range plain {
		stored[i] = plain[i] - 1
	}
	scr := scriptFixture(img, stored)
	img.scripts([]uint32{scr}, img.names("scr_init"))
	s := create(t, img, nil)

	sc, err := s.Scripts.Get(0)
	r.NoError(err)
	name, err := sc.Name()
	r.NoError(err)
	r.Equal("scr_init", name)
	code, err := sc.Code()
	r.NoError(err)
	r.Equal(plain, code)
}

func TestScriptSymbols(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	syms := img.array(img.names("scr_a", "scr_b"))
	hdr := layout.ScriptStorage{Symbols: syms, NSymbols: 2}
	img.write(img.recipe.Scripts.Address, rawBytes(hdr))
	s := create(t, img, nil)

	names, err := s.Scripts.Symbols()
	r.NoError(err)
	r.Equal([]string{"scr_a", "scr_b"}, names)
}

func TestSurfaces(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	arr := img.alloc(layout.SurfaceSize*3 + 4)
	img.write(arr, rawBytes(layout.Surface{TextureID: 0, Width: 320, Height: 240, Exists: 1}))
	img.write(arr.Add(layout.SurfaceSize), rawBytes(layout.Surface{Exists: 0}))
	img.write(arr.Add(2*layout.SurfaceSize), rawBytes(layout.Surface{TextureID: 1, Width: 64, Height: 64, Exists: 0x101}))
	img.u32(img.recipe.Surfaces.Address, uint32(arr))
	img.u32(img.recipe.SurfaceCount.Address, 3)
	textureFixture(img, layout.Texture{Texture: 0xAA, IsValid: 1}, layout.Texture{Texture: 0xBB, IsValid: 1})
	s := create(t, img, nil)

	r.Equal(3, s.Surfaces.ArraySize())
	r.Equal(2, s.Surfaces.Count())
	r.Equal([]int{0, 2}, s.Surfaces.All())
	r.False(s.Surfaces.Exists(1))
	r.False(s.Surfaces.Exists(3))
	r.False(s.Surfaces.Exists(-1))

	_, err := s.Surfaces.Get(1)
	var notFound *ResourceNotFoundError
	r.ErrorAs(err, &notFound)
	r.Equal(KindSurface, notFound.Kind)

	su, err := s.Surfaces.Get(2)
	r.NoError(err)
	w, err := su.Width()
	r.NoError(err)
	r.Equal(64, w)
	h, err := su.Height()
	r.NoError(err)
	r.Equal(64, h)
	tex, err := su.Texture()
	r.NoError(err)
	r.EqualValues(0xBB, tex)
}

func TestTextures(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	textureFixture(img,
		layout.Texture{Texture: 0xAA, ImageWidth: 30, ImageHeight: 20, TextureWidth: 32, TextureHeight: 32, IsValid: 1},
		layout.Texture{Texture: 0xBB, IsValid: 0},
	)
	s := create(t, img, nil)

	r.Equal(2, s.Textures.ArraySize())
	r.True(s.Textures.Exists(0))
	r.False(s.Textures.Exists(1))
	r.False(s.Textures.Exists(2))

	d3d, err := s.Textures.D3DTexture(1)
	r.NoError(err)
	r.Zero(d3d)
	_, err = s.Textures.D3DTexture(2)
	r.ErrorIs(err, ErrResourceNotFound)

	tex, err := s.Textures.Get(0)
	r.NoError(err)
	w, h, err := tex.ImageSize()
	r.NoError(err)
	r.Equal([2]int{30, 20}, [2]int{w, h})
	w, h, err = tex.TextureSize()
	r.NoError(err)
	r.Equal([2]int{32, 32}, [2]int{w, h})

	_, err = s.Textures.Get(1)
	r.ErrorIs(err, ErrResourceNotFound)
}

func TestDirect3D(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V61)
	img.write(img.recipe.Direct3D.Address, rawBytes(layout.Direct3DInfo{Interface: 0x1000, Device: 0x2000, RenderWidth: 640, RenderHeight: 480}))
	s := create(t, img, nil)

	d := s.Direct3D()
	iface, err := d.Interface()
	r.NoError(err)
	r.EqualValues(0x1000, iface)
	dev, err := d.Device()
	r.NoError(err)
	r.EqualValues(0x2000, dev)
	w, h, err := d.RenderSize()
	r.NoError(err)
	r.Equal([2]int{640, 480}, [2]int{w, h})
}

func TestEmptyTables(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	s := create(t, img, nil)

	r.Zero(s.Sprites.Count())
	r.Zero(s.Sprites.ArraySize())
	r.Empty(s.Sprites.All())
	r.False(s.Sprites.Exists(0))
	r.Equal(-1, s.Backgrounds.ID("bg"))
	r.Zero(s.Surfaces.Count())
	r.False(s.Textures.Exists(0))
}

func TestCorruptSizesAreBounded(t *testing.T) {
	r := require.New(t)

	img := newImage(t, layout.V70)
	spr0, _ := spriteFixture(img)
	img.u32(img.recipe.Sprites.Address.Add(process.ProcessMemorySize(unsafe.Offsetof(layout.ResourceStorage{}.ArraySize))), 0x7FFFFFFF)

	img.u32(img.recipe.Surfaces.Address, uint32(img.alloc(layout.SurfaceSize)))
	img.u32(img.recipe.SurfaceCount.Address, 0x7FFFFFFF)

	huge := store(img, layout.Bitmap{Exists: 1, Width: 0x10000, Height: 0x10000, Data: img.array([]uint32{0})})
	wide := store(img, layout.Bitmap{Exists: 1, Width: 0xFFFFFFFF, Height: 0xFFFFFFFF, Data: img.array([]uint32{0})})
	bg0 := store(img, layout.Background{Width: 1, Height: 1, Bitmap: huge})
	bg1 := store(img, layout.Background{Width: 1, Height: 1, Bitmap: wide})
	img.storage(img.recipe.Backgrounds.Address, []uint32{bg0, bg1}, img.names("bg_huge", "bg_wide"))

	data := store(img, layout.SoundData{File: img.array([]uint32{0}), FileSize: 0xFFFFFFF0})
	snd := store(img, layout.Sound{Data: data})
	img.storage(img.recipe.Sounds.Address, []uint32{snd}, img.names("snd_bad"))

	hdr := layout.ScriptStorage{Symbols: img.array([]uint32{0}), NSymbols: 0xFFFFFFFF}
	img.write(img.recipe.Scripts.Address, rawBytes(hdr))

	s := create(t, img, nil)

	r.Zero(s.Sprites.ArraySize())
	r.Zero(s.Sprites.Count())
	r.False(s.Sprites.Exists(0))
	r.Equal(-1, s.Sprites.ID("spr_player"))
	_, err := s.Sprites.Get(0)
	r.Error(err)
	r.NotErrorIs(err, ErrResourceNotFound)
	r.NotZero(spr0)

	r.Zero(s.Surfaces.ArraySize())
	r.Zero(s.Surfaces.Count())
	r.False(s.Surfaces.Exists(0))

	for id := range 2 {
		bg, err := s.Backgrounds.Get(id)
		r.NoError(err)
		bmp, err := bg.Bitmap()
		r.NoError(err)
		_, err = bmp.Size()
		r.Error(err)
		_, err = bmp.Data()
		r.Error(err)
	}

	so, err := s.Sounds.Get(0)
	r.NoError(err)
	_, err = so.Data()
	r.Error(err)

	_, err = s.Scripts.Symbols()
	r.Error(err)
}
