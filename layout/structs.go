// Package layout describes the Game Maker runtime from the outside: the
// in-memory records it keeps for each resource kind, the per-version
// addresses where those records live, and the names of the engine
// functions a plugin can call.
//
// Every struct here is a byte-exact overlay of a 32-bit host record. Host
// pointers are stored as uint32 and host BOOL/bool as uint32/uint8; none
// of them may be dereferenced directly from Go.
package layout

type BoundingBoxType int32

const (
	BoundingBoxUnknown BoundingBoxType = iota - 1
	BoundingBoxAutomatic
	BoundingBoxFullImage
	BoundingBoxManual
)

func (b BoundingBoxType) String() string {
	switch b {
	case BoundingBoxAutomatic:
		return "automatic"
	case BoundingBoxFullImage:
		return "full image"
	case BoundingBoxManual:
		return "manual"
	}
	return "unknown"
}

type SoundType int32

const (
	SoundUnknown SoundType = iota - 1
	SoundNormal
	SoundBackgroundMusic
	Sound3D
	SoundMultimedia
)

func (s SoundType) String() string {
	switch s {
	case SoundNormal:
		return "normal"
	case SoundBackgroundMusic:
		return "background music"
	case Sound3D:
		return "3d"
	case SoundMultimedia:
		return "multimedia"
	}
	return "unknown"
}

// Sizes of the host records in bytes.
const (
	SpriteSize              = 68
	BackgroundSize          = 28
	BitmapSize              = 20
	TextureSize             = 24
	SurfaceSize             = 16
	FunctionInfoSize        = 80
	FunctionInfoStorageSize = 8
	ResourceStorageSize     = 12
	ScriptStorageSize       = 20
	ScriptSize              = 12
	ScriptDebugInfoSize     = 20
	ScriptContentSize       = 20
	SoundSize               = 56
	SoundDataSize           = 12
	Direct3DInfoSize        = 16
	VariableSize            = 24
)

// NameWidth is the fixed width of FunctionInfo.Name.
const NameWidth = 67

type Direct3DInfo struct {
	Interface    uint32 // IDirect3D8*
	Device       uint32 // IDirect3DDevice8*
	RenderWidth  int32
	RenderHeight int32
}

type Bitmap struct {
	RTTI   uint32
	Exists uint32
	Width  uint32
	Height uint32
	Data   uint32 // 32-bit ARGB pixels, Width*Height*4 bytes
}

type Texture struct {
	Texture       uint32 // IDirect3DTexture8*
	ImageWidth    uint32
	ImageHeight   uint32
	TextureWidth  uint32
	TextureHeight uint32
	IsValid       uint32
}

type Sprite struct {
	RTTI              uint32
	BoundingBoxType   BoundingBoxType
	BoundingBoxLeft   int32
	BoundingBoxTop    int32
	BoundingBoxRight  int32
	BoundingBoxBottom int32
	NSubimages        uint32
	Width             uint32
	Height            uint32
	OriginX           int32
	OriginY           int32
	MaskExists        uint32
	CollisionMask     uint32
	PreciseCollision  uint32
	Bitmaps           uint32 // *[NSubimages]*Bitmap
	Transparent       uint8
	SmoothEdges       uint8
	Preload           uint8
	_                 uint8
	TextureIDs        uint32 // *[NSubimages]uint32
}

// ResourceStorage is the header shared by the sprite, background and sound
// tables: two parallel arrays indexed by resource id plus their capacity.
type ResourceStorage struct {
	Items     uint32 // *[ArraySize]*T, null slots are free ids
	Names     uint32 // *[ArraySize]*char, Delphi long strings
	ArraySize int32
}

type Background struct {
	RTTI        uint32
	Width       int32
	Height      int32
	Bitmap      uint32 // *Bitmap, may be null
	Transparent uint8
	SmoothEdges uint8
	Preload     uint8
	_           uint8
	TextureID   int32
	Unknown     uint32
}

type Surface struct {
	TextureID int32
	Width     int32
	Height    int32
	Exists    uint32
}

// FunctionInfo is one entry of the engine's built-in function table. Name
// is not null terminated inside the record; NameLength is authoritative.
type FunctionInfo struct {
	NameLength uint8
	Name       [NameWidth]byte
	Address    uint32
	Padding    [8]byte
}

func (f *FunctionInfo) String() string {
	n := int(f.NameLength)
	if n > NameWidth {
		n = NameWidth
	}
	return string(f.Name[:n])
}

type FunctionInfoStorage struct {
	Functions uint32 // *[Count]FunctionInfo
	Count     uint32
}

type ScriptContent struct {
	RTTI     uint32
	Code     uint32
	Unknown1 uint32
	Unknown2 uint32
	Unknown3 uint32
}

type ScriptDebugInfo struct {
	RTTI       uint32
	Unknown    uint32
	IsCompiled uint32
	Code       uint32 // Delphi long string, swapped on 7.0
	Type       uint32
}

type Script struct {
	RTTI      uint32
	Content   uint32 // *ScriptContent
	DebugInfo uint32 // *ScriptDebugInfo
}

type ScriptStorage struct {
	Symbols   uint32
	NSymbols  uint32
	Scripts   uint32
	Names     uint32
	ArraySize int32
}

type SoundData struct {
	RTTI     uint32
	File     uint32
	FileSize uint32
}

type Sound struct {
	RTTI     uint32
	Type     SoundType
	FileExt  uint32
	FileName uint32
	Data     uint32 // *SoundData
	Preload  uint32
	Effects  uint32
	Unknown  uint32
	Volume   float64
	Pan      float64
	SoundID  int32
	FilePath uint32
}

// Variable is the engine's dynamic value record, used for function
// arguments and results.
type Variable struct {
	StringType   uint32
	PropertyType int32
	Real         float64
	String       uint32 // char*
	Property     uint32
}
