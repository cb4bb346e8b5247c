package gmapi

import (
	"fmt"

	"gmapi/layout"
	"gmapi/pod"
	"gmapi/process"
)

// maxSoundFileSize bounds embedded sound file reads.
const maxSoundFileSize = 256 << 20

type Sounds struct {
	resources
	s *Session
}

func newSounds(s *Session) *Sounds {
	return &Sounds{
		resources: resources{newStorageTable(s.mem, KindSound, s.loc.Sounds)},
		s:         s,
	}
}

func (so *Sounds) Get(id int) (*Sound, error) {
	addr, err := so.t.get(id)
	if err != nil {
		return nil, err
	}
	return &Sound{s: so.s, id: id, addr: addr}, nil
}

type Sound struct {
	s    *Session
	id   int
	addr process.ProcessMemoryAddress
}

func (so *Sound) ID() int {
	return so.id
}

func (so *Sound) Address() process.ProcessMemoryAddress {
	return so.addr
}

func (so *Sound) Name() (string, error) {
	return so.s.Sounds.t.name(so.id)
}

func (so *Sound) Info() (layout.Sound, error) {
	return pod.ReadT[layout.Sound](so.s.mem, so.addr)
}

func (so *Sound) Type() (layout.SoundType, error) {
	info, err := so.Info()
	return info.Type, err
}

func (so *Sound) FileExt() (string, error) {
	return so.stringField(func(s layout.Sound) uint32 { return s.FileExt })
}

func (so *Sound) FileName() (string, error) {
	return so.stringField(func(s layout.Sound) uint32 { return s.FileName })
}

func (so *Sound) FilePath() (string, error) {
	return so.stringField(func(s layout.Sound) uint32 { return s.FilePath })
}

func (so *Sound) stringField(pick func(layout.Sound) uint32) (string, error) {
	info, err := so.Info()
	if err != nil {
		return "", err
	}
	return readString(so.s.mem, pick(info))
}

func (so *Sound) Preload() (bool, error) {
	info, err := so.Info()
	return info.Preload&1 != 0, err
}

// Effects is the runner's effect bitmask (chorus, echo, flanger, gargle,
// reverb from bit 0 up).
func (so *Sound) Effects() (uint32, error) {
	info, err := so.Info()
	return info.Effects, err
}

func (so *Sound) Volume() (float64, error) {
	info, err := so.Info()
	return info.Volume, err
}

func (so *Sound) Pan() (float64, error) {
	info, err := so.Info()
	return info.Pan, err
}

func (so *Sound) SoundID() (int, error) {
	info, err := so.Info()
	return int(info.SoundID), err
}

// Data copies the embedded sound file out of the host. It is nil when the
// sound has no data attached.
func (so *Sound) Data() ([]byte, error) {
	info, err := so.Info()
	if err != nil || info.Data == 0 {
		return nil, err
	}
	data, err := pod.ReadT[layout.SoundData](so.s.mem, process.ProcessMemoryAddress(info.Data))
	if err != nil {
		return nil, err
	}
	if data.File == 0 || data.FileSize == 0 {
		return nil, nil
	}
	if data.FileSize > maxSoundFileSize {
		return nil, fmt.Errorf("sound %d file claims %d bytes", so.id, data.FileSize)
	}
	return so.s.mem.ReadMemory(process.ProcessMemoryAddress(data.File), process.ProcessMemorySize(data.FileSize))
}
