package gmapi

import (
	"fmt"
	"strconv"

	"gmapi/host"
)

// Variant is an engine value: either a real or a string. String values
// bound to a host core are mirrored into a host string handle so they can
// be passed to engine functions.
//
// A Variant owns its handle unless it wraps one the host handed out.
// Owned handles are freed by Release; callers defer v.Release().
type Variant struct {
	core   host.Core
	handle host.StringHandle
	owned  bool

	isString bool
	real     float64
	text     string
}

// NewReal returns a real value.
func NewReal(f float64) *Variant {
	return &Variant{real: f, owned: true}
}

// NewString returns a string value backed by a host string allocated
// through core. With a nil core the value lives on the Go side only.
func NewString(core host.Core, s string) *Variant {
	v := &Variant{core: core, owned: true}
	v.SetString(s)
	return v
}

// WrapString wraps a string handle owned by the host. Setting the value
// writes through the handle; Release leaves it alone.
func WrapString(core host.Core, h host.StringHandle, text string) *Variant {
	return &Variant{core: core, handle: h, isString: true, text: text}
}

func borrowedReal(f float64) *Variant {
	return &Variant{real: f}
}

func borrowedString(s string) *Variant {
	return &Variant{isString: true, text: s}
}

func (v *Variant) IsString() bool {
	return v.isString
}

// Owned reports whether Release frees the host string.
func (v *Variant) Owned() bool {
	return v.owned
}

func (v *Variant) Handle() host.StringHandle {
	return v.handle
}

// Real returns the real value, 0 for strings.
func (v *Variant) Real() float64 {
	if v.isString {
		return 0
	}
	return v.real
}

// Text returns the string value, "" for reals.
func (v *Variant) Text() string {
	if !v.isString {
		return ""
	}
	return v.text
}

func (v *Variant) String() string {
	if v.isString {
		return v.text
	}
	return strconv.FormatFloat(v.real, 'g', -1, 64)
}

// Set makes v a real. A previous string is cleared on the host but its
// handle is kept for reuse.
func (v *Variant) Set(f float64) {
	if v.isString {
		v.clearString()
		v.isString = false
	}
	v.real = f
}

// SetString makes v a string.
func (v *Variant) SetString(s string) {
	if !v.isString {
		v.real = 0
		v.isString = true
	}
	v.text = s

	if v.core == nil {
		return
	}
	if v.handle == 0 {
		v.handle = v.core.AllocateString()
		v.owned = true
	}
	v.core.SetString(s, v.handle)
}

func (v *Variant) clearString() {
	v.text = ""
	if v.core != nil && v.handle != 0 {
		v.core.ClearString(v.handle)
	}
}

// Release frees an owned host string. It is safe to call more than once.
func (v *Variant) Release() {
	if !v.owned || v.handle == 0 || v.core == nil {
		return
	}
	v.core.DeallocateString(v.handle)
	v.handle = 0
}

func (v *Variant) GoString() string {
	if v.isString {
		return fmt.Sprintf("Variant(%q)", v.text)
	}
	return fmt.Sprintf("Variant(%v)", v.real)
}
