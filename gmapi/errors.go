package gmapi

import (
	"errors"
	"fmt"

	"gmapi/layout"
)

var (
	ErrIncompatibleRuntime = errors.New("incompatible runtime version")
	ErrAlreadyInitialized  = errors.New("gmapi already initialized")
	ErrNotInitialized      = errors.New("gmapi not initialized")
	ErrFunctionUnavailable = errors.New("engine function unavailable")
	ErrFunctionNotFound    = errors.New("engine function not found")
	ErrResourceNotFound    = errors.New("resource does not exist")
	ErrInvalidSubimage     = errors.New("invalid subimage")
	ErrHandleUnsupported   = errors.New("window handle not supported by this runtime version")
)

type ResourceKind int

const (
	KindSprite ResourceKind = iota
	KindBackground
	KindScript
	KindSound
	KindSurface
	KindTexture
)

func (k ResourceKind) String() string {
	switch k {
	case KindSprite:
		return "sprite"
	case KindBackground:
		return "background"
	case KindScript:
		return "script"
	case KindSound:
		return "sound"
	case KindSurface:
		return "surface"
	case KindTexture:
		return "texture"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type ResourceNotFoundError struct {
	Kind ResourceKind
	ID   int
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Kind, e.ID)
}

func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

type InvalidSubimageError struct {
	SpriteID int
	Subimage int
}

func (e *InvalidSubimageError) Error() string {
	return fmt.Sprintf("sprite %d has no subimage %d", e.SpriteID, e.Subimage)
}

func (e *InvalidSubimageError) Is(target error) bool {
	return target == ErrInvalidSubimage
}

type FunctionUnavailableError struct {
	ID   layout.FunctionID
	Name string
}

func (e *FunctionUnavailableError) Error() string {
	return fmt.Sprintf("engine function %s (%d) is unavailable", e.Name, int(e.ID))
}

func (e *FunctionUnavailableError) Is(target error) bool {
	return target == ErrFunctionUnavailable
}
