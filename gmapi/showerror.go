package gmapi

import (
	"errors"
	"fmt"
	"strings"
)

const (
	errorTitle = "GMAPI error"
	debugTitle = "Debug information"
)

// ShowError presents err to the person running the game. It is meant for
// interactive plugins; the error itself is still the caller's to handle.
func ShowError(err error) {
	if err == nil {
		return
	}
	presentError(errorReport(err))
}

// errorReport formats the message body shown by ShowError.
func errorReport(err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n%s", errorTitle, err)

	var notFound *ResourceNotFoundError
	var subimage *InvalidSubimageError
	var unavailable *FunctionUnavailableError

	switch {
	case errors.As(err, &subimage):
		name := "<no access>"
		if s, cerr := Current(); cerr == nil && s.Sprites.Exists(subimage.SpriteID) {
			if n, nerr := s.Sprites.Name(subimage.SpriteID); nerr == nil {
				name = n
			}
		}
		fmt.Fprintf(&b, "\n\n%s:\nSprite: %s (ID: %d)\nSubimage: %d", debugTitle, name, subimage.SpriteID, subimage.Subimage)
	case errors.As(err, &notFound):
		kind := notFound.Kind.String()
		fmt.Fprintf(&b, "\n\n%s:\n%s ID: %d", debugTitle, strings.ToUpper(kind[:1])+kind[1:], notFound.ID)
	case errors.As(err, &unavailable):
		fmt.Fprintf(&b, "\n\n%s:\nFunction: %s (ID: %d)", debugTitle, unavailable.Name, int(unavailable.ID))
	}

	return b.String()
}

// ownerWindow is the window message boxes are attached to.
func ownerWindow() WindowHandle {
	s, err := Current()
	if err != nil {
		return 0
	}
	return s.MainWindowHandle()
}
