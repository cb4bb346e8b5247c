//go:build !(windows && 386)

package host

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLibraryUnsupported(t *testing.T) {
	r := require.New(t)

	core, err := NewLibrary(DefaultLibrary)
	r.ErrorIs(err, ErrUnsupportedPlatform)
	r.Nil(core)
}
