//go:build !(windows && 386)

package host

// NewLibrary is only available to 32-bit windows builds, the only ones that
// can be loaded into the runner.
func NewLibrary(path string) (Core, error) {
	return nil, ErrUnsupportedPlatform
}
