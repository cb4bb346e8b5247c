//go:build !windows

package gmapi

func presentError(text string) {
	log.Warn(text)
}
