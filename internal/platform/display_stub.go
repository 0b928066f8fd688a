//go:build !linux

package platform

// DisplayAvailable reports whether a graphical session is reachable.
// Windows and macOS desktop sessions always have one.
func DisplayAvailable() bool {
	return true
}
