package lstar

import "fmt"

// Release metadata, so a teacher adapter or CLI built on this package
// can report a meaningful user agent string.
const (
	Name    = "lstar"
	Version = "0.1.0"
)

// UserAgent returns a short identifying string suitable for a teacher
// adapter's handshake or a CLI's --version output.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", Name, Version)
}
