//go:build unix
// +build unix

package security

import (
	"syscall"
)

// setUmask sets the process umask on Unix.
func setUmask(mask int) int {
	return syscall.Umask(mask)
}
