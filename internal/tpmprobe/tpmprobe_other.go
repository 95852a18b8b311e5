//go:build !linux

package tpmprobe

// present is unimplemented outside Linux: this probe is scoped to
// x86_64 Linux only.
func present() bool {
	return false
}
