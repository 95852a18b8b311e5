package primitives

import (
	"reflect"
	"unsafe"
)

// ScanForInt3 reads length bytes of machine code starting at fn's
// entry point and returns the byte offsets where 0xCC (INT3) appears.
// fn must be a non-nil function value; this is normally called with
// a small, self-contained function from the caller's own package so
// the scanned region stays within one mapped, executable page.
//
// A debugger that has planted a handful of software breakpoints in
// the probe's own code leaves exactly this signature: isolated 0xCC
// bytes scattered through otherwise unremarkable instruction bytes.
// The distinction between "debugger breakpoint" and "this just
// happens to be 0xCC as an immediate operand byte" is a clustering
// question the Int3 detector answers, not this scanner.
func ScanForInt3(fn any, length int) []int {
	ptr := reflect.ValueOf(fn).Pointer()
	if ptr == 0 {
		return nil
	}
	return ScanRegionForInt3(ptr, length)
}

// ScanRegionForInt3 is the address-based counterpart of ScanForInt3,
// for callers that already have a mapped region's start address and
// length — typically parsed out of /proc/self/maps — rather than a
// Go function value. No disassembly, no instruction-length awareness:
// a straight linear byte scan.
func ScanRegionForInt3(start uintptr, length int) []int {
	if start == 0 || length <= 0 {
		return nil
	}

	code := unsafe.Slice((*byte)(unsafe.Pointer(start)), length)

	var offsets []int
	for i, b := range code {
		if b == 0xCC {
			offsets = append(offsets, i)
		}
	}
	return offsets
}
