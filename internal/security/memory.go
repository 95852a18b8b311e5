//go:build unix
// +build unix

// Package security provides security utilities for antiprobe.
//
// This package implements:
// - Secure memory wiping (prevents key recovery from memory)
// - Memory locking (prevents swapping of sensitive data)
// - Secure byte handling
package security

import (
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// SecureBytes is a byte slice that gets zeroed when freed.
// Use this for sensitive data like keys, passwords, and seeds.
type SecureBytes struct {
	data   []byte
	locked bool
	mu     sync.Mutex
}

// NewSecureBytes creates a new SecureBytes with the given capacity.
// The memory is locked to prevent swapping (if privileges allow).
func NewSecureBytes(size int) (*SecureBytes, error) {
	sb := &SecureBytes{
		data: make([]byte, size),
	}

	// Try to lock the memory
	if err := sb.lock(); err != nil {
		// Non-fatal: we continue without mlock on systems that don't support it
		// or when we don't have privileges
	}

	// Register finalizer to ensure cleanup
	runtime.SetFinalizer(sb, func(s *SecureBytes) {
		s.Destroy()
	})

	return sb, nil
}

// FromBytes creates SecureBytes from existing data.
// The original data is zeroed after copying.
func FromBytes(data []byte) (*SecureBytes, error) {
	sb, err := NewSecureBytes(len(data))
	if err != nil {
		return nil, err
	}

	copy(sb.data, data)
	Wipe(data) // Zero the original

	return sb, nil
}

// Bytes returns the underlying byte slice.
// Warning: The returned slice should not be stored; use it immediately.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Copy creates a copy of the data.
// The caller is responsible for wiping the returned slice.
func (s *SecureBytes) Copy() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil
	}

	result := make([]byte, len(s.data))
	copy(result, s.data)
	return result
}

// Len returns the length of the secure bytes.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Destroy securely wipes and unlocks the memory.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	// Wipe the data
	wipeBytes(s.data)

	// Unlock memory if it was locked
	if s.locked {
		s.unlock()
	}

	s.data = nil
}

// lock attempts to lock the memory to prevent swapping.
func (s *SecureBytes) lock() error {
	if len(s.data) == 0 {
		return nil
	}

	// Get the memory address
	ptr := unsafe.Pointer(&s.data[0])
	size := uintptr(len(s.data))

	// Try mlock
	err := unix.Mlock((*[1 << 30]byte)(ptr)[:size:size])
	if err != nil {
		return err
	}

	s.locked = true
	return nil
}

// unlock releases the memory lock.
func (s *SecureBytes) unlock() {
	if len(s.data) == 0 {
		return
	}

	ptr := unsafe.Pointer(&s.data[0])
	size := uintptr(len(s.data))

	unix.Munlock((*[1 << 30]byte)(ptr)[:size:size])
	s.locked = false
}

// Wipe overwrites a byte slice with zeros.
// Uses volatile write to prevent compiler optimization.
func Wipe(data []byte) {
	wipeBytes(data)
}

// wipeBytes is the internal implementation of Wipe.
func wipeBytes(data []byte) {
	if len(data) == 0 {
		return
	}

	// Use explicit loop - compiler should not optimize this away
	for i := range data {
		data[i] = 0
	}

	// Memory barrier to ensure writes complete
	runtime.KeepAlive(data)
}

// GuardedExec executes a function with automatic key cleanup.
// The provided key is wiped after the function returns, regardless of errors.
func GuardedExec(key []byte, fn func([]byte) error) error {
	defer Wipe(key)
	return fn(key)
}

// GuardedSecure executes a function with SecureBytes cleanup.
func GuardedSecure(sb *SecureBytes, fn func(*SecureBytes) error) error {
	defer sb.Destroy()
	return fn(sb)
}
