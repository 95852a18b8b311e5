// Package primitives implements the leaf, register-level x86_64
// instruction sequences the detectors build on: serialized TSC reads,
// a trap-flag trigger, a forbidden debug-register read, four
// instruction-jitter microbenchmarks, and a raw CPUID wrapper, plus a
// plain Go byte scan for 0xCC (ScanForInt3/ScanRegionForInt3). Every
// assembly routine here is a single leaf routine (no further calls)
// with a documented register-level contract; none of them allocate,
// lock, or touch Go's scheduler, so they are safe to call from the
// tight, signal-adjacent contexts the detectors run in. The scan
// functions are ordinary Go and allocate their result slice.
//
// The assembly routines are amd64-only; cross-architecture portability
// is explicitly out of scope.
package primitives
