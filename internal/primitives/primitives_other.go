//go:build !amd64

package primitives

// This probe's instruction-level detectors (timing, trap-flag,
// debug-register, jitter) are inherently x86_64; cross-architecture
// portability is out of scope. These stubs exist only so the package
// still links on other GOARCH values; callers on non-amd64 are
// expected to skip the detectors that depend on them rather than
// invoke them.

func SerializedRDTSC() uint64 { panic("primitives: amd64 only") }

func TriggerTrapFlag() { panic("primitives: amd64 only") }

func ReadDR7() uint64 { panic("primitives: amd64 only") }

func MeasureNopJitter() uint64 { panic("primitives: amd64 only") }

func MeasureMovJitter() uint64 { panic("primitives: amd64 only") }

func MeasureXorJitter() uint64 { panic("primitives: amd64 only") }

func MeasureAmplificationJitter() uint64 { panic("primitives: amd64 only") }

func CPUID(eaxIn, ecxIn uint32) (eax, ebx, ecx, edx uint32) {
	panic("primitives: amd64 only")
}
