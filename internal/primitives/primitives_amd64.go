//go:build amd64

package primitives

// SerializedRDTSC returns the current timestamp counter, fenced with
// LFENCE before and after the read so neither the counter read nor
// the surrounding code can reorder across it. This is the building
// block every timing-based detector calls in pairs around the
// sequence under measurement.
func SerializedRDTSC() uint64

// TriggerTrapFlag sets EFLAGS.TF for exactly the one instruction that
// follows, then executes a NOP. On real hardware this raises a #DB
// immediately after the NOP retires; under most emulators and
// whole-system recorders the single-step trap is either swallowed or
// arrives with measurably different timing, which is what
// internal/sigcompat and the TrapFlag detector watch for via
// os/signal.Notify(syscall.SIGTRAP).
func TriggerTrapFlag()

// ReadDR7 issues a raw MOV RAX, DR7 from ring 3. On bare metal this
// instruction is ring-0-only and always faults with #GP, which the Go
// runtime delivers as SIGSEGV; internal/sigcompat.LatchFault catches
// that signal and the HardwareBp detector treats it as the native
// outcome. Under many hypervisors and sandboxes DR7 reads are instead
// trapped and emulated without faulting, or fault with measurably
// different wall-clock cost, which HardwareBp distinguishes against a
// same-process RDTSC-bracketed baseline.
func ReadDR7() uint64

// MeasureNopJitter brackets 100 single-byte NOPs with a serialized
// TSC read on each side and returns the elapsed cycle count.
func MeasureNopJitter() uint64

// MeasureMovJitter brackets 100 register-to-register MOVs.
func MeasureMovJitter() uint64

// MeasureXorJitter brackets 100 register XORs (a data-dependent ALU
// op, unlike the data-independent MOV).
func MeasureXorJitter() uint64

// MeasureAmplificationJitter brackets 100 iterations of a
// branch-heavy sequence (INC/TEST/JZ/JMP) designed to maximize the
// per-instruction overhead a single-step trap handler pays.
func MeasureAmplificationJitter() uint64

// CPUID executes the CPUID instruction for the given EAX/ECX leaf and
// sub-leaf and returns the four result registers.
func CPUID(eaxIn, ecxIn uint32) (eax, ebx, ecx, edx uint32)
