// Package sigcompat latches the synchronous signals the probe's
// instruction-level detectors provoke on purpose: SIGTRAP from the
// trap-flag trigger, and SIGSEGV/SIGBUS from the forbidden
// debug-register read. Go's runtime owns signal delivery end to end
// (it installs its own sigaction handlers and alternate signal stack
// for every M), so this package never touches sigaction or
// sigaltstack directly — it rides os/signal.Notify, which is the
// idiomatic Go seam for "observe a signal arrived" when the C
// equivalent would rewrite a saved instruction pointer and resume.
//
// That substitution is deliberate, not an oversight: a SIGSEGV
// handler that advances RIP past the faulting instruction requires
// ucontext access Go does not expose without cgo. Latch pins the
// probing goroutine to its OS thread with runtime.LockOSThread and
// treats "signal observed before deadline" as the native #GP/#DB
// outcome; it never attempts to resume execution past the fault, so
// the underlying OS thread is abandoned (left permanently blocked in
// the kernel's fault delivery path) rather than recovered.
package sigcompat

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

// GDBCompatibleEnvVar, when set to a truthy value, tells the TrapFlag
// detector to skip its probe and return no evidence, the same result
// as an observed trap: under a real interactive debugger a
// SIGTRAP/SIGSEGV the probe provoked itself may instead stop the
// process for the debugger's own use, never reaching this process's
// handler at all. This is a legitimate operator override, not a
// loophole detectors should try to defeat.
const GDBCompatibleEnvVar = "ANTIDEBUG_GDB_COMPATIBLE"

// GDBCompatible reports whether the operator has asked detectors to
// assume they are running under an attached, cooperative debugger.
func GDBCompatible() bool {
	v := os.Getenv(GDBCompatibleEnvVar)
	return v == "1" || v == "true" || v == "yes"
}

// Latch watches for sig and runs fn on a dedicated, OS-thread-pinned
// goroutine. It reports whether sig arrived before deadline elapsed.
//
// Discipline: the signal channel is created and armed before fn
// starts, and read at most once after fn returns or deadline expires
// — "clear before arm, read once after" — so a signal queued from an
// earlier, unrelated probe in the same process can never be mistaken
// for this call's own.
//
// If sig arrives, the goroutine that ran fn is abandoned: its OS
// thread never returns from the fault, so Latch does not wait for fn
// to return in that case. Callers must treat a true result as
// terminal for that goroutine, not as "fn finished".
func Latch(sig os.Signal, deadline time.Duration, fn func()) (arrived bool) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig)
	defer signal.Stop(ch)

	done := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		// Deliberately never unlocked: if fn faults, this goroutine
		// and its OS thread are abandoned together. If fn returns
		// cleanly, the thread is still released back to the runtime
		// when this goroutine exits, since Go tears down a locked M
		// along with its goroutine on return.
		fn()
		close(done)
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case <-ch:
		return true
	case <-done:
		select {
		case <-ch:
			return true
		default:
			return false
		}
	case <-timer.C:
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}
}

// LatchTrapFlag arms a SIGTRAP watch, calls fn (expected to be
// primitives.TriggerTrapFlag or an equivalent), and reports whether
// the trap was observed within deadline. Unlike Latch's general
// fault case, a trap-flag single-step trap fires after the already
// fully executed NOP — there is nothing to skip past — so fn is
// expected to return normally whether or not SIGTRAP also arrives,
// and the watched goroutine is not abandoned on this path.
func LatchTrapFlag(deadline time.Duration, fn func()) (arrived bool) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTRAP)
	defer signal.Stop(ch)

	fn()

	select {
	case <-ch:
		return true
	case <-time.After(deadline):
		return false
	}
}

// LatchFault arms a watch for SIGSEGV and SIGBUS (the two signals a
// trapped DR7 access can plausibly raise depending on the
// hypervisor's emulation choice), calls fn on an abandoned,
// OS-thread-pinned goroutine, and reports which of three outcomes
// happened before deadline: faulted (the expected native #GP/#DB),
// completed (fn returned normally — the access was not trapped at
// all, which is the interesting case for HardwareBp), or neither
// (still blocked when deadline elapsed, treated as inconclusive).
// This is the primitive internal/detectors' HardwareBp check uses
// around primitives.ReadDR7.
func LatchFault(deadline time.Duration, fn func()) (faulted, completed bool) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGSEGV, syscall.SIGBUS)
	defer signal.Stop(ch)

	done := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		fn()
		close(done)
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case <-ch:
		return true, false
	case <-done:
		select {
		case <-ch:
			return true, false
		default:
			return false, true
		}
	case <-timer.C:
		select {
		case <-ch:
			return true, false
		default:
			return false, false
		}
	}
}
