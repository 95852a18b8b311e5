package detectors

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"antiprobe/internal/evidence"
)

// Ptrace runs two ptrace sub-probes in a fixed order: TracerPid is
// read before PTRACE_TRACEME is ever attempted, and PTRACE_TRACEME is
// the last ptrace action this process takes — once it succeeds the
// process is self-traced for the rest of its lifetime, which would
// otherwise shadow every downstream signal-based detector.
func Ptrace() []evidence.Evidence {
	var out []evidence.Evidence

	tracerPid, err := readTracerPid("/proc/self/status")
	if err != nil {
		return out
	}

	if tracerPid != 0 {
		out = append(out, evidence.Evidence{
			Source:     evidence.SourceTracerPid,
			Weight:     evidence.MaxWeight[evidence.SourceTracerPid],
			Confidence: 1.0,
			Details:    "TracerPid=" + strconv.Itoa(tracerPid),
		})
		return out
	}

	if selfTraceFails() {
		out = append(out, evidence.Evidence{
			Source:     evidence.SourcePtrace,
			Weight:     evidence.MaxWeight[evidence.SourcePtrace],
			Confidence: 1.0,
			Details:    "PTRACE_TRACEME rejected",
		})
	}
	return out
}

func readTracerPid(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "TracerPid:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return 0, nil
		}
		return strconv.Atoi(fields[1])
	}
	return 0, scanner.Err()
}

// selfTraceFails issues ptrace(PTRACE_TRACEME, 0, 0, 0) and reports
// whether it was rejected. ptrace state is per-thread, so the call is
// pinned to the current OS thread; the thread is deliberately left
// locked afterward, since once this process is self-traced the
// calling thread's relationship to the tracer slot must not migrate.
func selfTraceFails() bool {
	runtime.LockOSThread()
	_, _, errno := unix.RawSyscall(unix.SYS_PTRACE, uintptr(unix.PTRACE_TRACEME), 0, 0)
	return errno != 0
}
