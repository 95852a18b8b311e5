package detectors

import (
	"os"
	"strings"

	"antiprobe/internal/evidence"
)

// EbpfCompare checks whether this host can even support an
// eBPF-assisted timing comparison. The actual cross-checked comparison
// this detector would perform against a kernel-side trace is deliberately
// left unimplemented rather than guessed at: when tracing support isn't
// available — the common case in containers — this emits no Evidence
// at all, and none is fabricated even when tracing is available, since
// no measurement was actually taken.
func EbpfCompare() []evidence.Evidence {
	if !ebpfTracingAvailable() {
		return nil
	}
	return nil
}

func ebpfTracingAvailable() bool {
	if _, err := os.Stat("/sys/kernel/debug/tracing"); err != nil {
		return false
	}
	data, err := os.ReadFile("/proc/sys/kernel/unprivileged_bpf_disabled")
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) != "2"
}
