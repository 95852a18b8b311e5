package envprobe

// Factor computes the environmental adjustment factor for a Snapshot:
//
//	governor performance + no hypervisor + SMT off -> 1.00
//	governor schedutil/ondemand                    -> x0.85
//	SMT active                                      -> x0.80
//	hypervisor bit present                          -> x0.70
//	load average > 2.0                              -> x0.75
//
// The product is clamped to [0.30, 1.00]. TPMPresent never
// participates in this computation: it is informational only.
func Factor(s Snapshot) float64 {
	factor := 1.0

	switch s.Governor {
	case "schedutil", "ondemand":
		factor *= 0.85
	case "powersave":
		// Not named explicitly in §4.3's multiplier list, but powersave
		// is not "performance" either; no additional penalty is
		// specified beyond what the other dimensions already capture,
		// so it falls through unscaled here.
	}

	if s.SMTActive != nil && *s.SMTActive {
		factor *= 0.80
	}

	if s.HypervisorPresent {
		factor *= 0.70
	}

	if s.LoadAverage1Min > 2.0 {
		factor *= 0.75
	}

	if factor < 0.30 {
		factor = 0.30
	}
	if factor > 1.00 {
		factor = 1.00
	}
	return factor
}
