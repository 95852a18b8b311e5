// Package tpmprobe answers one narrow question for the environment
// probe: is a TPM present and actually transactable on this host? It
// deliberately does not implement attestation, sealing, or any other
// part of the TPM 2.0 command set — those belong to a different
// problem (document provenance), not an anti-analysis probe.
package tpmprobe

// Present reports whether a TPM device exists and accepts a getCapability
// round-trip. Errors of any kind (no device node, permission denied, no
// response) are treated as "not present" — this signal is informational
// only and must never block or panic a run.
func Present() bool {
	return present()
}
