//go:build linux

package tpmprobe

import (
	"os"

	"github.com/google/go-tpm/tpm2"
	"github.com/google/go-tpm/tpm2/transport"
)

// devicePaths mirrors the resource-manager-first preference order used
// elsewhere in the corpus for TPM access.
var devicePaths = []string{
	"/dev/tpmrm0",
	"/dev/tpm0",
}

func present() bool {
	for _, path := range devicePaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if probeDevice(path) {
			return true
		}
	}
	return false
}

// probeDevice opens the TPM transport and issues a minimal
// GetCapability round-trip to confirm the device actually answers,
// rather than trusting the device node's mere existence.
func probeDevice(path string) bool {
	t, err := transport.OpenTPM(path)
	if err != nil {
		return false
	}
	defer t.Close()

	cmd := tpm2.GetCapability{
		Capability:    tpm2.TPMCapTPMProperties,
		Property:      uint32(tpm2.TPMPTManufacturer),
		PropertyCount: 1,
	}
	_, err = cmd.Execute(t)
	return err == nil
}
