package audit

import (
	"encoding/hex"
	"os"

	"antiprobe/internal/security"
)

// machineIDPaths are checked in order for a stable per-host seed.
var machineIDPaths = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

// HostID derives a pseudonymous, stable identifier for the current
// host from /etc/machine-id via HKDF, so repeated runs on the same
// machine correlate in the history store without the raw machine ID
// (or hostname) ever being written to disk.
func HostID() (string, error) {
	seed, err := machineSeed()
	if err != nil {
		return "", err
	}

	var derived []byte
	err = security.GuardedExec(seed, func(s []byte) error {
		var derr error
		derived, derr = security.DeriveKeyWithLabel(s, "host-id", 16)
		return derr
	})
	if err != nil {
		return "", err
	}

	sb, err := security.FromBytes(derived)
	if err != nil {
		return "", err
	}

	var id string
	err = security.GuardedSecure(sb, func(s *security.SecureBytes) error {
		id = hex.EncodeToString(s.Copy())
		return nil
	})
	return id, err
}

// machineSeed reads the first machine-id path that yields a seed
// passing security.ValidateKeyStrength, falling back to the hostname
// when none of them are readable or strong enough.
func machineSeed() ([]byte, error) {
	for _, p := range machineIDPaths {
		data, err := os.ReadFile(p)
		if err != nil || len(data) == 0 {
			continue
		}
		seed := padSeed(data)
		if err := security.ValidateKeyStrength(seed); err == nil {
			return seed, nil
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, err
	}
	return padSeed([]byte(hostname)), nil
}

// padSeed ensures the seed meets security.MinKeySize, since a short
// hostname would otherwise fail DeriveKeyWithLabel's strength check.
func padSeed(data []byte) []byte {
	if len(data) >= security.MinKeySize {
		return data
	}
	padded := make([]byte, security.MinKeySize)
	copy(padded, data)
	return padded
}
