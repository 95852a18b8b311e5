package security

import (
	"os"
)

// SecureEnvironment sets up a secure process environment.
// This includes:
// - Setting restrictive umask
// - Clearing potentially dangerous environment variables
// - Setting secure locale
func SecureEnvironment() error {
	// Clear potentially sensitive environment variables
	sensitiveVars := []string{
		"LD_PRELOAD",
		"LD_LIBRARY_PATH",
		"DYLD_INSERT_LIBRARIES",
		"DYLD_LIBRARY_PATH",
		"IFS",
		"CDPATH",
		"ENV",
		"BASH_ENV",
	}

	for _, v := range sensitiveVars {
		os.Unsetenv(v)
	}

	// Set restrictive umask (Unix only, no-op on Windows)
	setUmask(0077)

	// Set secure locale to prevent encoding attacks
	os.Setenv("LC_ALL", "C.UTF-8")
	os.Setenv("LANG", "C.UTF-8")

	return nil
}
