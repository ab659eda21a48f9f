// Package env reads the few raw environment switches, like LOG_FORMAT,
// that must work before the envconfig-backed config is loaded.
package env

import "os"

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
