package env

import (
	"os"
	"strings"
)

// Get reads an environment variable, treating unset and blank the same and
// returning the fallback in both cases.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
