package env

import (
	"os"
	"strconv"
	"strings"
)

// Val will attempt to get an environment variable value using the given key.
// If the variable isn't set, or its trimmed value is empty, then the defaultVal will be returned.
// Note that keys are compared case-insensitive.
func Val(key string, defaultVal string) string {
	key = strings.ToLower(key)
	for _, pair := range os.Environ() {
		envKey, val, found := strings.Cut(pair, "=")
		if !found || strings.ToLower(envKey) != key {
			continue
		}
		trimmed := strings.TrimSpace(val)
		if len(trimmed) == 0 {
			return defaultVal
		}
		return trimmed
	}
	return defaultVal
}

// Int will attempt to interpret an environment variable as an integer, returning the defaultVal if the environment variable isn't found or can't be a valid integer.
func Int(key string, defaultVal int64) int64 {
	sval := Val(key, "")
	if len(sval) == 0 {
		return defaultVal
	}
	ival, err := strconv.ParseInt(sval, 10, 64)
	if err != nil {
		return defaultVal
	}
	return ival
}
