package config

import (
	"os"
	"strconv"
	"strings"
)

// GetEnv returns the trimmed value of an environment variable, or "" when unset.
func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// GetEnvOr returns the environment value for key, falling back when it is empty.
func GetEnvOr(key, fallback string) string {
	if value := GetEnv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvInt parses an integer environment value. Missing, malformed or
// non-positive values yield the fallback.
func GetEnvInt(key string, fallback int) int {
	raw := GetEnv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
