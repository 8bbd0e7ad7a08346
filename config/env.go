package config

import "os"

// EnvString returns the value of an environment variable and whether it
// was set. Flags still take precedence over environment values.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
