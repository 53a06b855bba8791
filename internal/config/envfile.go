package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ReadEnvFile parses a KEY=VALUE env file. A missing or unreadable file
// yields an empty map.
func ReadEnvFile(dir, filename string) map[string]string {
	result := make(map[string]string)

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return result
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
			result[key] = value
		}
	}

	return result
}
