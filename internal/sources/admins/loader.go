package admins

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envRef = regexp.MustCompile(`\{\{\s*([A-Z0-9_]+)\s*\}\}`)

// Loader handles loading and parsing of admins.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new admin file loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the admins file
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read admins file: %w", err)
	}

	data = expandEnvRefs(data)

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("failed to parse admins yaml: %w", err)
	}

	return file, nil
}

// expandEnvRefs replaces {{VAR}} with the value of the environment variable,
// so hashes can be kept out of the file.
// Example: passwordHash: "{{ADMIN_ALICE_HASH}}"
func expandEnvRefs(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envRef.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}
