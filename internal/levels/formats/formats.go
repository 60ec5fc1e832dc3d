package formats

import (
	"fmt"
	"strings"
)

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".json", ".yaml", ".yml"}
}

// IsSupported checks if ext (with leading dot, any case) is supported.
func IsSupported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// Parse routes data to the parser for ext.
func Parse(data []byte, ext string) (Descriptor, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return Descriptor{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
