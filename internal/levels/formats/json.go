package formats

import (
	"encoding/json"
	"fmt"
)

// ParseJSON parses a JSON level file.
func ParseJSON(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return d, nil
}
