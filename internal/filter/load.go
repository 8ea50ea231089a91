package filter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Load merges inline patterns with those read from an optional JSONC file,
// in that order. An empty file path means inline patterns only.
func Load(inline []string, file string) ([]string, error) {
	patterns := append([]string{}, inline...)

	if file == "" {
		return patterns, nil
	}

	raw, err := os.ReadFile(file) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading patterns file %q: %w", file, err)
	}

	var loaded []string
	if err := json.Unmarshal(jsonc.ToJSON(raw), &loaded); err != nil {
		return nil, fmt.Errorf("parsing patterns file %q: %w", file, err)
	}

	return append(patterns, loaded...), nil
}
