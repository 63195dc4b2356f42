package ragpipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// maxJSONDepth limits recursion when flattening deeply nested input.
const maxJSONDepth = 100

// JSONLoader handles JSON files by flattening arbitrary structures into
// readable "key.path: value" lines.
type JSONLoader struct {
	path string
}

// NewJSONLoader creates a JSON loader bound to path.
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{path: path}
}

// Load parses the JSON document and returns its flattened form as a single
// record. Empty files yield zero records.
func (l *JSONLoader) Load() ([]Document, error) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}

	content = bytes.TrimSpace(content)
	if len(content) == 0 {
		return nil, nil
	}

	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON file: %w", err)
	}

	var lines []string
	flattenJSON("", data, &lines, 0)
	if len(lines) == 0 {
		return nil, nil
	}

	return []Document{NewDocument(strings.Join(lines, "\n"))}, nil
}

func flattenJSON(prefix string, v any, lines *[]string, depth int) {
	if depth >= maxJSONDepth {
		label := prefix
		if label == "" {
			label = "value"
		}
		*lines = append(*lines, fmt.Sprintf("%s: <truncated>", label))
		return
	}

	switch val := v.(type) {
	case map[string]any:
		// Sorted keys keep the flattened output stable across loads.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenJSON(key, val[k], lines, depth+1)
		}
	case []any:
		for i, item := range val {
			flattenJSON(fmt.Sprintf("%s[%d]", prefix, i), item, lines, depth+1)
		}
	case nil:
		// null values carry no text
	default:
		label := prefix
		if label == "" {
			label = "value"
		}
		*lines = append(*lines, fmt.Sprintf("%s: %s", label, formatJSONValue(val)))
	}
}

func formatJSONValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// JSON numbers decode to float64; render integers without a fraction.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
