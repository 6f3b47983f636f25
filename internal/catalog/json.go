package catalog

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// decodeJSON accepts either {"datasets": [...]} or a bare array of objects.
func decodeJSON(content []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty JSON catalog")
	}
	if trimmed[0] == '[' {
		var rows []map[string]any
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("decode JSON array: %w", err)
		}
		return rows, nil
	}
	var doc struct {
		Datasets []map[string]any `json:"datasets"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode JSON catalog: %w", err)
	}
	if doc.Datasets == nil {
		return []map[string]any{}, nil
	}
	return doc.Datasets, nil
}
