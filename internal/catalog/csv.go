package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// decodeCSV reads a ';'-delimited export with a header row. A leading UTF-8 BOM is ignored.
func decodeCSV(content []byte) ([]map[string]any, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(rows) == 0 {
		return []map[string]any{}, nil
	}
	return headerRows(rows[0], rows[1:]), nil
}
