package catalog

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// decodeExcel reads the first sheet of a workbook; the first row is the header.
func decodeExcel(content []byte) ([]map[string]any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []map[string]any{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []map[string]any{}, nil
	}
	return headerRows(rows[0], rows[1:]), nil
}
