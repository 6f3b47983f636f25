// Package catalog loads open-data catalog files into dataset records.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/metaboost/internal/models"
)

// SupportedExtensions lists the catalog file extensions Load understands.
var SupportedExtensions = []string{".json", ".csv", ".xlsx", ".db", ".sqlite"}

// Load reads the catalog file at path and returns its records, dispatching on the file extension.
func Load(path string) ([]models.DatasetRecord, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".db" || ext == ".sqlite" {
		rows, err := loadSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
		return ParseRecords(rows), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	records, err := LoadBytes(content, ext)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return records, nil
}

// LoadBytes parses catalog content of the given extension (with leading dot).
// SQLite catalogs need a file and are only supported through Load.
func LoadBytes(content []byte, ext string) ([]models.DatasetRecord, error) {
	var (
		rows []map[string]any
		err  error
	)
	switch ext {
	case ".json":
		rows, err = decodeJSON(content)
	case ".csv":
		rows, err = decodeCSV(content)
	case ".xlsx":
		rows, err = decodeExcel(content)
	default:
		return nil, fmt.Errorf("%w: unsupported catalog format %q", models.ErrInvalidArgument, ext)
	}
	if err != nil {
		return nil, err
	}
	return ParseRecords(rows), nil
}

// LoadAll loads every path in order and concatenates the records.
func LoadAll(paths []string) ([]models.DatasetRecord, error) {
	var all []models.DatasetRecord
	for _, p := range paths {
		records, err := Load(p)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

// headerRows turns a header row plus data rows into raw maps. Short rows leave missing cells unset.
func headerRows(header []string, rows [][]string) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		m := make(map[string]any, len(header))
		for i, h := range header {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
