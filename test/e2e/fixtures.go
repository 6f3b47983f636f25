package e2e

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/metaboost/internal/models"
)

// SupportedCatalogExtensions is the list of catalog formats written by WriteCatalog.
var SupportedCatalogExtensions = []string{".json", ".csv", ".xlsx", ".db"}

var catalogHeader = []string{"id", "title", "description", "format", "license", "frequency", "category", "tags", "last_updated"}

func row(r models.DatasetRecord) []string {
	updated := ""
	if !r.LastUpdated.IsZero() {
		updated = r.LastUpdated.UTC().Format(time.RFC3339)
	}
	return []string{r.ID, r.Title, r.Description, r.Format, r.License, r.Frequency, r.Category, strings.Join(r.Tags, ","), updated}
}

// WriteCatalog writes records to path in the format named by its extension.
func WriteCatalog(path string, records []models.DatasetRecord) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err := json.Marshal(map[string]interface{}{"datasets": records})
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0600)
	case ".csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		w.Comma = ';'
		_ = w.Write(catalogHeader)
		for _, r := range records {
			_ = w.Write(row(r))
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		return os.WriteFile(path, buf.Bytes(), 0600)
	case ".xlsx":
		return writeXlsx(path, records)
	case ".db", ".sqlite":
		return writeSQLite(path, records)
	default:
		return fmt.Errorf("unsupported catalog extension %q", ext)
	}
}

func writeXlsx(path string, records []models.DatasetRecord) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, values := range append([][]string{catalogHeader}, rowsOf(records)...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		vals := make([]interface{}, len(values))
		for j, v := range values {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeSQLite(path string, records []models.DatasetRecord) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()
	cols := strings.Join(catalogHeader, " TEXT, ") + " TEXT"
	if _, err := db.Exec("CREATE TABLE datasets (" + cols + ")"); err != nil {
		return err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(catalogHeader)), ", ")
	stmt, err := db.Prepare("INSERT INTO datasets (" + strings.Join(catalogHeader, ", ") + ") VALUES (" + placeholders + ")")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, values := range rowsOf(records) {
		args := make([]interface{}, len(values))
		for i, v := range values {
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return nil
}

func rowsOf(records []models.DatasetRecord) [][]string {
	out := make([][]string, len(records))
	for i, r := range records {
		out[i] = row(r)
	}
	return out
}
