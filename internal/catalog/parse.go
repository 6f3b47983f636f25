package catalog

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/metaboost/internal/models"
)

// fieldAliases lists, per record field, the source column names it is read from
// in priority order. The Spanish names are the column headers of the
// datos.madrid.es catalog export.
var fieldAliases = []struct {
	field string
	names []string
}{
	{"id", []string{"id", "identificador"}},
	{"title", []string{"title", "titulo", "título"}},
	{"description", []string{"description", "descripcion", "descripción"}},
	{"format", []string{"format", "formato", "formatos"}},
	{"license", []string{"license", "licencia"}},
	{"frequency", []string{"frequency", "frecuencia", "frecuencia de actualización"}},
	{"category", []string{"category", "categoria", "categoría", "sector"}},
	{"tags", []string{"tags", "keywords", "etiquetas", "palabras clave"}},
	{"modified", []string{"modified", "last_updated", "lastupdated", "fecha de actualización"}},
	{"issued", []string{"fecha de incorporación al catálogo"}},
	{"url", []string{"url"}},
}

type alias struct {
	field string
	rank  int
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]alias {
	idx := make(map[string]alias)
	for _, fa := range fieldAliases {
		for rank, name := range fa.names {
			idx[name] = alias{field: fa.field, rank: rank}
		}
	}
	return idx
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func canonicalKey(k string) alias {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.TrimSuffix(k, ":")
	if a, ok := aliasIndex[k]; ok {
		return a
	}
	return alias{field: k}
}

// resolveFields maps raw columns onto record fields. When several columns feed
// the same field, the highest priority non-empty one wins; raw keys are visited
// in sorted order so equal-rank spellings ("Title", "title:") resolve the same way
// on every call.
func resolveFields(raw map[string]any) map[string]any {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(map[string]any, len(raw))
	ranks := make(map[string]int, len(raw))
	for _, k := range keys {
		v := raw[k]
		if isEmptyValue(v) {
			continue
		}
		a := canonicalKey(k)
		if best, ok := ranks[a.field]; ok && best <= a.rank {
			continue
		}
		fields[a.field] = v
		ranks[a.field] = a.rank
	}
	return fields
}

func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []byte:
		return strings.TrimSpace(string(x)) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	default:
		return false
	}
}

// ParseRecord coerces a raw catalog row into a DatasetRecord. It never fails:
// missing fields become empty, tags may be a list or a comma-separated string,
// and an unparsable update date becomes the zero time.
func ParseRecord(raw map[string]any) models.DatasetRecord {
	fields := resolveFields(raw)

	rec := models.DatasetRecord{
		ID:          stringField(fields["id"]),
		Title:       stringField(fields["title"]),
		Description: stringField(fields["description"]),
		Format:      stringField(fields["format"]),
		License:     stringField(fields["license"]),
		Frequency:   stringField(fields["frequency"]),
		Category:    stringField(fields["category"]),
		Tags:        tagsField(fields["tags"]),
		URL:         stringField(fields["url"]),
	}
	rec.LastUpdated = parseDate(stringField(fields["modified"]))
	if rec.LastUpdated.IsZero() {
		rec.LastUpdated = parseDate(stringField(fields["issued"]))
	}
	return rec
}

// ParseRecords applies ParseRecord to every row.
func ParseRecords(rows []map[string]any) []models.DatasetRecord {
	out := make([]models.DatasetRecord, len(rows))
	for i, row := range rows {
		out[i] = ParseRecord(row)
	}
	return out
}

func stringField(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case []byte:
		return strings.TrimSpace(string(x))
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return ""
	}
}

func tagsField(v any) []string {
	switch x := v.(type) {
	case []any:
		tags := make([]string, 0, len(x))
		for _, t := range x {
			if s := stringField(t); s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	case []string:
		tags := make([]string, 0, len(x))
		for _, t := range x {
			if s := strings.TrimSpace(t); s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return splitTags(stringField(v))
	}
}

func splitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
