// Package loader reads catalog records from flat files (JSON arrays or
// CSV with a header row) and maps them onto target field names using a
// declared field-rename table. Loading is all-or-nothing: any read,
// parse, or missing-key failure aborts the whole load.
package loader

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/flavorgraph/basil/pkg/errors"
	"github.com/flavorgraph/basil/pkg/tracing"
)

// Format tags the encoding of a source file.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// FieldMap declares one target field and the source key it is read from.
// Mappings are fixed literals per entity type (see mappings.go) and are
// validated at startup.
type FieldMap struct {
	Target string
	Source string
}

// Record is a single loaded record keyed by target field name, or by
// source key when the loader runs without renames.
type Record map[string]any

// Loader reads one source file.
//
// Mapping and Keys select the loading mode:
//   - Mapping set: each record is rebuilt as {target: raw[source]};
//     a missing source key fails the load.
//   - Keys set (no Mapping): the raw record restricted to those keys;
//     a missing key fails the load.
//   - Neither: the whole raw record.
type Loader struct {
	Path    string
	Format  Format
	Mapping []FieldMap
	Keys    []string

	logger ectologger.Logger
}

// New creates a loader with a field-rename mapping.
func New(logger ectologger.Logger, path string, format Format, mapping []FieldMap) *Loader {
	return &Loader{
		Path:    path,
		Format:  format,
		Mapping: mapping,
		logger:  logger,
	}
}

// NewRaw creates a loader that returns raw records, optionally restricted
// to the given source keys.
func NewRaw(logger ectologger.Logger, path string, format Format, keys []string) *Loader {
	return &Loader{
		Path:   path,
		Format: format,
		Keys:   keys,
		logger: logger,
	}
}

// LoadRecords reads the whole file into memory and returns the records in
// file order.
func (l *Loader) LoadRecords(ctx context.Context) ([]Record, error) {
	ctx, span := tracing.StartSpan(ctx, "loader.Loader.LoadRecords")
	defer span.End()

	log := l.logger.WithContext(ctx).WithFields(map[string]any{
		"path":   l.Path,
		"format": string(l.Format),
	})

	raw, err := l.readRaw(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to read source file")
		return nil, err
	}

	records := make([]Record, 0, len(raw))
	for i, item := range raw {
		rec, err := l.buildRecord(item, i)
		if err != nil {
			log.WithError(err).Error("Failed to map record")
			return nil, err
		}
		records = append(records, rec)
	}

	log.WithFields(map[string]any{"record_count": len(records)}).Debug("Loaded records")
	return records, nil
}

func (l *Loader) readRaw(ctx context.Context) ([]map[string]any, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", l.Path, err)
	}
	defer f.Close()

	switch l.Format {
	case FormatJSON:
		return readJSON(f)
	case FormatCSV:
		return readCSV(f)
	default:
		return nil, errors.NewUnsupportedFormatError(string(l.Format))
	}
}

func (l *Loader) buildRecord(raw map[string]any, index int) (Record, error) {
	if len(l.Mapping) > 0 {
		rec := make(Record, len(l.Mapping))
		for _, fm := range l.Mapping {
			val, ok := raw[fm.Source]
			if !ok {
				return nil, errors.NewMissingKeyError(fm.Source, index)
			}
			rec[fm.Target] = val
		}
		return rec, nil
	}

	if len(l.Keys) > 0 {
		rec := make(Record, len(l.Keys))
		for _, key := range l.Keys {
			val, ok := raw[key]
			if !ok {
				return nil, errors.NewMissingKeyError(key, index)
			}
			rec[key] = val
		}
		return rec, nil
	}

	return Record(raw), nil
}

func readJSON(r io.Reader) ([]map[string]any, error) {
	var data []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	return data, nil
}

func readCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return []map[string]any{}, nil
	}

	header := rows[0]
	data := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		item := make(map[string]any, len(header))
		for i, key := range header {
			if i < len(row) {
				item[key] = row[i]
			}
		}
		data = append(data, item)
	}
	return data, nil
}

// LoadEntities loads records and converts each through a typed
// constructor, preserving file order.
func LoadEntities[T any](ctx context.Context, l *Loader, from func(Record) T) ([]T, error) {
	records, err := l.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}

	entities := make([]T, 0, len(records))
	for _, rec := range records {
		entities = append(entities, from(rec))
	}
	return entities, nil
}

// String returns the record field as a string, empty when absent.
func (r Record) String(field string) string {
	val, ok := r[field]
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", val)
}

// StringSlice returns the record field as a string slice. JSON arrays
// are converted element-wise; delimited strings (CSV cells) are split on
// commas and trimmed.
func (r Record) StringSlice(field string) []string {
	val, ok := r[field]
	if !ok || val == nil {
		return nil
	}

	switch v := val.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}
