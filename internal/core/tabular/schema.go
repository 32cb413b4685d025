package tabular

import (
	"context"
	"fmt"
	"strings"
)

// Definition describes a range the application reads and writes.
type Definition struct {
	RangeID string
	// Columns is the header written when the range is empty.
	Columns []string
	// Required columns must exist in the header of an existing range.
	Required []string
}

// Schema maps header names to column positions for one range. It is resolved
// once at startup so callers never depend on column order.
type Schema struct {
	RangeID string
	columns map[string]int
	width   int
}

// ResolveSchema reads the header of def.RangeID, writing def.Columns first
// when the range is empty.
func ResolveSchema(ctx context.Context, store Store, def Definition) (*Schema, error) {
	rows, err := store.ReadRows(ctx, def.RangeID)
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", def.RangeID, err)
	}

	var header []string
	if len(rows) == 0 || isBlank(rows[0]) {
		if len(def.Columns) == 0 {
			return nil, fmt.Errorf("range %s has no header and no default columns", def.RangeID)
		}
		if err := store.AppendRow(ctx, def.RangeID, def.Columns); err != nil {
			return nil, fmt.Errorf("failed to write header of %s: %w", def.RangeID, err)
		}
		header = def.Columns
	} else {
		header = rows[0]
	}

	schema := NewSchema(def.RangeID, header)

	var missing []string
	for _, col := range def.Required {
		if _, ok := schema.Index(col); !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("range %s is missing columns: %s", def.RangeID, strings.Join(missing, ", "))
	}

	return schema, nil
}

// NewSchema builds a schema from a header row.
func NewSchema(rangeID string, header []string) *Schema {
	s := &Schema{
		RangeID: rangeID,
		columns: make(map[string]int, len(header)),
		width:   len(header),
	}
	for i, name := range header {
		key := headerKey(name)
		if key == "" {
			continue
		}
		if _, dup := s.columns[key]; !dup {
			s.columns[key] = i
		}
	}
	return s
}

// Index returns the column of a header name.
func (s *Schema) Index(field string) (int, bool) {
	i, ok := s.columns[headerKey(field)]
	return i, ok
}

// Width is the number of header columns.
func (s *Schema) Width() int {
	return s.width
}

// Get reads a field from a row, tolerating short rows.
func (s *Schema) Get(row []string, field string) string {
	i, ok := s.Index(field)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Row lays out values by header position. Unknown fields are ignored.
func (s *Schema) Row(values map[string]string) []string {
	row := make([]string, s.width)
	for field, v := range values {
		if i, ok := s.Index(field); ok {
			row[i] = v
		}
	}
	return row
}

func headerKey(name string) string {
	k := strings.ToLower(strings.TrimSpace(name))
	k = strings.ReplaceAll(k, " ", "_")
	return k
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
