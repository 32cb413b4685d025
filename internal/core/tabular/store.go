// Package tabular is the record-store boundary: a spreadsheet-like store of
// named ranges holding rows of string cells. The first row of every range is
// its header.
package tabular

import (
	"context"
	"errors"
	"fmt"
)

// Store is implemented by every backend (Google Sheets, an xlsx file,
// postgres, memory).
type Store interface {
	// ReadRows returns every row of the range, header included at index 0.
	ReadRows(ctx context.Context, rangeID string) ([][]string, error)

	// AppendRow adds a row after the last one.
	AppendRow(ctx context.Context, rangeID string, row []string) error

	// UpdateCell sets one cell. rowRef is the 0-based data row (header
	// excluded), colRef the 0-based column from the range's Schema.
	UpdateCell(ctx context.Context, rangeID string, rowRef, colRef int, value string) error

	// GetBackendName returns the backend name for logging
	GetBackendName() string
}

var (
	ErrRangeNotFound = errors.New("range not found")
	ErrRowOutOfRange = errors.New("row out of range")
)

// BackendType selects a Store implementation.
type BackendType string

const (
	BackendMemory   BackendType = "memory"
	BackendSheets   BackendType = "sheets"
	BackendExcel    BackendType = "excel"
	BackendPostgres BackendType = "postgres"
)

func checkRef(rowRef, colRef int) error {
	if rowRef < 0 || colRef < 0 {
		return fmt.Errorf("%w: row %d col %d", ErrRowOutOfRange, rowRef, colRef)
	}
	return nil
}
