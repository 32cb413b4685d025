package tabular

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelStore keeps every range as a worksheet of one local .xlsx workbook.
// The workbook is saved after each write.
type ExcelStore struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

// NewExcelStore opens path, creating the workbook when it does not exist.
func NewExcelStore(path string) (*ExcelStore, error) {
	if path == "" {
		return nil, fmt.Errorf("EXCEL_FILE_PATH is required")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
		}
		f = excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("failed to create workbook %s: %w", path, err)
		}
		log.Printf("📗 Created workbook %s", path)
	}

	return &ExcelStore{path: path, file: f}, nil
}

func (e *ExcelStore) GetBackendName() string {
	return "Excel"
}

func (e *ExcelStore) ReadRows(ctx context.Context, rangeID string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.file.GetSheetIndex(rangeID)
	if err != nil || idx < 0 {
		return nil, nil
	}

	rows, err := e.file.GetRows(rangeID)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", rangeID, err)
	}
	return rows, nil
}

func (e *ExcelStore) AppendRow(ctx context.Context, rangeID string, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureSheet(rangeID); err != nil {
		return err
	}

	rows, err := e.file.GetRows(rangeID)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", rangeID, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	values := append([]string(nil), row...)
	if err := e.file.SetSheetRow(rangeID, cell, &values); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", rangeID, err)
	}

	return e.save()
}

func (e *ExcelStore) UpdateCell(ctx context.Context, rangeID string, rowRef, colRef int, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkRef(rowRef, colRef); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.file.GetSheetIndex(rangeID)
	if err != nil || idx < 0 {
		return fmt.Errorf("%w: %s", ErrRangeNotFound, rangeID)
	}

	rows, err := e.file.GetRows(rangeID)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", rangeID, err)
	}
	if rowRef+1 >= len(rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, rowRef)
	}

	cell, err := excelize.CoordinatesToCellName(colRef+1, rowRef+2)
	if err != nil {
		return err
	}
	if err := e.file.SetCellStr(rangeID, cell, value); err != nil {
		return fmt.Errorf("failed to update %s!%s: %w", rangeID, cell, err)
	}

	return e.save()
}

// Close releases the workbook.
func (e *ExcelStore) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.file.Close()
}

func (e *ExcelStore) ensureSheet(name string) error {
	idx, err := e.file.GetSheetIndex(name)
	if err == nil && idx >= 0 {
		return nil
	}
	if _, err := e.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return nil
}

func (e *ExcelStore) save() error {
	if err := e.file.SaveAs(e.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", e.path, err)
	}
	return nil
}
