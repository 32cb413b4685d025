package tabular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TabularRow is one spreadsheet-style row kept in postgres.
// Row 0 of each range is the header.
type TabularRow struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RangeID   string         `gorm:"type:varchar(100);not null;index:idx_tabular_range_row,unique" json:"range_id"`
	RowIndex  int            `gorm:"not null;index:idx_tabular_range_row,unique" json:"row_index"`
	Cells     datatypes.JSON `gorm:"type:jsonb;not null" json:"cells"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (TabularRow) TableName() string {
	return "tabular_rows"
}

// PostgresStore implements Store over the tabular_rows table.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) GetBackendName() string {
	return "PostgreSQL"
}

func (p *PostgresStore) ReadRows(ctx context.Context, rangeID string) ([][]string, error) {
	var records []TabularRow
	err := p.db.WithContext(ctx).
		Raw("SELECT id, range_id, row_index, cells, created_at, updated_at FROM tabular_rows WHERE range_id = ? ORDER BY row_index", rangeID).
		Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rangeID, err)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		var cells []string
		if err := json.Unmarshal(r.Cells, &cells); err != nil {
			return nil, fmt.Errorf("corrupt row %d in %s: %w", r.RowIndex, rangeID, err)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (p *PostgresStore) AppendRow(ctx context.Context, rangeID string, row []string) error {
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	// Row index is assigned in the same statement so concurrent appends
	// conflict on the unique index instead of overwriting each other.
	err = p.db.WithContext(ctx).Exec(
		`INSERT INTO tabular_rows (id, range_id, row_index, cells, created_at, updated_at)
		 SELECT ?, ?, COALESCE(MAX(row_index), -1) + 1, ?, NOW(), NOW()
		 FROM tabular_rows WHERE range_id = ?`,
		uuid.New(), rangeID, datatypes.JSON(cells), rangeID,
	).Error
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", rangeID, err)
	}
	return nil
}

func (p *PostgresStore) UpdateCell(ctx context.Context, rangeID string, rowRef, colRef int, value string) error {
	if err := checkRef(rowRef, colRef); err != nil {
		return err
	}

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record TabularRow
		err := tx.Raw("SELECT id, range_id, row_index, cells, created_at, updated_at FROM tabular_rows WHERE range_id = ? AND row_index = ? FOR UPDATE",
			rangeID, rowRef+1).
			Scan(&record).Error
		if err != nil {
			return fmt.Errorf("failed to load row %d of %s: %w", rowRef, rangeID, err)
		}
		if record.ID == uuid.Nil {
			return fmt.Errorf("%w: %d", ErrRowOutOfRange, rowRef)
		}

		var cells []string
		if err := json.Unmarshal(record.Cells, &cells); err != nil {
			return fmt.Errorf("corrupt row %d in %s: %w", rowRef, rangeID, err)
		}
		for len(cells) <= colRef {
			cells = append(cells, "")
		}
		cells[colRef] = value

		encoded, err := json.Marshal(cells)
		if err != nil {
			return err
		}

		res := tx.Exec("UPDATE tabular_rows SET cells = ?, updated_at = NOW() WHERE id = ?", datatypes.JSON(encoded), record.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to update row %d of %s: %w", rowRef, rangeID, res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.New("row vanished during update")
		}
		return nil
	})
}
