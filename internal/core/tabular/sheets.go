package tabular

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore reads and writes a Google Sheets spreadsheet. Range IDs are tab
// names ("PedidosWhatsApp", "Clientes").
type SheetsStore struct {
	srv           *sheets.Service
	spreadsheetID string
}

// NewSheetsStore authenticates with a service-account credentials file.
func NewSheetsStore(ctx context.Context, spreadsheetID, credentialsFile string) (*SheetsStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEETS_ID is required")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	log.Printf("📊 Google Sheets store ready (spreadsheet: %s)", spreadsheetID)
	return &SheetsStore{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsStore) GetBackendName() string {
	return "Google Sheets"
}

func (s *SheetsStore) ReadRows(ctx context.Context, rangeID string) ([][]string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, rangeID).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rangeID, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		row := make([]string, len(r))
		for j, cell := range r {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *SheetsStore) AppendRow(ctx context.Context, rangeID string, row []string) error {
	values := make([]interface{}, len(row))
	for i, c := range row {
		values[i] = c
	}

	// RAW keeps phone numbers as text instead of letting Sheets reformat them.
	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, rangeID, &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", rangeID, err)
	}
	return nil
}

func (s *SheetsStore) UpdateCell(ctx context.Context, rangeID string, rowRef, colRef int, value string) error {
	if err := checkRef(rowRef, colRef); err != nil {
		return err
	}

	// +2: 1-based rows and the header row.
	cell := fmt.Sprintf("%s!%s%d", rangeID, ColumnName(colRef+1), rowRef+2)
	_, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, cell, &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", cell, err)
	}
	return nil
}

// ColumnName converts a 1-based column number to its letter form (1 -> A, 27 -> AA).
func ColumnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
