package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter implements Excel export using excelize
type ExcelExporter struct {
	sheetName string
}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{sheetName: "Pedidos"}
}

func (e *ExcelExporter) Export(data *ExportData, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", e.sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	row := 1
	if data.Title != "" {
		titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
		if err != nil {
			return fmt.Errorf("failed to create title style: %w", err)
		}
		if err := e.setRow(f, row, []interface{}{data.Title}, titleStyle); err != nil {
			return err
		}
		row++
		if data.Description != "" {
			if err := e.setRow(f, row, []interface{}{data.Description}, 0); err != nil {
				return err
			}
			row++
		}
		row++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: data.Style.FontSize},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(data.Style.HeaderBgColor, "#")}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	stripeStyle := 0
	if data.Style.StripeColor != "" {
		stripeStyle, err = f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(data.Style.StripeColor, "#")}},
		})
		if err != nil {
			return fmt.Errorf("failed to create row style: %w", err)
		}
	}

	headerRow := row
	headers := make([]interface{}, len(data.Headers))
	for i, h := range data.Headers {
		headers[i] = h
	}
	if err := e.setRow(f, row, headers, headerStyle); err != nil {
		return err
	}
	row++

	for i, r := range data.Rows {
		style := 0
		if i%2 == 1 {
			style = stripeStyle
		}
		if err := e.setRow(f, row, r, style); err != nil {
			return err
		}
		row++
	}

	for col, width := range data.Style.ColumnWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			continue
		}
		_ = f.SetColWidth(e.sheetName, name, name, width)
	}

	if len(data.Headers) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(data.Headers), headerRow+len(data.Rows))
		_ = f.AutoFilter(e.sheetName, fmt.Sprintf("A%d:%s", headerRow, lastCell), nil)
		_ = f.SetPanes(e.sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
			ActivePane:  "bottomLeft",
		})
	}

	if len(data.Summary) > 0 {
		row++
		for _, line := range data.Summary {
			if err := e.setRow(f, row, []interface{}{line.Label, line.Value}, 0); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (e *ExcelExporter) setRow(f *excelize.File, row int, values []interface{}, style int) error {
	if len(values) == 0 {
		return nil
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(e.sheetName, first, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	if style != 0 {
		last, _ := excelize.CoordinatesToCellName(len(values), row)
		if err := f.SetCellStyle(e.sheetName, first, last, style); err != nil {
			return fmt.Errorf("failed to style row %d: %w", row, err)
		}
	}
	return nil
}

func (e *ExcelExporter) GetContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ExcelExporter) GetFileExtension() string {
	return ".xlsx"
}
