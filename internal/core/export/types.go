package export

import (
	"io"
	"time"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatExcel ExportFormat = "excel"
)

// ParseFormat maps a query value to a format, defaulting to Excel
func ParseFormat(s string) (ExportFormat, bool) {
	switch s {
	case "", "excel", "xlsx":
		return FormatExcel, true
	case "pdf":
		return FormatPDF, true
	default:
		return "", false
	}
}

// Exporter is the interface for all export formats
type Exporter interface {
	Export(data *ExportData, writer io.Writer) error
	GetContentType() string
	GetFileExtension() string
}

// ExportData is a titled table with an optional summary block
type ExportData struct {
	Title       string
	Description string
	CreatedAt   time.Time
	FileName    string // without extension

	Headers []string
	Rows    [][]interface{}

	// Summary lines are printed under the table ("Total kg", "Monto total")
	Summary []SummaryLine

	Style ExportStyle
}

type SummaryLine struct {
	Label string
	Value string
}

// ExportStyle defines styling options for exports
type ExportStyle struct {
	Landscape     bool
	HeaderBgColor string // Hex color
	StripeColor   string // Hex color for even rows, empty disables stripes
	FontSize      float64
	ColumnWidths  map[int]float64
}

// DefaultStyle uses the brand brown for headers
func DefaultStyle() ExportStyle {
	return ExportStyle{
		Landscape:     true,
		HeaderBgColor: "#6F4E37",
		StripeColor:   "#F5EFE6",
		FontSize:      9,
		ColumnWidths:  map[int]float64{},
	}
}
