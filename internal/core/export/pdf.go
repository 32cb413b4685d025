package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter implements PDF export using gofpdf
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export draws the table with a repeated header on every page. Text goes
// through the cp1252 translator so Spanish accents render with core fonts.
func (p *PDFExporter) Export(data *ExportData, writer io.Writer) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("no headers provided")
	}

	orientation := "P"
	if data.Style.Landscape {
		orientation = "L"
	}
	fontSize := data.Style.FontSize
	if fontSize == 0 {
		fontSize = 9
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 9, tr(data.Title), "", 1, "L", false, 0, "")
	}
	if data.Description != "" {
		pdf.SetFont("Arial", "", fontSize)
		pdf.MultiCell(0, 5, tr(data.Description), "", "L", false)
	}
	if !data.CreatedAt.IsZero() {
		pdf.SetFont("Arial", "I", 7)
		pdf.CellFormat(0, 5, tr("Generado: "+data.CreatedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(data.Headers))

	drawHeader := func() {
		pdf.SetFont("Arial", "B", fontSize)
		r, g, b := hexToRGB(data.Style.HeaderBgColor)
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range data.Headers {
			pdf.CellFormat(colWidth, 7, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", fontSize)
	}

	drawHeader()
	sr, sg, sb := hexToRGB(data.Style.StripeColor)
	for i, row := range data.Rows {
		if pdf.GetY()+6 > pageHeight-bottom-10 {
			pdf.AddPage()
			drawHeader()
		}
		stripe := data.Style.StripeColor != "" && i%2 == 1
		if stripe {
			pdf.SetFillColor(sr, sg, sb)
		}
		for _, value := range row {
			pdf.CellFormat(colWidth, 6, tr(fmt.Sprintf("%v", value)), "1", 0, "L", stripe, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(data.Summary) > 0 {
		pdf.Ln(4)
		for _, line := range data.Summary {
			pdf.SetFont("Arial", "B", fontSize)
			pdf.CellFormat(45, 6, tr(line.Label), "", 0, "L", false, 0, "")
			pdf.SetFont("Arial", "", fontSize)
			pdf.CellFormat(0, 6, tr(line.Value), "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (p *PDFExporter) GetContentType() string {
	return "application/pdf"
}

func (p *PDFExporter) GetFileExtension() string {
	return ".pdf"
}

// hexToRGB converts a hex color, defaulting to white
func hexToRGB(hex string) (int, int, int) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return 255, 255, 255
	}
	var r, g, b int
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}
