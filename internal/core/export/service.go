package export

import (
	"bytes"
	"fmt"
	"strings"
)

// File is a rendered report ready to be sent as an attachment
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Service picks the exporter for a format
type Service struct {
	exporters map[ExportFormat]Exporter
}

func NewService() *Service {
	s := &Service{exporters: make(map[ExportFormat]Exporter)}
	s.Register(FormatExcel, NewExcelExporter())
	s.Register(FormatPDF, NewPDFExporter())
	return s
}

// Register adds or replaces the exporter for a format
func (s *Service) Register(format ExportFormat, exporter Exporter) {
	s.exporters[format] = exporter
}

// Export renders data in the given format. The file is named after
// data.FileName, or "export" when that is empty.
func (s *Service) Export(data *ExportData, format ExportFormat) (*File, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}

	var buf bytes.Buffer
	if err := exporter.Export(data, &buf); err != nil {
		return nil, fmt.Errorf("%s export failed: %w", format, err)
	}

	base := strings.TrimSpace(data.FileName)
	if base == "" {
		base = "export"
	}
	return &File{
		Name:        base + exporter.GetFileExtension(),
		ContentType: exporter.GetContentType(),
		Data:        buf.Bytes(),
	}, nil
}
