package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter writes a Dataset as RFC 4180 CSV with a header record. The
// title has no place in the format and is ignored.
type CSVExporter struct {
	useCRLF bool
}

// NewCSVExporter builds a CSV exporter. Line endings are CRLF so the file
// opens cleanly in spreadsheet tools.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{useCRLF: true}
}

// ContentType is the MIME type of rendered output.
func (e *CSVExporter) ContentType() string {
	return "text/csv; charset=utf-8"
}

// Render encodes the header record followed by every row.
func (e *CSVExporter) Render(data Dataset, _ string) ([]byte, error) {
	if err := data.check("csv"); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = e.useCRLF
	records := append([][]string{data.Headers}, data.Rows...)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
