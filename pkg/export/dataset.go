package export

import "fmt"

// Dataset is an ordered table. Each row holds one cell per header, in header
// order.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// Column describes one exported column of a record type.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Build lays records out under the given columns.
func Build[T any](columns []Column[T], records []T) Dataset {
	data := Dataset{Headers: make([]string, len(columns)), Rows: make([][]string, 0, len(records))}
	for i, col := range columns {
		data.Headers[i] = col.Header
	}
	for _, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = col.Value(record)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func (d Dataset) check(format string) error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("%s requires at least one header", format)
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("%s row %d has %d cells, want %d", format, i, len(row), len(d.Headers))
		}
	}
	return nil
}
