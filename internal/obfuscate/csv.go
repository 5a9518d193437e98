package obfuscate

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSV masks the named columns of a CSV payload whose first row is the header.
//
// Empty or whitespace-only input yields empty output. Bare quotes inside
// unquoted fields are accepted and rows shorter than the header are padded
// with empty values. Input that still cannot be parsed, or that has a row
// wider than the header, yields empty output with Result.Malformed set. The
// line terminator of the input (CRLF or LF) is kept.
func CSV(raw []byte, piiFields []string) (Result, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Result{Data: []byte{}}, nil
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return Result{Data: []byte{}, Malformed: fmt.Errorf("parse csv: %w", err)}, nil
	}
	if len(records) == 0 {
		return Result{Data: []byte{}}, nil
	}

	width := len(records[0])
	for i, row := range records[1:] {
		if len(row) > width {
			return Result{Data: []byte{}, Malformed: fmt.Errorf("parse csv: row %d has %d fields, header has %d", i+2, len(row), width)}, nil
		}
		for len(row) < width {
			row = append(row, "")
		}
		records[i+1] = row
	}

	positions, skipped := newSchema(records[0]).resolve(piiFields)
	for _, row := range records[1:] {
		for _, p := range positions {
			row[p] = Mask
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = bytes.Contains(raw, []byte("\r\n"))
	if err := w.WriteAll(records); err != nil {
		return Result{}, fmt.Errorf("write csv: %w", err)
	}

	return Result{Data: buf.Bytes(), Skipped: skipped}, nil
}
