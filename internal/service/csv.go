package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/theoleuthardt/backlog-manager/internal/domain"
)

// ErrMalformedCSV indicates the input text violates CSV quoting rules.
// It aborts an import before any side effect occurs.
var ErrMalformedCSV = errors.New("malformed CSV input")

// columnKeys are the spreadsheet-style column addresses assigned to
// positional cells. Cells beyond column Z are dropped.
var columnKeys = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
}

// ParseCSVContent decodes raw CSV text into ordered import records.
// Rows may have varying widths; blank lines are skipped, but a row of
// empty cells (",,") still yields a record and fails title validation
// downstream. Fields follow standard CSV quoting (embedded quotes
// doubled, newlines preserved inside quotes).
// Parameters:
//   - content: full file content as text.
// Returns:
//   - []domain.ImportRecord: one record per input row, in input order.
//   - error: wraps ErrMalformedCSV if quoting is malformed.
func ParseCSVContent(content string) ([]domain.ImportRecord, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	records := make([]domain.ImportRecord, 0, len(rows))
	for _, row := range rows {
		record := make(domain.ImportRecord, len(row))
		for i, cell := range row {
			if i >= len(columnKeys) {
				break
			}
			record[columnKeys[i]] = cell
		}
		records = append(records, record)
	}

	return records, nil
}

// EncodeRecords re-encodes import records as canonical CSV text. Each
// row spans columns A through the highest populated address; the output
// round-trips through ParseCSVContent unchanged.
// Parameters:
//   - records: records to encode.
// Returns:
//   - string: CSV text with a trailing newline.
//   - error: non-nil if the writer fails.
func EncodeRecords(records []domain.ImportRecord) (string, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	for _, record := range records {
		width := 0
		for i, key := range columnKeys {
			if _, ok := record[key]; ok {
				width = i + 1
			}
		}
		row := make([]string, width)
		for i := 0; i < width; i++ {
			row[i] = record[columnKeys[i]]
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to encode CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return buf.String(), nil
}
