package service

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/theoleuthardt/backlog-manager/internal/domain"
)

// exportHeader is the column layout of an exported backlog CSV. It
// mirrors the default import column mapping (title=A, genre=B,
// platform=C, status=D) so an export can be re-imported as-is.
var exportHeader = []string{
	"Title", "Genre", "Platform", "Status", "Owned", "Interest",
	"Image Link", "Main Time", "Main + Extra Time", "Completion Time",
	"Review Stars", "Review", "Note",
}

// ExportEntriesCSV encodes a user's backlog entries as CSV text with a
// header row.
// Parameters:
//   - entries: entries to export, in the order they should appear.
// Returns:
//   - string: CSV text.
//   - error: non-nil if encoding fails.
func ExportEntriesCSV(entries []domain.BacklogEntry) (string, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range entries {
		e := &entries[i]
		row := []string{
			e.Title,
			e.Genre,
			e.Platform,
			e.Status,
			strconv.FormatBool(e.Owned),
			strconv.Itoa(e.Interest),
			e.ImageLink,
			formatHours(e.MainTime),
			formatHours(e.MainPlusExtraTime),
			formatHours(e.CompletionTime),
			strconv.Itoa(e.ReviewStars),
			e.Review,
			e.Note,
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return buf.String(), nil
}

// formatHours renders an hour estimate without trailing zeros; zero
// values export as empty cells.
func formatHours(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
