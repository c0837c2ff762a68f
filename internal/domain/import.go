package domain

// ImportRecord maps spreadsheet column letters (A-Z) to raw cell values
// for one CSV row. Records are immutable once decoded and live only for
// the duration of an import run.
type ImportRecord map[string]string

// ColumnConfig designates which spreadsheet columns carry the semantic
// fields of an import. Constant for the whole run.
type ColumnConfig struct {
	TitleColumn    string `json:"titleColumn"`
	GenreColumn    string `json:"genreColumn"`
	PlatformColumn string `json:"platformColumn"`
	StatusColumn   string `json:"statusColumn"`
}

// MissingGame is a row the reconciliation engine could not auto-match.
// It keeps the raw genre/platform/status strings as they appeared in the
// spreadsheet so the manual resolution flow can reuse them.
type MissingGame struct {
	Title    string `json:"title"`
	Genre    string `json:"genre"`
	Platform string `json:"platform"`
	Status   string `json:"status"`
}

// RowError records one hard per-row failure of an import run.
type RowError struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// ImportReport is the terminal artifact of one reconciliation run.
// For a completed (non-cancelled) run over N records:
// Success + Failed + len(MissingGames) == N.
type ImportReport struct {
	Success      int           `json:"success"`
	Failed       int           `json:"failed"`
	Errors       []RowError    `json:"errors"`
	MissingGames []MissingGame `json:"missingGames"`
}

// Processed returns the number of rows the report accounts for.
func (r *ImportReport) Processed() int {
	return r.Success + r.Failed + len(r.MissingGames)
}

// ImportProgress is the snapshot a polling client observes for one
// import session. Processed is monotonically non-decreasing; Cancelled
// never resets once set.
type ImportProgress struct {
	Processed int  `json:"processed"`
	Total     int  `json:"total"`
	Cancelled bool `json:"cancelled"`
}
