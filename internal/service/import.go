package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/theoleuthardt/backlog-manager/internal/domain"
	"github.com/theoleuthardt/backlog-manager/internal/hltb"
	"github.com/theoleuthardt/backlog-manager/internal/logger"
)

// GameSearcher looks up candidate matches for a free-text game title.
// Implemented by *hltb.Client.
type GameSearcher interface {
	Search(ctx context.Context, title string) ([]hltb.Game, error)
}

// EntryCreator materializes one backlog entry. Implemented by *EntryService.
type EntryCreator interface {
	Create(ctx context.Context, userID int64, params *EntryParams) (*domain.BacklogEntry, error)
}

// ImportService drives CSV bulk imports end to end: decoding, per-row
// reconciliation against the lookup service, materialization, progress
// reporting, and the manual resolution flow for unmatched rows.
type ImportService struct {
	entries  EntryCreator
	searcher GameSearcher
	sessions *SessionRegistry
	logger   *logger.Logger

	mu     sync.Mutex
	queues map[string]*ResolutionQueue
}

// NewImportService creates a new import service.
// Parameters:
//   - entries: materialization path for matched rows.
//   - searcher: lookup gateway for title reconciliation.
//   - sessions: progress registry shared with the polling endpoint.
//   - log: base logger.
// Returns:
//   - *ImportService: initialized service.
func NewImportService(entries EntryCreator, searcher GameSearcher, sessions *SessionRegistry, log *logger.Logger) *ImportService {
	return &ImportService{
		entries:  entries,
		searcher: searcher,
		sessions: sessions,
		logger:   log,
		queues:   make(map[string]*ResolutionQueue),
	}
}

// log returns a logger from context if available, otherwise the service logger.
func (s *ImportService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// Sessions exposes the progress registry for polling handlers.
func (s *ImportService) Sessions() *SessionRegistry {
	return s.sessions
}

// ImportFromCSV decodes CSV content and reconciles every row. Rows are
// processed strictly sequentially in input order; the report accounts
// for every processed row. A non-nil error is returned only for
// malformed input, before any side effect.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID for created entries.
//   - content: raw CSV text.
//   - cfg: column addresses for title/genre/platform/status.
//   - sessionID: optional progress token; empty skips progress reporting.
// Returns:
//   - *domain.ImportReport: per-run outcome counts and unmatched rows.
//   - error: non-nil only when decoding fails.
func (s *ImportService) ImportFromCSV(ctx context.Context, userID int64, content string, cfg domain.ColumnConfig, sessionID string) (*domain.ImportReport, error) {
	records, err := ParseCSVContent(content)
	if err != nil {
		return nil, err
	}

	report := s.run(ctx, userID, records, cfg, sessionID)

	if sessionID != "" && len(report.MissingGames) > 0 {
		queue := NewResolutionQueue(report.MissingGames, s.searcher, s.entries)
		s.mu.Lock()
		s.queues[sessionID] = queue
		s.mu.Unlock()
	}

	return report, nil
}

// run executes the per-row reconciliation loop over decoded records.
func (s *ImportService) run(ctx context.Context, userID int64, records []domain.ImportRecord, cfg domain.ColumnConfig, sessionID string) *domain.ImportReport {
	report := &domain.ImportReport{
		Errors:       []domain.RowError{},
		MissingGames: []domain.MissingGame{},
	}

	if sessionID != "" {
		s.sessions.Start(sessionID, len(records))
	}

	processed := 0
	advance := func() {
		processed++
		if sessionID != "" {
			s.sessions.Advance(sessionID, processed)
		}
	}

	log := s.log(ctx).WithFields(logger.Fields{
		logger.FieldUserID: userID,
		logger.FieldCount:  len(records),
	})
	if sessionID != "" {
		log = log.WithField(logger.FieldSessionID, sessionID)
	}
	log.Info("Starting CSV import")

	for _, record := range records {
		// Cancellation is cooperative: checked once per row, never
		// mid-lookup, so a poller sees at most one extra row complete.
		if sessionID != "" && s.sessions.IsCancelled(sessionID) {
			log.WithField(logger.FieldCount, processed).Info("Import cancelled")
			return report
		}

		title := strings.TrimSpace(record[cfg.TitleColumn])
		if title == "" {
			report.Failed++
			report.Errors = append(report.Errors, domain.RowError{
				Title: "Unknown",
				Error: fmt.Sprintf("Title (column %s) is required", cfg.TitleColumn),
			})
			advance()
			continue
		}

		// Lookup unavailability must not abort the import: transport
		// and rate-limit errors fold into the unmatched path, logged
		// distinctly from a true empty result.
		games, err := s.searcher.Search(ctx, title)
		if err != nil {
			s.log(ctx).WithField(logger.FieldTitle, title).
				WithError(err).Warn("Lookup service unavailable, treating row as unmatched")
			games = nil
		}

		if len(games) == 0 {
			report.MissingGames = append(report.MissingGames, domain.MissingGame{
				Title:    title,
				Genre:    cellOrDefault(record, cfg.GenreColumn, "Unknown"),
				Platform: cellOrDefault(record, cfg.PlatformColumn, "Unknown"),
				Status:   cellOrDefault(record, cfg.StatusColumn, domain.StatusNotStarted),
			})
			advance()
			continue
		}

		// First candidate is authoritative.
		game := games[0]
		params := &EntryParams{
			Title:             title,
			Genre:             cellOrDefault(record, cfg.GenreColumn, "Unknown"),
			Platform:          cellOrDefault(record, cfg.PlatformColumn, "Unknown"),
			Status:            cellOrDefault(record, cfg.StatusColumn, domain.StatusNotStarted),
			Owned:             true,
			Interest:          5,
			ImageLink:         game.ImageURL,
			MainTime:          game.MainStory,
			MainPlusExtraTime: game.MainStoryWithExtras,
			CompletionTime:    game.Completionist,
		}

		if _, err := s.entries.Create(ctx, userID, params); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, domain.RowError{
				Title: title,
				Error: err.Error(),
			})
			advance()
			continue
		}

		report.Success++
		advance()
	}

	log.WithFields(logger.Fields{
		"success": report.Success,
		"failed":  report.Failed,
		"missing": len(report.MissingGames),
	}).Info("CSV import completed")

	return report
}

// ResolveMissingGame materializes one manually resolved row. The chosen
// candidate supplies title, cover, and time estimates; genre and
// platform come from the original spreadsheet row.
//
// Status is hard-coded to Not Started here: the canonical status enum
// does not yet accept free-text import values, so the captured status
// string travels only inside MissingGame. TODO remove once statuses are
// no longer an enum (backlog-manager#64).
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - missing: the unmatched row being resolved.
//   - game: operator-selected lookup candidate.
// Returns:
//   - *domain.BacklogEntry: the persisted entry.
//   - error: non-nil if materialization fails.
func (s *ImportService) ResolveMissingGame(ctx context.Context, userID int64, missing domain.MissingGame, game hltb.Game) (*domain.BacklogEntry, error) {
	params := &EntryParams{
		Title:             game.Title,
		Genre:             missing.Genre,
		Platform:          missing.Platform,
		Status:            domain.StatusNotStarted,
		Owned:             true,
		Interest:          5,
		ImageLink:         game.ImageURL,
		MainTime:          game.MainStory,
		MainPlusExtraTime: game.MainStoryWithExtras,
		CompletionTime:    game.Completionist,
	}

	entry, err := s.entries.Create(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	s.log(ctx).WithFields(logger.Fields{
		logger.FieldUserID: userID,
		logger.FieldTitle:  game.Title,
	}).Info("Resolved missing game")

	return entry, nil
}

// Queue returns the resolution queue registered for a session token.
// Parameters:
//   - sessionID: session token of a completed import.
// Returns:
//   - *ResolutionQueue: the queue if the run produced unmatched rows.
//   - bool: false when no queue exists for the token.
func (s *ImportService) Queue(sessionID string) (*ResolutionQueue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[sessionID]
	return q, ok
}

// ClearSession drops all state for a session token: progress entry and
// any pending resolution queue. Abandoned Pending items are discarded.
// Parameters:
//   - sessionID: session token.
func (s *ImportService) ClearSession(sessionID string) {
	s.sessions.Clear(sessionID)
	s.mu.Lock()
	delete(s.queues, sessionID)
	s.mu.Unlock()
}

// cellOrDefault reads a cell by column address, falling back when the
// address is unconfigured or the cell is blank.
func cellOrDefault(record domain.ImportRecord, column, fallback string) string {
	if column == "" {
		return fallback
	}
	value := record[column]
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
