package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/theoleuthardt/backlog-manager/internal/domain"
	"github.com/theoleuthardt/backlog-manager/internal/hltb"
	"github.com/theoleuthardt/backlog-manager/internal/logger"
)

type searcherFunc func(ctx context.Context, title string) ([]hltb.Game, error)

func (f searcherFunc) Search(ctx context.Context, title string) ([]hltb.Game, error) {
	return f(ctx, title)
}

// fakeCreator records every materialized entry and can fail selected titles.
type fakeCreator struct {
	mu         sync.Mutex
	created    []EntryParams
	failTitles map[string]bool
}

func (f *fakeCreator) Create(ctx context.Context, userID int64, params *EntryParams) (*domain.BacklogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTitles[params.Title] {
		return nil, errors.New("insert failed")
	}
	f.created = append(f.created, *params)
	return &domain.BacklogEntry{
		ID:     int64(len(f.created)),
		UserID: userID,
		Title:  params.Title,
		Status: params.Status,
	}, nil
}

func matchedGame(title string) hltb.Game {
	return hltb.Game{
		ID:                  1,
		Title:               title,
		ImageURL:            "https://img.example/" + title + ".jpg",
		MainStory:           12.5,
		MainStoryWithExtras: 20,
		Completionist:       35,
	}
}

func defaultColumns() domain.ColumnConfig {
	return domain.ColumnConfig{
		TitleColumn:    "A",
		GenreColumn:    "B",
		PlatformColumn: "C",
		StatusColumn:   "D",
	}
}

func newTestImportService(searcher GameSearcher, creator EntryCreator) *ImportService {
	return NewImportService(creator, searcher, NewSessionRegistry(), logger.NewDefault())
}

func TestImportFromCSVMixedOutcomes(t *testing.T) {
	content := "Fortnite,Shooter,PC,In Progress\n,Shooter,PC\nUnknownGameXYZ,RPG,Switch\n"

	searcher := searcherFunc(func(ctx context.Context, title string) ([]hltb.Game, error) {
		if title == "Fortnite" {
			return []hltb.Game{matchedGame("Fortnite")}, nil
		}
		return nil, nil
	})
	creator := &fakeCreator{}
	svc := newTestImportService(searcher, creator)

	report, err := svc.ImportFromCSV(context.Background(), 7, content, defaultColumns(), "")
	if err != nil {
		t.Fatalf("ImportFromCSV returned error: %v", err)
	}

	if report.Success != 1 || report.Failed != 1 || len(report.MissingGames) != 1 {
		t.Fatalf("unexpected report: success=%d failed=%d missing=%d",
			report.Success, report.Failed, len(report.MissingGames))
	}
	if got := report.Success + report.Failed + len(report.MissingGames); got != report.Processed() {
		t.Errorf("report does not account for every row: %d != %d", got, report.Processed())
	}

	if len(report.Errors) != 1 {
		t.Fatalf("expected 1 row error, got %d", len(report.Errors))
	}
	if report.Errors[0].Title != "Unknown" {
		t.Errorf("blank-title error should use placeholder title, got %q", report.Errors[0].Title)
	}
	if !strings.Contains(report.Errors[0].Error, "Title (column A) is required") {
		t.Errorf("unexpected error message: %q", report.Errors[0].Error)
	}

	missing := report.MissingGames[0]
	if missing.Title != "UnknownGameXYZ" || missing.Genre != "RPG" || missing.Platform != "Switch" {
		t.Errorf("unexpected missing game: %+v", missing)
	}
	if missing.Status != domain.StatusNotStarted {
		t.Errorf("blank status cell should default, got %q", missing.Status)
	}

	if len(creator.created) != 1 {
		t.Fatalf("expected 1 created entry, got %d", len(creator.created))
	}
	entry := creator.created[0]
	if entry.Title != "Fortnite" || entry.Status != "In Progress" {
		t.Errorf("unexpected entry fields: %+v", entry)
	}
	if !entry.Owned || entry.Interest != 5 {
		t.Errorf("expected owned=true interest=5, got owned=%v interest=%d", entry.Owned, entry.Interest)
	}
	if entry.MainTime != 12.5 || entry.MainPlusExtraTime != 20 || entry.CompletionTime != 35 {
		t.Errorf("time estimates not copied from candidate: %+v", entry)
	}
	if entry.ImageLink == "" {
		t.Error("image link not copied from candidate")
	}
}

func TestImportFromCSVEmptyCellRowCountsAsFailure(t *testing.T) {
	content := "Fortnite,Shooter,PC\n,,\n"

	searcher := searcherFunc(func(ctx context.Context, title string) ([]hltb.Game, error) {
		return []hltb.Game{matchedGame(title)}, nil
	})
	svc := newTestImportService(searcher, &fakeCreator{})

	report, err := svc.ImportFromCSV(context.Background(), 7, content, defaultColumns(), "")
	if err != nil {
		t.Fatalf("ImportFromCSV returned error: %v", err)
	}

	// The delimiter-only row is a real row with a blank title, not a
	// skipped line, so it shows up in the report totals.
	if report.Success != 1 || report.Failed != 1 {
		t.Fatalf("unexpected report: success=%d failed=%d", report.Success, report.Failed)
	}
	if report.Processed() != 2 {
		t.Errorf("expected 2 processed rows, got %d", report.Processed())
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0].Error, "Title (column A) is required") {
		t.Errorf("unexpected errors: %v", report.Errors)
	}
}

func TestImportFromCSVCreateFailureDoesNotAbort(t *testing.T) {
	content := "Alpha,G,P\nBeta,G,P\nGamma,G,P\n"

	searcher := searcherFunc(func(ctx context.Context, title string) ([]hltb.Game, error) {
		return []hltb.Game{matchedGame(title)}, nil
	})
	creator := &fakeCreator{failTitles: map[string]bool{"Alpha": true}}
	svc := newTestImportService(searcher, creator)

	report, err := svc.ImportFromCSV(context.Background(), 7, content, defaultColumns(), "")
	if err != nil {
		t.Fatalf("ImportFromCSV returned error: %v", err)
	}

	if report.Success != 2 || report.Failed != 1 {
		t.Fatalf("unexpected report: success=%d failed=%d", report.Success, report.Failed)
	}
	if len(report.Errors) != 1 || report.Errors[0].Title != "Alpha" {
		t.Fatalf("expected error for Alpha, got %v", report.Errors)
	}
	if len(creator.created) != 2 {
		t.Errorf("rows after the failure should still be processed, created=%d", len(creator.created))
	}
}

func TestImportFromCSVLookupFailureTreatedAsUnmatched(t *testing.T) {
	searcher := searcherFunc(func(ctx context.Context, title string) ([]hltb.Game, error) {
		return nil, errors.New("connection refused")
	})
	creator := &fakeCreator{}
	svc := newTestImportService(searcher, creator)

	report, err := svc.ImportFromCSV(context.Background(), 7, "Hades,Roguelike,PC\n", defaultColumns(), "")
	if err != nil {
		t.Fatalf("ImportFromCSV returned error: %v", err)
	}

	if report.Failed != 0 {
		t.Errorf("lookup failure must not count as a row failure: %+v", report)
	}
	if len(report.MissingGames) != 1 || report.MissingGames[0].Title != "Hades" {
		t.Fatalf("expected Hades in missing games, got %v", report.MissingGames)
	}
	if len(creator.created) != 0 {
		t.Error("no entry should be created for an unmatched row")
	}
}

func TestImportFromCSVMalformedInputHasNoSideEffects(t *testing.T) {
	creator := &fakeCreator{}
	svc := newTestImportService(searcherFunc(func(ctx context.Context, title string) ([]hltb.Game, error) {
		t.Error("searcher must not be called for malformed input")
		return nil, nil
	}), creator)

	_, err := svc.ImportFromCSV(context.Background(), 7, "\"broken,row\nA,B\n", defaultColumns(), "session-1")
	if !errors.Is(err, ErrMalformedCSV) {
		t.Fatalf("expected ErrMalformedCSV, got %v", err)
	}

	if len(creator.created) != 0 {
		t.Error("malformed input must not create entries")
	}
	p := svc.Sessions().Progress("session-1")
	if p.Total != 0 || p.Processed != 0 {
		t.Errorf("malformed input must not register progress, got %+v", p)
	}
}

func TestImportFromCSVCancellation(t *testing.T) {
	var content strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&content, "Game%d,G,P\n", i)
	}

	creator := &fakeCreator{}
	var svc *ImportService
	calls := 0
	searcher := searcherFunc(func(ctx context.Context, title string) ([]hltb.Game, error) {
		calls++
		if calls == 4 {
			// Request cancellation mid-run; the engine observes it at the
			// top of the next row, so this row still completes.
			svc.Sessions().RequestCancel("session-1")
		}
		return []hltb.Game{matchedGame(title)}, nil
	})
	svc = newTestImportService(searcher, creator)

	report, err := svc.ImportFromCSV(context.Background(), 7, content.String(), defaultColumns(), "session-1")
	if err != nil {
		t.Fatalf("ImportFromCSV returned error: %v", err)
	}

	if report.Success != 4 {
		t.Errorf("expected 4 rows completed before cancellation, got %d", report.Success)
	}
	p := svc.Sessions().Progress("session-1")
	if p.Processed != 4 || p.Total != 10 || !p.Cancelled {
		t.Errorf("unexpected progress after cancellation: %+v", p)
	}
}

func TestImportFromCSVRegistersResolutionQueue(t *testing.T) {
	searcher := searcherFunc(func(ctx context.Context, title string) ([]hltb.Game, error) {
		return nil, nil
	})
	svc := newTestImportService(searcher, &fakeCreator{})

	_, err := svc.ImportFromCSV(context.Background(), 7, "Obscure Game,G,P\n", defaultColumns(), "session-1")
	if err != nil {
		t.Fatalf("ImportFromCSV returned error: %v", err)
	}

	queue, ok := svc.Queue("session-1")
	if !ok {
		t.Fatal("expected a resolution queue for the session")
	}
	if queue.Remaining() != 1 {
		t.Errorf("expected 1 pending item, got %d", queue.Remaining())
	}

	svc.ClearSession("session-1")
	if _, ok := svc.Queue("session-1"); ok {
		t.Error("queue should be gone after ClearSession")
	}
	p := svc.Sessions().Progress("session-1")
	if p.Total != 0 {
		t.Errorf("progress should be gone after ClearSession, got %+v", p)
	}
}

func TestImportFromCSVNoSessionSkipsRegistry(t *testing.T) {
	searcher := searcherFunc(func(ctx context.Context, title string) ([]hltb.Game, error) {
		return nil, nil
	})
	svc := newTestImportService(searcher, &fakeCreator{})

	report, err := svc.ImportFromCSV(context.Background(), 7, "Obscure Game,G,P\n", defaultColumns(), "")
	if err != nil {
		t.Fatalf("ImportFromCSV returned error: %v", err)
	}
	if len(report.MissingGames) != 1 {
		t.Fatalf("expected 1 missing game, got %d", len(report.MissingGames))
	}
	if _, ok := svc.Queue(""); ok {
		t.Error("no queue should be registered without a session token")
	}
}

func TestResolveMissingGame(t *testing.T) {
	creator := &fakeCreator{}
	svc := newTestImportService(searcherFunc(func(ctx context.Context, title string) ([]hltb.Game, error) {
		return nil, nil
	}), creator)

	missing := domain.MissingGame{
		Title:    "UnknownGameXYZ",
		Genre:    "RPG",
		Platform: "Switch",
		Status:   "Playing",
	}
	game := matchedGame("Correct Title")

	entry, err := svc.ResolveMissingGame(context.Background(), 7, missing, game)
	if err != nil {
		t.Fatalf("ResolveMissingGame returned error: %v", err)
	}
	if entry.Title != "Correct Title" {
		t.Errorf("entry should use the candidate title, got %q", entry.Title)
	}

	if len(creator.created) != 1 {
		t.Fatalf("expected 1 created entry, got %d", len(creator.created))
	}
	params := creator.created[0]
	if params.Genre != "RPG" || params.Platform != "Switch" {
		t.Errorf("genre/platform should come from the spreadsheet row: %+v", params)
	}
	if params.Status != domain.StatusNotStarted {
		t.Errorf("manual resolution always starts as Not Started, got %q", params.Status)
	}
	if !params.Owned || params.Interest != 5 {
		t.Errorf("expected owned=true interest=5, got %+v", params)
	}
}
