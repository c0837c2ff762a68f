package service

import (
	"context"
	"errors"
	"sync"

	"github.com/theoleuthardt/backlog-manager/internal/domain"
	"github.com/theoleuthardt/backlog-manager/internal/hltb"
)

// ErrQueueClosed indicates an operation on a resolution queue with no
// pending items left.
var ErrQueueClosed = errors.New("no pending items remain")

// ResolutionState is the lifecycle state of one unmatched row inside a
// resolution queue.
type ResolutionState string

const (
	ResolutionPending   ResolutionState = "pending"
	ResolutionSearching ResolutionState = "searching"
	ResolutionResolved  ResolutionState = "resolved"
	ResolutionSkipped   ResolutionState = "skipped"
)

type resolutionItem struct {
	game  domain.MissingGame
	state ResolutionState
}

// ResolutionQueue walks an operator through the unmatched rows of a
// completed import. One item is current at a time; resolving or
// skipping it advances the cursor to the next pending item, and the
// queue closes once nothing is pending.
type ResolutionQueue struct {
	mu       sync.Mutex
	items    []resolutionItem
	cursor   int
	searcher GameSearcher
	entries  EntryCreator
}

// QueueSnapshot describes the observable state of a resolution queue.
type QueueSnapshot struct {
	Current   *domain.MissingGame `json:"current,omitempty"`
	Remaining int                 `json:"remaining"`
	Total     int                 `json:"total"`
	Done      bool                `json:"done"`
}

// NewResolutionQueue builds a queue over the missing games of one
// import report.
// Parameters:
//   - missing: unmatched rows, in report order.
//   - searcher: lookup gateway for operator-issued searches.
//   - entries: materialization path for resolved rows.
// Returns:
//   - *ResolutionQueue: queue positioned at the first item.
func NewResolutionQueue(missing []domain.MissingGame, searcher GameSearcher, entries EntryCreator) *ResolutionQueue {
	items := make([]resolutionItem, len(missing))
	for i, g := range missing {
		items[i] = resolutionItem{game: g, state: ResolutionPending}
	}
	return &ResolutionQueue{
		items:    items,
		searcher: searcher,
		entries:  entries,
	}
}

// Snapshot returns the queue's current item and remaining counts.
func (q *ResolutionQueue) Snapshot() QueueSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	snap := QueueSnapshot{
		Remaining: q.remainingLocked(),
		Total:     len(q.items),
	}
	snap.Done = snap.Remaining == 0
	if !snap.Done {
		game := q.items[q.cursor].game
		snap.Current = &game
	}
	return snap
}

// Search issues a fresh lookup for the current item using operator text
// and moves the item into the searching state.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - query: operator-provided search text.
// Returns:
//   - []hltb.Game: candidates for the operator to pick from.
//   - error: ErrQueueClosed when nothing is pending, or the lookup error.
func (q *ResolutionQueue) Search(ctx context.Context, query string) ([]hltb.Game, error) {
	q.mu.Lock()
	if q.doneLocked() {
		q.mu.Unlock()
		return nil, ErrQueueClosed
	}
	q.items[q.cursor].state = ResolutionSearching
	q.mu.Unlock()

	return q.searcher.Search(ctx, query)
}

// Resolve materializes the current item with the operator-selected
// candidate and advances to the next pending item. The same default
// field policy as the auto-match path applies; status is Not Started.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - game: selected lookup candidate.
// Returns:
//   - *domain.BacklogEntry: the persisted entry.
//   - error: ErrQueueClosed when nothing is pending, or the create error.
func (q *ResolutionQueue) Resolve(ctx context.Context, userID int64, game hltb.Game) (*domain.BacklogEntry, error) {
	q.mu.Lock()
	if q.doneLocked() {
		q.mu.Unlock()
		return nil, ErrQueueClosed
	}
	// Capture the index, not just the game: the cursor can move while the
	// lock is released (a concurrent Skip on the same session), and the
	// resolved state must land on the item the operator acted on.
	idx := q.cursor
	missing := q.items[idx].game
	q.mu.Unlock()

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

	entry, err := q.entries.Create(ctx, userID, params)
	if err != nil {
		// The item stays current so the operator can retry or skip.
		return nil, err
	}

	q.mu.Lock()
	q.items[idx].state = ResolutionResolved
	if q.cursor == idx {
		q.advanceLocked()
	}
	q.mu.Unlock()

	return entry, nil
}

// Skip dismisses the current item without persistence and advances to
// the next pending item.
// Returns:
//   - error: ErrQueueClosed when nothing is pending.
func (q *ResolutionQueue) Skip() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.doneLocked() {
		return ErrQueueClosed
	}
	q.items[q.cursor].state = ResolutionSkipped
	q.advanceLocked()
	return nil
}

// Remaining returns how many items still await a decision.
func (q *ResolutionQueue) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.remainingLocked()
}

// Done reports whether the queue has no pending items left.
func (q *ResolutionQueue) Done() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.doneLocked()
}

func (q *ResolutionQueue) remainingLocked() int {
	n := 0
	for _, item := range q.items {
		if item.state == ResolutionPending || item.state == ResolutionSearching {
			n++
		}
	}
	return n
}

func (q *ResolutionQueue) doneLocked() bool {
	return q.remainingLocked() == 0
}

// advanceLocked moves the cursor to the next undecided item.
func (q *ResolutionQueue) advanceLocked() {
	for i := q.cursor; i < len(q.items); i++ {
		if q.items[i].state == ResolutionPending || q.items[i].state == ResolutionSearching {
			q.cursor = i
			return
		}
	}
	// Wrap once in case earlier items were left pending.
	for i := 0; i < q.cursor; i++ {
		if q.items[i].state == ResolutionPending || q.items[i].state == ResolutionSearching {
			q.cursor = i
			return
		}
	}
}
