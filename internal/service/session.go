package service

import (
	"sync"

	"github.com/theoleuthardt/backlog-manager/internal/domain"
)

// SessionRegistry tracks per-token progress of running CSV imports so a
// polling client can observe them. State is process-local and ephemeral;
// entries live until Clear is called for their token.
//
// The reconciliation engine is the only writer for a given token;
// pollers are concurrent readers. All reads copy a full snapshot under
// the lock so a poller never observes a torn (cancelled, processed) pair.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*importSession
}

type importSession struct {
	processed int
	total     int
	cancelled bool
}

// NewSessionRegistry creates an empty session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*importSession),
	}
}

// Start creates the session entry for a token with zero progress.
// Must be called before any Advance for that token. Starting an existing
// token resets it.
// Parameters:
//   - token: caller-supplied session token, unique per run.
//   - totalRecords: fixed record count for the run.
func (r *SessionRegistry) Start(token string, totalRecords int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = &importSession{total: totalRecords}
}

// Advance overwrites the processed count for a token. Last writer wins;
// the engine is the only writer per token so counts stay monotonic.
// Unknown tokens are ignored.
// Parameters:
//   - token: session token.
//   - processed: number of fully completed rows.
func (r *SessionRegistry) Advance(token string, processed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		s.processed = processed
	}
}

// Progress returns the polling snapshot for a token. Unknown tokens
// return a zeroed snapshot rather than an error.
// Parameters:
//   - token: session token.
// Returns:
//   - domain.ImportProgress: consistent (processed, total, cancelled) triple.
func (r *SessionRegistry) Progress(token string) domain.ImportProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	if !ok {
		return domain.ImportProgress{}
	}
	return domain.ImportProgress{
		Processed: s.processed,
		Total:     s.total,
		Cancelled: s.cancelled,
	}
}

// RequestCancel sets the cancellation flag for a token. The flag is
// write-once for the life of the entry; unknown tokens are ignored.
// Parameters:
//   - token: session token.
func (r *SessionRegistry) RequestCancel(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		s.cancelled = true
	}
}

// IsCancelled reports whether cancellation was requested for a token.
// Parameters:
//   - token: session token.
// Returns:
//   - bool: true if RequestCancel was called for a known token.
func (r *SessionRegistry) IsCancelled(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	return ok && s.cancelled
}

// Clear removes all state for a token. Safe to call multiple times.
// Parameters:
//   - token: session token.
func (r *SessionRegistry) Clear(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}
