package service

import (
	"context"
	"errors"
	"time"

	"github.com/theoleuthardt/backlog-manager/internal/domain"
	"github.com/theoleuthardt/backlog-manager/internal/repository"
)

// ErrTitleRequired indicates a create/update without a title.
var ErrTitleRequired = errors.New("title is required")

// EntryParams holds the resolved fields for one backlog entry.
type EntryParams struct {
	Title             string     `json:"title"`
	Genre             string     `json:"genre"`
	Platform          string     `json:"platform"`
	Status            string     `json:"status"`
	Owned             bool       `json:"owned"`
	Interest          int        `json:"interest"`
	ReleaseDate       *time.Time `json:"release_date,omitempty"`
	ImageLink         string     `json:"image_link,omitempty"`
	MainTime          float64    `json:"main_time,omitempty"`
	MainPlusExtraTime float64    `json:"main_plus_extra_time,omitempty"`
	CompletionTime    float64    `json:"completion_time,omitempty"`
	ReviewStars       int        `json:"review_stars,omitempty"`
	Review            string     `json:"review,omitempty"`
	Note              string     `json:"note,omitempty"`
}

// EntryService persists and retrieves backlog entries. It is the single
// materialization path for both the import pipeline and the CRUD API.
type EntryService struct {
	repo *repository.BacklogEntryRepository
}

// NewEntryService creates a new entry service.
// Parameters:
//   - repo: backlog entry repository.
// Returns:
//   - *EntryService: initialized service.
func NewEntryService(repo *repository.BacklogEntryRepository) *EntryService {
	return &EntryService{repo: repo}
}

// Create validates and persists one backlog entry for a user.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - params: resolved entry fields.
// Returns:
//   - *domain.BacklogEntry: the persisted entry with its ID set.
//   - error: non-nil if validation or the insert fails.
func (s *EntryService) Create(ctx context.Context, userID int64, params *EntryParams) (*domain.BacklogEntry, error) {
	if params.Title == "" {
		return nil, ErrTitleRequired
	}

	status := params.Status
	if status == "" {
		status = domain.StatusNotStarted
	}

	entry := &domain.BacklogEntry{
		UserID:            userID,
		Title:             params.Title,
		Genre:             params.Genre,
		Platform:          params.Platform,
		Status:            status,
		Owned:             params.Owned,
		Interest:          params.Interest,
		ReleaseDate:       params.ReleaseDate,
		ImageLink:         params.ImageLink,
		MainTime:          params.MainTime,
		MainPlusExtraTime: params.MainPlusExtraTime,
		CompletionTime:    params.CompletionTime,
		ReviewStars:       params.ReviewStars,
		Review:            params.Review,
		Note:              params.Note,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns a user's backlog entries, optionally filtered by status.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - status: play status filter; empty lists everything.
// Returns:
//   - []domain.BacklogEntry: matching entries.
//   - error: non-nil if the query fails.
func (s *EntryService) List(ctx context.Context, userID int64, status string) ([]domain.BacklogEntry, error) {
	if status != "" {
		return s.repo.ListByStatus(ctx, userID, status)
	}
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one backlog entry by ID.
func (s *EntryService) Get(ctx context.Context, id int64) (*domain.BacklogEntry, error) {
	return s.repo.GetByID(ctx, id)
}

// Update overwrites the mutable fields of an existing entry.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: entry ID.
//   - params: replacement fields.
// Returns:
//   - *domain.BacklogEntry: the updated entry.
//   - error: non-nil if the entry is missing or the update fails.
func (s *EntryService) Update(ctx context.Context, id int64, params *EntryParams) (*domain.BacklogEntry, error) {
	if params.Title == "" {
		return nil, ErrTitleRequired
	}

	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Title = params.Title
	entry.Genre = params.Genre
	entry.Platform = params.Platform
	entry.Status = params.Status
	entry.Owned = params.Owned
	entry.Interest = params.Interest
	entry.ReleaseDate = params.ReleaseDate
	entry.ImageLink = params.ImageLink
	entry.MainTime = params.MainTime
	entry.MainPlusExtraTime = params.MainPlusExtraTime
	entry.CompletionTime = params.CompletionTime
	entry.ReviewStars = params.ReviewStars
	entry.Review = params.Review
	entry.Note = params.Note

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes one backlog entry by ID.
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
