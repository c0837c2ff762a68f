package repository

import (
	"context"

	"github.com/theoleuthardt/backlog-manager/internal/domain"
	"gorm.io/gorm"
)

// BacklogEntryRepository handles backlog entry data operations.
type BacklogEntryRepository struct {
	db *gorm.DB
}

// NewBacklogEntryRepository creates a new BacklogEntryRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *BacklogEntryRepository: repository instance bound to db.
func NewBacklogEntryRepository(db *gorm.DB) *BacklogEntryRepository {
	return &BacklogEntryRepository{db: db}
}

// Create inserts a new backlog entry.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - entry: entry to persist; ID is populated on success.
// Returns:
//   - error: non-nil if the insert fails.
func (r *BacklogEntryRepository) Create(ctx context.Context, entry *domain.BacklogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID retrieves a backlog entry by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: entry ID.
// Returns:
//   - *domain.BacklogEntry: entry if found.
//   - error: non-nil if lookup fails.
func (r *BacklogEntryRepository) GetByID(ctx context.Context, id int64) (*domain.BacklogEntry, error) {
	var entry domain.BacklogEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByUser retrieves all backlog entries owned by a user, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
// Returns:
//   - []domain.BacklogEntry: entries for the user.
//   - error: non-nil if the query fails.
func (r *BacklogEntryRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BacklogEntry, error) {
	var entries []domain.BacklogEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// ListByStatus retrieves a user's backlog entries filtered by play status.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - status: play status filter.
// Returns:
//   - []domain.BacklogEntry: matching entries.
//   - error: non-nil if the query fails.
func (r *BacklogEntryRepository) ListByStatus(ctx context.Context, userID int64, status string) ([]domain.BacklogEntry, error) {
	var entries []domain.BacklogEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// Update updates an existing backlog entry.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - entry: entry with updated fields.
// Returns:
//   - error: non-nil if the update fails.
func (r *BacklogEntryRepository) Update(ctx context.Context, entry *domain.BacklogEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete removes a backlog entry by ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: entry ID.
// Returns:
//   - error: non-nil if the delete fails.
func (r *BacklogEntryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.BacklogEntry{}, "id = ?", id).Error
}

// CountByUser returns the number of entries a user is tracking.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
// Returns:
//   - int64: entry count.
//   - error: non-nil if the query fails.
func (r *BacklogEntryRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.BacklogEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
