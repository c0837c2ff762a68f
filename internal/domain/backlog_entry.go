package domain

import "time"

// EntryStatus represents the play status of a backlog entry.
// Values include StatusNotStarted, StatusInProgress, StatusCompleted, and StatusDropped.
type EntryStatus = string

const (
	StatusNotStarted EntryStatus = "Not Started"
	StatusInProgress EntryStatus = "In Progress"
	StatusCompleted  EntryStatus = "Completed"
	StatusDropped    EntryStatus = "Dropped"
)

// BacklogEntry represents one game a user is tracking.
// Time fields are HowLongToBeat estimates in hours.
type BacklogEntry struct {
	ID                int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            int64      `gorm:"not null;index:idx_entries_user" json:"user_id"`
	Title             string     `gorm:"type:text;not null" json:"title"`
	Genre             string     `gorm:"type:text;not null" json:"genre"`
	Platform          string     `gorm:"type:text;not null" json:"platform"`
	Status            string     `gorm:"type:text;not null;index:idx_entries_status" json:"status"`
	Owned             bool       `gorm:"not null" json:"owned"`
	Interest          int        `gorm:"not null" json:"interest"`
	ReleaseDate       *time.Time `json:"release_date,omitempty"`
	ImageLink         string     `gorm:"type:text" json:"image_link,omitempty"`
	MainTime          float64    `json:"main_time,omitempty"`
	MainPlusExtraTime float64    `json:"main_plus_extra_time,omitempty"`
	CompletionTime    float64    `json:"completion_time,omitempty"`
	ReviewStars       int        `json:"review_stars,omitempty"`
	Review            string     `gorm:"type:text" json:"review,omitempty"`
	Note              string     `gorm:"type:text" json:"note,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName returns the database table name for BacklogEntry.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (BacklogEntry) TableName() string {
	return "backlog_entries"
}
