package meeting

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const DefaultDurationMinutes = 45

// Meeting is the 1:1 between an employee and their manager, created only
// through the review workflow's schedule step.
type Meeting struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReviewID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ManagerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	ScheduledAt     time.Time `gorm:"not null"`
	DurationMinutes int       `gorm:"not null;default:45"`
	Link            *string

	Status string `gorm:"type:varchar(20);not null;default:'scheduled'"`
	Notes  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func validStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
