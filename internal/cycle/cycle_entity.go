package cycle

import (
	"time"

	"github.com/google/uuid"
)

type ReviewCycle struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"not null"`

	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`

	SelfAssessmentDeadline time.Time `gorm:"not null"`
	FeedbackDeadline       time.Time `gorm:"not null"`
	ReviewDeadline         time.Time `gorm:"not null"`
	MeetingDeadline        time.Time `gorm:"not null"`

	IsActive  bool `gorm:"not null;default:false;index"`
	CreatedAt time.Time
}
