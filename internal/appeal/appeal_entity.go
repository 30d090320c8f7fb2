package appeal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Appeal is the single-use escalation attached to a completed review.
// Reuse is blocked by EmployeeReview.AppealUsed, not by this table.
type Appeal struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReviewID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Reason              string `gorm:"type:text;not null"`
	DesiredOutcome      string `gorm:"type:text;not null"`
	SupportingDocuments *string

	Status string `gorm:"type:varchar(20);not null;default:'pending';index"`

	ManagerID       *uuid.UUID `gorm:"type:uuid"`
	ManagerResponse *string
	FinalRating     *decimal.Decimal `gorm:"type:numeric(2,1)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
