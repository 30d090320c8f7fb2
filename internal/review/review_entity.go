package review

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Review lifecycle statuses, in workflow order.
const (
	StatusNotStarted         = "not_started"
	StatusSelfAssessment     = "self_assessment"
	StatusFeedbackCollection = "feedback_collection"
	StatusManagerReview      = "manager_review"
	StatusMeetingScheduled   = "meeting_scheduled"
	StatusCompleted          = "completed"
	StatusAppealRequested    = "appeal_requested"
	StatusAppealCompleted    = "appeal_completed"
)

// EmployeeReview is the central aggregate: one row per employee per cycle.
// Revision is bumped on every update so concurrent transitions cannot
// silently overwrite each other.
type EmployeeReview struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_employee_cycle"`
	CycleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_employee_cycle"`

	Status string `gorm:"type:varchar(30);not null;default:'not_started';index"`

	SelfAssessmentData json.RawMessage `gorm:"type:jsonb"`

	CurrentCTC                  *decimal.Decimal `gorm:"type:numeric(14,2)"`
	ExpectedCTC                 *decimal.Decimal `gorm:"type:numeric(14,2)"`
	ExpectedIncrementPercentage *decimal.Decimal `gorm:"type:numeric(5,2)"`

	FinalRating              *decimal.Decimal `gorm:"type:numeric(2,1)"`
	FinalIncrementPercentage *decimal.Decimal `gorm:"type:numeric(5,2)"`

	L3Comments      *string
	L2Comments      *string
	L1Comments      *string
	FounderComments *string
	MeetingNotes    *string

	AppealUsed bool `gorm:"not null;default:false"`
	Revision   int  `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EmployeeReview) TableName() string {
	return "employee_reviews"
}

// allowedTransitions encodes the forward-only lifecycle. The appeal branch
// hangs off completed; nothing leaves appeal_completed.
var allowedTransitions = map[string][]string{
	StatusNotStarted:         {StatusSelfAssessment},
	StatusSelfAssessment:     {StatusFeedbackCollection},
	StatusFeedbackCollection: {StatusManagerReview},
	StatusManagerReview:      {StatusMeetingScheduled},
	StatusMeetingScheduled:   {StatusCompleted},
	StatusCompleted:          {StatusAppealRequested},
	StatusAppealRequested:    {StatusAppealCompleted},
}

func IsAllowedStatusTransition(current, target string) bool {
	for _, t := range allowedTransitions[current] {
		if t == target {
			return true
		}
	}
	return false
}
