package feedback

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Feedback is one rater's 360 submission for a review. Seven criteria are
// collected but only the first four feed the rating average.
type Feedback struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReviewID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_review_rater"`
	FeedbackFromID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_review_rater"`

	TechnicalCompetence int `gorm:"not null"`
	Communication       int `gorm:"not null"`
	Collaboration       int `gorm:"not null"`
	ProblemSolving      int `gorm:"not null"`
	LeadershipPotential int `gorm:"not null"`
	Reliability         int `gorm:"not null"`
	Innovation          int `gorm:"not null"`

	OverallFeedback string `gorm:"type:text;not null"`
	Strengths       string `gorm:"type:text;not null"`
	Improvements    *string

	IsAnonymous bool `gorm:"not null;default:true"`

	CreatedAt time.Time
}

func (Feedback) TableName() string {
	return "feedback"
}

// scoringAverage is this entry's contribution to the review's feedback
// average: the mean of the four scoring criteria only.
func (f Feedback) scoringAverage() decimal.Decimal {
	sum := f.TechnicalCompetence + f.Communication + f.Collaboration + f.ProblemSolving
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(4))
}
