package review

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type CreateReviewRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	CycleID    string `json:"cycle_id" binding:"required,uuid"`
}

type SubmitSelfAssessmentRequest struct {
	Data json.RawMessage `json:"data" binding:"required"`

	CurrentCTC                  *decimal.Decimal `json:"current_ctc"`
	ExpectedCTC                 *decimal.Decimal `json:"expected_ctc"`
	ExpectedIncrementPercentage *decimal.Decimal `json:"expected_increment_percentage"`
}

type ManagerCommentsRequest struct {
	Comments string `json:"comments" binding:"required,min=10"`
}

type ScheduleMeetingRequest struct {
	ScheduledAt     string  `json:"scheduled_at" binding:"required"`
	DurationMinutes *int    `json:"duration_minutes"`
	Link            *string `json:"link"`
}

type FinalizeReviewRequest struct {
	// FinalRating overrides the computed rating when set.
	FinalRating              *decimal.Decimal `json:"final_rating"`
	FinalIncrementPercentage *decimal.Decimal `json:"final_increment_percentage" binding:"required"`

	// Manager-supplied scoring inputs, used only when FinalRating is absent.
	L3Rating *decimal.Decimal `json:"l3_rating"`
	KRAScore *decimal.Decimal `json:"kra_score"`
}

type ReviewResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	CycleID    string `json:"cycle_id"`
	Status     string `json:"status"`

	SelfAssessmentData json.RawMessage `json:"self_assessment_data,omitempty"`

	CurrentCTC                  *decimal.Decimal `json:"current_ctc,omitempty"`
	ExpectedCTC                 *decimal.Decimal `json:"expected_ctc,omitempty"`
	ExpectedIncrementPercentage *decimal.Decimal `json:"expected_increment_percentage,omitempty"`

	FinalRating              *decimal.Decimal `json:"final_rating,omitempty"`
	FinalIncrementPercentage *decimal.Decimal `json:"final_increment_percentage,omitempty"`

	L3Comments      *string `json:"l3_comments,omitempty"`
	L2Comments      *string `json:"l2_comments,omitempty"`
	L1Comments      *string `json:"l1_comments,omitempty"`
	FounderComments *string `json:"founder_comments,omitempty"`
	MeetingNotes    *string `json:"meeting_notes,omitempty"`

	AppealUsed bool   `json:"appeal_used"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func MapToResponse(rv EmployeeReview) ReviewResponse {
	return ReviewResponse{
		ID:                          rv.ID.String(),
		EmployeeID:                  rv.EmployeeID.String(),
		CycleID:                     rv.CycleID.String(),
		Status:                      rv.Status,
		SelfAssessmentData:          rv.SelfAssessmentData,
		CurrentCTC:                  rv.CurrentCTC,
		ExpectedCTC:                 rv.ExpectedCTC,
		ExpectedIncrementPercentage: rv.ExpectedIncrementPercentage,
		FinalRating:                 rv.FinalRating,
		FinalIncrementPercentage:    rv.FinalIncrementPercentage,
		L3Comments:                  rv.L3Comments,
		L2Comments:                  rv.L2Comments,
		L1Comments:                  rv.L1Comments,
		FounderComments:             rv.FounderComments,
		MeetingNotes:                rv.MeetingNotes,
		AppealUsed:                  rv.AppealUsed,
		CreatedAt:                   rv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                   rv.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(reviews []EmployeeReview) []ReviewResponse {
	resp := make([]ReviewResponse, len(reviews))
	for i, rv := range reviews {
		resp[i] = MapToResponse(rv)
	}
	return resp
}
