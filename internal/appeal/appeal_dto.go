package appeal

import (
	"time"

	"github.com/shopspring/decimal"
)

type FileAppealRequest struct {
	ReviewID            string  `json:"review_id" binding:"required,uuid"`
	Reason              string  `json:"reason" binding:"required,min=20"`
	DesiredOutcome      string  `json:"desired_outcome" binding:"required"`
	SupportingDocuments *string `json:"supporting_documents"`
}

type ResolveAppealRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted rejected"`
	Response string `json:"response" binding:"required,min=10"`

	// OverrideRating replaces the review's final rating when set.
	OverrideRating *decimal.Decimal `json:"override_rating"`
}

type AppealResponse struct {
	ID         string `json:"id"`
	ReviewID   string `json:"review_id"`
	EmployeeID string `json:"employee_id"`

	Reason              string  `json:"reason"`
	DesiredOutcome      string  `json:"desired_outcome"`
	SupportingDocuments *string `json:"supporting_documents,omitempty"`

	Status string `json:"status"`

	ManagerID       *string          `json:"manager_id,omitempty"`
	ManagerResponse *string          `json:"manager_response,omitempty"`
	FinalRating     *decimal.Decimal `json:"final_rating,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func mapToResponse(a Appeal) AppealResponse {
	resp := AppealResponse{
		ID:                  a.ID.String(),
		ReviewID:            a.ReviewID.String(),
		EmployeeID:          a.EmployeeID.String(),
		Reason:              a.Reason,
		DesiredOutcome:      a.DesiredOutcome,
		SupportingDocuments: a.SupportingDocuments,
		Status:              a.Status,
		ManagerResponse:     a.ManagerResponse,
		FinalRating:         a.FinalRating,
		CreatedAt:           a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           a.UpdatedAt.Format(time.RFC3339),
	}
	if a.ManagerID != nil {
		id := a.ManagerID.String()
		resp.ManagerID = &id
	}
	return resp
}

func mapToListResponse(appeals []Appeal) []AppealResponse {
	resp := make([]AppealResponse, len(appeals))
	for i, a := range appeals {
		resp[i] = mapToResponse(a)
	}
	return resp
}
