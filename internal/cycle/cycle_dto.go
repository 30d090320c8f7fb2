package cycle

import "time"

type CreateCycleRequest struct {
	Name                   string `json:"name" binding:"required"`
	StartDate              string `json:"start_date" binding:"required"`
	EndDate                string `json:"end_date" binding:"required"`
	SelfAssessmentDeadline string `json:"self_assessment_deadline" binding:"required"`
	FeedbackDeadline       string `json:"feedback_deadline" binding:"required"`
	ReviewDeadline         string `json:"review_deadline" binding:"required"`
	MeetingDeadline        string `json:"meeting_deadline" binding:"required"`
}

type CycleResponse struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	StartDate              string `json:"start_date"`
	EndDate                string `json:"end_date"`
	SelfAssessmentDeadline string `json:"self_assessment_deadline"`
	FeedbackDeadline       string `json:"feedback_deadline"`
	ReviewDeadline         string `json:"review_deadline"`
	MeetingDeadline        string `json:"meeting_deadline"`
	IsActive               bool   `json:"is_active"`
}

func mapToResponse(cy ReviewCycle) CycleResponse {
	return CycleResponse{
		ID:                     cy.ID.String(),
		Name:                   cy.Name,
		StartDate:              cy.StartDate.Format(time.RFC3339),
		EndDate:                cy.EndDate.Format(time.RFC3339),
		SelfAssessmentDeadline: cy.SelfAssessmentDeadline.Format(time.RFC3339),
		FeedbackDeadline:       cy.FeedbackDeadline.Format(time.RFC3339),
		ReviewDeadline:         cy.ReviewDeadline.Format(time.RFC3339),
		MeetingDeadline:        cy.MeetingDeadline.Format(time.RFC3339),
		IsActive:               cy.IsActive,
	}
}

func mapToListResponse(cycles []ReviewCycle) []CycleResponse {
	resp := make([]CycleResponse, len(cycles))
	for i, cy := range cycles {
		resp[i] = mapToResponse(cy)
	}
	return resp
}
