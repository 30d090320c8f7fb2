package feedback

import "time"

type SubmitFeedbackRequest struct {
	TechnicalCompetence int `json:"technical_competence" binding:"required,min=1,max=5"`
	Communication       int `json:"communication" binding:"required,min=1,max=5"`
	Collaboration       int `json:"collaboration" binding:"required,min=1,max=5"`
	ProblemSolving      int `json:"problem_solving" binding:"required,min=1,max=5"`
	LeadershipPotential int `json:"leadership_potential" binding:"required,min=1,max=5"`
	Reliability         int `json:"reliability" binding:"required,min=1,max=5"`
	Innovation          int `json:"innovation" binding:"required,min=1,max=5"`

	OverallFeedback string  `json:"overall_feedback" binding:"required"`
	Strengths       string  `json:"strengths" binding:"required"`
	Improvements    *string `json:"improvements"`

	IsAnonymous *bool `json:"is_anonymous"`
}

type FeedbackResponse struct {
	ID       string `json:"id"`
	ReviewID string `json:"review_id"`
	// RaterID is omitted for anonymous submissions.
	RaterID *string `json:"rater_id,omitempty"`

	TechnicalCompetence int `json:"technical_competence"`
	Communication       int `json:"communication"`
	Collaboration       int `json:"collaboration"`
	ProblemSolving      int `json:"problem_solving"`
	LeadershipPotential int `json:"leadership_potential"`
	Reliability         int `json:"reliability"`
	Innovation          int `json:"innovation"`

	OverallFeedback string  `json:"overall_feedback"`
	Strengths       string  `json:"strengths"`
	Improvements    *string `json:"improvements,omitempty"`

	IsAnonymous bool   `json:"is_anonymous"`
	CreatedAt   string `json:"created_at"`
}

func mapToResponse(f Feedback) FeedbackResponse {
	resp := FeedbackResponse{
		ID:                  f.ID.String(),
		ReviewID:            f.ReviewID.String(),
		TechnicalCompetence: f.TechnicalCompetence,
		Communication:       f.Communication,
		Collaboration:       f.Collaboration,
		ProblemSolving:      f.ProblemSolving,
		LeadershipPotential: f.LeadershipPotential,
		Reliability:         f.Reliability,
		Innovation:          f.Innovation,
		OverallFeedback:     f.OverallFeedback,
		Strengths:           f.Strengths,
		Improvements:        f.Improvements,
		IsAnonymous:         f.IsAnonymous,
		CreatedAt:           f.CreatedAt.Format(time.RFC3339),
	}
	if !f.IsAnonymous {
		rater := f.FeedbackFromID.String()
		resp.RaterID = &rater
	}
	return resp
}

func mapToListResponse(entries []Feedback) []FeedbackResponse {
	resp := make([]FeedbackResponse, len(entries))
	for i, f := range entries {
		resp[i] = mapToResponse(f)
	}
	return resp
}
