package meeting

import "time"

type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required,oneof=scheduled completed cancelled"`
	Notes  *string `json:"notes"`
}

type MeetingResponse struct {
	ID              string  `json:"id"`
	ReviewID        string  `json:"review_id"`
	ManagerID       string  `json:"manager_id"`
	EmployeeID      string  `json:"employee_id"`
	ScheduledAt     string  `json:"scheduled_at"`
	DurationMinutes int     `json:"duration_minutes"`
	Link            *string `json:"link,omitempty"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
}

func MapToResponse(m Meeting) MeetingResponse {
	return MeetingResponse{
		ID:              m.ID.String(),
		ReviewID:        m.ReviewID.String(),
		ManagerID:       m.ManagerID.String(),
		EmployeeID:      m.EmployeeID.String(),
		ScheduledAt:     m.ScheduledAt.Format(time.RFC3339),
		DurationMinutes: m.DurationMinutes,
		Link:            m.Link,
		Status:          m.Status,
		Notes:           m.Notes,
	}
}

func mapToListResponse(meetings []Meeting) []MeetingResponse {
	resp := make([]MeetingResponse, len(meetings))
	for i, m := range meetings {
		resp[i] = MapToResponse(m)
	}
	return resp
}
