package activity

import "time"

type LogResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	Action            string  `json:"action"`
	Description       string  `json:"description"`
	RelatedEntityType *string `json:"related_entity_type,omitempty"`
	RelatedEntityID   *string `json:"related_entity_id,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

func mapToResponse(l Log) LogResponse {
	resp := LogResponse{
		ID:                l.ID.String(),
		UserID:            l.UserID.String(),
		Action:            l.Action,
		Description:       l.Description,
		RelatedEntityType: l.RelatedEntityType,
		CreatedAt:         l.CreatedAt.Format(time.RFC3339),
	}
	if l.RelatedEntityID != nil {
		v := l.RelatedEntityID.String()
		resp.RelatedEntityID = &v
	}
	return resp
}

func mapToListResponse(logs []Log) []LogResponse {
	resp := make([]LogResponse, len(logs))
	for i, l := range logs {
		resp[i] = mapToResponse(l)
	}
	return resp
}
