package dashboard

import "github.com/shopspring/decimal"

type Stats struct {
	TotalReviews     int64 `json:"total_reviews"`
	CompletedReviews int64 `json:"completed_reviews"`
	// AverageRating is nil until at least one review has been finalized.
	AverageRating *decimal.Decimal `json:"average_rating,omitempty"`
}

type RatingBucket struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

type DepartmentStat struct {
	Department    string          `json:"department"`
	AverageRating decimal.Decimal `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
}

type PendingActions struct {
	PendingApprovals int `json:"pending_approvals"`
	PendingAppeals   int `json:"pending_appeals"`
}
