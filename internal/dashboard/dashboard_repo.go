package dashboard

import (
	"context"

	"go-perf/internal/review"

	"gorm.io/gorm"
)

// Reviews past manager_review count as completed for reporting, including
// the appeal branch.
var completedStatuses = []string{
	review.StatusCompleted,
	review.StatusAppealRequested,
	review.StatusAppealCompleted,
}

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	Stats(ctx context.Context, cycleID string) (Stats, error)
	RatingDistribution(ctx context.Context, cycleID string) ([]RatingBucket, error)
	DepartmentPerformance(ctx context.Context, cycleID string) ([]DepartmentStat, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Stats(ctx context.Context, cycleID string) (Stats, error) {
	var s Stats
	err := r.db.WithContext(ctx).
		Model(&review.EmployeeReview{}).
		Select(`COUNT(*) AS total_reviews,
COUNT(*) FILTER (WHERE status IN ?) AS completed_reviews,
AVG(final_rating) AS average_rating`, completedStatuses).
		Where("cycle_id = ?", cycleID).
		Scan(&s).Error
	return s, err
}

func (r *repository) RatingDistribution(ctx context.Context, cycleID string) ([]RatingBucket, error) {
	var buckets []RatingBucket
	err := r.db.WithContext(ctx).
		Model(&review.EmployeeReview{}).
		Select("ROUND(final_rating)::int AS rating, COUNT(*) AS count").
		Where("cycle_id = ? AND final_rating IS NOT NULL", cycleID).
		Group("ROUND(final_rating)").
		Order("rating ASC").
		Scan(&buckets).Error
	return buckets, err
}

func (r *repository) DepartmentPerformance(ctx context.Context, cycleID string) ([]DepartmentStat, error) {
	var stats []DepartmentStat
	err := r.db.WithContext(ctx).
		Model(&review.EmployeeReview{}).
		Select(`COALESCE(employees.department, 'unassigned') AS department,
AVG(employee_reviews.final_rating) AS average_rating,
COUNT(*) AS review_count`).
		Joins("JOIN employees ON employees.id = employee_reviews.employee_id").
		Where("employee_reviews.cycle_id = ? AND employee_reviews.final_rating IS NOT NULL", cycleID).
		Group("employees.department").
		Order("average_rating DESC").
		Scan(&stats).Error
	return stats, err
}
