package feedback

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=feedback_repo.go -destination=mock/feedback_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, f *Feedback) error
	ExistsForRater(ctx context.Context, reviewID, raterID string) (bool, error)
	FindByReview(ctx context.Context, reviewID string) ([]Feedback, error)
	FindByRater(ctx context.Context, raterID string) ([]Feedback, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, f *Feedback) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO feedback (
	id, review_id, feedback_from_id,
	technical_competence, communication, collaboration, problem_solving,
	leadership_potential, reliability, innovation,
	overall_feedback, strengths, improvements, is_anonymous, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
`,
			f.ID, f.ReviewID, f.FeedbackFromID,
			f.TechnicalCompetence, f.Communication, f.Collaboration, f.ProblemSolving,
			f.LeadershipPotential, f.Reliability, f.Innovation,
			f.OverallFeedback, f.Strengths, f.Improvements, f.IsAnonymous,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(f).Error
}

// ExistsForRater must run inside the submit transaction so two concurrent
// submissions cannot both pass the check; the unique index is the backstop.
func (r *repository) ExistsForRater(ctx context.Context, reviewID, raterID string) (bool, error) {
	if r.tx != nil {
		var exists bool
		err := r.tx.QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM feedback WHERE review_id = $1 AND feedback_from_id = $2)
`, reviewID, raterID).Scan(&exists)
		return exists, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&Feedback{}).
		Where("review_id = ? AND feedback_from_id = ?", reviewID, raterID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByReview(ctx context.Context, reviewID string) ([]Feedback, error) {
	var entries []Feedback
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindByRater(ctx context.Context, raterID string) ([]Feedback, error) {
	var entries []Feedback
	err := r.db.WithContext(ctx).
		Where("feedback_from_id = ?", raterID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
