package cycle

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=cycle_repo.go -destination=mock/cycle_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cy *ReviewCycle) error
	FindByID(ctx context.Context, id string) (*ReviewCycle, error)
	FindActive(ctx context.Context) (*ReviewCycle, error)
	FindAll(ctx context.Context) ([]ReviewCycle, error)
	DeactivateAll(ctx context.Context) error
	SetActive(ctx context.Context, id string, active bool) error
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

func (r *repository) Create(ctx context.Context, cy *ReviewCycle) error {
	if r.tx != nil {
		return createTx(ctx, r.tx, cy)
	}
	return r.db.WithContext(ctx).Create(cy).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*ReviewCycle, error) {
	var cy ReviewCycle
	err := r.db.WithContext(ctx).First(&cy, "id = ?", id).Error
	return &cy, err
}

func (r *repository) FindActive(ctx context.Context) (*ReviewCycle, error) {
	var cy ReviewCycle
	err := r.db.WithContext(ctx).First(&cy, "is_active = ?", true).Error
	return &cy, err
}

func (r *repository) FindAll(ctx context.Context) ([]ReviewCycle, error) {
	var cycles []ReviewCycle
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&cycles).Error
	return cycles, err
}

// DeactivateAll clears the active flag everywhere so at most one cycle is
// active after SetActive. Must run inside the same transaction as SetActive.
func (r *repository) DeactivateAll(ctx context.Context) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `UPDATE review_cycles SET is_active = FALSE WHERE is_active = TRUE`)
		return err
	}
	return r.db.WithContext(ctx).
		Model(&ReviewCycle{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

func (r *repository) SetActive(ctx context.Context, id string, active bool) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `UPDATE review_cycles SET is_active = $1 WHERE id = $2`, active, id)
		return err
	}
	return r.db.WithContext(ctx).
		Model(&ReviewCycle{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func createTx(ctx context.Context, tx *sql.Tx, cy *ReviewCycle) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO review_cycles (
	id, name, start_date, end_date,
	self_assessment_deadline, feedback_deadline, review_deadline, meeting_deadline,
	is_active, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
`,
		cy.ID, cy.Name, cy.StartDate, cy.EndDate,
		cy.SelfAssessmentDeadline, cy.FeedbackDeadline, cy.ReviewDeadline, cy.MeetingDeadline,
		cy.IsActive,
	)
	return err
}
