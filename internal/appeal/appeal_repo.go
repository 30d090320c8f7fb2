package appeal

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=appeal_repo.go -destination=mock/appeal_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Appeal) error
	FindByID(ctx context.Context, id string) (*Appeal, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Appeal, error)
	FindPending(ctx context.Context) ([]Appeal, error)
	Update(ctx context.Context, a *Appeal) error
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

func (r *repository) Create(ctx context.Context, a *Appeal) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO appeals (
	id, review_id, employee_id, reason, desired_outcome, supporting_documents,
	status, manager_id, manager_response, final_rating, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
`,
			a.ID, a.ReviewID, a.EmployeeID, a.Reason, a.DesiredOutcome, a.SupportingDocuments,
			a.Status, a.ManagerID, a.ManagerResponse, a.FinalRating,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Appeal, error) {
	var a Appeal
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Appeal, error) {
	var appeals []Appeal
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&appeals).Error
	return appeals, err
}

func (r *repository) FindPending(ctx context.Context) ([]Appeal, error) {
	var appeals []Appeal
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&appeals).Error
	return appeals, err
}

func (r *repository) Update(ctx context.Context, a *Appeal) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
UPDATE appeals SET
	status = $2,
	manager_id = $3,
	manager_response = $4,
	final_rating = $5,
	updated_at = NOW()
WHERE id = $1
`,
			a.ID, a.Status, a.ManagerID, a.ManagerResponse, a.FinalRating,
		)
		return err
	}
	return r.db.WithContext(ctx).Save(a).Error
}
