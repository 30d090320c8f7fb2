package meeting

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=meeting_repo.go -destination=mock/meeting_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *Meeting) error
	FindByID(ctx context.Context, id string) (*Meeting, error)
	FindByReview(ctx context.Context, reviewID string) ([]Meeting, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Meeting, error)
	FindByManager(ctx context.Context, managerID string) ([]Meeting, error)
	UpdateStatus(ctx context.Context, id, status string, notes *string) error
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

func (r *repository) Create(ctx context.Context, m *Meeting) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO meetings (
	id, review_id, manager_id, employee_id,
	scheduled_at, duration_minutes, link, status, notes, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
`,
			m.ID, m.ReviewID, m.ManagerID, m.EmployeeID,
			m.ScheduledAt, m.DurationMinutes, m.Link, m.Status, m.Notes,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Meeting, error) {
	var m Meeting
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *repository) FindByReview(ctx context.Context, reviewID string) ([]Meeting, error) {
	var meetings []Meeting
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("scheduled_at ASC").
		Find(&meetings).Error
	return meetings, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Meeting, error) {
	var meetings []Meeting
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("scheduled_at DESC").
		Find(&meetings).Error
	return meetings, err
}

func (r *repository) FindByManager(ctx context.Context, managerID string) ([]Meeting, error) {
	var meetings []Meeting
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("scheduled_at DESC").
		Find(&meetings).Error
	return meetings, err
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string, notes *string) error {
	updates := map[string]any{"status": status}
	if notes != nil {
		updates["notes"] = notes
	}
	return r.db.WithContext(ctx).
		Model(&Meeting{}).
		Where("id = ?", id).
		Updates(updates).Error
}
