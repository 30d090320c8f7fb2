package activity

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=activity_repo.go -destination=mock/activity_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Log) error
	FindRecent(ctx context.Context, limit int) ([]Log, error)
	FindByUser(ctx context.Context, userID string) ([]Log, error)
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

func (r *repository) Create(ctx context.Context, l *Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindRecent(ctx context.Context, limit int) ([]Log, error) {
	var logs []Log
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]Log, error) {
	var logs []Log
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
