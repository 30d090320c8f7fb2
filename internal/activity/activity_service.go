package activity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder is the write-side interface the workflow services depend on.
// Recording failures must never fail the operation being recorded, so
// callers log-and-continue on error.
//
//go:generate mockgen -source=activity_service.go -destination=mock/activity_service_mock.go -package=mock
type Recorder interface {
	Record(ctx context.Context, userID, action, description string, entityType, entityID string) error
}

type Service interface {
	Recorder
	Recent(ctx context.Context, limit int) ([]LogResponse, error)
	ByUser(ctx context.Context, userID string) ([]LogResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("activity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, userID, action, description string, entityType, entityID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}

	l := &Log{
		ID:          uuid.New(),
		UserID:      uid,
		Action:      action,
		Description: description,
	}
	if entityType != "" {
		l.RelatedEntityType = &entityType
	}
	if entityID != "" {
		eid, err := uuid.Parse(entityID)
		if err == nil {
			l.RelatedEntityID = &eid
		}
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("record activity failed",
			zap.String("action", action),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]LogResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	logs, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(logs), nil
}

func (s *service) ByUser(ctx context.Context, userID string) ([]LogResponse, error) {
	logs, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(logs), nil
}
