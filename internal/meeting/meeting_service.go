package meeting

import (
	"context"
	"errors"

	meetingerrors "go-perf/internal/meeting/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Meetings are created by the review workflow's schedule step; this
// service only covers reads and status updates.
//
//go:generate mockgen -source=meeting_service.go -destination=mock/meeting_service_mock.go -package=mock
type Service interface {
	ListForEmployee(ctx context.Context, employeeID string) ([]MeetingResponse, error)
	ListForManager(ctx context.Context, managerID string) ([]MeetingResponse, error)
	UpdateStatus(ctx context.Context, actorID, id string, req UpdateStatusRequest) (MeetingResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("meeting.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("meeting.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) ([]MeetingResponse, error) {
	meetings, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(meetings), nil
}

func (s *service) ListForManager(ctx context.Context, managerID string) ([]MeetingResponse, error) {
	meetings, err := s.repo.FindByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(meetings), nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID, id string, req UpdateStatusRequest) (MeetingResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return MeetingResponse{}, meetingerrors.ErrInvalidMeetingID
	}
	if !validStatus(req.Status) {
		return MeetingResponse{}, meetingerrors.ErrInvalidMeetingStatus
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MeetingResponse{}, meetingerrors.ErrMeetingNotFound
		}
		return MeetingResponse{}, err
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.Notes); err != nil {
		s.logger.Error("update meeting status failed",
			zap.String("meeting_id", id),
			zap.Error(err),
		)
		return MeetingResponse{}, err
	}

	s.logger.Info("meeting status updated",
		zap.String("meeting_id", id),
		zap.String("actor_id", actorID),
		zap.String("status", req.Status),
	)

	m.Status = req.Status
	if req.Notes != nil {
		m.Notes = req.Notes
	}
	return MapToResponse(*m), nil
}
