package cycle

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-perf/internal/authz"
	cycleerrors "go-perf/internal/cycle/errors"
	"go-perf/internal/employee"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=cycle_service.go -destination=mock/cycle_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateCycleRequest) (CycleResponse, error)
	Activate(ctx context.Context, actorID, id string) (CycleResponse, error)
	Deactivate(ctx context.Context, actorID, id string) (CycleResponse, error)
	GetActive(ctx context.Context) (CycleResponse, error)
	GetAll(ctx context.Context) ([]CycleResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("cycle.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cycle.service")
	}
	return &service{db: db, repo: repo, employeeRepo: employeeRepo, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateCycleRequest) (CycleResponse, error) {
	s.logger.Debug("create cycle requested",
		zap.String("actor_id", actorID),
		zap.String("name", req.Name),
	)

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return CycleResponse{}, err
	}
	if !authz.Permit(actor, authz.ActionCreateCycle, authz.Context{}) {
		s.logger.Warn("create cycle denied", zap.String("actor_id", actorID), zap.String("role", string(actor.Role)))
		return CycleResponse{}, cycleerrors.ErrNotPermitted
	}

	dates, err := parseDates(req)
	if err != nil {
		return CycleResponse{}, err
	}

	cy := &ReviewCycle{
		ID:                     uuid.New(),
		Name:                   req.Name,
		StartDate:              dates[0],
		EndDate:                dates[1],
		SelfAssessmentDeadline: dates[2],
		FeedbackDeadline:       dates[3],
		ReviewDeadline:         dates[4],
		MeetingDeadline:        dates[5],
		IsActive:               false,
	}

	if err := s.repo.Create(ctx, cy); err != nil {
		s.logger.Error("create cycle persist failed", zap.Error(err))
		return CycleResponse{}, err
	}

	s.logger.Info("create cycle success", zap.String("cycle_id", cy.ID.String()))
	return mapToResponse(*cy), nil
}

// Activate marks one cycle active and clears the flag on every other cycle
// in the same transaction, keeping the at-most-one-active invariant.
func (s *service) Activate(ctx context.Context, actorID, id string) (CycleResponse, error) {
	s.logger.Debug("activate cycle requested",
		zap.String("actor_id", actorID),
		zap.String("cycle_id", id),
	)

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return CycleResponse{}, err
	}
	if !authz.Permit(actor, authz.ActionActivateCycle, authz.Context{}) {
		return CycleResponse{}, cycleerrors.ErrNotPermitted
	}

	cy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CycleResponse{}, cycleerrors.ErrCycleNotFound
		}
		return CycleResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("activate cycle begin tx failed", zap.Error(err))
		return CycleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DeactivateAll(ctx); err != nil {
		s.logger.Error("activate cycle deactivate others failed", zap.Error(err))
		return CycleResponse{}, err
	}
	if err := qtx.SetActive(ctx, id, true); err != nil {
		s.logger.Error("activate cycle set active failed", zap.Error(err))
		return CycleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("activate cycle commit failed", zap.Error(err))
		return CycleResponse{}, err
	}

	cy.IsActive = true
	s.logger.Info("activate cycle success", zap.String("cycle_id", id))
	return mapToResponse(*cy), nil
}

func (s *service) Deactivate(ctx context.Context, actorID, id string) (CycleResponse, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return CycleResponse{}, err
	}
	if !authz.Permit(actor, authz.ActionActivateCycle, authz.Context{}) {
		return CycleResponse{}, cycleerrors.ErrNotPermitted
	}

	cy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CycleResponse{}, cycleerrors.ErrCycleNotFound
		}
		return CycleResponse{}, err
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		s.logger.Error("deactivate cycle failed", zap.String("cycle_id", id), zap.Error(err))
		return CycleResponse{}, err
	}

	cy.IsActive = false
	s.logger.Info("deactivate cycle success", zap.String("cycle_id", id))
	return mapToResponse(*cy), nil
}

func (s *service) GetActive(ctx context.Context) (CycleResponse, error) {
	cy, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CycleResponse{}, cycleerrors.ErrNoActiveCycle
		}
		return CycleResponse{}, err
	}
	return mapToResponse(*cy), nil
}

func (s *service) GetAll(ctx context.Context) ([]CycleResponse, error) {
	cycles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(cycles), nil
}

func (s *service) actor(ctx context.Context, actorID string) (authz.Actor, error) {
	e, err := s.employeeRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authz.Actor{}, cycleerrors.ErrNotPermitted
		}
		return authz.Actor{}, err
	}
	return authz.Actor{ID: e.ID.String(), Role: authz.Role(e.Role)}, nil
}

// parseDates returns start, end, and the four deadlines, validating that
// deadlines fall in order inside the cycle window.
func parseDates(req CreateCycleRequest) ([6]time.Time, error) {
	var out [6]time.Time
	for i, v := range []string{
		req.StartDate, req.EndDate,
		req.SelfAssessmentDeadline, req.FeedbackDeadline,
		req.ReviewDeadline, req.MeetingDeadline,
	} {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return out, cycleerrors.ErrInvalidDateFormat
		}
		out[i] = t
	}

	if out[0].After(out[1]) {
		return out, cycleerrors.ErrInvalidDateOrder
	}
	deadlines := []time.Time{out[2], out[3], out[4], out[5]}
	prev := out[0]
	for _, d := range deadlines {
		if d.Before(prev) || d.After(out[1]) {
			return out, cycleerrors.ErrInvalidDateOrder
		}
		prev = d
	}
	return out, nil
}
