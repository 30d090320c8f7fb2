package appeal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	appealerrors "go-perf/internal/appeal/errors"
	"go-perf/internal/authz"
	"go-perf/internal/employee"
	"go-perf/internal/events"
	"go-perf/internal/messaging/kafka"
	"go-perf/internal/review"
	reviewerrors "go-perf/internal/review/errors"
	"go-perf/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	activityAppealSubmitted = "appeal_submitted"
	activityAppealProcessed = "appeal_processed"
	activityAppealCompleted = "appeal_completed"
)

// Recorder mirrors activity.Recorder without importing the package.
type Recorder interface {
	Record(ctx context.Context, userID, action, description string, entityType, entityID string) error
}

//go:generate mockgen -source=appeal_service.go -destination=mock/appeal_service_mock.go -package=mock
type Service interface {
	File(ctx context.Context, actorID string, req FileAppealRequest) (AppealResponse, error)
	Resolve(ctx context.Context, actorID, appealID string, req ResolveAppealRequest) (AppealResponse, error)
	Complete(ctx context.Context, actorID, appealID string) (AppealResponse, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]AppealResponse, error)
	ListPending(ctx context.Context, actorID string) ([]AppealResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	reviewRepo   review.Repository
	employeeRepo employee.Repository
	recorder     Recorder
	outbox       kafka.OutboxRepository
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	reviewRepo review.Repository,
	employeeRepo employee.Repository,
	recorder Recorder,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("appeal.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("appeal.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		reviewRepo:   reviewRepo,
		employeeRepo: employeeRepo,
		recorder:     recorder,
		outbox:       outbox,
		logger:       l,
	}
}

// File opens the single-use appeal: it flips AppealUsed, moves the review
// to appeal_requested, and notifies the handling manager, all in one
// transaction.
func (s *service) File(ctx context.Context, actorID string, req FileAppealRequest) (AppealResponse, error) {
	s.logger.Debug("file appeal requested",
		zap.String("actor_id", actorID),
		zap.String("review_id", req.ReviewID),
	)

	rv, err := s.reviewRepo.FindByID(ctx, req.ReviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AppealResponse{}, reviewerrors.ErrReviewNotFound
		}
		return AppealResponse{}, err
	}

	subject, err := s.employeeRepo.FindByID(ctx, rv.EmployeeID.String())
	if err != nil {
		return AppealResponse{}, err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return AppealResponse{}, err
	}
	rc := authz.Context{EmployeeID: subject.ID.String()}
	if subject.ManagerID != nil {
		rc.ManagerID = subject.ManagerID.String()
	}
	if !authz.Permit(actor, authz.ActionFileAppeal, rc) {
		return AppealResponse{}, appealerrors.ErrNotPermitted
	}

	// appealUsed is checked before status so a used appeal always reports
	// the conflict, even after the review moved past completed.
	if rv.AppealUsed {
		return AppealResponse{}, appealerrors.ErrAppealAlreadyUsed
	}
	if rv.Status != review.StatusCompleted {
		return AppealResponse{}, appealerrors.ErrReviewNotCompleted
	}

	a := &Appeal{
		ID:                  uuid.New(),
		ReviewID:            rv.ID,
		EmployeeID:          subject.ID,
		Reason:              req.Reason,
		DesiredOutcome:      req.DesiredOutcome,
		SupportingDocuments: req.SupportingDocuments,
		Status:              StatusPending,
	}

	rv.AppealUsed = true
	rv.Status = review.StatusAppealRequested

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AppealResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, a); err != nil {
		return AppealResponse{}, err
	}
	if err := s.reviewRepo.WithTx(tx).UpdateWithRevision(ctx, rv); err != nil {
		return AppealResponse{}, err
	}

	if email, name, ok := s.managerContact(ctx, subject); ok {
		if err := s.enqueueNotification(ctx, tx, rv.ID.String(), email, map[string]string{
			"employee_name": subject.FullName(),
			"manager_name":  name,
			"reason":        req.Reason,
		}); err != nil {
			return AppealResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AppealResponse{}, err
	}

	s.recordActivity(ctx, actorID, activityAppealSubmitted, "Filed an appeal against the final rating", a.ID.String())

	s.logger.Info("appeal filed",
		zap.String("appeal_id", a.ID.String()),
		zap.String("review_id", req.ReviewID),
	)
	return mapToResponse(*a), nil
}

// Resolve records the manager's decision and closes the review's appeal
// branch. An override rating replaces the review's final rating.
func (s *service) Resolve(ctx context.Context, actorID, appealID string, req ResolveAppealRequest) (AppealResponse, error) {
	if req.Decision != StatusAccepted && req.Decision != StatusRejected {
		return AppealResponse{}, appealerrors.ErrInvalidDecision
	}
	if req.OverrideRating != nil && !ratingInRange(*req.OverrideRating) {
		return AppealResponse{}, reviewerrors.ErrInvalidRating
	}

	a, err := s.loadAppeal(ctx, appealID)
	if err != nil {
		return AppealResponse{}, err
	}

	resolver, err := s.employeeRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AppealResponse{}, appealerrors.ErrNotPermitted
		}
		return AppealResponse{}, err
	}
	actor := authz.Actor{ID: resolver.ID.String(), Role: authz.Role(resolver.Role)}
	if !authz.Permit(actor, authz.ActionResolveAppeal, authz.Context{EmployeeID: a.EmployeeID.String()}) {
		return AppealResponse{}, appealerrors.ErrNotPermitted
	}

	if a.Status != StatusPending {
		return AppealResponse{}, appealerrors.ErrAlreadyResolved
	}

	rv, err := s.reviewRepo.FindByID(ctx, a.ReviewID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AppealResponse{}, reviewerrors.ErrReviewNotFound
		}
		return AppealResponse{}, err
	}
	if !review.IsAllowedStatusTransition(rv.Status, review.StatusAppealCompleted) {
		return AppealResponse{}, reviewerrors.ErrInvalidTransition
	}

	managerID := uuid.MustParse(actor.ID)
	a.Status = req.Decision
	a.ManagerID = &managerID
	a.ManagerResponse = &req.Response
	a.FinalRating = req.OverrideRating

	rv.Status = review.StatusAppealCompleted
	if req.OverrideRating != nil {
		rv.FinalRating = req.OverrideRating
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AppealResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Update(ctx, a); err != nil {
		return AppealResponse{}, err
	}
	if err := s.reviewRepo.WithTx(tx).UpdateWithRevision(ctx, rv); err != nil {
		return AppealResponse{}, err
	}

	subject, err := s.employeeRepo.FindByID(ctx, a.EmployeeID.String())
	if err == nil {
		if err := s.enqueueNotification(ctx, tx, rv.ID.String(), subject.Email, map[string]string{
			"employee_name": subject.FullName(),
			"manager_name":  resolver.FullName(),
			"reason":        "Your appeal has been " + req.Decision,
		}); err != nil {
			return AppealResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AppealResponse{}, err
	}

	s.recordActivity(ctx, actorID, activityAppealProcessed, "Resolved appeal: "+req.Decision, a.ID.String())

	s.logger.Info("appeal resolved",
		zap.String("appeal_id", appealID),
		zap.String("decision", req.Decision),
	)
	return mapToResponse(*a), nil
}

// Complete finalizes an accepted or rejected appeal once its outcome has
// been applied.
func (s *service) Complete(ctx context.Context, actorID, appealID string) (AppealResponse, error) {
	a, err := s.loadAppeal(ctx, appealID)
	if err != nil {
		return AppealResponse{}, err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return AppealResponse{}, err
	}
	if !authz.Permit(actor, authz.ActionResolveAppeal, authz.Context{EmployeeID: a.EmployeeID.String()}) {
		return AppealResponse{}, appealerrors.ErrNotPermitted
	}

	if a.Status != StatusAccepted && a.Status != StatusRejected {
		return AppealResponse{}, appealerrors.ErrNotResolved
	}

	a.Status = StatusCompleted
	if err := s.repo.Update(ctx, a); err != nil {
		return AppealResponse{}, err
	}

	s.recordActivity(ctx, actorID, activityAppealCompleted, "Completed appeal processing", a.ID.String())

	s.logger.Info("appeal completed", zap.String("appeal_id", appealID))
	return mapToResponse(*a), nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) ([]AppealResponse, error) {
	appeals, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(appeals), nil
}

func (s *service) ListPending(ctx context.Context, actorID string) ([]AppealResponse, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != authz.RoleL2Manager && actor.Role != authz.RoleFounder {
		return nil, appealerrors.ErrNotPermitted
	}

	appeals, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(appeals), nil
}

func (s *service) loadAppeal(ctx context.Context, appealID string) (*Appeal, error) {
	if _, err := uuid.Parse(appealID); err != nil {
		return nil, appealerrors.ErrInvalidAppealID
	}
	a, err := s.repo.FindByID(ctx, appealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appealerrors.ErrAppealNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *service) actor(ctx context.Context, actorID string) (authz.Actor, error) {
	e, err := s.employeeRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authz.Actor{}, appealerrors.ErrNotPermitted
		}
		return authz.Actor{}, err
	}
	return authz.Actor{ID: e.ID.String(), Role: authz.Role(e.Role)}, nil
}

func (s *service) managerContact(ctx context.Context, subject *employee.Employee) (email, name string, ok bool) {
	if subject.ManagerID == nil {
		return "", "", false
	}
	mgr, err := s.employeeRepo.FindByID(ctx, subject.ManagerID.String())
	if err != nil {
		return "", "", false
	}
	return mgr.Email, mgr.FullName(), true
}

func (s *service) enqueueNotification(ctx context.Context, tx *sql.Tx, reviewID, recipient string, meta map[string]string) error {
	event := events.NewNotificationRequested(
		contextutil.GetRequestID(ctx), events.KindAppealNotification, recipient, meta)
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     event.RequestID,
		AggregateType: "employee_review",
		AggregateID:   reviewID,
		EventType:     event.EventType,
		Topic:         events.NotificationTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) recordActivity(ctx context.Context, actorID, action, description, appealID string) {
	if err := s.recorder.Record(ctx, actorID, action, description, "appeal", appealID); err != nil {
		s.logger.Warn("record activity failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func ratingInRange(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(decimal.NewFromInt(1)) && d.LessThanOrEqual(decimal.NewFromInt(5))
}
