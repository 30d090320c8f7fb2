package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-perf/internal/authz"
	"go-perf/internal/cycle"
	cycleerrors "go-perf/internal/cycle/errors"
	"go-perf/internal/employee"
	"go-perf/internal/events"
	"go-perf/internal/meeting"
	"go-perf/internal/messaging/kafka"
	"go-perf/internal/rating"
	reviewerrors "go-perf/internal/review/errors"
	"go-perf/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Activity action tags written once per transition.
const (
	activityReviewCreated           = "review_created"
	activitySelfAssessmentCompleted = "self_assessment_completed"
	activityManagerReviewStarted    = "manager_review_started"
	activityMeetingScheduled        = "meeting_scheduled"
	activityReviewCompleted         = "review_completed"
)

// Recorder mirrors activity.Recorder without importing the package.
type Recorder interface {
	Record(ctx context.Context, userID, action, description string, entityType, entityID string) error
}

// FeedbackAverager supplies the 360 average without a package cycle; the
// feedback service implements it.
type FeedbackAverager interface {
	AverageOf(ctx context.Context, reviewID string) (*decimal.Decimal, error)
}

//go:generate mockgen -source=review_service.go -destination=mock/review_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateReviewRequest) (ReviewResponse, error)
	SubmitSelfAssessment(ctx context.Context, actorID string, req SubmitSelfAssessmentRequest) (ReviewResponse, error)
	AdvanceToManagerReview(ctx context.Context, actorID, reviewID string) (ReviewResponse, error)
	SetManagerComments(ctx context.Context, actorID, reviewID string, req ManagerCommentsRequest) (ReviewResponse, error)
	ScheduleMeeting(ctx context.Context, actorID, reviewID string, req ScheduleMeetingRequest) (ReviewResponse, error)
	Finalize(ctx context.Context, actorID, reviewID string, req FinalizeReviewRequest) (ReviewResponse, error)
	GetByID(ctx context.Context, actorID, reviewID string) (ReviewResponse, error)
	GetMine(ctx context.Context, actorID string) ([]ReviewResponse, error)
	GetPendingApprovals(ctx context.Context, managerID string) ([]ReviewResponse, error)
	GetByManager(ctx context.Context, managerID string) ([]ReviewResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	cycleRepo    cycle.Repository
	meetingRepo  meeting.Repository
	feedback     FeedbackAverager
	recorder     Recorder
	outbox       kafka.OutboxRepository
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	cycleRepo cycle.Repository,
	meetingRepo meeting.Repository,
	feedback FeedbackAverager,
	recorder Recorder,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("review.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("review.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		cycleRepo:    cycleRepo,
		meetingRepo:  meetingRepo,
		feedback:     feedback,
		recorder:     recorder,
		outbox:       outbox,
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateReviewRequest) (ReviewResponse, error) {
	s.logger.Debug("create review requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
	)

	subject, err := s.employeeRepo.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, reviewerrors.ErrReviewNotFound
		}
		return ReviewResponse{}, err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !authz.Permit(actor, authz.ActionCreateReview, subjectContext(subject)) {
		return ReviewResponse{}, reviewerrors.ErrNotPermitted
	}

	cy, err := s.cycleRepo.FindByID(ctx, req.CycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, cycleerrors.ErrCycleNotFound
		}
		return ReviewResponse{}, err
	}
	if !cy.IsActive {
		return ReviewResponse{}, cycleerrors.ErrNoActiveCycle
	}

	if _, err := s.repo.FindByEmployeeAndCycle(ctx, req.EmployeeID, req.CycleID); err == nil {
		return ReviewResponse{}, reviewerrors.ErrReviewExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ReviewResponse{}, err
	}

	rv := &EmployeeReview{
		ID:         uuid.New(),
		EmployeeID: subject.ID,
		CycleID:    cy.ID,
		Status:     StatusSelfAssessment,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, rv); err != nil {
		return ReviewResponse{}, err
	}

	if err := s.enqueueNotification(ctx, tx, rv.ID.String(), events.KindReviewNotification,
		subject.Email, map[string]string{
			"employee_name": subject.FullName(),
			"action":        "Complete your self-assessment",
			"deadline":      cy.SelfAssessmentDeadline.Format(time.RFC3339),
		}); err != nil {
		return ReviewResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ReviewResponse{}, err
	}

	s.recordActivity(ctx, actorID, activityReviewCreated, "Created performance review", rv.ID.String())

	s.logger.Info("create review success",
		zap.String("review_id", rv.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)
	return MapToResponse(*rv), nil
}

// SubmitSelfAssessment writes the employee's payload and moves the review
// to feedback collection. The review is created lazily when the employee
// submits before a manager opened one.
func (s *service) SubmitSelfAssessment(ctx context.Context, actorID string, req SubmitSelfAssessmentRequest) (ReviewResponse, error) {
	if len(req.Data) == 0 {
		return ReviewResponse{}, reviewerrors.ErrMissingSelfAssessment
	}

	cy, err := s.cycleRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, cycleerrors.ErrNoActiveCycle
		}
		return ReviewResponse{}, err
	}

	subject, err := s.employeeRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, reviewerrors.ErrNotPermitted
		}
		return ReviewResponse{}, err
	}

	actor := authz.Actor{ID: subject.ID.String(), Role: authz.Role(subject.Role)}
	if !authz.Permit(actor, authz.ActionSubmitSelfAssessment, subjectContext(subject)) {
		return ReviewResponse{}, reviewerrors.ErrNotPermitted
	}

	rv, err := s.repo.FindByEmployeeAndCycle(ctx, actorID, cy.ID.String())
	created := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, err
		}
		rv = &EmployeeReview{
			ID:         uuid.New(),
			EmployeeID: subject.ID,
			CycleID:    cy.ID,
			Status:     StatusSelfAssessment,
		}
		created = true
	}

	if !IsAllowedStatusTransition(rv.Status, StatusFeedbackCollection) {
		return ReviewResponse{}, reviewerrors.ErrInvalidTransition
	}

	rv.SelfAssessmentData = req.Data
	rv.CurrentCTC = req.CurrentCTC
	rv.ExpectedCTC = req.ExpectedCTC
	rv.ExpectedIncrementPercentage = req.ExpectedIncrementPercentage
	rv.Status = StatusFeedbackCollection

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if created {
		if err := qtx.Create(ctx, rv); err != nil {
			return ReviewResponse{}, err
		}
	} else {
		if err := qtx.UpdateWithRevision(ctx, rv); err != nil {
			return ReviewResponse{}, err
		}
	}

	if email, name, ok := s.managerContact(ctx, subject); ok {
		if err := s.enqueueNotification(ctx, tx, rv.ID.String(), events.KindReviewNotification,
			email, map[string]string{
				"employee_name": subject.FullName(),
				"manager_name":  name,
				"action":        "360 feedback collection has started for your report",
				"deadline":      cy.FeedbackDeadline.Format(time.RFC3339),
			}); err != nil {
			return ReviewResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ReviewResponse{}, err
	}

	s.recordActivity(ctx, actorID, activitySelfAssessmentCompleted, "Completed self-assessment", rv.ID.String())

	s.logger.Info("self assessment submitted",
		zap.String("review_id", rv.ID.String()),
		zap.Bool("created", created),
	)
	return MapToResponse(*rv), nil
}

func (s *service) AdvanceToManagerReview(ctx context.Context, actorID, reviewID string) (ReviewResponse, error) {
	rv, subject, err := s.loadReviewWithSubject(ctx, reviewID)
	if err != nil {
		return ReviewResponse{}, err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !authz.Permit(actor, authz.ActionAdvanceReview, subjectContext(subject)) {
		return ReviewResponse{}, reviewerrors.ErrNotPermitted
	}

	if !IsAllowedStatusTransition(rv.Status, StatusManagerReview) {
		return ReviewResponse{}, reviewerrors.ErrInvalidTransition
	}
	rv.Status = StatusManagerReview

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).UpdateWithRevision(ctx, rv); err != nil {
		return ReviewResponse{}, err
	}

	if email, name, ok := s.managerContact(ctx, subject); ok {
		if err := s.enqueueNotification(ctx, tx, rv.ID.String(), events.KindReviewNotification,
			email, map[string]string{
				"employee_name": subject.FullName(),
				"manager_name":  name,
				"action":        "Manager review is ready for your input",
			}); err != nil {
			return ReviewResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ReviewResponse{}, err
	}

	s.recordActivity(ctx, actorID, activityManagerReviewStarted, "Advanced review to manager stage", rv.ID.String())
	return MapToResponse(*rv), nil
}

// SetManagerComments stores the actor's comments on the level matching
// their role. Only valid while the review sits in manager_review.
func (s *service) SetManagerComments(ctx context.Context, actorID, reviewID string, req ManagerCommentsRequest) (ReviewResponse, error) {
	rv, subject, err := s.loadReviewWithSubject(ctx, reviewID)
	if err != nil {
		return ReviewResponse{}, err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !authz.Permit(actor, authz.ActionSetManagerComments, subjectContext(subject)) {
		return ReviewResponse{}, reviewerrors.ErrNotPermitted
	}

	if rv.Status != StatusManagerReview {
		return ReviewResponse{}, reviewerrors.ErrInvalidTransition
	}

	comments := req.Comments
	switch actor.Role {
	case authz.RoleL3Manager:
		rv.L3Comments = &comments
	case authz.RoleL2Manager:
		rv.L2Comments = &comments
	case authz.RoleL1Manager:
		rv.L1Comments = &comments
	case authz.RoleFounder:
		rv.FounderComments = &comments
	default:
		return ReviewResponse{}, reviewerrors.ErrInvalidCommentLevel
	}

	if err := s.repo.UpdateWithRevision(ctx, rv); err != nil {
		return ReviewResponse{}, err
	}

	s.logger.Info("manager comments saved",
		zap.String("review_id", reviewID),
		zap.String("level", string(actor.Role)),
	)
	return MapToResponse(*rv), nil
}

func (s *service) ScheduleMeeting(ctx context.Context, actorID, reviewID string, req ScheduleMeetingRequest) (ReviewResponse, error) {
	rv, subject, err := s.loadReviewWithSubject(ctx, reviewID)
	if err != nil {
		return ReviewResponse{}, err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !authz.Permit(actor, authz.ActionScheduleMeeting, subjectContext(subject)) {
		return ReviewResponse{}, reviewerrors.ErrNotPermitted
	}

	if !IsAllowedStatusTransition(rv.Status, StatusMeetingScheduled) {
		return ReviewResponse{}, reviewerrors.ErrInvalidTransition
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return ReviewResponse{}, cycleerrors.ErrInvalidDateFormat
	}

	duration := meeting.DefaultDurationMinutes
	if req.DurationMinutes != nil && *req.DurationMinutes > 0 {
		duration = *req.DurationMinutes
	}

	m := &meeting.Meeting{
		ID:              uuid.New(),
		ReviewID:        rv.ID,
		ManagerID:       uuid.MustParse(actor.ID),
		EmployeeID:      rv.EmployeeID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: duration,
		Link:            req.Link,
		Status:          meeting.StatusScheduled,
	}

	rv.Status = StatusMeetingScheduled

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	if err := s.meetingRepo.WithTx(tx).Create(ctx, m); err != nil {
		return ReviewResponse{}, err
	}
	if err := s.repo.WithTx(tx).UpdateWithRevision(ctx, rv); err != nil {
		return ReviewResponse{}, err
	}

	meta := map[string]string{
		"employee_name": subject.FullName(),
		"manager_name":  s.actorName(ctx, actorID),
		"scheduled_at":  scheduledAt.Format(time.RFC3339),
	}
	if req.Link != nil {
		meta["meeting_link"] = *req.Link
	}
	if err := s.enqueueNotification(ctx, tx, rv.ID.String(), events.KindMeetingInvitation,
		subject.Email, meta); err != nil {
		return ReviewResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ReviewResponse{}, err
	}

	s.recordActivity(ctx, actorID, activityMeetingScheduled,
		fmt.Sprintf("Scheduled 1:1 meeting for %s", scheduledAt.Format(time.RFC3339)), rv.ID.String())

	s.logger.Info("meeting scheduled",
		zap.String("review_id", reviewID),
		zap.String("meeting_id", m.ID.String()),
	)
	return MapToResponse(*rv), nil
}

// Finalize computes the weighted rating unless the caller overrides it,
// then closes the review.
func (s *service) Finalize(ctx context.Context, actorID, reviewID string, req FinalizeReviewRequest) (ReviewResponse, error) {
	if req.FinalIncrementPercentage == nil {
		return ReviewResponse{}, reviewerrors.ErrMissingIncrement
	}
	if req.FinalRating != nil && !ratingInRange(*req.FinalRating) {
		return ReviewResponse{}, reviewerrors.ErrInvalidRating
	}

	rv, subject, err := s.loadReviewWithSubject(ctx, reviewID)
	if err != nil {
		return ReviewResponse{}, err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !authz.Permit(actor, authz.ActionFinalizeReview, subjectContext(subject)) {
		return ReviewResponse{}, reviewerrors.ErrNotPermitted
	}

	if !IsAllowedStatusTransition(rv.Status, StatusCompleted) {
		return ReviewResponse{}, reviewerrors.ErrInvalidTransition
	}

	final := req.FinalRating
	if final == nil {
		computed, err := s.computeRating(ctx, rv, req)
		if err != nil {
			return ReviewResponse{}, err
		}
		final = &computed
	}

	rv.FinalRating = final
	rv.FinalIncrementPercentage = req.FinalIncrementPercentage
	rv.Status = StatusCompleted

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReviewResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).UpdateWithRevision(ctx, rv); err != nil {
		return ReviewResponse{}, err
	}

	if err := s.enqueueNotification(ctx, tx, rv.ID.String(), events.KindReviewNotification,
		subject.Email, map[string]string{
			"employee_name": subject.FullName(),
			"action":        "Your performance review has been completed",
		}); err != nil {
		return ReviewResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ReviewResponse{}, err
	}

	s.recordActivity(ctx, actorID, activityReviewCompleted, "Finalized performance review", rv.ID.String())

	s.logger.Info("review finalized",
		zap.String("review_id", reviewID),
		zap.String("final_rating", final.String()),
	)
	return MapToResponse(*rv), nil
}

func (s *service) GetByID(ctx context.Context, actorID, reviewID string) (ReviewResponse, error) {
	rv, _, err := s.loadReviewWithSubject(ctx, reviewID)
	if err != nil {
		return ReviewResponse{}, err
	}
	return MapToResponse(*rv), nil
}

func (s *service) GetMine(ctx context.Context, actorID string) ([]ReviewResponse, error) {
	reviews, err := s.repo.FindByEmployee(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(reviews), nil
}

func (s *service) GetPendingApprovals(ctx context.Context, managerID string) ([]ReviewResponse, error) {
	reviews, err := s.repo.FindPendingByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(reviews), nil
}

func (s *service) GetByManager(ctx context.Context, managerID string) ([]ReviewResponse, error) {
	reviews, err := s.repo.FindByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(reviews), nil
}

// selfAssessmentScores are the optional scoring fields inside the
// otherwise opaque self-assessment payload.
type selfAssessmentScores struct {
	OverallSelfRating *decimal.Decimal `json:"overall_self_rating"`
	KRAScore          *decimal.Decimal `json:"kra_score"`
}

func (s *service) computeRating(ctx context.Context, rv *EmployeeReview, req FinalizeReviewRequest) (decimal.Decimal, error) {
	feedbackAvg, err := s.feedback.AverageOf(ctx, rv.ID.String())
	if err != nil {
		return decimal.Zero, err
	}

	var scores selfAssessmentScores
	if len(rv.SelfAssessmentData) > 0 {
		// Payload is employee-supplied; ignore shapes we do not understand.
		_ = json.Unmarshal(rv.SelfAssessmentData, &scores)
	}

	kra := req.KRAScore
	if kra == nil {
		kra = scores.KRAScore
	}

	return rating.Compute(rating.Inputs{
		SelfAssessment:  scores.OverallSelfRating,
		FeedbackAverage: feedbackAvg,
		L3Manager:       req.L3Rating,
		KRAAchievement:  kra,
	}), nil
}

func (s *service) loadReviewWithSubject(ctx context.Context, reviewID string) (*EmployeeReview, *employee.Employee, error) {
	if _, err := uuid.Parse(reviewID); err != nil {
		return nil, nil, reviewerrors.ErrInvalidReviewID
	}

	rv, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, reviewerrors.ErrReviewNotFound
		}
		return nil, nil, err
	}

	subject, err := s.employeeRepo.FindByID(ctx, rv.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, reviewerrors.ErrReviewNotFound
		}
		return nil, nil, err
	}

	return rv, subject, nil
}

func (s *service) actor(ctx context.Context, actorID string) (authz.Actor, error) {
	e, err := s.employeeRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authz.Actor{}, reviewerrors.ErrNotPermitted
		}
		return authz.Actor{}, err
	}
	return authz.Actor{ID: e.ID.String(), Role: authz.Role(e.Role)}, nil
}

func (s *service) actorName(ctx context.Context, actorID string) string {
	e, err := s.employeeRepo.FindByID(ctx, actorID)
	if err != nil {
		return ""
	}
	return e.FullName()
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

func (s *service) enqueueNotification(ctx context.Context, tx *sql.Tx, reviewID, kind, recipient string, meta map[string]string) error {
	event := events.NewNotificationRequested(contextutil.GetRequestID(ctx), kind, recipient, meta)
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

// Activity logging is best effort; a failed audit write never fails the
// transition it records.
func (s *service) recordActivity(ctx context.Context, actorID, action, description, reviewID string) {
	if err := s.recorder.Record(ctx, actorID, action, description, "employee_review", reviewID); err != nil {
		s.logger.Warn("record activity failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func subjectContext(subject *employee.Employee) authz.Context {
	rc := authz.Context{EmployeeID: subject.ID.String()}
	if subject.ManagerID != nil {
		rc.ManagerID = subject.ManagerID.String()
	}
	return rc
}

func ratingInRange(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(decimal.NewFromInt(1)) && d.LessThanOrEqual(decimal.NewFromInt(5))
}
