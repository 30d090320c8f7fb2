package feedback

import (
	"context"
	"database/sql"
	"errors"
	"unicode/utf8"

	"go-perf/internal/authz"
	"go-perf/internal/employee"
	feedbackerrors "go-perf/internal/feedback/errors"
	"go-perf/internal/review"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minOverallLength   = 50
	minStrengthsLength = 10
)

const activityFeedbackSubmitted = "feedback_submitted"

// Recorder mirrors activity.Recorder without importing the package.
type Recorder interface {
	Record(ctx context.Context, userID, action, description string, entityType, entityID string) error
}

//go:generate mockgen -source=feedback_service.go -destination=mock/feedback_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, raterID, reviewID string, req SubmitFeedbackRequest) (FeedbackResponse, error)
	ListFor(ctx context.Context, reviewID string) ([]FeedbackResponse, error)
	ListGivenBy(ctx context.Context, raterID string) ([]FeedbackResponse, error)
	AverageOf(ctx context.Context, reviewID string) (*decimal.Decimal, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	reviewRepo   review.Repository
	employeeRepo employee.Repository
	recorder     Recorder
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	reviewRepo review.Repository,
	employeeRepo employee.Repository,
	recorder Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("feedback.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("feedback.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		reviewRepo:   reviewRepo,
		employeeRepo: employeeRepo,
		recorder:     recorder,
		logger:       l,
	}
}

func (s *service) Submit(ctx context.Context, raterID, reviewID string, req SubmitFeedbackRequest) (FeedbackResponse, error) {
	s.logger.Debug("submit feedback requested",
		zap.String("rater_id", raterID),
		zap.String("review_id", reviewID),
	)

	if err := validateSubmitRequest(req); err != nil {
		return FeedbackResponse{}, err
	}

	rv, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FeedbackResponse{}, feedbackerrors.ErrNotCollecting
		}
		return FeedbackResponse{}, err
	}

	rater, err := s.employeeRepo.FindByID(ctx, raterID)
	if err != nil {
		return FeedbackResponse{}, feedbackerrors.ErrNotPermitted
	}

	rc := authz.Context{EmployeeID: rv.EmployeeID.String()}
	actor := authz.Actor{ID: rater.ID.String(), Role: authz.Role(rater.Role)}
	if !authz.Permit(actor, authz.ActionSubmitFeedback, rc) {
		s.logger.Warn("submit feedback denied",
			zap.String("rater_id", raterID),
			zap.String("review_id", reviewID),
		)
		return FeedbackResponse{}, feedbackerrors.ErrNotPermitted
	}

	if rv.Status != review.StatusFeedbackCollection {
		return FeedbackResponse{}, feedbackerrors.ErrNotCollecting
	}

	isAnonymous := true
	if req.IsAnonymous != nil {
		isAnonymous = *req.IsAnonymous
	}

	f := &Feedback{
		ID:                  uuid.New(),
		ReviewID:            rv.ID,
		FeedbackFromID:      rater.ID,
		TechnicalCompetence: req.TechnicalCompetence,
		Communication:       req.Communication,
		Collaboration:       req.Collaboration,
		ProblemSolving:      req.ProblemSolving,
		LeadershipPotential: req.LeadershipPotential,
		Reliability:         req.Reliability,
		Innovation:          req.Innovation,
		OverallFeedback:     req.OverallFeedback,
		Strengths:           req.Strengths,
		Improvements:        req.Improvements,
		IsAnonymous:         isAnonymous,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return FeedbackResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsForRater(ctx, reviewID, raterID)
	if err != nil {
		return FeedbackResponse{}, err
	}
	if exists {
		return FeedbackResponse{}, feedbackerrors.ErrDuplicateFeedback
	}

	if err := qtx.Create(ctx, f); err != nil {
		return FeedbackResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return FeedbackResponse{}, err
	}

	if err := s.recorder.Record(ctx, raterID, activityFeedbackSubmitted,
		"Submitted 360 feedback", "employee_review", reviewID); err != nil {
		s.logger.Warn("record feedback activity failed", zap.Error(err))
	}

	s.logger.Info("submit feedback success",
		zap.String("feedback_id", f.ID.String()),
		zap.String("review_id", reviewID),
	)
	return mapToResponse(*f), nil
}

func (s *service) ListFor(ctx context.Context, reviewID string) ([]FeedbackResponse, error) {
	entries, err := s.repo.FindByReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(entries), nil
}

func (s *service) ListGivenBy(ctx context.Context, raterID string) ([]FeedbackResponse, error) {
	entries, err := s.repo.FindByRater(ctx, raterID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(entries), nil
}

// AverageOf returns nil, not zero, when a review has no feedback so the
// rating calculator can apply its neutral default instead of treating
// "no data" as a score.
func (s *service) AverageOf(ctx context.Context, reviewID string) (*decimal.Decimal, error) {
	entries, err := s.repo.FindByReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	sum := decimal.Zero
	for _, f := range entries {
		sum = sum.Add(f.scoringAverage())
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(entries))))
	return &avg, nil
}

func validateSubmitRequest(req SubmitFeedbackRequest) error {
	for _, v := range []int{
		req.TechnicalCompetence, req.Communication, req.Collaboration, req.ProblemSolving,
		req.LeadershipPotential, req.Reliability, req.Innovation,
	} {
		if v < 1 || v > 5 {
			return feedbackerrors.ErrInvalidCriterion
		}
	}
	if utf8.RuneCountInString(req.OverallFeedback) < minOverallLength {
		return feedbackerrors.ErrOverallTooShort
	}
	if utf8.RuneCountInString(req.Strengths) < minStrengthsLength {
		return feedbackerrors.ErrStrengthsTooShort
	}
	return nil
}

func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return feedbackerrors.ErrDuplicateFeedback
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return feedbackerrors.ErrDuplicateFeedback
	}
	return err
}
