package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-perf/internal/appeal"
	"go-perf/internal/authz"
	"go-perf/internal/cycle"
	cycleerrors "go-perf/internal/cycle/errors"
	dashboarderrors "go-perf/internal/dashboard/errors"
	"go-perf/internal/review"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const cacheTTL = 60 * time.Second

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	Stats(ctx context.Context, cycleID string) (Stats, error)
	RatingDistribution(ctx context.Context, cycleID string) ([]RatingBucket, error)
	DepartmentPerformance(ctx context.Context, cycleID string) ([]DepartmentStat, error)
	PendingActions(ctx context.Context, actorID, role string) (PendingActions, error)
}

type service struct {
	repo       Repository
	cycleRepo  cycle.Repository
	reviewRepo review.Repository
	appealRepo appeal.Repository
	cache      *redis.Client
	group      singleflight.Group
	logger     *zap.Logger
}

func NewService(
	repo Repository,
	cycleRepo cycle.Repository,
	reviewRepo review.Repository,
	appealRepo appeal.Repository,
	cache *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		repo:       repo,
		cycleRepo:  cycleRepo,
		reviewRepo: reviewRepo,
		appealRepo: appealRepo,
		cache:      cache,
		logger:     l,
	}
}

func (s *service) Stats(ctx context.Context, cycleID string) (Stats, error) {
	id, err := s.resolveCycle(ctx, cycleID)
	if err != nil {
		return Stats{}, err
	}

	var out Stats
	err = s.cached(ctx, "dashboard:stats:"+id, &out, func() (any, error) {
		return s.repo.Stats(ctx, id)
	})
	return out, err
}

func (s *service) RatingDistribution(ctx context.Context, cycleID string) ([]RatingBucket, error) {
	id, err := s.resolveCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	var out []RatingBucket
	err = s.cached(ctx, "dashboard:distribution:"+id, &out, func() (any, error) {
		return s.repo.RatingDistribution(ctx, id)
	})
	return out, err
}

func (s *service) DepartmentPerformance(ctx context.Context, cycleID string) ([]DepartmentStat, error) {
	id, err := s.resolveCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	var out []DepartmentStat
	err = s.cached(ctx, "dashboard:departments:"+id, &out, func() (any, error) {
		return s.repo.DepartmentPerformance(ctx, id)
	})
	return out, err
}

// PendingActions is per actor and cheap, so it skips the cache.
func (s *service) PendingActions(ctx context.Context, actorID, role string) (PendingActions, error) {
	var out PendingActions

	pending, err := s.reviewRepo.FindPendingByManager(ctx, actorID)
	if err != nil {
		return PendingActions{}, err
	}
	out.PendingApprovals = len(pending)

	r := authz.Role(role)
	if r == authz.RoleL2Manager || r == authz.RoleFounder {
		appeals, err := s.appealRepo.FindPending(ctx)
		if err != nil {
			return PendingActions{}, err
		}
		out.PendingAppeals = len(appeals)
	}

	return out, nil
}

// resolveCycle defaults to the active cycle when no id is given.
func (s *service) resolveCycle(ctx context.Context, cycleID string) (string, error) {
	if cycleID == "" {
		cy, err := s.cycleRepo.FindActive(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", cycleerrors.ErrNoActiveCycle
			}
			return "", err
		}
		return cy.ID.String(), nil
	}
	if _, err := uuid.Parse(cycleID); err != nil {
		return "", dashboarderrors.ErrInvalidCycleID
	}
	return cycleID, nil
}

// cached reads key from redis, falling back to fill behind a singleflight
// so a cold key is computed once under concurrent load. Cache errors
// degrade to direct reads.
func (s *service) cached(ctx context.Context, key string, out any, fill func() (any, error)) error {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			if err := json.Unmarshal(raw, out); err == nil {
				return nil
			}
			s.logger.Warn("corrupt cache entry dropped", zap.String("key", key))
			s.cache.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		v, err := fill()
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if raw, err := json.Marshal(v); err == nil {
				if err := s.cache.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
					s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return v, nil
	})
	if err != nil {
		return err
	}

	// Round-trip through JSON so every singleflight waiter gets its own copy.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode dashboard result: %w", err)
	}
	return json.Unmarshal(raw, out)
}
