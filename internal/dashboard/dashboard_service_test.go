package dashboard_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-perf/internal/appeal"
	"go-perf/internal/cycle"
	cycleerrors "go-perf/internal/cycle/errors"
	"go-perf/internal/dashboard"
	dashboarderrors "go-perf/internal/dashboard/errors"
	"go-perf/internal/review"
)

type fakeDashboardRepo struct {
	stats      dashboard.Stats
	statsCalls int
}

func (f *fakeDashboardRepo) Stats(ctx context.Context, cycleID string) (dashboard.Stats, error) {
	f.statsCalls++
	return f.stats, nil
}

func (f *fakeDashboardRepo) RatingDistribution(ctx context.Context, cycleID string) ([]dashboard.RatingBucket, error) {
	return []dashboard.RatingBucket{{Rating: 4, Count: 7}}, nil
}

func (f *fakeDashboardRepo) DepartmentPerformance(ctx context.Context, cycleID string) ([]dashboard.DepartmentStat, error) {
	return nil, nil
}

type fakeCycleRepo struct {
	active *cycle.ReviewCycle
}

func (f *fakeCycleRepo) WithTx(tx *sql.Tx) cycle.Repository { return f }

func (f *fakeCycleRepo) Create(ctx context.Context, cy *cycle.ReviewCycle) error { return nil }

func (f *fakeCycleRepo) FindByID(ctx context.Context, id string) (*cycle.ReviewCycle, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCycleRepo) FindActive(ctx context.Context) (*cycle.ReviewCycle, error) {
	if f.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.active, nil
}

func (f *fakeCycleRepo) FindAll(ctx context.Context) ([]cycle.ReviewCycle, error) { return nil, nil }

func (f *fakeCycleRepo) DeactivateAll(ctx context.Context) error { return nil }

func (f *fakeCycleRepo) SetActive(ctx context.Context, id string, active bool) error { return nil }

type fakeReviewRepo struct {
	pending []review.EmployeeReview
}

func (f *fakeReviewRepo) WithTx(tx *sql.Tx) review.Repository { return f }

func (f *fakeReviewRepo) Create(ctx context.Context, rv *review.EmployeeReview) error { return nil }

func (f *fakeReviewRepo) FindByID(ctx context.Context, id string) (*review.EmployeeReview, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) FindByEmployeeAndCycle(ctx context.Context, employeeID, cycleID string) (*review.EmployeeReview, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) FindByEmployee(ctx context.Context, employeeID string) ([]review.EmployeeReview, error) {
	return nil, nil
}

func (f *fakeReviewRepo) FindByManager(ctx context.Context, managerID string) ([]review.EmployeeReview, error) {
	return nil, nil
}

func (f *fakeReviewRepo) FindPendingByManager(ctx context.Context, managerID string) ([]review.EmployeeReview, error) {
	return f.pending, nil
}

func (f *fakeReviewRepo) FindByCycle(ctx context.Context, cycleID string) ([]review.EmployeeReview, error) {
	return nil, nil
}

func (f *fakeReviewRepo) UpdateWithRevision(ctx context.Context, rv *review.EmployeeReview) error {
	return nil
}

type fakeAppealRepo struct {
	pending []appeal.Appeal
}

func (f *fakeAppealRepo) WithTx(tx *sql.Tx) appeal.Repository { return f }

func (f *fakeAppealRepo) Create(ctx context.Context, a *appeal.Appeal) error { return nil }

func (f *fakeAppealRepo) FindByID(ctx context.Context, id string) (*appeal.Appeal, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAppealRepo) FindByEmployee(ctx context.Context, employeeID string) ([]appeal.Appeal, error) {
	return nil, nil
}

func (f *fakeAppealRepo) FindPending(ctx context.Context) ([]appeal.Appeal, error) {
	return f.pending, nil
}

func (f *fakeAppealRepo) Update(ctx context.Context, a *appeal.Appeal) error { return nil }

func TestDashboardService_Stats(t *testing.T) {
	ctx := context.Background()
	cycleID := uuid.New().String()
	avg := decimal.RequireFromString("3.8")
	stats := dashboard.Stats{TotalReviews: 12, CompletedReviews: 9, AverageRating: &avg}

	t.Run("cache miss fills and stores", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := &fakeDashboardRepo{stats: stats}
		svc := dashboard.NewService(repo, &fakeCycleRepo{}, &fakeReviewRepo{}, &fakeAppealRepo{}, rdb)

		key := "dashboard:stats:" + cycleID
		cached, err := json.Marshal(stats)
		require.NoError(t, err)
		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, cached, 60*time.Second).SetVal("OK")

		out, err := svc.Stats(ctx, cycleID)

		require.NoError(t, err)
		assert.Equal(t, int64(12), out.TotalReviews)
		assert.Equal(t, 1, repo.statsCalls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := &fakeDashboardRepo{}
		svc := dashboard.NewService(repo, &fakeCycleRepo{}, &fakeReviewRepo{}, &fakeAppealRepo{}, rdb)

		cached, err := json.Marshal(stats)
		require.NoError(t, err)
		mock.ExpectGet("dashboard:stats:" + cycleID).SetVal(string(cached))

		out, err := svc.Stats(ctx, cycleID)

		require.NoError(t, err)
		assert.Equal(t, int64(9), out.CompletedReviews)
		assert.Equal(t, 0, repo.statsCalls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("defaults to the active cycle", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := &fakeDashboardRepo{stats: stats}
		active := &cycle.ReviewCycle{ID: uuid.New(), Name: "H1 2026", IsActive: true}
		svc := dashboard.NewService(repo, &fakeCycleRepo{active: active}, &fakeReviewRepo{}, &fakeAppealRepo{}, rdb)

		key := "dashboard:stats:" + active.ID.String()
		cached, err := json.Marshal(stats)
		require.NoError(t, err)
		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, cached, 60*time.Second).SetVal("OK")

		_, err = svc.Stats(ctx, "")
		require.NoError(t, err)
	})

	t.Run("no active cycle", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := dashboard.NewService(&fakeDashboardRepo{}, &fakeCycleRepo{}, &fakeReviewRepo{}, &fakeAppealRepo{}, rdb)

		_, err := svc.Stats(ctx, "")
		assert.ErrorIs(t, err, cycleerrors.ErrNoActiveCycle)
	})

	t.Run("malformed cycle id", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := dashboard.NewService(&fakeDashboardRepo{}, &fakeCycleRepo{}, &fakeReviewRepo{}, &fakeAppealRepo{}, rdb)

		_, err := svc.Stats(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, dashboarderrors.ErrInvalidCycleID)
	})
}

func TestDashboardService_PendingActions(t *testing.T) {
	ctx := context.Background()

	reviews := &fakeReviewRepo{pending: []review.EmployeeReview{{ID: uuid.New()}, {ID: uuid.New()}}}
	appeals := &fakeAppealRepo{pending: []appeal.Appeal{{ID: uuid.New()}}}

	t.Run("l2 sees approvals and appeals", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := dashboard.NewService(&fakeDashboardRepo{}, &fakeCycleRepo{}, reviews, appeals, rdb)

		out, err := svc.PendingActions(ctx, uuid.New().String(), "l2_manager")

		require.NoError(t, err)
		assert.Equal(t, 2, out.PendingApprovals)
		assert.Equal(t, 1, out.PendingAppeals)
	})

	t.Run("l3 does not see the appeal queue", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := dashboard.NewService(&fakeDashboardRepo{}, &fakeCycleRepo{}, reviews, appeals, rdb)

		out, err := svc.PendingActions(ctx, uuid.New().String(), "l3_manager")

		require.NoError(t, err)
		assert.Equal(t, 2, out.PendingApprovals)
		assert.Equal(t, 0, out.PendingAppeals)
	})
}
