package appeal_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-perf/internal/appeal"
	appealerrors "go-perf/internal/appeal/errors"
	"go-perf/internal/employee"
	"go-perf/internal/events"
	"go-perf/internal/messaging/kafka"
	"go-perf/internal/review"
	reviewerrors "go-perf/internal/review/errors"
)

type fakeAppealRepo struct {
	byID map[string]appeal.Appeal
}

func newFakeAppealRepo() *fakeAppealRepo {
	return &fakeAppealRepo{byID: map[string]appeal.Appeal{}}
}

func (f *fakeAppealRepo) WithTx(tx *sql.Tx) appeal.Repository { return f }

func (f *fakeAppealRepo) Create(ctx context.Context, a *appeal.Appeal) error {
	f.byID[a.ID.String()] = *a
	return nil
}

func (f *fakeAppealRepo) FindByID(ctx context.Context, id string) (*appeal.Appeal, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (f *fakeAppealRepo) FindByEmployee(ctx context.Context, employeeID string) ([]appeal.Appeal, error) {
	var out []appeal.Appeal
	for _, a := range f.byID {
		if a.EmployeeID.String() == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppealRepo) FindPending(ctx context.Context) ([]appeal.Appeal, error) {
	var out []appeal.Appeal
	for _, a := range f.byID {
		if a.Status == appeal.StatusPending {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppealRepo) Update(ctx context.Context, a *appeal.Appeal) error {
	f.byID[a.ID.String()] = *a
	return nil
}

type fakeReviewRepo struct {
	byID map[string]review.EmployeeReview
}

func (f *fakeReviewRepo) WithTx(tx *sql.Tx) review.Repository { return f }

func (f *fakeReviewRepo) Create(ctx context.Context, rv *review.EmployeeReview) error { return nil }

func (f *fakeReviewRepo) FindByID(ctx context.Context, id string) (*review.EmployeeReview, error) {
	rv, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rv, nil
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
	return nil, nil
}

func (f *fakeReviewRepo) FindByCycle(ctx context.Context, cycleID string) ([]review.EmployeeReview, error) {
	return nil, nil
}

func (f *fakeReviewRepo) UpdateWithRevision(ctx context.Context, rv *review.EmployeeReview) error {
	stored, ok := f.byID[rv.ID.String()]
	if !ok || stored.Revision != rv.Revision {
		return reviewerrors.ErrConcurrentUpdate
	}
	next := *rv
	next.Revision++
	f.byID[rv.ID.String()] = next
	rv.Revision++
	return nil
}

type fakeEmployeeRepo struct {
	byID map[string]*employee.Employee
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error { return nil }

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) { return nil, nil }

func (f *fakeEmployeeRepo) FindByRole(ctx context.Context, role string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindByManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error { return nil }

type fakeRecorder struct {
	actions []string
}

func (f *fakeRecorder) Record(ctx context.Context, userID, action, description, entityType, entityID string) error {
	f.actions = append(f.actions, action)
	return nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type harness struct {
	svc      appeal.Service
	mock     sqlmock.Sqlmock
	appeals  *fakeAppealRepo
	reviews  *fakeReviewRepo
	recorder *fakeRecorder
	outbox   *fakeOutbox

	subject *employee.Employee
	manager *employee.Employee
	l3      *employee.Employee
	peer    *employee.Employee
	rv      review.EmployeeReview
}

func newHarness(t *testing.T, reviewStatus string) *harness {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	manager := &employee.Employee{
		ID: uuid.New(), Email: "budi@example.com", FirstName: "Budi", Role: "l2_manager", IsActive: true,
	}
	subject := &employee.Employee{
		ID: uuid.New(), Email: "sari@example.com", FirstName: "Sari", Role: "peer",
		ManagerID: &manager.ID, IsActive: true,
	}
	l3 := &employee.Employee{
		ID: uuid.New(), Email: "tono@example.com", FirstName: "Tono", Role: "l3_manager", IsActive: true,
	}
	peer := &employee.Employee{
		ID: uuid.New(), Email: "rudi@example.com", FirstName: "Rudi", Role: "peer", IsActive: true,
	}

	rating := decimal.RequireFromString("3.4")
	rv := review.EmployeeReview{
		ID:          uuid.New(),
		EmployeeID:  subject.ID,
		CycleID:     uuid.New(),
		Status:      reviewStatus,
		FinalRating: &rating,
	}

	h := &harness{
		mock:     mock,
		appeals:  newFakeAppealRepo(),
		reviews:  &fakeReviewRepo{byID: map[string]review.EmployeeReview{rv.ID.String(): rv}},
		recorder: &fakeRecorder{},
		outbox:   &fakeOutbox{},
		subject:  subject,
		manager:  manager,
		l3:       l3,
		peer:     peer,
		rv:       rv,
	}

	emps := &fakeEmployeeRepo{byID: map[string]*employee.Employee{
		subject.ID.String(): subject,
		manager.ID.String(): manager,
		l3.ID.String():      l3,
		peer.ID.String():    peer,
	}}

	h.svc = appeal.NewService(db, h.appeals, h.reviews, emps, h.recorder, h.outbox)
	return h
}

func (h *harness) expectTx() {
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
}

func (h *harness) seedAppeal(status string) *appeal.Appeal {
	a := appeal.Appeal{
		ID:             uuid.New(),
		ReviewID:       h.rv.ID,
		EmployeeID:     h.subject.ID,
		Reason:         "The rating ignores the migration project I led in Q2.",
		DesiredOutcome: "Re-evaluation of the final rating",
		Status:         status,
	}
	h.appeals.byID[a.ID.String()] = a
	return &a
}

func fileRequest(reviewID string) appeal.FileAppealRequest {
	return appeal.FileAppealRequest{
		ReviewID:       reviewID,
		Reason:         "The rating ignores the migration project I led in Q2.",
		DesiredOutcome: "Re-evaluation of the final rating",
	}
}

func TestAppealService_File(t *testing.T) {
	ctx := context.Background()

	t.Run("employee appeals a completed review", func(t *testing.T) {
		h := newHarness(t, review.StatusCompleted)
		h.expectTx()

		resp, err := h.svc.File(ctx, h.subject.ID.String(), fileRequest(h.rv.ID.String()))

		require.NoError(t, err)
		assert.Equal(t, appeal.StatusPending, resp.Status)

		stored := h.reviews.byID[h.rv.ID.String()]
		assert.Equal(t, review.StatusAppealRequested, stored.Status)
		assert.True(t, stored.AppealUsed)
		assert.Equal(t, []string{"appeal_submitted"}, h.recorder.actions)
		assert.Len(t, h.outbox.events, 1)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("the appeal is single use", func(t *testing.T) {
		h := newHarness(t, review.StatusCompleted)
		h.expectTx()

		_, err := h.svc.File(ctx, h.subject.ID.String(), fileRequest(h.rv.ID.String()))
		require.NoError(t, err)

		_, err = h.svc.File(ctx, h.subject.ID.String(), fileRequest(h.rv.ID.String()))
		assert.ErrorIs(t, err, appealerrors.ErrAppealAlreadyUsed)
	})

	t.Run("used flag wins over status", func(t *testing.T) {
		h := newHarness(t, review.StatusAppealCompleted)
		rv := h.reviews.byID[h.rv.ID.String()]
		rv.AppealUsed = true
		h.reviews.byID[h.rv.ID.String()] = rv

		_, err := h.svc.File(ctx, h.subject.ID.String(), fileRequest(h.rv.ID.String()))
		assert.ErrorIs(t, err, appealerrors.ErrAppealAlreadyUsed)
	})

	t.Run("only completed reviews can be appealed", func(t *testing.T) {
		h := newHarness(t, review.StatusManagerReview)

		_, err := h.svc.File(ctx, h.subject.ID.String(), fileRequest(h.rv.ID.String()))
		assert.ErrorIs(t, err, appealerrors.ErrReviewNotCompleted)
	})

	t.Run("only the reviewed employee can appeal", func(t *testing.T) {
		h := newHarness(t, review.StatusCompleted)

		_, err := h.svc.File(ctx, h.peer.ID.String(), fileRequest(h.rv.ID.String()))
		assert.ErrorIs(t, err, appealerrors.ErrNotPermitted)
	})
}

func TestAppealService_Resolve(t *testing.T) {
	ctx := context.Background()

	pendingSetup := func(t *testing.T) (*harness, *appeal.Appeal) {
		h := newHarness(t, review.StatusAppealRequested)
		rv := h.reviews.byID[h.rv.ID.String()]
		rv.AppealUsed = true
		h.reviews.byID[h.rv.ID.String()] = rv
		return h, h.seedAppeal(appeal.StatusPending)
	}

	t.Run("l2 accepts with an override rating", func(t *testing.T) {
		h, a := pendingSetup(t)
		h.expectTx()

		override := decimal.RequireFromString("4.1")
		resp, err := h.svc.Resolve(ctx, h.manager.ID.String(), a.ID.String(), appeal.ResolveAppealRequest{
			Decision:       appeal.StatusAccepted,
			Response:       "Rating adjusted after reviewing the Q2 migration work.",
			OverrideRating: &override,
		})

		require.NoError(t, err)
		assert.Equal(t, appeal.StatusAccepted, resp.Status)
		require.NotNil(t, resp.FinalRating)
		assert.True(t, resp.FinalRating.Equal(override))

		stored := h.reviews.byID[h.rv.ID.String()]
		assert.Equal(t, review.StatusAppealCompleted, stored.Status)
		require.NotNil(t, stored.FinalRating)
		assert.True(t, stored.FinalRating.Equal(override))
		assert.Equal(t, []string{"appeal_processed"}, h.recorder.actions)

		require.Len(t, h.outbox.events, 1)
		var event events.NotificationRequested
		require.NoError(t, json.Unmarshal(h.outbox.events[0].Payload, &event))
		assert.Equal(t, h.subject.Email, event.Recipient)
		assert.Equal(t, h.manager.FullName(), event.Context["manager_name"])
	})

	t.Run("rejection keeps the original rating", func(t *testing.T) {
		h, a := pendingSetup(t)
		h.expectTx()

		resp, err := h.svc.Resolve(ctx, h.manager.ID.String(), a.ID.String(), appeal.ResolveAppealRequest{
			Decision: appeal.StatusRejected,
			Response: "The original assessment stands.",
		})

		require.NoError(t, err)
		assert.Equal(t, appeal.StatusRejected, resp.Status)

		stored := h.reviews.byID[h.rv.ID.String()]
		assert.Equal(t, review.StatusAppealCompleted, stored.Status)
		assert.True(t, stored.FinalRating.Equal(decimal.RequireFromString("3.4")))
	})

	t.Run("l3 manager cannot resolve", func(t *testing.T) {
		h, a := pendingSetup(t)

		_, err := h.svc.Resolve(ctx, h.l3.ID.String(), a.ID.String(), appeal.ResolveAppealRequest{
			Decision: appeal.StatusAccepted,
			Response: "Trying to resolve above my level.",
		})
		assert.ErrorIs(t, err, appealerrors.ErrNotPermitted)
	})

	t.Run("already resolved", func(t *testing.T) {
		h := newHarness(t, review.StatusAppealCompleted)
		a := h.seedAppeal(appeal.StatusRejected)

		_, err := h.svc.Resolve(ctx, h.manager.ID.String(), a.ID.String(), appeal.ResolveAppealRequest{
			Decision: appeal.StatusAccepted,
			Response: "Second thoughts are not allowed.",
		})
		assert.ErrorIs(t, err, appealerrors.ErrAlreadyResolved)
	})

	t.Run("unknown decision", func(t *testing.T) {
		h, a := pendingSetup(t)

		_, err := h.svc.Resolve(ctx, h.manager.ID.String(), a.ID.String(), appeal.ResolveAppealRequest{
			Decision: "escalated",
			Response: "Not a recognised outcome.",
		})
		assert.ErrorIs(t, err, appealerrors.ErrInvalidDecision)
	})
}

func TestAppealService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted appeal is closed out", func(t *testing.T) {
		h := newHarness(t, review.StatusAppealCompleted)
		a := h.seedAppeal(appeal.StatusAccepted)

		resp, err := h.svc.Complete(ctx, h.manager.ID.String(), a.ID.String())

		require.NoError(t, err)
		assert.Equal(t, appeal.StatusCompleted, resp.Status)
		assert.Equal(t, []string{"appeal_completed"}, h.recorder.actions)
	})

	t.Run("pending appeal cannot be completed", func(t *testing.T) {
		h := newHarness(t, review.StatusAppealRequested)
		a := h.seedAppeal(appeal.StatusPending)

		_, err := h.svc.Complete(ctx, h.manager.ID.String(), a.ID.String())
		assert.ErrorIs(t, err, appealerrors.ErrNotResolved)
	})
}

func TestAppealService_ListPending(t *testing.T) {
	ctx := context.Background()

	t.Run("l2 sees the queue", func(t *testing.T) {
		h := newHarness(t, review.StatusAppealRequested)
		h.seedAppeal(appeal.StatusPending)
		h.seedAppeal(appeal.StatusRejected)

		out, err := h.svc.ListPending(ctx, h.manager.ID.String())

		require.NoError(t, err)
		assert.Len(t, out, 1)
	})

	t.Run("peers are shut out", func(t *testing.T) {
		h := newHarness(t, review.StatusAppealRequested)

		_, err := h.svc.ListPending(ctx, h.peer.ID.String())
		assert.ErrorIs(t, err, appealerrors.ErrNotPermitted)
	})
}
