package review_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-perf/internal/cycle"
	cycleerrors "go-perf/internal/cycle/errors"
	"go-perf/internal/employee"
	"go-perf/internal/events"
	"go-perf/internal/meeting"
	"go-perf/internal/messaging/kafka"
	"go-perf/internal/review"
	reviewerrors "go-perf/internal/review/errors"
)

type fakeReviewRepo struct {
	byID             map[string]review.EmployeeReview
	conflictOnUpdate bool
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{byID: map[string]review.EmployeeReview{}}
}

func (f *fakeReviewRepo) WithTx(tx *sql.Tx) review.Repository { return f }

func (f *fakeReviewRepo) Create(ctx context.Context, rv *review.EmployeeReview) error {
	f.byID[rv.ID.String()] = *rv
	return nil
}

func (f *fakeReviewRepo) FindByID(ctx context.Context, id string) (*review.EmployeeReview, error) {
	rv, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rv, nil
}

func (f *fakeReviewRepo) FindByEmployeeAndCycle(ctx context.Context, employeeID, cycleID string) (*review.EmployeeReview, error) {
	for _, rv := range f.byID {
		if rv.EmployeeID.String() == employeeID && rv.CycleID.String() == cycleID {
			return &rv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) FindByEmployee(ctx context.Context, employeeID string) ([]review.EmployeeReview, error) {
	var out []review.EmployeeReview
	for _, rv := range f.byID {
		if rv.EmployeeID.String() == employeeID {
			out = append(out, rv)
		}
	}
	return out, nil
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
	if f.conflictOnUpdate {
		return reviewerrors.ErrConcurrentUpdate
	}
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

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{byID: map[string]*employee.Employee{}}
}

func (f *fakeEmployeeRepo) add(e *employee.Employee) { f.byID[e.ID.String()] = e }

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error {
	f.add(e)
	return nil
}

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

func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindByRole(ctx context.Context, role string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindByManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error {
	f.add(e)
	return nil
}

type fakeCycleRepo struct {
	active *cycle.ReviewCycle
}

func (f *fakeCycleRepo) WithTx(tx *sql.Tx) cycle.Repository { return f }

func (f *fakeCycleRepo) Create(ctx context.Context, cy *cycle.ReviewCycle) error { return nil }

func (f *fakeCycleRepo) FindByID(ctx context.Context, id string) (*cycle.ReviewCycle, error) {
	if f.active != nil && f.active.ID.String() == id {
		return f.active, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCycleRepo) FindActive(ctx context.Context) (*cycle.ReviewCycle, error) {
	if f.active != nil && f.active.IsActive {
		return f.active, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCycleRepo) FindAll(ctx context.Context) ([]cycle.ReviewCycle, error) { return nil, nil }

func (f *fakeCycleRepo) DeactivateAll(ctx context.Context) error { return nil }

func (f *fakeCycleRepo) SetActive(ctx context.Context, id string, active bool) error { return nil }

type fakeMeetingRepo struct {
	created []meeting.Meeting
}

func (f *fakeMeetingRepo) WithTx(tx *sql.Tx) meeting.Repository { return f }

func (f *fakeMeetingRepo) Create(ctx context.Context, m *meeting.Meeting) error {
	f.created = append(f.created, *m)
	return nil
}

func (f *fakeMeetingRepo) FindByID(ctx context.Context, id string) (*meeting.Meeting, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMeetingRepo) FindByReview(ctx context.Context, reviewID string) ([]meeting.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) FindByEmployee(ctx context.Context, employeeID string) ([]meeting.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) FindByManager(ctx context.Context, managerID string) ([]meeting.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) UpdateStatus(ctx context.Context, id, status string, notes *string) error {
	return nil
}

type fakeAverager struct {
	avg *decimal.Decimal
}

func (f *fakeAverager) AverageOf(ctx context.Context, reviewID string) (*decimal.Decimal, error) {
	return f.avg, nil
}

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

func (f *fakeOutbox) lastKind(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.events)

	var event events.NotificationRequested
	require.NoError(t, json.Unmarshal(f.events[len(f.events)-1].Payload, &event))
	return event.Kind
}

// harness wires the review service against in-memory fakes. The sqlmock
// connection only carries transaction begin/commit traffic; the fakes
// ignore the *sql.Tx handed to them.
type harness struct {
	svc      review.Service
	mock     sqlmock.Sqlmock
	reviews  *fakeReviewRepo
	emps     *fakeEmployeeRepo
	cycles   *fakeCycleRepo
	meetings *fakeMeetingRepo
	averager *fakeAverager
	recorder *fakeRecorder
	outbox   *fakeOutbox

	founder  *employee.Employee
	manager  *employee.Employee
	employee *employee.Employee
	peer     *employee.Employee
	cycle    *cycle.ReviewCycle
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &harness{
		mock:     mock,
		reviews:  newFakeReviewRepo(),
		emps:     newFakeEmployeeRepo(),
		cycles:   &fakeCycleRepo{},
		meetings: &fakeMeetingRepo{},
		averager: &fakeAverager{},
		recorder: &fakeRecorder{},
		outbox:   &fakeOutbox{},
	}

	h.founder = &employee.Employee{
		ID: uuid.New(), Email: "dewi@example.com", FirstName: "Dewi", Role: "founder", IsActive: true,
	}
	h.manager = &employee.Employee{
		ID: uuid.New(), Email: "budi@example.com", FirstName: "Budi", Role: "l2_manager", IsActive: true,
	}
	h.employee = &employee.Employee{
		ID: uuid.New(), Email: "sari@example.com", FirstName: "Sari", Role: "peer",
		ManagerID: &h.manager.ID, IsActive: true,
	}
	h.peer = &employee.Employee{
		ID: uuid.New(), Email: "rudi@example.com", FirstName: "Rudi", Role: "peer", IsActive: true,
	}
	for _, e := range []*employee.Employee{h.founder, h.manager, h.employee, h.peer} {
		h.emps.add(e)
	}

	now := time.Now()
	h.cycle = &cycle.ReviewCycle{
		ID: uuid.New(), Name: "H1 2026",
		StartDate: now, EndDate: now.AddDate(0, 6, 0),
		SelfAssessmentDeadline: now.AddDate(0, 0, 14),
		FeedbackDeadline:       now.AddDate(0, 1, 0),
		ReviewDeadline:         now.AddDate(0, 2, 0),
		MeetingDeadline:        now.AddDate(0, 3, 0),
		IsActive:               true,
	}
	h.cycles.active = h.cycle

	h.svc = review.NewService(
		db, h.reviews, h.emps, h.cycles, h.meetings,
		h.averager, h.recorder, h.outbox,
	)
	return h
}

func (h *harness) expectTx() {
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
}

func (h *harness) expectTxRollback() {
	h.mock.ExpectBegin()
	h.mock.ExpectRollback()
}

func (h *harness) seedReview(status string) *review.EmployeeReview {
	rv := review.EmployeeReview{
		ID:         uuid.New(),
		EmployeeID: h.employee.ID,
		CycleID:    h.cycle.ID,
		Status:     status,
	}
	h.reviews.byID[rv.ID.String()] = rv
	return &rv
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("manager opens review in active cycle", func(t *testing.T) {
		h := newHarness(t)
		h.expectTx()

		resp, err := h.svc.Create(ctx, h.manager.ID.String(), review.CreateReviewRequest{
			EmployeeID: h.employee.ID.String(),
			CycleID:    h.cycle.ID.String(),
		})

		require.NoError(t, err)
		assert.Equal(t, review.StatusSelfAssessment, resp.Status)
		assert.Equal(t, []string{"review_created"}, h.recorder.actions)
		assert.Equal(t, events.KindReviewNotification, h.outbox.lastKind(t))
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("peer cannot open a review for someone else", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.svc.Create(ctx, h.peer.ID.String(), review.CreateReviewRequest{
			EmployeeID: h.employee.ID.String(),
			CycleID:    h.cycle.ID.String(),
		})
		assert.ErrorIs(t, err, reviewerrors.ErrNotPermitted)
	})

	t.Run("inactive cycle is rejected", func(t *testing.T) {
		h := newHarness(t)
		h.cycle.IsActive = false

		_, err := h.svc.Create(ctx, h.manager.ID.String(), review.CreateReviewRequest{
			EmployeeID: h.employee.ID.String(),
			CycleID:    h.cycle.ID.String(),
		})
		assert.ErrorIs(t, err, cycleerrors.ErrNoActiveCycle)
	})

	t.Run("one review per employee per cycle", func(t *testing.T) {
		h := newHarness(t)
		h.seedReview(review.StatusSelfAssessment)

		_, err := h.svc.Create(ctx, h.manager.ID.String(), review.CreateReviewRequest{
			EmployeeID: h.employee.ID.String(),
			CycleID:    h.cycle.ID.String(),
		})
		assert.ErrorIs(t, err, reviewerrors.ErrReviewExists)
	})
}

func TestReviewService_SubmitSelfAssessment(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"achievements": "shipped the billing revamp"}`)

	t.Run("creates the review lazily and starts feedback collection", func(t *testing.T) {
		h := newHarness(t)
		h.expectTx()

		resp, err := h.svc.SubmitSelfAssessment(ctx, h.employee.ID.String(), review.SubmitSelfAssessmentRequest{
			Data: payload,
		})

		require.NoError(t, err)
		assert.Equal(t, review.StatusFeedbackCollection, resp.Status)
		assert.Equal(t, []string{"self_assessment_completed"}, h.recorder.actions)
		assert.Equal(t, events.KindReviewNotification, h.outbox.lastKind(t))
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("cannot resubmit once past self assessment", func(t *testing.T) {
		h := newHarness(t)
		h.seedReview(review.StatusManagerReview)

		_, err := h.svc.SubmitSelfAssessment(ctx, h.employee.ID.String(), review.SubmitSelfAssessmentRequest{
			Data: payload,
		})
		assert.ErrorIs(t, err, reviewerrors.ErrInvalidTransition)
	})

	t.Run("empty payload is rejected", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.svc.SubmitSelfAssessment(ctx, h.employee.ID.String(), review.SubmitSelfAssessmentRequest{})
		assert.ErrorIs(t, err, reviewerrors.ErrMissingSelfAssessment)
	})
}

func TestReviewService_AdvanceToManagerReview(t *testing.T) {
	ctx := context.Background()

	t.Run("manager closes feedback collection", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusFeedbackCollection)
		h.expectTx()

		resp, err := h.svc.AdvanceToManagerReview(ctx, h.manager.ID.String(), rv.ID.String())

		require.NoError(t, err)
		assert.Equal(t, review.StatusManagerReview, resp.Status)
		assert.Equal(t, []string{"manager_review_started"}, h.recorder.actions)
	})

	t.Run("peer cannot advance", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusFeedbackCollection)

		_, err := h.svc.AdvanceToManagerReview(ctx, h.peer.ID.String(), rv.ID.String())
		assert.ErrorIs(t, err, reviewerrors.ErrNotPermitted)
	})

	t.Run("cannot skip feedback collection", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusSelfAssessment)

		_, err := h.svc.AdvanceToManagerReview(ctx, h.manager.ID.String(), rv.ID.String())
		assert.ErrorIs(t, err, reviewerrors.ErrInvalidTransition)
	})
}

func TestReviewService_SetManagerComments(t *testing.T) {
	ctx := context.Background()

	t.Run("comments land on the actor's level", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusManagerReview)

		resp, err := h.svc.SetManagerComments(ctx, h.manager.ID.String(), rv.ID.String(), review.ManagerCommentsRequest{
			Comments: "Strong delivery this half, needs more cross-team visibility.",
		})

		require.NoError(t, err)
		require.NotNil(t, resp.L2Comments)
		assert.Nil(t, resp.L3Comments)
	})

	t.Run("founder writes to the founder level", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusManagerReview)

		resp, err := h.svc.SetManagerComments(ctx, h.founder.ID.String(), rv.ID.String(), review.ManagerCommentsRequest{
			Comments: "Agree with the increment recommendation.",
		})

		require.NoError(t, err)
		require.NotNil(t, resp.FounderComments)
	})

	t.Run("only valid during manager review", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusFeedbackCollection)

		_, err := h.svc.SetManagerComments(ctx, h.manager.ID.String(), rv.ID.String(), review.ManagerCommentsRequest{
			Comments: "Too early for this note.",
		})
		assert.ErrorIs(t, err, reviewerrors.ErrInvalidTransition)
	})

	t.Run("the reviewed employee cannot comment", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusManagerReview)

		_, err := h.svc.SetManagerComments(ctx, h.employee.ID.String(), rv.ID.String(), review.ManagerCommentsRequest{
			Comments: "Reviewing my own review.",
		})
		assert.ErrorIs(t, err, reviewerrors.ErrNotPermitted)
	})
}

func TestReviewService_ScheduleMeeting(t *testing.T) {
	ctx := context.Background()
	when := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)

	t.Run("direct manager books the one on one", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusManagerReview)
		h.expectTx()

		resp, err := h.svc.ScheduleMeeting(ctx, h.manager.ID.String(), rv.ID.String(), review.ScheduleMeetingRequest{
			ScheduledAt: when,
		})

		require.NoError(t, err)
		assert.Equal(t, review.StatusMeetingScheduled, resp.Status)
		require.Len(t, h.meetings.created, 1)
		assert.Equal(t, meeting.DefaultDurationMinutes, h.meetings.created[0].DurationMinutes)
		assert.Equal(t, events.KindMeetingInvitation, h.outbox.lastKind(t))
	})

	t.Run("non direct manager is rejected", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusManagerReview)

		_, err := h.svc.ScheduleMeeting(ctx, h.founder.ID.String(), rv.ID.String(), review.ScheduleMeetingRequest{
			ScheduledAt: when,
		})
		assert.ErrorIs(t, err, reviewerrors.ErrNotPermitted)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusManagerReview)

		_, err := h.svc.ScheduleMeeting(ctx, h.manager.ID.String(), rv.ID.String(), review.ScheduleMeetingRequest{
			ScheduledAt: "next tuesday",
		})
		assert.ErrorIs(t, err, cycleerrors.ErrInvalidDateFormat)
	})
}

func TestReviewService_Finalize(t *testing.T) {
	ctx := context.Background()

	t.Run("computes the weighted rating", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusMeetingScheduled)
		rv.SelfAssessmentData = json.RawMessage(`{"overall_self_rating": 4, "kra_score": 5}`)
		h.reviews.byID[rv.ID.String()] = *rv
		h.averager.avg = dec("4.25")
		h.expectTx()

		resp, err := h.svc.Finalize(ctx, h.manager.ID.String(), rv.ID.String(), review.FinalizeReviewRequest{
			FinalIncrementPercentage: dec("12.5"),
			L3Rating:                 dec("4"),
		})

		require.NoError(t, err)
		assert.Equal(t, review.StatusCompleted, resp.Status)
		require.NotNil(t, resp.FinalRating)
		// 0.4*4 + 0.3*4.25 + 0.2*4 + 0.1*5 = 4.175, rounded to 4.2
		assert.True(t, resp.FinalRating.Equal(decimal.RequireFromString("4.2")),
			"got %s", resp.FinalRating)
		assert.Equal(t, []string{"review_completed"}, h.recorder.actions)
	})

	t.Run("missing sources fall back to the neutral default", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusMeetingScheduled)
		h.expectTx()

		resp, err := h.svc.Finalize(ctx, h.manager.ID.String(), rv.ID.String(), review.FinalizeReviewRequest{
			FinalIncrementPercentage: dec("5"),
		})

		require.NoError(t, err)
		assert.True(t, resp.FinalRating.Equal(decimal.NewFromInt(3)),
			"got %s", resp.FinalRating)
	})

	t.Run("explicit rating overrides the computation", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusMeetingScheduled)
		h.averager.avg = dec("1.0")
		h.expectTx()

		resp, err := h.svc.Finalize(ctx, h.manager.ID.String(), rv.ID.String(), review.FinalizeReviewRequest{
			FinalRating:              dec("4.9"),
			FinalIncrementPercentage: dec("15"),
		})

		require.NoError(t, err)
		assert.True(t, resp.FinalRating.Equal(decimal.RequireFromString("4.9")))
	})

	t.Run("increment is mandatory", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusMeetingScheduled)

		_, err := h.svc.Finalize(ctx, h.manager.ID.String(), rv.ID.String(), review.FinalizeReviewRequest{})
		assert.ErrorIs(t, err, reviewerrors.ErrMissingIncrement)
	})

	t.Run("rating outside the scale is rejected", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusMeetingScheduled)

		_, err := h.svc.Finalize(ctx, h.manager.ID.String(), rv.ID.String(), review.FinalizeReviewRequest{
			FinalRating:              dec("5.5"),
			FinalIncrementPercentage: dec("10"),
		})
		assert.ErrorIs(t, err, reviewerrors.ErrInvalidRating)
	})

	t.Run("stale revision surfaces as a conflict", func(t *testing.T) {
		h := newHarness(t)
		rv := h.seedReview(review.StatusMeetingScheduled)
		h.reviews.conflictOnUpdate = true
		h.expectTxRollback()

		_, err := h.svc.Finalize(ctx, h.manager.ID.String(), rv.ID.String(), review.FinalizeReviewRequest{
			FinalIncrementPercentage: dec("10"),
		})
		assert.ErrorIs(t, err, reviewerrors.ErrConcurrentUpdate)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})
}

// The whole lifecycle in order, asserting one activity entry per transition.
func TestReviewService_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.averager.avg = dec("4.25")
	for i := 0; i < 5; i++ {
		h.expectTx()
	}

	created, err := h.svc.Create(ctx, h.manager.ID.String(), review.CreateReviewRequest{
		EmployeeID: h.employee.ID.String(),
		CycleID:    h.cycle.ID.String(),
	})
	require.NoError(t, err)

	_, err = h.svc.SubmitSelfAssessment(ctx, h.employee.ID.String(), review.SubmitSelfAssessmentRequest{
		Data: json.RawMessage(`{"overall_self_rating": 4}`),
	})
	require.NoError(t, err)

	_, err = h.svc.AdvanceToManagerReview(ctx, h.manager.ID.String(), created.ID)
	require.NoError(t, err)

	_, err = h.svc.SetManagerComments(ctx, h.manager.ID.String(), created.ID, review.ManagerCommentsRequest{
		Comments: "Consistent performer, promote visibility next half.",
	})
	require.NoError(t, err)

	_, err = h.svc.ScheduleMeeting(ctx, h.manager.ID.String(), created.ID, review.ScheduleMeetingRequest{
		ScheduledAt: time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})
	require.NoError(t, err)

	final, err := h.svc.Finalize(ctx, h.manager.ID.String(), created.ID, review.FinalizeReviewRequest{
		FinalIncrementPercentage: dec("10"),
		L3Rating:                 dec("4"),
	})
	require.NoError(t, err)

	assert.Equal(t, review.StatusCompleted, final.Status)
	assert.Equal(t, []string{
		"review_created",
		"self_assessment_completed",
		"manager_review_started",
		"meeting_scheduled",
		"review_completed",
	}, h.recorder.actions)
	assert.NoError(t, h.mock.ExpectationsWereMet())
}
