package review

import (
	"context"
	"database/sql"

	reviewerrors "go-perf/internal/review/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=review_repo.go -destination=mock/review_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rv *EmployeeReview) error
	FindByID(ctx context.Context, id string) (*EmployeeReview, error)
	FindByEmployeeAndCycle(ctx context.Context, employeeID, cycleID string) (*EmployeeReview, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]EmployeeReview, error)
	FindByManager(ctx context.Context, managerID string) ([]EmployeeReview, error)
	FindPendingByManager(ctx context.Context, managerID string) ([]EmployeeReview, error)
	FindByCycle(ctx context.Context, cycleID string) ([]EmployeeReview, error)
	UpdateWithRevision(ctx context.Context, rv *EmployeeReview) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, rv *EmployeeReview) error {
	if r.tx != nil {
		return createTx(ctx, r.tx, rv)
	}
	return r.db.WithContext(ctx).Create(rv).Error
}

// UpdateWithRevision performs a compare-and-swap on the revision counter.
// A stale revision updates zero rows and surfaces as a conflict.
func (r *repository) UpdateWithRevision(ctx context.Context, rv *EmployeeReview) error {
	var affected int64

	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `
UPDATE employee_reviews SET
	status = $3,
	self_assessment_data = $4,
	current_ctc = $5,
	expected_ctc = $6,
	expected_increment_percentage = $7,
	final_rating = $8,
	final_increment_percentage = $9,
	l3_comments = $10,
	l2_comments = $11,
	l1_comments = $12,
	founder_comments = $13,
	meeting_notes = $14,
	appeal_used = $15,
	revision = revision + 1,
	updated_at = NOW()
WHERE id = $1 AND revision = $2
`,
			rv.ID, rv.Revision,
			rv.Status, nullableJSON(rv.SelfAssessmentData),
			rv.CurrentCTC, rv.ExpectedCTC, rv.ExpectedIncrementPercentage,
			rv.FinalRating, rv.FinalIncrementPercentage,
			rv.L3Comments, rv.L2Comments, rv.L1Comments, rv.FounderComments,
			rv.MeetingNotes, rv.AppealUsed,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return err
		}
	} else {
		res := r.db.WithContext(ctx).
			Model(&EmployeeReview{}).
			Where("id = ? AND revision = ?", rv.ID, rv.Revision).
			Updates(map[string]any{
				"status":                        rv.Status,
				"self_assessment_data":          nullableJSON(rv.SelfAssessmentData),
				"current_ctc":                   rv.CurrentCTC,
				"expected_ctc":                  rv.ExpectedCTC,
				"expected_increment_percentage": rv.ExpectedIncrementPercentage,
				"final_rating":                  rv.FinalRating,
				"final_increment_percentage":    rv.FinalIncrementPercentage,
				"l3_comments":                   rv.L3Comments,
				"l2_comments":                   rv.L2Comments,
				"l1_comments":                   rv.L1Comments,
				"founder_comments":              rv.FounderComments,
				"meeting_notes":                 rv.MeetingNotes,
				"appeal_used":                   rv.AppealUsed,
				"revision":                      gorm.Expr("revision + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
	}

	if affected == 0 {
		return reviewerrors.ErrConcurrentUpdate
	}

	rv.Revision++
	return nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*EmployeeReview, error) {
	var rv EmployeeReview
	err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error
	return &rv, err
}

func (r *repository) FindByEmployeeAndCycle(ctx context.Context, employeeID, cycleID string) (*EmployeeReview, error) {
	var rv EmployeeReview
	err := r.db.WithContext(ctx).
		First(&rv, "employee_id = ? AND cycle_id = ?", employeeID, cycleID).Error
	return &rv, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]EmployeeReview, error) {
	var reviews []EmployeeReview
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *repository) FindByManager(ctx context.Context, managerID string) ([]EmployeeReview, error) {
	var reviews []EmployeeReview
	err := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = employee_reviews.employee_id").
		Where("employees.manager_id = ?", managerID).
		Order("employee_reviews.created_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *repository) FindPendingByManager(ctx context.Context, managerID string) ([]EmployeeReview, error) {
	var reviews []EmployeeReview
	err := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = employee_reviews.employee_id").
		Where("employees.manager_id = ?", managerID).
		Where("employee_reviews.status IN ?", []string{StatusFeedbackCollection, StatusManagerReview, StatusMeetingScheduled}).
		Order("employee_reviews.updated_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *repository) FindByCycle(ctx context.Context, cycleID string) ([]EmployeeReview, error) {
	var reviews []EmployeeReview
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Find(&reviews).Error
	return reviews, err
}

func createTx(ctx context.Context, tx *sql.Tx, rv *EmployeeReview) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO employee_reviews (
	id, employee_id, cycle_id, status, self_assessment_data,
	current_ctc, expected_ctc, expected_increment_percentage,
	final_rating, final_increment_percentage,
	l3_comments, l2_comments, l1_comments, founder_comments,
	meeting_notes, appeal_used, revision, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
`,
		rv.ID, rv.EmployeeID, rv.CycleID, rv.Status, nullableJSON(rv.SelfAssessmentData),
		rv.CurrentCTC, rv.ExpectedCTC, rv.ExpectedIncrementPercentage,
		rv.FinalRating, rv.FinalIncrementPercentage,
		rv.L3Comments, rv.L2Comments, rv.L1Comments, rv.FounderComments,
		rv.MeetingNotes, rv.AppealUsed, rv.Revision,
	)
	return err
}

// nullableJSON keeps empty payloads as SQL NULL instead of invalid jsonb.
func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
