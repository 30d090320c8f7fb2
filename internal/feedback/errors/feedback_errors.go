package feedbackerrors

import (
	"net/http"

	"go-perf/internal/shared/apperror"
)

var (
	ErrDuplicateFeedback = apperror.New(
		apperror.CodeConflict,
		"feedback has already been submitted for this review",
		http.StatusConflict,
	)
	ErrNotCollecting = apperror.New(
		apperror.CodeInvalidState,
		"review is not collecting feedback",
		http.StatusBadRequest,
	)
	ErrNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"you are not permitted to submit feedback for this review",
		http.StatusForbidden,
	)
	ErrOverallTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"overall feedback must be at least 50 characters",
		http.StatusBadRequest,
	)
	ErrStrengthsTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"strengths must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrInvalidCriterion = apperror.New(
		apperror.CodeInvalidInput,
		"criteria ratings must be between 1 and 5",
		http.StatusBadRequest,
	)
)
