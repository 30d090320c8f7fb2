package reviewerrors

import (
	"net/http"

	"go-perf/internal/shared/apperror"
)

var (
	ErrReviewNotFound = apperror.New(
		apperror.CodeNotFound,
		"review not found",
		http.StatusNotFound,
	)
	ErrReviewExists = apperror.New(
		apperror.CodeConflict,
		"a review already exists for this employee and cycle",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"review is not in a state that allows this transition",
		http.StatusBadRequest,
	)
	ErrNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"you are not permitted to perform this review action",
		http.StatusForbidden,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"review was modified by another request, please retry",
		http.StatusConflict,
	)
	ErrMissingSelfAssessment = apperror.New(
		apperror.CodeInvalidInput,
		"self assessment payload is required",
		http.StatusBadRequest,
	)
	ErrMissingIncrement = apperror.New(
		apperror.CodeInvalidInput,
		"final increment percentage is required",
		http.StatusBadRequest,
	)
	ErrInvalidRating = apperror.New(
		apperror.CodeInvalidInput,
		"rating must be between 1 and 5",
		http.StatusBadRequest,
	)
	ErrInvalidReviewID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid review id",
		http.StatusBadRequest,
	)
	ErrInvalidCommentLevel = apperror.New(
		apperror.CodeInvalidInput,
		"unknown manager comment level",
		http.StatusBadRequest,
	)
)
