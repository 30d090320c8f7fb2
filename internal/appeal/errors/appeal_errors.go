package appealerrors

import (
	"net/http"

	"go-perf/internal/shared/apperror"
)

var (
	ErrAppealNotFound = apperror.New(
		apperror.CodeNotFound,
		"appeal not found",
		http.StatusNotFound,
	)
	ErrAppealAlreadyUsed = apperror.New(
		apperror.CodeConflict,
		"an appeal has already been filed for this review",
		http.StatusConflict,
	)
	ErrReviewNotCompleted = apperror.New(
		apperror.CodeInvalidState,
		"appeals can only be filed against a completed review",
		http.StatusBadRequest,
	)
	ErrNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"you are not permitted to perform this appeal action",
		http.StatusForbidden,
	)
	ErrAlreadyResolved = apperror.New(
		apperror.CodeConflict,
		"appeal has already been resolved",
		http.StatusConflict,
	)
	ErrNotResolved = apperror.New(
		apperror.CodeInvalidState,
		"appeal must be accepted or rejected before completion",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be accepted or rejected",
		http.StatusBadRequest,
	)
	ErrInvalidAppealID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid appeal id",
		http.StatusBadRequest,
	)
)
