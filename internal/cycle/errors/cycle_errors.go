package cycleerrors

import (
	"net/http"

	"go-perf/internal/shared/apperror"
)

var (
	ErrCycleNotFound = apperror.New(
		apperror.CodeNotFound,
		"review cycle not found",
		http.StatusNotFound,
	)
	ErrNoActiveCycle = apperror.New(
		apperror.CodeNotFound,
		"no active review cycle",
		http.StatusNotFound,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidDateOrder = apperror.New(
		apperror.CodeInvalidInput,
		"cycle deadlines must be ordered within the start and end dates",
		http.StatusBadRequest,
	)
	ErrNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"only the founder can manage review cycles",
		http.StatusForbidden,
	)
)
