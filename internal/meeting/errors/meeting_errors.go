package meetingerrors

import (
	"net/http"

	"go-perf/internal/shared/apperror"
)

var (
	ErrMeetingNotFound = apperror.New(
		apperror.CodeNotFound,
		"meeting not found",
		http.StatusNotFound,
	)
	ErrInvalidMeetingStatus = apperror.New(
		apperror.CodeInvalidInput,
		"meeting status must be scheduled, completed or cancelled",
		http.StatusBadRequest,
	)
	ErrInvalidMeetingID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid meeting id",
		http.StatusBadRequest,
	)
)
