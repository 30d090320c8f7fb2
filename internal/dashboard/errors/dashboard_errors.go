package dashboarderrors

import (
	"net/http"

	"go-perf/internal/shared/apperror"
)

var ErrInvalidCycleID = apperror.New(
	apperror.CodeInvalidInput,
	"invalid cycle id",
	http.StatusBadRequest,
)
