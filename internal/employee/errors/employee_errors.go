package employeeerrors

import (
	"net/http"

	"go-perf/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"manager not found",
		http.StatusBadRequest,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"email is already registered",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee role",
		http.StatusBadRequest,
	)
	ErrManagerCycle = apperror.New(
		apperror.CodeInvalidInput,
		"manager chain must not contain cycles",
		http.StatusBadRequest,
	)
)
