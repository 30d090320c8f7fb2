package autherrors

import (
	"net/http"

	"go-perf/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		"AUTH_FAILED",
		"invalid email or password",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		"INVALID_TOKEN",
		"token is invalid",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		"TOKEN_EXPIRED",
		"token has expired",
		http.StatusUnauthorized,
	)
	ErrInvalidRefreshToken = apperror.New(
		"INVALID_REFRESH_TOKEN",
		"refresh token is invalid",
		http.StatusUnauthorized,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to generate token",
		http.StatusInternalServerError,
	)
	ErrInvalidUserID = apperror.New(
		"INVALID_USER_ID",
		"user id is not a valid uuid",
		http.StatusUnauthorized,
	)
	ErrUserNotFound = apperror.New(
		"USER_NOT_FOUND",
		"user not found",
		http.StatusUnauthorized,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you do not have permission to perform this action",
		http.StatusForbidden,
	)
	ErrAccountInactive = apperror.New(
		"ACCOUNT_INACTIVE",
		"account is deactivated",
		http.StatusUnauthorized,
	)
)
