package auth

import (
	"context"
	"os"
	"time"

	autherrors "go-perf/internal/auth/errors"
	"go-perf/internal/employee"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	employeeRepo employee.Repository
}

func NewService(employeeRepo employee.Repository) Service {
	return &service{employeeRepo: employeeRepo}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	emp, err := s.employeeRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !emp.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(emp, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(emp, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, toAuthResponse(emp), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	if _, err := uuid.Parse(userIDStr); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	emp, err := s.employeeRepo.FindByID(ctx, userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !emp.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountInactive
	}

	newAccessToken, err := s.generateToken(emp, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(emp, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, toAuthResponse(emp), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	emp, err := s.employeeRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := toAuthResponse(emp)
	return &resp, nil
}

func (s *service) generateToken(emp *employee.Employee, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": emp.ID.String(),
		"role":    emp.Role,
		"email":   emp.Email,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func toAuthResponse(emp *employee.Employee) AuthResponse {
	return AuthResponse{
		ID:         emp.ID.String(),
		Email:      emp.Email,
		Name:       emp.FullName(),
		Role:       emp.Role,
		Category:   emp.Category,
		Department: emp.Department,
	}
}
