package employee

import (
	"context"
	"errors"

	"go-perf/internal/authz"
	employeeerrors "go-perf/internal/employee/errors"
	"go-perf/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// chainLimit bounds the upward manager walk: founder -> l1 -> l2 -> l3 -> peer.
const chainLimit = 5

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	DirectReports(ctx context.Context, managerID string) ([]EmployeeResponse, error)
	ChainToFounder(ctx context.Context, employeeID string) ([]EmployeeResponse, error)
	Team(ctx context.Context, actorID string) ([]EmployeeResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	if !authz.ValidRole(req.Role) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	var managerID *uuid.UUID
	if req.ManagerID != nil && *req.ManagerID != "" {
		parsed, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
		}
		if _, err := s.repo.FindByID(ctx, parsed.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EmployeeResponse{}, employeeerrors.ErrManagerNotFound
			}
			return EmployeeResponse{}, err
		}
		managerID = &parsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("create employee hash password failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	e := &Employee{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Category:     req.Category,
		ManagerID:    managerID,
		Department:   req.Department,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create employee success",
		zap.String("employee_id", e.ID.String()),
		zap.String("role", e.Role),
	)
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	if req.FirstName != nil {
		e.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		e.LastName = *req.LastName
	}
	if req.Role != nil {
		if !authz.ValidRole(*req.Role) {
			return EmployeeResponse{}, employeeerrors.ErrInvalidRole
		}
		e.Role = *req.Role
	}
	if req.Category != nil {
		e.Category = req.Category
	}
	if req.Department != nil {
		e.Department = req.Department
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if req.ManagerID != nil {
		parsed, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
		}
		if parsed == e.ID {
			return EmployeeResponse{}, employeeerrors.ErrManagerCycle
		}
		e.ManagerID = &parsed
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed",
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*e), nil
}

func (s *service) DirectReports(ctx context.Context, managerID string) ([]EmployeeResponse, error) {
	reports, err := s.repo.FindByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(reports), nil
}

// ChainToFounder walks the manager pointers upward from employeeID and
// returns the chain starting with the employee's direct manager. The walk
// is bounded and cycle-safe.
func (s *service) ChainToFounder(ctx context.Context, employeeID string) ([]EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	chain := make([]EmployeeResponse, 0, chainLimit)
	seen := map[string]bool{e.ID.String(): true}

	current := e
	for i := 0; i < chainLimit && current.ManagerID != nil; i++ {
		next, err := s.repo.FindByID(ctx, current.ManagerID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		if seen[next.ID.String()] {
			s.logger.Warn("manager chain cycle detected",
				zap.String("employee_id", employeeID),
				zap.String("repeated_id", next.ID.String()),
			)
			return nil, employeeerrors.ErrManagerCycle
		}
		seen[next.ID.String()] = true
		chain = append(chain, mapToResponse(*next))
		if next.Role == string(authz.RoleFounder) {
			break
		}
		current = next
	}

	return chain, nil
}

// Team returns the slice of the org an actor is responsible for: founders
// see L1 managers, L1s see L2s, L2s see L3s plus peers, L3s see their
// direct reports.
func (s *service) Team(ctx context.Context, actorID string) ([]EmployeeResponse, error) {
	actor, err := s.repo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	switch authz.Role(actor.Role) {
	case authz.RoleFounder:
		team, err := s.repo.FindByRole(ctx, string(authz.RoleL1Manager))
		if err != nil {
			return nil, err
		}
		return mapToListResponse(team), nil
	case authz.RoleL1Manager:
		team, err := s.repo.FindByRole(ctx, string(authz.RoleL2Manager))
		if err != nil {
			return nil, err
		}
		return mapToListResponse(team), nil
	case authz.RoleL2Manager:
		managers, err := s.repo.FindByRole(ctx, string(authz.RoleL3Manager))
		if err != nil {
			return nil, err
		}
		peers, err := s.repo.FindByRole(ctx, string(authz.RolePeer))
		if err != nil {
			return nil, err
		}
		return mapToListResponse(append(managers, peers...)), nil
	case authz.RoleL3Manager:
		reports, err := s.repo.FindByManager(ctx, actorID)
		if err != nil {
			return nil, err
		}
		return mapToListResponse(reports), nil
	default:
		return []EmployeeResponse{}, nil
	}
}

func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return employeeerrors.ErrEmailTaken
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return employeeerrors.ErrEmailTaken
	}
	return err
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         e.ID.String(),
		Email:      e.Email,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Role:       e.Role,
		Category:   e.Category,
		Department: e.Department,
		IsActive:   e.IsActive,
	}
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
