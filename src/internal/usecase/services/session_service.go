package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/cli/models"
	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/grey-bank-ledger/src/internal/commons"
	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
	"github.com/api-sage/grey-bank-ledger/src/internal/logger"
	"github.com/api-sage/grey-bank-ledger/src/internal/usecase/service_interfaces"
)

// Verify that SessionService implements the service_interfaces.SessionService interface
var _ service_interfaces.SessionService = (*SessionService)(nil)

// SessionService owns authentication state: exactly one account may be
// active at a time in this single-user design.
type SessionService struct {
	registry *domain.Registry
	store    repo_interfaces.RegistryStore
	active   *domain.Account
}

func NewSessionService(registry *domain.Registry, store repo_interfaces.RegistryStore) *SessionService {
	return &SessionService{
		registry: registry,
		store:    store,
	}
}

func (s *SessionService) Register(ctx context.Context, req models.RegisterRequest) (commons.Response[models.RegisterResponse], error) {
	logger.Info("session service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if s.active != nil {
		err := fmt.Errorf("%w: log out before creating an account", domain.ErrInvalidInput)
		return commons.ErrorResponse[models.RegisterResponse]("validation failed", err.Error()), err
	}

	if err := req.Validate(); err != nil {
		logger.Error("session service register validation failed", err, nil)
		return commons.ErrorResponse[models.RegisterResponse]("validation failed", err.Error()), err
	}

	name := strings.TrimSpace(req.Name)
	account, err := s.registry.Create(name, req.PIN)
	if err != nil {
		logger.Error("session service register create failed", err, logger.Fields{
			"name": name,
		})
		return commons.ErrorResponse[models.RegisterResponse]("failed to create account", err.Error()), err
	}

	// Registration does not log the new account in; the caller must
	// authenticate explicitly.
	if err := s.store.Save(ctx, s.registry.Snapshot()); err != nil {
		logger.Error("session service register persist failed", err, logger.Fields{
			"name": name,
		})
		return commons.ErrorResponse[models.RegisterResponse]("failed to save accounts", err.Error()), err
	}

	response := models.RegisterResponse{
		Name:            account.Name,
		StartingBalance: account.Balance.StringFixed(2),
	}

	logger.Info("session service register success", logger.Fields{
		"name":     response.Name,
		"accounts": s.registry.Len(),
	})

	return commons.SuccessResponse("account created successfully", response), nil
}

func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error) {
	logger.Info("session service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	_ = ctx
	if s.active != nil {
		err := fmt.Errorf("%w: another session is already active", domain.ErrInvalidInput)
		return commons.ErrorResponse[models.LoginResponse]("validation failed", err.Error()), err
	}

	if err := req.Validate(); err != nil {
		logger.Error("session service login validation failed", err, nil)
		return commons.ErrorResponse[models.LoginResponse]("validation failed", err.Error()), err
	}

	account, err := s.registry.FindByCredentials(strings.TrimSpace(req.Name), req.PIN)
	if err != nil {
		logger.Error("session service login failed", err, logger.Fields{
			"name": req.Name,
		})
		return commons.ErrorResponse[models.LoginResponse]("login failed", "invalid name or PIN"), err
	}

	s.active = account

	response := models.LoginResponse{
		Name:    account.Name,
		Balance: account.Balance.StringFixed(2),
	}

	logger.Info("session service login success", logger.Fields{
		"name": account.Name,
	})

	return commons.SuccessResponse("login successful", response), nil
}

func (s *SessionService) Logout(ctx context.Context) (commons.Response[models.LogoutResponse], error) {
	_ = ctx
	if s.active == nil {
		err := domain.ErrNoActiveSession
		return commons.ErrorResponse[models.LogoutResponse]("logout failed", err.Error()), err
	}

	name := s.active.Name
	s.active = nil

	logger.Info("session service logout success", logger.Fields{
		"name": name,
	})

	return commons.SuccessResponse("logged out", models.LogoutResponse{Name: name}), nil
}

func (s *SessionService) Active() (*domain.Account, error) {
	if s.active == nil {
		return nil, domain.ErrNoActiveSession
	}
	return s.active, nil
}
