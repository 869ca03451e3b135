package service_interfaces

import (
	"context"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/cli/models"
	"github.com/api-sage/grey-bank-ledger/src/internal/commons"
	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
)

type SessionService interface {
	Register(ctx context.Context, req models.RegisterRequest) (commons.Response[models.RegisterResponse], error)
	Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error)
	Logout(ctx context.Context) (commons.Response[models.LogoutResponse], error)

	// Active returns the authenticated account, or
	// domain.ErrNoActiveSession when nobody is logged in.
	Active() (*domain.Account, error)
}
