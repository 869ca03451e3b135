package models

import (
	"fmt"
	"strings"

	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
)

type RegisterRequest struct {
	Name string `json:"name"`
	PIN  int    `json:"pin"`
}

func (r RegisterRequest) Validate() error {
	var errs []string

	if err := domain.ValidateName(strings.TrimSpace(r.Name)); err != nil {
		errs = append(errs, "name must be non-empty and contain only alphabetic characters")
	}
	if err := domain.ValidatePIN(r.PIN); err != nil {
		errs = append(errs, fmt.Sprintf("pin must be between %d and %d", domain.MinPIN, domain.MaxPIN))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

type RegisterResponse struct {
	Name            string `json:"name"`
	StartingBalance string `json:"startingBalance"`
}

type LoginRequest struct {
	Name string `json:"name"`
	PIN  int    `json:"pin"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.PIN < domain.MinPIN || r.PIN > domain.MaxPIN {
		errs = append(errs, fmt.Sprintf("pin must be between %d and %d", domain.MinPIN, domain.MaxPIN))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

type LoginResponse struct {
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

type LogoutResponse struct {
	Name string `json:"name"`
}
