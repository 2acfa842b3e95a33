package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/condominio-auth/internal/model"
	"github.com/iliyamo/condominio-auth/internal/repository"
	"github.com/iliyamo/condominio-auth/internal/utils"
)

// AccountReader is the read side of the account store.
type AccountReader interface {
	GetByID(ctx context.Context, id uint64) (model.Account, error)
	GetByUsername(ctx context.Context, username string) (model.Account, error)
}

// CredentialValidator checks username/password pairs.  It never writes.
type CredentialValidator struct {
	Accounts AccountReader
}

func NewCredentialValidator(accounts AccountReader) *CredentialValidator {
	return &CredentialValidator{Accounts: accounts}
}

// Validate returns the account owning the credentials.  Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials; ErrAccountInactive is
// only reported once the password has been proven correct.
func (v *CredentialValidator) Validate(ctx context.Context, username, password string) (model.Account, error) {
	if username == "" || password == "" {
		return model.Account{}, ErrInvalidCredentials
	}
	a, err := v.Accounts.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		utils.BurnPasswordCheck(password)
		return model.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("load account: %w", err)
	}
	if !utils.VerifyPassword(a.PasswordHash, password) {
		return model.Account{}, ErrInvalidCredentials
	}
	if !a.Active() {
		return model.Account{}, ErrAccountInactive
	}
	return a, nil
}
