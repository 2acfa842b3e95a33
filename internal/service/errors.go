// Package service implements the authentication and account lifecycle rules:
// credential validation, the session token service and account management.
package service

import (
	"errors"
	"strings"
)

// Domain failures.  Callers match them with errors.Is; the wrapping error
// may carry extra detail for the client.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountInactive      = errors.New("account inactive")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenRevoked         = errors.New("token revoked")
	ErrWeakPassword         = errors.New("weak password")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrOldPasswordIncorrect = errors.New("old password incorrect")
	ErrInvalidRole          = errors.New("invalid role")
	ErrSelfRoleChange       = errors.New("cannot change own role")
	ErrForbidden            = errors.New("forbidden")
	ErrDuplicateAccount     = errors.New("account already exists")
	ErrNotFound             = errors.New("account not found")
	ErrInvalidUnit          = errors.New("housing unit does not exist")
	ErrInvalidInput         = errors.New("invalid input")
)

// PasswordError lists every password policy rule a candidate broke.
type PasswordError struct {
	Problems []string
}

func (e *PasswordError) Error() string {
	return ErrWeakPassword.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *PasswordError) Is(target error) bool { return target == ErrWeakPassword }
