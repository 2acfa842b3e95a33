// Package apierr renders errors as the JSON error body shared by every
// endpoint: {"error": "<code>", "detail": "<message>"}.
package apierr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/condominio-auth/internal/service"
	"github.com/iliyamo/condominio-auth/internal/validator"
)

type mapping struct {
	err    error
	status int
	code   string
}

// Order matters only for errors that wrap more than one sentinel.
var mappings = []mapping{
	{service.ErrInvalidCredentials, http.StatusBadRequest, "invalid_credentials"},
	{service.ErrAccountInactive, http.StatusBadRequest, "account_inactive"},
	{service.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
	{service.ErrPasswordMismatch, http.StatusBadRequest, "password_mismatch"},
	{service.ErrOldPasswordIncorrect, http.StatusBadRequest, "old_password_incorrect"},
	{service.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{service.ErrSelfRoleChange, http.StatusBadRequest, "self_role_change"},
	{service.ErrDuplicateAccount, http.StatusBadRequest, "duplicate_account"},
	{service.ErrInvalidUnit, http.StatusBadRequest, "invalid_unit"},
	{service.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{service.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
	{service.ErrTokenRevoked, http.StatusUnauthorized, "token_revoked"},
	{service.ErrTokenInvalid, http.StatusUnauthorized, "token_invalid"},
	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
}

// Classify returns the HTTP status and error code for err.  Unknown errors
// are 500 internal_error.
func Classify(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// Write sends err to the client.  Internal failures are logged and their
// message is replaced with a generic one.
func Write(c echo.Context, err error) error {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation_failed",
			"detail": "request validation failed",
			"fields": verr.Errors,
		})
	}
	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		return writeHTTPError(c, herr)
	}

	status, code := Classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", slog.String("method", c.Request().Method),
			slog.String("path", c.Path()), slog.Any("err", err))
		return c.JSON(status, echo.Map{"error": code, "detail": "internal server error"})
	}
	body := echo.Map{"error": code, "detail": err.Error()}
	var perr *service.PasswordError
	if errors.As(err, &perr) {
		body["problems"] = perr.Problems
	}
	return c.JSON(status, body)
}

// Unauthenticated is the body sent when no credentials were presented.
func Unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error":  "not_authenticated",
		"detail": "authentication credentials were not provided",
	})
}

func writeHTTPError(c echo.Context, herr *echo.HTTPError) error {
	code := "bad_request"
	switch herr.Code {
	case http.StatusNotFound:
		code = "not_found"
	case http.StatusMethodNotAllowed:
		code = "method_not_allowed"
	case http.StatusUnauthorized:
		code = "not_authenticated"
	case http.StatusForbidden:
		code = "forbidden"
	case http.StatusTooManyRequests:
		code = "too_many_requests"
	case http.StatusRequestEntityTooLarge:
		code = "request_too_large"
	}
	if herr.Code >= http.StatusInternalServerError {
		slog.Error("request failed", slog.String("path", c.Path()), slog.Any("err", herr))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "internal server error"})
	}
	detail := http.StatusText(herr.Code)
	if msg, ok := herr.Message.(string); ok && msg != "" {
		detail = msg
	}
	return c.JSON(herr.Code, echo.Map{"error": code, "detail": detail})
}

// Handler is an echo.HTTPErrorHandler built on Write.
func Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		status, _ := Classify(err)
		var herr *echo.HTTPError
		if errors.As(err, &herr) {
			status = herr.Code
		}
		_ = c.NoContent(status)
		return
	}
	_ = Write(c, err)
}
