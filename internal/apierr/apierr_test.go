package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/condominio-auth/internal/service"
	"github.com/iliyamo/condominio-auth/internal/validator"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrInvalidCredentials, http.StatusBadRequest, "invalid_credentials"},
		{fmt.Errorf("%w: username", service.ErrDuplicateAccount), http.StatusBadRequest, "duplicate_account"},
		{&service.PasswordError{Problems: []string{"x"}}, http.StatusBadRequest, "weak_password"},
		{fmt.Errorf("%w: bad signature", service.ErrTokenInvalid), http.StatusUnauthorized, "token_invalid"},
		{service.ErrTokenRevoked, http.StatusUnauthorized, "token_revoked"},
		{service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{service.ErrNotFound, http.StatusNotFound, "not_found"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, code := Classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func write(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, Write(c, err))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestWriteHidesInternalErrors(t *testing.T) {
	rec, body := write(t, errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body["detail"])
}

func TestWriteValidationFields(t *testing.T) {
	rec, body := write(t, &validator.ValidationError{Errors: map[string]string{"username": "this field is required"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", body["error"])
	assert.Equal(t, map[string]any{"username": "this field is required"}, body["fields"])
}

func TestWriteWeakPasswordProblems(t *testing.T) {
	rec, body := write(t, &service.PasswordError{Problems: []string{"password is too short"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"password is too short"}, body["problems"])
}
