package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Username string `json:"username" validate:"required,notblank,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"telefono" validate:"omitempty,max=5"`
}

func TestValidatorUsesJSONNames(t *testing.T) {
	v := New()

	long := "555-0100"
	err := v.Validate(loginForm{Username: "  ", Email: "nope", Phone: &long})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "this field may not be blank", verr.Errors["username"])
	assert.Equal(t, "enter a valid email address", verr.Errors["email"])
	assert.Equal(t, "ensure this field has no more than 5 characters", verr.Errors["telefono"])

	assert.NoError(t, v.Validate(loginForm{Username: "alice", Email: "a@b.test"}))
}
