package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,is-user-role"`
}

func TestValidatePasses(t *testing.T) {
	v := New()
	err := v.Validate(&registerPayload{
		Email:    "maria@example.org",
		Password: "long enough",
		Role:     "pastor",
	})
	assert.NoError(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(&registerPayload{Email: "not-an-email", Password: "x"})
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, ve.Errors, "email")
	assert.Contains(t, ve.Errors, "password")
	assert.NotContains(t, ve.Errors, "Email")
}

func TestValidateCustomRoleRule(t *testing.T) {
	v := New()
	err := v.Validate(&registerPayload{
		Email:    "maria@example.org",
		Password: "long enough",
		Role:     "overlord",
	})
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "must be one of: admin, pastor, member", ve.Errors["role"])
}

func TestValidationErrorMessage(t *testing.T) {
	ve := &ValidationError{Errors: map[string]string{"email": "must be a valid email address"}}
	assert.Contains(t, ve.Error(), "email")
	assert.Contains(t, ve.Error(), "Validation failed")
}
