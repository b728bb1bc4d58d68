package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := Wrap(cause, CodeDatabaseError, "chat", "failed to load message", http.StatusInternalServerError)

	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "connection refused")
	assert.Contains(t, appErr.Error(), "chat")
}

func TestMarshalJSONHidesInternals(t *testing.T) {
	cause := errors.New("secret internal detail")
	appErr := Wrap(cause, CodeDatabaseError, "chat", "failed to load message", http.StatusInternalServerError)

	raw, err := json.Marshal(appErr)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret internal detail")
	assert.Contains(t, string(raw), "failed to load message")
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	appErr := ValidationError(map[string]string{"email": "must be a valid email address"})

	assert.Equal(t, CodeValidationFailed, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)

	raw, err := json.Marshal(appErr)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "must be a valid email address")
}

func TestAsAppError(t *testing.T) {
	appErr := NewForbiddenError("nope")
	got, ok := AsAppError(appErr)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, got.HTTPCode)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestDomainFactories(t *testing.T) {
	nf := ErrNotFound(errors.New("row missing"))
	assert.Equal(t, http.StatusNotFound, nf.HTTPCode)

	ae := ErrAlreadyExists(errors.New("duplicate"))
	assert.Equal(t, http.StatusConflict, ae.HTTPCode)

	assert.Equal(t, http.StatusForbidden, ErrCannotModifySelf.HTTPCode)
	assert.Equal(t, http.StatusBadRequest, ErrLastAdmin.HTTPCode)
}
