package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Code:    UnsupportedRequest,
		Message: "unsupported negotiation request",
		Request: "CustomRequest",
	}

	assert.Equal(t, "Auth Error 300 for CustomRequest: unsupported negotiation request", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestAuthErrorWithoutRequest(t *testing.T) {
	err := &AuthError{
		Code:    AlreadyInitiated,
		Message: "authentication already initiated",
	}

	assert.Equal(t, "Auth Error 100: authentication already initiated", err.Error())
}

func TestAuthErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AuthError{
		Code:    RealmUnavailable,
		Message: "wrapper error",
		Cause:   cause,
	}

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestSequencingErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *SequencingError
		code int
	}{
		{"already initiated", NewAlreadyInitiated(), AlreadyInitiated},
		{"name already assigned", NewNameAlreadyAssigned(), NameAlreadyAssigned},
		{"no authentication in progress", NewNoAuthenticationInProgress(), NoAuthenticationInProgress},
		{"no successful authentication", NewNoSuccessfulAuthentication(), NoSuccessfulAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.code, GetErrorCode(tt.err))
			assert.True(t, IsSequencingError(tt.err))
		})
	}
}

func TestRealmUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewRealmUnavailable("users", cause)

	assert.Equal(t, RealmUnavailable, err.Code)
	assert.Equal(t, "users", err.RealmName)
	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, IsRealmUnavailable(err))
	assert.Contains(t, err.Error(), "users")
}

func TestUnknownRealmError(t *testing.T) {
	err := NewUnknownRealm("missing")

	assert.Equal(t, RealmUnavailable, err.Code)
	assert.Equal(t, "missing", err.RealmName)
	assert.True(t, IsRealmUnavailable(err))
}

func TestInvalidNameError(t *testing.T) {
	err := NewInvalidName("bad\x00name")

	assert.Equal(t, InvalidName, err.Code)
	assert.False(t, IsRealmUnavailable(err))
}

func TestUnsupportedRequestError(t *testing.T) {
	err := NewUnsupportedRequest("PeerAddressRequest")

	assert.Equal(t, UnsupportedRequest, err.Code)
	assert.True(t, IsUnsupportedRequest(err))
	assert.Contains(t, err.Error(), "PeerAddressRequest")
}

func TestNegotiationFailedError(t *testing.T) {
	cause := NewNoAuthenticationInProgress()
	err := NewNegotiationFailed("NameRequest", cause)

	assert.Equal(t, NegotiationFailed, err.Code)
	assert.Equal(t, cause, err.Unwrap())
	// Sequencing cause remains visible through the negotiation wrapper
	assert.True(t, IsSequencingError(err))
}

func TestWrappedErrorCodes(t *testing.T) {
	err := fmt.Errorf("dispatch failed: %w", NewAlreadyInitiated())

	assert.True(t, IsAlreadyInitiated(err))
	assert.False(t, IsNoAuthenticationInProgress(err))
	assert.Equal(t, AlreadyInitiated, GetErrorCode(err))
}

func TestGetErrorCodeNonAuthError(t *testing.T) {
	assert.Equal(t, 0, GetErrorCode(errors.New("plain error")))
	assert.Equal(t, 0, GetErrorCode(nil))
}
