package errors

import (
	"errors"
	"fmt"
)

// AuthError represents a general authentication engine error
type AuthError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Request string `json:"request,omitempty"`
	Cause   error  `json:"cause,omitempty"`
}

func (e *AuthError) Error() string {
	if e.Request != "" {
		return fmt.Sprintf("Auth Error %d for %s: %s", e.Code, e.Request, e.Message)
	}
	return fmt.Sprintf("Auth Error %d: %s", e.Code, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

func (e *AuthError) As(target interface{}) bool {
	if authErr, ok := target.(**AuthError); ok {
		*authErr = e
		return true
	}
	return false
}

// Authentication Engine Error Codes
const (
	// Protocol-sequencing errors
	AlreadyInitiated           = 100
	NameAlreadyAssigned        = 101
	NoAuthenticationInProgress = 102
	NoSuccessfulAuthentication = 103

	// Collaborator errors
	RealmUnavailable = 200
	InvalidName      = 201

	// Negotiation errors
	UnsupportedRequest = 300
	NegotiationFailed  = 301
)

// Sequencing Errors

// SequencingError represents a violation of the state machine's legal-transition contract
type SequencingError struct {
	AuthError
}

func NewSequencingError(code int, message string) *SequencingError {
	return &SequencingError{
		AuthError: AuthError{
			Code:    code,
			Message: message,
		},
	}
}

func NewAlreadyInitiated() *SequencingError {
	return NewSequencingError(AlreadyInitiated, "authentication already initiated")
}

func NewNameAlreadyAssigned() *SequencingError {
	return NewSequencingError(NameAlreadyAssigned, "authentication name already assigned")
}

func NewNoAuthenticationInProgress() *SequencingError {
	return NewSequencingError(NoAuthenticationInProgress, "no authentication in progress")
}

func NewNoSuccessfulAuthentication() *SequencingError {
	return NewSequencingError(NoSuccessfulAuthentication, "no successful authentication")
}

func (e *SequencingError) As(target interface{}) bool {
	if authErr, ok := target.(**AuthError); ok {
		*authErr = &e.AuthError
		return true
	}
	if seqErr, ok := target.(**SequencingError); ok {
		*seqErr = e
		return true
	}
	return false
}

// Realm Errors

// RealmError represents a failure reported by a realm or credential store
type RealmError struct {
	AuthError
	RealmName string `json:"realm_name,omitempty"`
}

func NewRealmError(code int, message, realmName string, cause error) *RealmError {
	return &RealmError{
		AuthError: AuthError{
			Code:    code,
			Message: message,
			Cause:   cause,
		},
		RealmName: realmName,
	}
}

func NewRealmUnavailable(realmName string, cause error) *RealmError {
	return NewRealmError(RealmUnavailable, fmt.Sprintf("realm '%s' is not available", realmName), realmName, cause)
}

func NewUnknownRealm(realmName string) *RealmError {
	return NewRealmError(RealmUnavailable, fmt.Sprintf("no realm named '%s'", realmName), realmName, nil)
}

func NewInvalidName(name string) *RealmError {
	return NewRealmError(InvalidName, fmt.Sprintf("authentication name '%s' is syntactically invalid", name), "", nil)
}

func (e *RealmError) As(target interface{}) bool {
	if authErr, ok := target.(**AuthError); ok {
		*authErr = &e.AuthError
		return true
	}
	if realmErr, ok := target.(**RealmError); ok {
		*realmErr = e
		return true
	}
	return false
}

// Negotiation Errors

// NegotiationError represents a failure in the negotiation request dispatch layer
type NegotiationError struct {
	AuthError
}

func NewNegotiationError(code int, message, request string, cause error) *NegotiationError {
	return &NegotiationError{
		AuthError: AuthError{
			Code:    code,
			Message: message,
			Request: request,
			Cause:   cause,
		},
	}
}

func NewUnsupportedRequest(request string) *NegotiationError {
	return NewNegotiationError(UnsupportedRequest, "unsupported negotiation request", request, nil)
}

func NewNegotiationFailed(request string, cause error) *NegotiationError {
	return NewNegotiationError(NegotiationFailed, "negotiation request could not be satisfied", request, cause)
}

func (e *NegotiationError) As(target interface{}) bool {
	if authErr, ok := target.(**AuthError); ok {
		*authErr = &e.AuthError
		return true
	}
	if negErr, ok := target.(**NegotiationError); ok {
		*negErr = e
		return true
	}
	return false
}

// Helper functions for common error checking

// IsAlreadyInitiated checks if an error indicates authentication was already initiated
func IsAlreadyInitiated(err error) bool {
	return GetErrorCode(err) == AlreadyInitiated
}

// IsNameAlreadyAssigned checks if an error indicates a name was already assigned
func IsNameAlreadyAssigned(err error) bool {
	return GetErrorCode(err) == NameAlreadyAssigned
}

// IsNoAuthenticationInProgress checks if an error indicates no authentication is in progress
func IsNoAuthenticationInProgress(err error) bool {
	return GetErrorCode(err) == NoAuthenticationInProgress
}

// IsNoSuccessfulAuthentication checks if an error indicates authentication has not completed
func IsNoSuccessfulAuthentication(err error) bool {
	return GetErrorCode(err) == NoSuccessfulAuthentication
}

// IsRealmUnavailable checks if an error indicates a realm could not service the request
func IsRealmUnavailable(err error) bool {
	return GetErrorCode(err) == RealmUnavailable
}

// IsUnsupportedRequest checks if an error indicates an unrecognized negotiation request
func IsUnsupportedRequest(err error) bool {
	return GetErrorCode(err) == UnsupportedRequest
}

// IsSequencingError checks if an error is a state machine sequencing violation
func IsSequencingError(err error) bool {
	var seqErr *SequencingError
	return errors.As(err, &seqErr)
}

// GetErrorCode returns the engine error code if the error is an AuthError
func GetErrorCode(err error) int {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return 0
}
