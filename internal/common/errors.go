package common

import "errors"

// Business logic errors
var (
	// Error categories. Services wrap these with fmt.Errorf("%w: ...") so
	// handlers can map them to HTTP statuses with errors.Is.
	ErrValidation  = errors.New("invalid request")
	ErrPermission  = errors.New("permission denied")
	ErrNotFound    = errors.New("resource not found")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence failure")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDeactivated    = errors.New("user is deactivated")

	// Messaging errors
	ErrMessageNotFound   = errors.New("message not found")
	ErrNotGroupMember    = errors.New("not a group member")
	ErrNotSubscriber     = errors.New("not a channel subscriber")
	ErrGroupFull         = errors.New("group member limit reached")
	ErrEditWindowExpired = errors.New("edit window expired")
	ErrForbiddenContent  = errors.New("content rejected by policy")
)
