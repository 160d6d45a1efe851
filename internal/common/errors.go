// Package common defines shared constants and sentinel errors used across
// client and server layers of choirhub. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateIdentity = errors.New("username or email already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")

	// Authentication gate errors. ErrInvalidCredentials deliberately covers both
	// unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotApproved        = errors.New("account has not been approved by an administrator yet")

	// Auth errors (malformed, unsigned, tampered or expired token).
	ErrInvalidToken = errors.New("invalid token")
)
