// Package common defines shared constants and sentinel errors used across
// client and server layers of Carta-Selo. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Draft lifecycle errors. ErrInvalidState marks an attempted write to a
	// sealed draft; ErrAlreadySealed marks a duplicate seal attempt.
	ErrInvalidState  = errors.New("draft is sealed")
	ErrAlreadySealed = errors.New("already sealed")

	// A concurrent writer won the conditional update.
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
