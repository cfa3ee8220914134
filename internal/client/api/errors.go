package api

import "errors"

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrAlreadySealed = errors.New("letter is already sealed")
	ErrConflict      = errors.New("conflict")
)

// AlreadySealedError is returned when a seal attempt hits a letter that was
// already sealed. It carries the existing seal as reported by the server.
type AlreadySealedError struct {
	Seal *Seal
}

func (e *AlreadySealedError) Error() string { return ErrAlreadySealed.Error() }

func (e *AlreadySealedError) Unwrap() error { return ErrAlreadySealed }
