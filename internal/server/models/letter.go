package models

import "time"

// Clock sources recorded with a seal. Only ClockSourceServer carries any
// evidentiary weight; everything else must be rendered with a caveat.
const (
	ClockSourceServer = "server"
	ClockSourceClient = "client"
)

// SealedLetter is the immutable record produced by sealing a draft.
// ContentHash is the lowercase hex SHA-256 over the draft's sections in
// order (see the sealing package for the exact byte layout).
type SealedLetter struct {
	SessionID     string
	SourceDraftID string
	ContentHash   string
	SealedAt      time.Time
	ClockSource   string
}
