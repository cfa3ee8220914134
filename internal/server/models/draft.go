// Package models defines server-side data models persisted in the database.
package models

import "time"

// DraftStatus is the lifecycle state of a draft. The transition is one-way:
// once sealed, a draft never returns to the editable state.
type DraftStatus string

const (
	StatusDraft  DraftStatus = "draft"
	StatusSealed DraftStatus = "sealed"
)

// Draft is the mutable, in-progress letter. Sections keep their template
// order; the order is part of the sealed content's identity.
type Draft struct {
	ID        string
	OwnerID   string
	Status    DraftStatus
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Sections  []Section
}

// Sealed reports whether the draft has reached its terminal state.
func (d *Draft) Sealed() bool {
	return d.Status == StatusSealed
}

// Section is one named block of text inside a draft. The ID is stable within
// the draft and comes from the section template, not from the user.
type Section struct {
	ID       string
	Title    string
	Content  string
	Position int
}
