package api

import "time"

// Section is one titled block of a letter draft.
type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Seal is the integrity record of a sealed letter.
type Seal struct {
	SessionID   string    `json:"session_id"`
	ContentHash string    `json:"content_hash"`
	SealedAt    time.Time `json:"sealed_at"`
	ClockSource string    `json:"clock_source"`
}

// Draft mirrors the server's draft representation. Sections is empty in
// list responses and populated in single-draft responses. Seal is non-nil
// only for sealed drafts.
type Draft struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Sections  []Section `json:"sections,omitempty"`
	Seal      *Seal     `json:"seal,omitempty"`
}

func (d *Draft) Sealed() bool {
	return d.Status == "sealed"
}
