package httpapi

import (
	"time"

	"github.com/radarnarcisista/cartaselo/internal/server/models"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Content is deliberately unvalidated: empty strings are legal section
// contents and must round-trip.
type updateSectionRequest struct {
	Content string `json:"content"`
}

type sectionResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type sealResponse struct {
	SessionID   string    `json:"session_id"`
	ContentHash string    `json:"content_hash"`
	SealedAt    time.Time `json:"sealed_at"`
	ClockSource string    `json:"clock_source"`
}

type draftResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Version   int64             `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Sections  []sectionResponse `json:"sections,omitempty"`
	Seal      *sealResponse     `json:"seal,omitempty"`
}

type exportLinkResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toSealResponse(l *models.SealedLetter) *sealResponse {
	if l == nil {
		return nil
	}
	return &sealResponse{
		SessionID:   l.SessionID,
		ContentHash: l.ContentHash,
		SealedAt:    l.SealedAt,
		ClockSource: l.ClockSource,
	}
}

func toDraftResponse(d *models.Draft, l *models.SealedLetter) draftResponse {
	resp := draftResponse{
		ID:        d.ID,
		Status:    string(d.Status),
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Seal:      toSealResponse(l),
	}
	for _, s := range d.Sections {
		resp.Sections = append(resp.Sections, sectionResponse{ID: s.ID, Title: s.Title, Content: s.Content})
	}
	return resp
}
