// Package httpapi exposes the server's functionality as a JSON HTTP API.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radarnarcisista/cartaselo/internal/common"
	"github.com/radarnarcisista/cartaselo/internal/logging"
	"github.com/radarnarcisista/cartaselo/internal/server/services"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	users   *services.UserService
	drafts  *services.DraftService
	seals   *services.SealService
	exports *services.ExportService
	logger  logging.Logger
}

func NewHandlers(us *services.UserService, ds *services.DraftService, ss *services.SealService, es *services.ExportService, l logging.Logger) *Handlers {
	return &Handlers{
		users:   us,
		drafts:  ds,
		seals:   ss,
		exports: es,
		logger:  l.With("module", "httpapi"),
	}
}

// writeError maps service sentinels to transport status codes. Anything
// unmapped is a 500 with a generic body; details stay in the log.
func (h *Handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrInvalidState):
		c.JSON(http.StatusConflict, errorResponse{Error: "esta carta já foi selada e não pode mais ser editada"})
	case errors.Is(err, common.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Error: "username already taken"})
	case errors.Is(err, common.ErrVersionConflict):
		c.JSON(http.StatusConflict, errorResponse{Error: "concurrent edit, reload the draft"})
	case errors.Is(err, common.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrRefreshTokenExpired):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: common.ErrRefreshTokenExpired.Error()})
	default:
		h.logger.Error(c.Request.Context(), "internal error", "error", err.Error(), "request_id", getOrCreateRequestID(c))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// HandleRegister handles POST /api/v1/auth/register.
func (h *Handlers) HandleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, []byte(req.Password))
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.Info(c.Request.Context(), "user registered", "username", user.UserName)
	c.JSON(http.StatusCreated, registerResponse{ID: user.ID, Username: user.UserName})
}

// HandleLogin handles POST /api/v1/auth/login.
func (h *Handlers) HandleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	tokens, err := h.users.Login(c.Request.Context(), req.Username, []byte(req.Password))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}

// HandleRefresh handles POST /api/v1/auth/refresh.
func (h *Handlers) HandleRefresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	tokens, err := h.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}

// HandleCreateDraft handles POST /api/v1/drafts.
func (h *Handlers) HandleCreateDraft(c *gin.Context) {
	draft, err := h.drafts.Create(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.Info(c.Request.Context(), "draft created", "draft_id", draft.ID)
	c.JSON(http.StatusCreated, toDraftResponse(draft, nil))
}

// HandleListDrafts handles GET /api/v1/drafts.
func (h *Handlers) HandleListDrafts(c *gin.Context) {
	drafts, err := h.drafts.ListByOwner(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]draftResponse, 0, len(drafts))
	for _, d := range drafts {
		resp = append(resp, toDraftResponse(d, nil))
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetDraft handles GET /api/v1/drafts/:id. Sealed drafts include
// their seal record.
func (h *Handlers) HandleGetDraft(c *gin.Context) {
	userID := currentUserID(c)
	draftID := c.Param("id")

	draft, err := h.drafts.Get(c.Request.Context(), userID, draftID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	var resp draftResponse
	if draft.Sealed() {
		letter, err := h.seals.GetLetter(c.Request.Context(), userID, draftID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			h.writeError(c, err)
			return
		}
		resp = toDraftResponse(draft, letter)
	} else {
		resp = toDraftResponse(draft, nil)
	}

	c.JSON(http.StatusOK, resp)
}

// HandleUpdateSection handles PUT /api/v1/drafts/:id/sections/:sectionID.
func (h *Handlers) HandleUpdateSection(c *gin.Context) {
	var req updateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	draft, err := h.drafts.UpdateSection(c.Request.Context(),
		currentUserID(c), c.Param("id"), c.Param("sectionID"), req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDraftResponse(draft, nil))
}

// HandleSeal handles POST /api/v1/drafts/:id/seal. A duplicate seal attempt
// returns 409 together with the existing seal record, so the caller can show
// "this letter is already sealed" with the original metadata rather than a
// bare failure.
func (h *Handlers) HandleSeal(c *gin.Context) {
	userID := currentUserID(c)
	draftID := c.Param("id")

	letter, err := h.seals.Seal(c.Request.Context(), userID, draftID)
	if err != nil {
		if errors.Is(err, common.ErrAlreadySealed) {
			existing, getErr := h.seals.GetLetter(c.Request.Context(), userID, draftID)
			if getErr == nil {
				c.JSON(http.StatusConflict, gin.H{
					"error": "esta carta já foi selada",
					"seal":  toSealResponse(existing),
				})
				return
			}
		}
		h.writeError(c, err)
		return
	}

	h.logger.Info(c.Request.Context(), "draft sealed",
		"draft_id", draftID, "session_id", letter.SessionID, "content_hash", letter.ContentHash)
	c.JSON(http.StatusCreated, toSealResponse(letter))
}

// HandleExport handles GET /api/v1/drafts/:id/export: the plain-text
// rendering, served inline.
func (h *Handlers) HandleExport(c *gin.Context) {
	text, sealed, err := h.exports.Render(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	name := "carta-rascunho.txt"
	if sealed {
		name = "carta-selada.txt"
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// HandleExportLink handles POST /api/v1/drafts/:id/export/link: stores the
// rendering in object storage and returns an expiring download URL.
func (h *Handlers) HandleExportLink(c *gin.Context) {
	url, err := h.exports.Publish(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exportLinkResponse{URL: url})
}
