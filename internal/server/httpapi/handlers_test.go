package httpapi

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radarnarcisista/cartaselo/internal/logging"
	"github.com/radarnarcisista/cartaselo/internal/server/auth"
	"github.com/radarnarcisista/cartaselo/internal/server/config"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/repomanager"
	"github.com/radarnarcisista/cartaselo/internal/server/services"
)

const testSecret = "test-secret"

// newTestServer wires the real services and router over a sqlmock database,
// so handler tests exercise the same SQL the server runs in production.
func newTestServer(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	cfg := &config.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 24 * time.Hour,
	}

	rm := repomanager.NewPostgresRepositoryManager()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	h := NewHandlers(
		services.NewUserService(db, rm, cfg),
		services.NewDraftService(db, rm),
		services.NewSealService(db, rm),
		services.NewExportService(db, rm, cfg),
		logger,
	)

	return NewRouter(h, []byte(cfg.SecretKey)), mock, db
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthz(t *testing.T) {
	r, _, db := newTestServer(t)
	defer db.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleRegister_Success(t *testing.T) {
	r, mock, db := newTestServer(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))

	body := `{"username":"maria","password":"password123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u-1", resp["id"])
	assert.Equal(t, "maria", resp["username"])
}

func TestHandleRegister_ShortPassword(t *testing.T) {
	r, _, db := newTestServer(t)
	defer db.Close()

	body := `{"username":"maria","password":"short"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleLogin_UnknownUser(t *testing.T) {
	r, mock, db := newTestServer(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*username`).
		WillReturnError(sql.ErrNoRows)

	body := `{"username":"ghost","password":"whatever123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleCreateDraft_Unauthenticated(t *testing.T) {
	r, _, db := newTestServer(t)
	defer db.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/drafts", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleCreateDraft_Success(t *testing.T) {
	r, mock, db := newTestServer(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT\s+INTO\s+drafts`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
			AddRow("d-1", int64(1), now, now))
	for range 5 {
		mock.ExpectExec(`INSERT\s+INTO\s+draft_sections`).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts", nil)
	req.Header.Set("Authorization", bearerFor(t, "u-1"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Sections []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "d-1", resp.ID)
	assert.Equal(t, "draft", resp.Status)
	require.Len(t, resp.Sections, 5)
	assert.Equal(t, "contexto", resp.Sections[0].ID)
	assert.Equal(t, "mensagem", resp.Sections[4].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func expectDraftSelect(mock sqlmock.Sqlmock, id, ownerID, status string) {
	now := time.Now()
	mock.ExpectQuery(`SELECT\s+id,\s*owner_id,\s*status,\s*version,\s*created_at,\s*updated_at\s+FROM\s+drafts`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "status", "version", "created_at", "updated_at"}).
			AddRow(id, ownerID, status, int64(2), now, now))
	mock.ExpectQuery(`SELECT\s+id,\s*position,\s*title,\s*content\s+FROM\s+draft_sections`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "position", "title", "content"}).
			AddRow("contexto", 0, "Contexto do relacionamento", "era assim"))
}

func TestHandleUpdateSection_SealedDraft(t *testing.T) {
	r, mock, db := newTestServer(t)
	defer db.Close()

	// ownership check load
	expectDraftSelect(mock, "d-1", "u-1", "sealed")
	// the guarded bump touches nothing, then the status lookup explains why
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE\s+drafts\s+SET\s+version`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT\s+status\s+FROM\s+drafts`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("sealed"))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/drafts/d-1/sections/contexto",
		strings.NewReader(`{"content":"tentativa"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, "u-1"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "selada")
}

func TestHandleGetDraft_ForeignDraftHidden(t *testing.T) {
	r, mock, db := newTestServer(t)
	defer db.Close()

	expectDraftSelect(mock, "d-1", "someone-else", "draft")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts/d-1", nil)
	req.Header.Set("Authorization", bearerFor(t, "u-1"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSeal_DuplicateReturnsExistingSeal(t *testing.T) {
	r, mock, db := newTestServer(t)
	defer db.Close()

	sealedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	// seal attempt reads the draft, already sealed
	expectDraftSelect(mock, "d-1", "u-1", "sealed")
	// handler then fetches the existing seal for the conflict body
	expectDraftSelect(mock, "d-1", "u-1", "sealed")
	mock.ExpectQuery(`SELECT\s+session_id,\s*draft_id,\s*content_hash`).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "draft_id", "content_hash", "sealed_at", "clock_source"}).
			AddRow("s-1", "d-1", "abc123", sealedAt, "server"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts/d-1/seal", nil)
	req.Header.Set("Authorization", bearerFor(t, "u-1"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var resp struct {
		Error string `json:"error"`
		Seal  struct {
			ContentHash string `json:"content_hash"`
			SessionID   string `json:"session_id"`
		} `json:"seal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc123", resp.Seal.ContentHash)
	assert.Equal(t, "s-1", resp.Seal.SessionID)
}

func TestHandleExport_Draft(t *testing.T) {
	r, mock, db := newTestServer(t)
	defer db.Close()

	expectDraftSelect(mock, "d-1", "u-1", "draft")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts/d-1/export", nil)
	req.Header.Set("Authorization", bearerFor(t, "u-1"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "carta-rascunho.txt")
	assert.Contains(t, w.Body.String(), "RASCUNHO")
}
