package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/radarnarcisista/cartaselo/internal/dbx"
	"github.com/radarnarcisista/cartaselo/internal/server/models"
	draftsrepo "github.com/radarnarcisista/cartaselo/internal/server/repositories/drafts"
	lettersrepo "github.com/radarnarcisista/cartaselo/internal/server/repositories/letters"
	refreshtokensrepo "github.com/radarnarcisista/cartaselo/internal/server/repositories/refreshtokens"
	usersrepo "github.com/radarnarcisista/cartaselo/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByLogin(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr error

	createErr error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	return f.delErr
}

type fakeDraftsRepo struct {
	createErr error

	getOut *models.Draft
	getErr error

	listOut []*models.Draft
	listErr error

	updateErr     error
	updatedDraft  string
	updatedSec    string
	updatedText   string
	updateCalled  int
	markSealedErr error
	sealedDraftID string
	onMarkSealed  func()
}

func (f *fakeDraftsRepo) Create(ctx context.Context, draft *models.Draft) (*models.Draft, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	draft.ID = "d-created"
	draft.Version = 1
	return draft, nil
}

func (f *fakeDraftsRepo) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeDraftsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Draft, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeDraftsRepo) UpdateSection(ctx context.Context, draftID, sectionID, content string) error {
	f.updateCalled++
	f.updatedDraft, f.updatedSec, f.updatedText = draftID, sectionID, content
	return f.updateErr
}

func (f *fakeDraftsRepo) MarkSealed(ctx context.Context, draftID string) error {
	f.sealedDraftID = draftID
	if f.onMarkSealed != nil {
		f.onMarkSealed()
	}
	return f.markSealedErr
}

type fakeLettersRepo struct {
	createErr error
	created   *models.SealedLetter

	getOut *models.SealedLetter
	getErr error
}

func (f *fakeLettersRepo) Create(ctx context.Context, letter *models.SealedLetter) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = letter
	return nil
}

func (f *fakeLettersRepo) GetByDraftID(ctx context.Context, draftID string) (*models.SealedLetter, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	d *fakeDraftsRepo
	l *fakeLettersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.r
}
func (m *fakeRepoManager) Drafts(db dbx.DBTX) draftsrepo.Repository   { return m.d }
func (m *fakeRepoManager) Letters(db dbx.DBTX) lettersrepo.Repository { return m.l }
