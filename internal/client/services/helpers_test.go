package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rankrocket/rankrocket-cli/internal/client/client"
	"github.com/rankrocket/rankrocket-cli/internal/client/models"
	"github.com/rankrocket/rankrocket-cli/internal/client/repositories/credentials"
	"github.com/rankrocket/rankrocket-cli/internal/client/session"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newCredStore(t *testing.T, db *sql.DB, clock clockwork.Clock) *CredentialStore {
	t.Helper()
	return NewCredentialStore(credentials.NewSQLiteRepository(db, clock), clock, 0, nil)
}

func storedKeys(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT key FROM credentials ORDER BY key`)
	require.NoError(t, err)
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		keys = append(keys, k)
	}
	require.NoError(t, rows.Err())
	return keys
}

func janeDoe() *models.UserProfile {
	return &models.UserProfile{
		Email:    "user@example.com",
		FullName: "Jane Doe",
		Extra:    map[string]json.RawMessage{"id": json.RawMessage(`"u1"`)},
	}
}

// ---- fake auth api ----

type fakeAuthAPI struct {
	LoginRet *models.TokenResponse
	LoginErr error

	RegisterErr error

	MeRet *models.UserProfile
	MeErr error

	GoogleURL string
	GoogleErr error

	LogoutErr error

	LastLoginEmail    string
	LastLoginPassword string
	LastRegistration  models.Registration
	LastMeTokenType   string
	LastMeToken       string
	LastLogoutToken   string

	LoginCalls  int
	MeCalls     int
	LogoutCalls int
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	f.LoginCalls++
	f.LastLoginEmail = email
	f.LastLoginPassword = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeAuthAPI) Register(ctx context.Context, reg models.Registration) error {
	f.LastRegistration = reg
	return f.RegisterErr
}

func (f *fakeAuthAPI) Me(ctx context.Context, tokenType, accessToken string) (*models.UserProfile, error) {
	f.MeCalls++
	f.LastMeTokenType = tokenType
	f.LastMeToken = accessToken
	return f.MeRet, f.MeErr
}

func (f *fakeAuthAPI) GoogleAuthURL(ctx context.Context) (string, error) {
	return f.GoogleURL, f.GoogleErr
}

func (f *fakeAuthAPI) Logout(ctx context.Context, accessToken string) error {
	f.LogoutCalls++
	f.LastLogoutToken = accessToken
	return f.LogoutErr
}

type fakeRedirector struct {
	URL string
	Err error
}

func (r *fakeRedirector) Redirect(ctx context.Context, url string) error {
	r.URL = url
	return r.Err
}

// ---- fake repository ----

type fakeRepo struct {
	values    map[string][]byte
	GetErr    error
	SetErr    error
	DeleteErr error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{values: map[string][]byte{}} }

func (r *fakeRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	return r.values[key], nil
}

func (r *fakeRepo) SetAll(ctx context.Context, values map[string][]byte, expiresAt time.Time) error {
	if r.SetErr != nil {
		return r.SetErr
	}
	for k, v := range values {
		r.values[k] = v
	}
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, keys ...string) error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}

var errBoom = errors.New("boom")

type authFixture struct {
	api   *fakeAuthAPI
	store *session.Store
	creds *CredentialStore
	db    *sql.DB
	clock *clockwork.FakeClock
	svc   AuthService
}

func newAuthFixture(t *testing.T, opts AuthOptions) *authFixture {
	t.Helper()
	f := &authFixture{
		api: &fakeAuthAPI{
			LoginRet: &models.TokenResponse{AccessToken: "abc", TokenType: "bearer"},
			MeRet:    janeDoe(),
		},
		store: session.NewStore(),
		db:    setupDB(t),
		clock: clockwork.NewFakeClockAt(testEpoch),
	}
	f.creds = newCredStore(t, f.db, f.clock)
	f.svc = NewAuthService(f.api, f.store, f.creds, opts, nil)
	return f
}

// hookRepo runs beforeSetAll ahead of every write to the wrapped repository.
type hookRepo struct {
	credentials.Repository
	beforeSetAll func()
}

func (r *hookRepo) SetAll(ctx context.Context, values map[string][]byte, expiresAt time.Time) error {
	if r.beforeSetAll != nil {
		r.beforeSetAll()
	}
	return r.Repository.SetAll(ctx, values, expiresAt)
}
