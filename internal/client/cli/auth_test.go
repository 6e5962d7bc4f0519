package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rankrocket/rankrocket-cli/internal/client/models"
	"github.com/rankrocket/rankrocket-cli/internal/client/services"
	"github.com/rankrocket/rankrocket-cli/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	ta := newTestApp(t)
	stubInputs(t, []string{"user@example.com"}, []byte("pw"))

	err := ta.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", ta.auth.lastEmail)
	assert.Equal(t, "pw", ta.auth.lastPassword)
	assert.Contains(t, ta.buf.String(), "Login successful")
	assert.Contains(t, ta.buf.String(), "Welcome, Jane Doe")
	assert.True(t, ta.isLoggedIn())
}

func TestLogin_FailureClearsError(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.LoginRes = services.Result{Error: "Invalid credentials"}
	stubInputs(t, []string{"user@example.com"}, []byte("bad"))

	err := ta.Login(context.Background())
	require.ErrorIs(t, err, errAuthFailed)

	assert.Contains(t, ta.buf.String(), "Error: Invalid credentials")
	assert.Equal(t, []string{"login", "clear_error"}, ta.auth.calls)
	assert.Empty(t, ta.store.Snapshot().Error)
	assert.False(t, ta.isLoggedIn())
}

func TestLogin_InputError(t *testing.T) {
	ta := newTestApp(t)
	stubInputs(t, nil, nil)

	err := ta.Login(context.Background())
	require.Error(t, err)
	assert.Empty(t, ta.auth.calls)
}

func TestRegister(t *testing.T) {
	ta := newTestApp(t)
	stubInputs(t, []string{"new@example.com", "New User"}, []byte("secret"))

	require.NoError(t, ta.Register(context.Background()))
	assert.Equal(t, "new@example.com", ta.auth.lastEmail)
	assert.Equal(t, "New User", ta.auth.lastFullName)
	assert.Equal(t, "secret", ta.auth.lastPassword)
	assert.Contains(t, ta.buf.String(), "Account created")

	ta.auth.RegisterRes = services.Result{Error: "Email already registered"}
	stubInputs(t, []string{"new@example.com", "New User"}, []byte("secret"))
	require.ErrorIs(t, ta.Register(context.Background()), errAuthFailed)
	assert.Contains(t, ta.buf.String(), "Error: Email already registered")
}

func TestLogout(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn()

	require.NoError(t, ta.Logout(context.Background()))
	assert.False(t, ta.isLoggedIn())
	assert.Contains(t, ta.buf.String(), "Signed out")
}

func TestGoogle_Success(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.GoogleRes = services.Result{Success: true}
	ta.auth.CallbackRes = services.Result{Success: true}
	ta.cb.Query = "success=true&access_token=goog"

	require.NoError(t, ta.Google(context.Background()))

	assert.True(t, ta.cb.started)
	assert.True(t, ta.cb.shutdown)
	assert.Equal(t, []string{"google", "callback"}, ta.auth.calls)
	assert.Equal(t, "success=true&access_token=goog", ta.auth.lastCallback)
	assert.Contains(t, ta.buf.String(), "Listening for the sign-in callback on http://127.0.0.1:3000/auth")
	assert.Contains(t, ta.buf.String(), "Signed in with Google")
	assert.Contains(t, ta.buf.String(), "Welcome, g@example.com")
}

func TestGoogle_StartFails(t *testing.T) {
	ta := newTestApp(t)
	ta.cb.StartErr = errors.New("address in use")

	err := ta.Google(context.Background())
	require.Error(t, err)
	assert.Empty(t, ta.auth.calls)
	assert.Contains(t, ta.buf.String(), "cannot listen")
}

func TestGoogle_Disabled(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.GoogleRes = services.Result{Error: services.MsgGoogleDisabled}

	require.ErrorIs(t, ta.Google(context.Background()), errAuthFailed)
	assert.Equal(t, []string{"google", "clear_error"}, ta.auth.calls)
	assert.True(t, ta.cb.shutdown)
}

func TestGoogle_NoCallback(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.GoogleRes = services.Result{Success: true}
	ta.auth.CallbackRes = services.Result{Error: services.MsgOAuthCancelled}
	ta.cb.WaitErr = context.DeadlineExceeded

	require.ErrorIs(t, ta.Google(context.Background()), errAuthFailed)
	assert.Equal(t, "", ta.auth.lastCallback)
	assert.Contains(t, ta.buf.String(), services.MsgOAuthCancelled)
}

func TestWhoami(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.Whoami(context.Background()))
	assert.Contains(t, ta.buf.String(), "Not signed in")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": int64(1893456000),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	var user models.UserProfile
	require.NoError(t, json.Unmarshal([]byte(`{"email":"jane@example.com","full_name":"Jane Doe","auth_provider":"google"}`), &user))
	ta.store.Dispatch(session.LoginSuccess{User: &user, Token: token})
	ta.buf.Reset()

	require.NoError(t, ta.Whoami(context.Background()))
	out := ta.buf.String()
	assert.Contains(t, out, "jane@example.com")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Provider:  google")
	assert.Contains(t, out, "Token exp: 2030-01-01T00:00:00Z")
}
