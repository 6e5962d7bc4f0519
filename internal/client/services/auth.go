// Package services contains the application services of the rankrocket
// client. This file defines the authentication service: hydration from stored
// credentials, password and Google sign-in, registration, logout and the
// authenticated API client bound to the current session.
package services

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rankrocket/rankrocket-cli/internal/client/client"
	"github.com/rankrocket/rankrocket-cli/internal/client/models"
	"github.com/rankrocket/rankrocket-cli/internal/client/oauth"
	"github.com/rankrocket/rankrocket-cli/internal/client/session"
	"github.com/rankrocket/rankrocket-cli/internal/logging"
)

// User-facing failure messages.
const (
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
	MsgGoogleFailed       = "Google OAuth failed"
	MsgGoogleDisabled     = "Google sign-in is disabled"
	MsgOAuthCancelled     = "Google OAuth was cancelled or failed"
	MsgOAuthCancelledRes  = "Google OAuth was cancelled"
	MsgProfileFailed      = "Failed to get user profile"
	MsgNoOAuthResponse    = "No valid OAuth response received"
	MsgLogoutIncomplete   = "Signed out, but the stored session could not be removed"
)

// Result is the outcome of an authentication operation. Error is set only
// when Success is false.
type Result struct {
	Success bool
	Error   string
}

func ok() Result { return Result{Success: true} }

func failed(msg string) Result { return Result{Error: msg} }

// Redirector sends the user to an external URL, e.g. by opening a browser.
type Redirector interface {
	Redirect(ctx context.Context, url string) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Hydrate: restore a stored session at startup and end the loading phase.
//   - Login / Register / LoginWithGoogle / HandleOAuthCallback: move the
//     session through LoginStart to LoginSuccess or LoginError.
//   - Logout: drop the stored and in-memory session. Idempotent.
//   - ClearError: dismiss the last error.
//   - AuthenticatedClient: API client that carries the session token and logs
//     out on 401.
//
// Operations report failure through Result and never panic.
type AuthService interface {
	Hydrate(ctx context.Context) session.State
	Login(ctx context.Context, email, password string) Result
	Register(ctx context.Context, email, password, fullName string) Result
	Logout(ctx context.Context) Result
	LoginWithGoogle(ctx context.Context) Result
	HandleOAuthCallback(ctx context.Context, rawQuery string) Result
	ClearError()
	State() session.State
	AuthenticatedClient() client.CrawlAPI
}

// AuthOptions tunes optional behaviour of the auth service.
type AuthOptions struct {
	// BaseURL and HTTPClient build the authenticated API client. HTTPClient
	// may be nil.
	BaseURL    string
	HTTPClient *http.Client

	OAuthEnabled bool
	Redirector   Redirector

	// ServerLogout additionally tells the backend about a logout. Best effort.
	ServerLogout bool
}

type authService struct {
	// mu keeps the stored credentials and the session store in step: a save
	// and its LoginSuccess, or a clear and its Logout, happen as one unit.
	mu sync.Mutex

	api    client.AuthAPI
	store  *session.Store
	creds  *CredentialStore
	opts   AuthOptions
	authed client.CrawlAPI
	log    logging.Logger
}

// NewAuthService constructs an AuthService. api must not carry bearer
// injection itself: auth calls pass their credential explicitly.
func NewAuthService(api client.AuthAPI, store *session.Store, creds *CredentialStore, opts AuthOptions, log logging.Logger) AuthService {
	if log == nil {
		log = logging.NewNop()
	}
	a := &authService{
		api:   api,
		store: store,
		creds: creds,
		opts:  opts,
		log:   log.With("component", "auth"),
	}
	hc := client.NewAuthenticatedHTTPClient(opts.HTTPClient, client.TokenSourceFunc(a.token), a.onUnauthorized)
	a.authed = client.NewHTTPClient(opts.BaseURL, hc, log)
	return a
}

func (a *authService) Hydrate(ctx context.Context) session.State {
	a.mu.Lock()
	defer a.mu.Unlock()

	if user, token, found := a.creds.Load(ctx); found {
		a.log.Debug(ctx, "restored stored session", "email", user.Email)
		return a.store.Dispatch(session.LoginSuccess{User: user, Token: token})
	}
	return a.store.Resolve()
}

func (a *authService) Login(ctx context.Context, email, password string) Result {
	a.store.Dispatch(session.LoginStart{})

	tok, err := a.api.Login(ctx, email, password)
	if err != nil {
		return a.fail(ctx, "login rejected", err, MsgLoginFailed)
	}
	user, err := a.api.Me(ctx, tok.TokenType, tok.AccessToken)
	if err != nil {
		return a.fail(ctx, "profile fetch after login failed", err, MsgLoginFailed)
	}
	if err := a.establish(ctx, user, tok.AccessToken); err != nil {
		return a.fail(ctx, "persisting session failed", err, MsgLoginFailed)
	}

	a.log.Info(ctx, "signed in", "email", user.Email)
	return ok()
}

func (a *authService) Register(ctx context.Context, email, password, fullName string) Result {
	a.store.Dispatch(session.LoginStart{})

	reg := models.Registration{Email: email, Password: password, FullName: fullName}
	if err := a.api.Register(ctx, reg); err != nil {
		return a.fail(ctx, "registration rejected", err, MsgRegistrationFailed)
	}
	a.log.Info(ctx, "registered", "email", email)
	return a.Login(ctx, email, password)
}

func (a *authService) Logout(ctx context.Context) Result {
	return a.logout(ctx, a.opts.ServerLogout)
}

func (a *authService) logout(ctx context.Context, notifyServer bool) Result {
	a.mu.Lock()
	token := a.store.Snapshot().Token
	clearErr := a.creds.Clear(ctx)
	a.store.Dispatch(session.Logout{})
	a.mu.Unlock()

	if clearErr != nil {
		a.log.Error(ctx, "clearing stored session failed", "error", clearErr)
	}

	if notifyServer && token != "" {
		if err := a.api.Logout(ctx, token); err != nil {
			a.log.Debug(ctx, "server logout failed", "error", err)
		}
	}

	if clearErr != nil {
		return failed(MsgLogoutIncomplete)
	}
	return ok()
}

func (a *authService) LoginWithGoogle(ctx context.Context) Result {
	if !a.opts.OAuthEnabled {
		return failed(MsgGoogleDisabled)
	}
	a.store.Dispatch(session.LoginStart{})

	authURL, err := a.api.GoogleAuthURL(ctx)
	if err == nil {
		if a.opts.Redirector == nil {
			err = errors.New("no redirector configured")
		} else {
			err = a.opts.Redirector.Redirect(ctx, authURL)
		}
	}
	if err != nil {
		return a.fail(ctx, "starting google sign-in failed", err, MsgGoogleFailed)
	}
	return ok()
}

func (a *authService) HandleOAuthCallback(ctx context.Context, rawQuery string) Result {
	ret := oauth.ParseOAuthReturn(rawQuery)
	switch {
	case ret == nil:
		// A pending attempt cannot complete any more; end it.
		if a.store.Snapshot().Loading {
			a.store.Dispatch(session.LoginError{Message: MsgNoOAuthResponse})
		}
		return failed(MsgNoOAuthResponse)
	case ret.Error != "":
		a.log.Info(ctx, "google sign-in cancelled", "reason", ret.Error)
		a.store.Dispatch(session.LoginError{Message: MsgOAuthCancelled})
		return failed(MsgOAuthCancelledRes)
	}

	a.store.Dispatch(session.LoginStart{})
	user, err := a.api.Me(ctx, "", ret.AccessToken)
	if err != nil {
		return a.fail(ctx, "profile fetch after google sign-in failed", err, MsgProfileFailed)
	}
	if err := a.establish(ctx, user, ret.AccessToken); err != nil {
		return a.fail(ctx, "persisting session failed", err, MsgProfileFailed)
	}

	a.log.Info(ctx, "signed in with google", "email", user.Email)
	return ok()
}

func (a *authService) ClearError() {
	a.store.Dispatch(session.ClearError{})
}

func (a *authService) State() session.State {
	return a.store.Snapshot()
}

func (a *authService) AuthenticatedClient() client.CrawlAPI {
	return a.authed
}

// establish persists the session first so a failure leaves nothing behind.
// A 401-driven logout racing with it lands entirely before or after.
func (a *authService) establish(ctx context.Context, user *models.UserProfile, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.creds.Save(ctx, user, token); err != nil {
		return err
	}
	a.store.Dispatch(session.LoginSuccess{User: user, Token: token})
	return nil
}

func (a *authService) fail(ctx context.Context, what string, err error, fallback string) Result {
	msg := client.Message(err, fallback)
	a.log.Warn(ctx, what, "error", err)
	a.store.Dispatch(session.LoginError{Message: msg})
	return failed(msg)
}

// token feeds the authenticated client. While the session is still loading
// the stored token stands in for the in-memory one.
func (a *authService) token(ctx context.Context) string {
	st := a.store.Snapshot()
	if st.Token != "" {
		return st.Token
	}
	if st.Loading {
		return a.creds.Token(ctx)
	}
	return ""
}

func (a *authService) onUnauthorized(ctx context.Context) {
	a.log.Info(ctx, "request rejected as unauthorized, signing out")
	a.logout(context.WithoutCancel(ctx), false)
}
