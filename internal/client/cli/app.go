package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rankrocket/rankrocket-cli/internal/client/client"
	"github.com/rankrocket/rankrocket-cli/internal/client/config"
	"github.com/rankrocket/rankrocket-cli/internal/client/guard"
	"github.com/rankrocket/rankrocket-cli/internal/client/oauth"
	"github.com/rankrocket/rankrocket-cli/internal/client/repositories/credentials"
	"github.com/rankrocket/rankrocket-cli/internal/client/services"
	"github.com/rankrocket/rankrocket-cli/internal/client/session"
	"github.com/rankrocket/rankrocket-cli/internal/logging"
)

// oauthWaitTimeout bounds how long google sign-in waits for the browser.
const oauthWaitTimeout = 5 * time.Minute

// callbackReceiver is the part of oauth.CallbackServer the app needs.
type callbackReceiver interface {
	Start() error
	URL() string
	Wait(ctx context.Context) (string, error)
	Shutdown(ctx context.Context) error
}

type App struct {
	config      *config.Config
	store       *session.Store
	authService services.AuthService
	crawl       services.CrawlService
	guard       *guard.Guard
	nav         *routeNavigator
	newCallback func() callbackReceiver
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer
	log         logging.Logger
}

// NewApp wires the client: session database, credential store, session
// store, API clients, services and the route guard.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.StorePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	clock := clockwork.NewRealClock()
	repo := credentials.NewSQLiteRepository(db, clock)
	if n, err := repo.PurgeExpired(ctx); err != nil {
		log.Warn(ctx, "purging expired credentials failed", "error", err)
	} else if n > 0 {
		log.Debug(ctx, "purged expired credentials", "rows", n)
	}
	creds := services.NewCredentialStore(repo, clock, c.CredentialTTL, log)

	httpClient := &http.Client{Timeout: c.RequestTimeout}
	api := client.NewHTTPClient(c.APIBaseURL, httpClient, log)

	out := io.Writer(os.Stdout)
	store := session.NewStore()
	as := services.NewAuthService(api, store, creds, services.AuthOptions{
		BaseURL:      c.APIBaseURL,
		HTTPClient:   httpClient,
		OAuthEnabled: c.OAuthEnabled,
		Redirector:   browserRedirector{out: out},
		ServerLogout: c.ServerLogout,
	}, log)
	cs := services.NewCrawlService(as.AuthenticatedClient(), clock, c.PollInterval, log)

	nav := &routeNavigator{}
	return &App{
		config:      c,
		store:       store,
		authService: as,
		crawl:       cs,
		guard:       guard.New(nav, c.SignInRoute),
		nav:         nav,
		newCallback: func() callbackReceiver { return oauth.NewCallbackServer(c.CallbackAddr, log) },
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         out,
		log:         log,
	}, nil
}

// Run restores any stored session and serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	st := a.authService.Hydrate(ctx)
	fmt.Fprintln(a.out, "Welcome to RankRocket CLI (type 'help' for commands)")
	if st.IsAuthenticated {
		fmt.Fprintf(a.out, "Signed in as %s\n", st.User.DisplayName())
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.State().IsAuthenticated
}

func (a *App) getStatus() string {
	st := a.authService.State()
	switch {
	case st.Loading:
		return "(loading)"
	case st.IsAuthenticated && st.User != nil:
		return fmt.Sprintf("(%s)", st.User.DisplayName())
	}
	return "(signed out)"
}

func (a *App) takeRedirect() string {
	return a.nav.Take()
}

// protected runs fn behind the route guard. The view follows the session
// while fn runs, so a logout forced by a 401 raises a redirect.
func (a *App) protected(ctx context.Context, fn func(ctx context.Context) error) error {
	view := a.guard.Mount()

	switch view.Render(ctx, a.store.Snapshot()) {
	case guard.Resolving:
		fmt.Fprintln(a.out, "Checking your session, try again in a moment.")
		return nil
	case guard.Unauthenticated:
		return nil
	}

	stop := view.Follow(ctx, a.store, nil)
	defer stop()

	err := fn(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", userMessage(err))
	}
	return err
}
