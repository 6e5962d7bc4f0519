package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rankrocket/rankrocket-cli/internal/logging"
)

const (
	CallbackPath = "/auth"
	DonePath     = "/auth/done"
)

// CallbackServer receives the browser's return from Google sign-in on a
// loopback address and hands the raw query to whoever is waiting.
type CallbackServer struct {
	echo    *echo.Echo
	addr    string
	ln      net.Listener
	results chan string
	log     logging.Logger
}

func NewCallbackServer(addr string, log logging.Logger) *CallbackServer {
	if log == nil {
		log = logging.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &CallbackServer{
		echo:    e,
		addr:    addr,
		results: make(chan string, 1),
		log:     log.With("component", "oauth_callback"),
	}
	e.GET(CallbackPath, s.handleCallback)
	e.GET(DonePath, s.handleDone)
	return s
}

// Start binds the listener and serves in the background.
func (s *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.ln = ln

	go func() {
		if err := s.echo.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(context.Background(), "callback server stopped", "error", err)
		}
	}()
	return nil
}

// URL is the address the backend should send the browser back to. Valid
// after Start.
func (s *CallbackServer) URL() string {
	addr := s.addr
	if s.ln != nil {
		addr = s.ln.Addr().String()
	}
	return "http://" + addr + CallbackPath
}

// Wait blocks until a callback arrives or ctx is done.
func (s *CallbackServer) Wait(ctx context.Context) (string, error) {
	select {
	case q := <-s.results:
		return q, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *CallbackServer) handleCallback(c echo.Context) error {
	raw := c.Request().URL.RawQuery
	select {
	case s.results <- raw:
	default:
		s.log.Warn(c.Request().Context(), "dropping duplicate oauth callback")
	}
	// Answer with a query-less location so the token leaves browser history.
	return c.Redirect(http.StatusSeeOther, DonePath)
}

func (s *CallbackServer) handleDone(c echo.Context) error {
	return c.String(http.StatusOK, "Sign-in received. You can close this window and return to the terminal.\n")
}
