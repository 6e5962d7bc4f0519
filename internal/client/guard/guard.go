// Package guard gates protected screens on the session state.
//
// A View is one mounted protected screen. Each Render returns what the screen
// should show; when the session settles into signed-out, the view asks its
// Navigator to go to the sign-in route. It asks once per transition into that
// state, not once per render.
package guard

import (
	"context"
	"sync"

	"github.com/rankrocket/rankrocket-cli/internal/client/session"
)

const DefaultSignInRoute = "/auth"

// Decision is what a protected screen renders.
type Decision int

const (
	// Resolving: the session is still loading; show a progress indicator.
	Resolving Decision = iota
	// Unauthenticated: show nothing while the redirect happens.
	Unauthenticated
	// Authenticated: show the protected content.
	Authenticated
)

func (d Decision) String() string {
	switch d {
	case Resolving:
		return "resolving"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

type Navigator interface {
	Navigate(ctx context.Context, route string)
}

type NavigatorFunc func(ctx context.Context, route string)

func (f NavigatorFunc) Navigate(ctx context.Context, route string) { f(ctx, route) }

type Guard struct {
	nav   Navigator
	route string
}

func New(nav Navigator, signInRoute string) *Guard {
	if signInRoute == "" {
		signInRoute = DefaultSignInRoute
	}
	return &Guard{nav: nav, route: signInRoute}
}

func (g *Guard) SignInRoute() string {
	return g.route
}

// Mount starts a new view with no render history.
func (g *Guard) Mount() *View {
	return &View{guard: g}
}

type dependencies struct {
	loading       bool
	authenticated bool
}

type View struct {
	guard *Guard

	mu       sync.Mutex
	rendered bool
	last     dependencies
}

// Render decides what to show for s and fires the sign-in redirect when
// (Loading, IsAuthenticated) has just become (false, false).
func (v *View) Render(ctx context.Context, s session.State) Decision {
	deps := dependencies{loading: s.Loading, authenticated: s.IsAuthenticated}

	v.mu.Lock()
	changed := !v.rendered || deps != v.last
	v.rendered = true
	v.last = deps
	v.mu.Unlock()

	switch {
	case s.Loading:
		return Resolving
	case !s.IsAuthenticated:
		if changed && v.guard.nav != nil {
			v.guard.nav.Navigate(ctx, v.guard.route)
		}
		return Unauthenticated
	}
	return Authenticated
}

// Follow renders the view on every change of store until the returned stop
// function is called. The current state is rendered immediately.
func (v *View) Follow(ctx context.Context, store *session.Store, onDecision func(Decision)) (stop func()) {
	render := func(s session.State) {
		d := v.Render(ctx, s)
		if onDecision != nil {
			onDecision(d)
		}
	}
	unsubscribe := store.Subscribe(render)
	render(store.Snapshot())
	return unsubscribe
}
