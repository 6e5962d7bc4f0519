package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rankrocket/rankrocket-cli/internal/client/services"
	"github.com/rankrocket/rankrocket-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errAuthFailed = errors.New("authentication failed")

func (a *App) report(res services.Result, success string) error {
	if !res.Success {
		fmt.Fprintln(a.out, "Error:", res.Error)
		a.authService.ClearError()
		return errAuthFailed
	}
	fmt.Fprintln(a.out, success)
	return nil
}

// Register prompts for email, full name and password, creates the account
// and signs in with it.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.authService.Register(ctx, email, string(password), fullName)
	return a.report(res, "Account created, you are signed in.")
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.authService.Login(ctx, email, string(password))
	if err := a.report(res, "Login successful"); err != nil {
		return err
	}
	if u := a.authService.State().User; u != nil {
		fmt.Fprintf(a.out, "Welcome, %s\n", u.DisplayName())
	}
	return nil
}

// Google runs the browser sign-in: it starts the loopback listener, sends
// the user to Google and completes the session from the callback.
func (a *App) Google(ctx context.Context) error {
	cb := a.newCallback()
	if err := cb.Start(); err != nil {
		fmt.Fprintln(a.out, "Error: cannot listen for the sign-in callback:", err)
		return err
	}
	fmt.Fprintf(a.out, "Listening for the sign-in callback on %s\n", cb.URL())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = cb.Shutdown(shutdownCtx)
	}()

	if err := a.report(a.authService.LoginWithGoogle(ctx), "Waiting for Google sign-in to complete..."); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, oauthWaitTimeout)
	defer cancel()
	raw, err := cb.Wait(waitCtx)
	if err != nil {
		a.log.Info(ctx, "no oauth callback received", "error", err)
	}

	res := a.authService.HandleOAuthCallback(ctx, raw)
	if err := a.report(res, "Signed in with Google"); err != nil {
		return err
	}
	if u := a.authService.State().User; u != nil {
		fmt.Fprintf(a.out, "Welcome, %s\n", u.DisplayName())
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	return a.report(a.authService.Logout(ctx), "Signed out")
}

// Whoami prints the signed-in identity and what is known about its token.
func (a *App) Whoami(ctx context.Context) error {
	st := a.authService.State()
	if !st.IsAuthenticated || st.User == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	fmt.Fprintf(a.out, "Email:     %s\n", st.User.Email)
	if st.User.FullName != "" {
		fmt.Fprintf(a.out, "Name:      %s\n", st.User.FullName)
	}
	var provider string
	if st.User.Field("auth_provider", &provider) && provider != "" {
		fmt.Fprintf(a.out, "Provider:  %s\n", provider)
	}

	info := services.InspectToken(st.Token)
	if info.JWT && !info.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Token exp: %s\n", info.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}
