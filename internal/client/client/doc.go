// Package client contains the transport layer between the rankrocket CLI and
// the RankRocket backend.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic contracts for the backend: AuthAPI (login, register,
//     profile, Google sign-in URL, logout) and CrawlAPI (URL submission, crawl
//     status, reports, scheduling).
//  2. HTTPClient, a JSON-over-HTTP implementation of both.
//  3. The authenticated request factory, NewAuthenticatedHTTPClient, which
//     decorates an *http.Client so every request carries the current bearer
//     token and every 401 triggers a caller-supplied logout hook.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) wiring SQLite
//     and the embedded goose migrations.
//
// # Error Handling
//
// Transport failures and timeouts map to ErrUnavailable, 401/403 to
// ErrUnauthorized. Other non-2xx replies become *APIError carrying the
// backend's "detail" message. Message(err, fallback) turns any of them into
// the text shown to a user.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call takes a context.Context and
// is additionally bounded by the *http.Client timeout.
package client
