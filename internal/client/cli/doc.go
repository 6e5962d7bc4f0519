// Package cli implements the interactive rankrocket terminal client.
//
// The REPL plays the part of the web frontend's pages: the sign-in prompt
// (login, register, google) and the protected screens (submit, status,
// report, reports, schedule, scheduled, stats). Protected commands render
// through a route guard; when the session is gone the guard sends the user
// back to the sign-in prompt.
package cli
