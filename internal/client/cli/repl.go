package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	takeRedirect() string
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Google(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Submit(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Report(ctx context.Context, args []string) error
	Reports(ctx context.Context, args []string) error
	Schedule(ctx context.Context, args []string) error
	Scheduled(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, register, google, whoami, exit"
	helpSignedIn  = "Available commands: submit, status, report, reports, schedule, scheduled, stats, whoami, logout, exit"
)

// runREPL reads commands from reader and dispatches them to a until EOF or
// "exit"/"quit".
//
// Commands
//
//	Signed out:
//	  help | login | register | google | whoami | exit
//
//	Signed in:
//	  submit <url> [--wait]        submit a URL for crawling
//	  status <id> [--wait]         crawl status, optionally until done
//	  report <id>                  SEO report of a finished crawl
//	  reports [skip] [limit]       list reports
//	  schedule <url> [prio] [freq] [interval]
//	  scheduled [status]           list scheduled crawls
//	  stats                        crawl statistics
//	  whoami | logout | exit
//
// Protected commands issued while signed out are redirected to the sign-in
// prompt. Handler errors are not fatal; handlers report them to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rr %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "google":
			_ = a.Google(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.Whoami(ctx)

		case "submit":
			_ = a.Submit(ctx, args)
		case "status":
			_ = a.Status(ctx, args)
		case "report":
			_ = a.Report(ctx, args)
		case "reports":
			_ = a.Reports(ctx, args)
		case "schedule":
			_ = a.Schedule(ctx, args)
		case "scheduled":
			_ = a.Scheduled(ctx, args)
		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if route := a.takeRedirect(); route != "" {
			printlnFn(fmt.Sprintf("Sign in required (%s)", route))
			_ = a.Login(ctx)
		}
	}
}
