package cli

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"
)

// routeNavigator records where the guard wants to go. The REPL follows the
// redirect between commands, so a redirect raised mid-request (a 401 while a
// protected command runs) never starts a prompt inside the HTTP stack.
type routeNavigator struct {
	mu      sync.Mutex
	pending string
}

func (n *routeNavigator) Navigate(_ context.Context, route string) {
	n.mu.Lock()
	n.pending = route
	n.mu.Unlock()
}

// Take returns and clears the pending route.
func (n *routeNavigator) Take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	r := n.pending
	n.pending = ""
	return r
}

// openBrowser is a test seam.
var openBrowser = func(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// browserRedirector prints the URL and tries to open it. The printed URL is
// the fallback for headless sessions, so a failed open is not an error.
type browserRedirector struct {
	out io.Writer
}

func (r browserRedirector) Redirect(_ context.Context, url string) error {
	fmt.Fprintf(r.out, "Continue in your browser:\n  %s\n", url)
	if err := openBrowser(url); err != nil {
		fmt.Fprintln(r.out, "(could not open a browser automatically; copy the link above)")
	}
	return nil
}
