package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

var knownFlags = []string{"-a", "-t", "-p", "-s", "-l", "-oauth", "-callback"}

// parseFlags populates selected Config fields from command-line flags.
//
// Only the flags listed in knownFlags are parsed; anything else in args is
// filtered out first so other components can define their own.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("rankrocket", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.DurationVar(&cfg.PollInterval, "p", cfg.PollInterval, "crawl status poll interval")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "path of the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.OAuthEnabled, "oauth", cfg.OAuthEnabled, "enable Google sign-in")
	fs.StringVar(&cfg.CallbackAddr, "callback", cfg.CallbackAddr, "loopback address for the Google sign-in callback")

	if err := fs.Parse(filterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	return nil
}

// jsonConfigPath extracts the value of -c or -config from args, "" if absent.
func jsonConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(filterArgs(args, []string{"-c", "-config"}))

	return path
}

// filterArgs keeps only the allowed flags and their values. Both "-f value"
// and "-f=value" forms are recognised; boolean flags must use the latter.
func filterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}
	return filtered
}
