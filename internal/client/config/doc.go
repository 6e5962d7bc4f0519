// Package config loads runtime configuration for the rankrocket CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, optionally seeded from a .env file in the working
//     directory. Variables are named RANKROCKET_<FIELD>; NEXT_PUBLIC_API_URL
//     is honoured as a fallback for the API base URL.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string      API base URL
//	-t duration    per-request timeout
//	-p duration    crawl status poll interval
//	-s string      path of the local session database
//	-l string      log level (debug, info, warn, error)
//	-oauth=bool    enable Google sign-in
//	-callback str  loopback address for the Google sign-in callback
//
// # JSON schema
//
// Durations may be strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "request_timeout": "10s",
//	  "poll_interval": "3s",
//	  "store_path": "rankrocket.db",
//	  "credential_ttl": "168h",
//	  "oauth_enabled": true,
//	  "server_logout": false,
//	  "callback_addr": "127.0.0.1:3000",
//	  "sign_in_route": "/auth",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
