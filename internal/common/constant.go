// Package common contains constants and small helpers shared across the
// rankrocket client packages.
package common

const (
	// AuthorizationHeader carries the bearer credential on outbound requests.
	AuthorizationHeader = "Authorization"

	// BearerScheme is the token type the backend issues and accepts.
	BearerScheme = "Bearer"

	// RequestIDHeader tags each outbound request for backend log correlation.
	RequestIDHeader = "X-Request-ID"
)
