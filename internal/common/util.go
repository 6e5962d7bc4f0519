package common

import "strings"

// WipeByteArray zeroes b in place. Used for passwords read from the terminal.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BearerValue formats an Authorization header value. An empty tokenType
// falls back to the Bearer scheme.
func BearerValue(tokenType, token string) string {
	tokenType = strings.TrimSpace(tokenType)
	if tokenType == "" || strings.EqualFold(tokenType, BearerScheme) {
		tokenType = BearerScheme
	}
	return tokenType + " " + token
}
