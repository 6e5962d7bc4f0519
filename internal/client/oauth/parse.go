package oauth

import (
	"net/url"
	"strconv"
	"strings"
)

// OAuthReturn is what the backend appends to the callback URL after Google
// sign-in.
type OAuthReturn struct {
	Success      bool
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	Error        string
}

// Usable reports whether r carries a token that can be exchanged for a
// profile.
func (r *OAuthReturn) Usable() bool {
	return r != nil && r.Error == "" && r.Success && r.AccessToken != ""
}

// ParseOAuthReturn reads a raw query string, with or without the leading
// "?". It returns nil when the query holds neither an error nor a success
// flag with an access token.
func ParseOAuthReturn(query string) *OAuthReturn {
	q, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return nil
	}

	r := &OAuthReturn{
		Success:      truthy(q.Get("success")),
		AccessToken:  q.Get("access_token"),
		RefreshToken: q.Get("refresh_token"),
		Error:        q.Get("error"),
	}
	if v := q.Get("expires_in"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.ExpiresIn = n
		}
	}

	if r.Error == "" && !(r.Success && r.AccessToken != "") {
		return nil
	}
	return r
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "", "0", "false":
		return false
	}
	return true
}
