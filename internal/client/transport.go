package client

import (
	"net/http"
	"strings"
)

// AuthTransport is an http.RoundTripper that attaches the session's current
// access token as a bearer header on API requests. Requests outside the /api/
// prefix pass through undecorated.
type AuthTransport struct {
	Session *Session
	// Base is the underlying transport; http.DefaultTransport when nil.
	Base http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if !strings.HasPrefix(req.URL.Path, "/api/") {
		return base.RoundTrip(req)
	}

	token := t.Session.AccessToken()
	if token == "" {
		return base.RoundTrip(req)
	}

	// Per RoundTripper contract the request must not be mutated in place.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return base.RoundTrip(clone)
}

// HTTPClient returns a client wired through the auth transport.
func (s *Session) HTTPClient() *http.Client {
	return &http.Client{
		Transport: &AuthTransport{Session: s},
	}
}
