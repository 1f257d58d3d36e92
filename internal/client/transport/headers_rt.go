// Package transport holds http.RoundTripper decorators for the backend client.
package transport

import "net/http"

// HeadersRoundTripper stamps every request with the client identification
// headers the backend expects.
type HeadersRoundTripper struct {
	Base       http.RoundTripper
	AppVersion string
	UserAgent  string
}

func (h *HeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt := h.Base
	if rt == nil {
		rt = http.DefaultTransport
	}

	// RoundTrip must not modify the caller's request
	r := req.Clone(req.Context())
	if h.AppVersion != "" {
		r.Header.Set("x-pm-appversion", h.AppVersion)
	}
	if h.UserAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", h.UserAgent)
	}
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/vnd.protonmail.v1+json")
	}
	return rt.RoundTrip(r)
}
