package http

import "net/http"

// headerTransport adds default headers to every outgoing request. Headers
// already set on the request are left alone, so per-request credentials
// always win over connector-wide ones.
type headerTransport struct {
	headers   http.Header
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	for key, values := range t.headers {
		if reqCopy.Header.Get(key) != "" {
			continue
		}
		for _, v := range values {
			reqCopy.Header.Add(key, v)
		}
	}

	return t.transport.RoundTrip(reqCopy)
}

func withDefaultHeader(key, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		h := make(http.Header)
		h.Set(key, value)
		return &headerTransport{headers: h, transport: rt}
	})
}

// WithAuthToken sends a bearer token unless the request carries its own
// Authorization header. An empty token is a no-op.
func WithAuthToken(token string) HttpOpts {
	if token == "" {
		return func(*httpConfig) {}
	}
	return withDefaultHeader("Authorization", "Bearer "+token)
}

// WithUserAgent sets the User-Agent of every request.
func WithUserAgent(userAgent string) HttpOpts {
	if userAgent == "" {
		return func(*httpConfig) {}
	}
	return withDefaultHeader("User-Agent", userAgent)
}
