package http

import (
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// context keys for attaching request metadata
type payloadContextKey struct{}

// maxLoggedPayload bounds the request body copied into debug logs; prompts can be long.
const maxLoggedPayload = 2048

var sensitiveHeaders = map[string]struct{}{
	"authorization":  {},
	"x-goog-api-key": {},
	"x-api-key":      {},
}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Any("headers", redactHeaders(req.Header)),
	}

	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		if len(payload) > maxLoggedPayload {
			payload = payload[:maxLoggedPayload]
		}
		fields = append(fields, zap.ByteString("payload", payload))
	}

	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed", zap.String("url", req.URL.String()), zap.Error(err))
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound response",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
	)

	return resp, nil
}

func redactHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for key, values := range h {
		if _, ok := sensitiveHeaders[strings.ToLower(key)]; ok {
			out[key] = []string{"[REDACTED]"}
			continue
		}
		out[key] = values
	}
	return out
}

// WithRequestLogging wraps the HTTP transport with logging of method, URL, headers and payload metadata.
// Credential headers are redacted.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}
