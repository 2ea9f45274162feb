package common

import (
	"github.com/futig/proposal-backend/internal/config"
	pkgHTTP "github.com/futig/proposal-backend/pkg/http"
	"go.uber.org/zap"
)

const userAgent = "proposal-backend/1.0"

// NewBaseConnector builds a JSON connector for an external service from its
// HTTP client settings. Outbound requests are debug-logged with credentials
// redacted; the optional service token is sent as a bearer token.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
		pkgHTTP.WithUserAgent(userAgent),
	)
}
