package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/integration/common"
	pkghttp "github.com/futig/proposal-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const apiKeyHeader = "x-goog-api-key"

// Connector talks to the Gemini generateContent API. It holds no credential:
// every request carries the API key of the run that issued it.
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	endpoint  string
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		endpoint:  strings.Replace(cfg.GenerateEndpoint, "{model}", cfg.Model, 1),
		logger:    logger,
	}
}

// Complete sends a single prompt and returns the text of the first candidate.
func (c *Connector) Complete(ctx context.Context, req *entity.CompletionRequest) (string, error) {
	if req.APIKey.IsEmpty() {
		return "", entity.ErrCredential
	}

	ctxzap.Debug(ctx, "requesting completion from LLM service",
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(req.Prompt)),
	)

	body := &entity.GeminiGenerateRequest{
		Contents: []entity.GeminiContent{
			{
				Role:  "user",
				Parts: []entity.GeminiPart{{Text: req.Prompt}},
			},
		},
	}
	if c.config.Temperature != nil || c.config.MaxOutputTokens > 0 {
		body.GenerationConfig = &entity.GeminiGenerationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxOutputTokens,
		}
	}

	var resp entity.GeminiGenerateResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.endpoint, body, &resp,
		pkghttp.WithHeader(apiKeyHeader, string(req.APIKey)),
	)
	if err != nil {
		return "", classifyError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		finishReason := ""
		if len(resp.Candidates) > 0 {
			finishReason = resp.Candidates[0].FinishReason
		}
		return "", fmt.Errorf("%w: %w (finish reason %q)", entity.ErrGeneration, entity.ErrEmptyReply, finishReason)
	}

	ctxzap.Info(ctx, "completion received",
		zap.Int("result_length", len(text)),
		zap.Int("total_tokens", resp.UsageMetadata.TotalTokenCount),
	)

	return text, nil
}

// classifyError maps transport failures onto the generation error taxonomy.
func classifyError(err error) error {
	switch status := pkghttp.StatusCode(err); {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w: %w", entity.ErrGeneration, entity.ErrAuthentication, err)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w: %w", entity.ErrGeneration, entity.ErrRateLimited, err)
	case status == http.StatusBadRequest && strings.Contains(err.Error(), "API_KEY_INVALID"):
		return fmt.Errorf("%w: %w: %w", entity.ErrGeneration, entity.ErrAuthentication, err)
	}

	return fmt.Errorf("%w: %w: %w", entity.ErrGeneration, entity.ErrService, err)
}
