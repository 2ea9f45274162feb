package proposal

import (
	"context"

	"github.com/futig/proposal-backend/internal/entity"
)

// boundGenerator ties a connector to the credential of one run.
type boundGenerator struct {
	connector  LLMConnector
	credential entity.Credential
}

func newBoundGenerator(connector LLMConnector, credential entity.Credential) *boundGenerator {
	return &boundGenerator{
		connector:  connector,
		credential: credential,
	}
}

func (g *boundGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	return g.connector.Complete(ctx, &entity.CompletionRequest{
		Prompt: prompt,
		APIKey: g.credential,
	})
}
