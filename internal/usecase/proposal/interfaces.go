package proposal

import (
	"context"

	"github.com/futig/proposal-backend/internal/entity"
)

type LLMConnector interface {
	Complete(ctx context.Context, req *entity.CompletionRequest) (string, error)
}

type DocumentRenderer interface {
	Format(doc *entity.ProposalDocument) ([]byte, error)
}

// Generator completes prompts on behalf of a single pipeline run.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
