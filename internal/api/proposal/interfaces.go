package proposal

import (
	"context"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/pkg/formatter"
	proposaluc "github.com/futig/proposal-backend/internal/usecase/proposal"
)

type ProposalUsecase interface {
	GenerateProposal(ctx context.Context, req *entity.GenerateProposalRequest, opts ...proposaluc.RunOption) (*entity.GeneratedProposal, error)
}

type CallbackConnector interface {
	SendError(ctx context.Context, callbackURL string, requestID string, message string, details map[string]any)
	SendFinalResult(ctx context.Context, callbackURL string, requestID string, data *entity.GenerateProposalResponse)
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}

type RequestValidator interface {
	ValidateGenerateProposal(req *entity.GenerateProposalRequest) error
	ValidateRenderDocument(req *entity.RenderDocumentRequest) error
}
