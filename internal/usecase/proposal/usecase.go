package proposal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ProposalUsecase implements proposal generation
type ProposalUsecase struct {
	llmConnector LLMConnector
	pipeline     *Pipeline
	businessName string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewUsecase creates a new proposal use case. businessName is the default
// cover page company name; timeout bounds a whole pipeline run when positive.
func NewUsecase(
	llmConnector LLMConnector,
	renderer DocumentRenderer,
	businessName string,
	timeout time.Duration,
	logger *zap.Logger,
) *ProposalUsecase {
	return &ProposalUsecase{
		llmConnector: llmConnector,
		pipeline:     NewPipeline(renderer),
		businessName: businessName,
		timeout:      timeout,
		logger:       logger,
	}
}

// GenerateProposal runs the proposal pipeline for one client request. The
// request credential is used for this run only.
func (uc *ProposalUsecase) GenerateProposal(
	ctx context.Context,
	req *entity.GenerateProposalRequest,
	opts ...RunOption,
) (*entity.GeneratedProposal, error) {
	if req.APIKey.IsEmpty() {
		return nil, entity.ErrCredential
	}
	if strings.TrimSpace(req.UserInput) == "" {
		return nil, fmt.Errorf("%w: user_input", entity.ErrMissingField)
	}

	id := uuid.New().String()
	ctx = logger.AddFields(ctx, zap.String("proposal_id", id))

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	businessName := req.BusinessName
	if businessName == "" {
		businessName = uc.businessName
	}

	initial := entity.ProposalState{
		ClientName:   req.ClientName,
		UserInput:    req.UserInput,
		BusinessName: businessName,
	}

	ctxzap.Info(ctx, "generating proposal",
		zap.String("client_name", req.ClientName),
		zap.Int("user_input_length", len(req.UserInput)),
		zap.Strings("stages", uc.pipeline.StageNames()),
	)

	state, err := uc.pipeline.Run(ctx, newBoundGenerator(uc.llmConnector, req.APIKey), initial, opts...)
	if err != nil {
		return nil, fmt.Errorf("generate proposal: %w", err)
	}

	ctxzap.Info(ctx, "proposal generated successfully",
		zap.Int("markdown_length", len(state.ProposalMarkdown)),
		zap.Int("pdf_size", len(state.ProposalPDF)),
	)

	return &entity.GeneratedProposal{
		ID:    id,
		State: state,
	}, nil
}
