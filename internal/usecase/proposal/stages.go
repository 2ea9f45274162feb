package proposal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/pkg/extract"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Unified analysis fallbacks
const (
	fallbackProjectType = "Custom Development"
	fallbackCategory    = "Custom"
	fallbackDuration    = 4
	defaultProjectType  = "Custom Project"
)

// Timeline and budget fallbacks
const (
	fallbackTimeline      = 4
	fallbackJustification = "Standard estimation based on requirements"
	fallbackPricing       = "Standard Tier: $1000, Premium Tier: $2000"
	placeholderScope      = "General software development project"
)

// UnifiedAnalysis classifies the client request and drafts the technical
// scope. It never fails: any generation or parsing problem yields fallback
// values, and ProjectType, Requirements and ProjectScope are always set.
func UnifiedAnalysis(ctx context.Context, gen Generator, state entity.ProposalState) (entity.ProposalState, error) {
	next := state

	reply, err := gen.Complete(ctx, unifiedAnalysisPrompt(state))
	if err != nil {
		ctxzap.Warn(ctx, "analysis generation failed, using fallback", zap.Error(err))
		return analysisFallback(next), nil
	}

	obj, err := extract.JSON(reply)
	if err != nil {
		ctxzap.Warn(ctx, "analysis reply is not valid JSON, using fallback",
			zap.Error(err),
			zap.Int("reply_length", len(reply)),
		)
		return analysisFallback(next), nil
	}

	if v, ok := obj.Text("project_type"); ok {
		next.ProjectType = v
	}
	if v, ok := obj.Text("requirements"); ok {
		next.Requirements = v
	}
	if v, ok := obj.Int("duration"); ok {
		next.Duration = v
	}
	if v, ok := obj.Text("category"); ok {
		next.Category = v
	}
	if v, ok := obj.Text("project_scope"); ok {
		next.ProjectScope = v
	}

	if next.ProjectType == "" {
		next.ProjectType = defaultProjectType
	}
	if next.Requirements == "" {
		next.Requirements = state.UserInput
	}
	if next.Duration <= 0 {
		next.Duration = fallbackDuration
	}
	if next.ProjectScope == "" {
		next.ProjectScope = synthesizeScope(next.ProjectType, next.Requirements)
	}

	ctxzap.Info(ctx, "client request analyzed",
		zap.String("project_type", next.ProjectType),
		zap.String("category", next.Category),
		zap.Int("duration_weeks", next.Duration),
	)

	return next, nil
}

func analysisFallback(state entity.ProposalState) entity.ProposalState {
	state.ProjectType = fallbackProjectType
	state.Requirements = state.UserInput
	state.Duration = fallbackDuration
	state.Category = fallbackCategory
	state.ProjectScope = synthesizeScope(fallbackProjectType, state.UserInput)
	return state
}

func synthesizeScope(projectType, requirements string) string {
	return fmt.Sprintf("%s project covering the following client requirements:\n%s",
		projectType, strings.TrimSpace(requirements))
}

// TimelineBudget estimates the delivery timeline and pricing tiers from the
// project scope. It never fails, and Pricing is always a single text value.
func TimelineBudget(ctx context.Context, gen Generator, state entity.ProposalState) (entity.ProposalState, error) {
	next := state

	scope := state.ProjectScope
	if strings.TrimSpace(scope) == "" {
		ctxzap.Warn(ctx, "project scope is empty, using placeholder")
		scope = placeholderScope
	}

	var pricing entity.Pricing

	reply, err := gen.Complete(ctx, timelineBudgetPrompt(scope))
	if err == nil {
		var obj extract.Object
		obj, err = extract.JSON(reply)
		if err == nil {
			next.EstimatedTimeline, _ = obj.Int("estimated_timeline")
			next.Justification, _ = obj.Text("justification")
			pricing = pricingFromReply(obj)
		}
	}

	if err != nil {
		ctxzap.Warn(ctx, "timeline and budget estimation failed, using fallback", zap.Error(err))
		next.EstimatedTimeline = fallbackTimeline
		next.Justification = fallbackJustification
		pricing = entity.PricingText(fallbackPricing)
	}

	if next.EstimatedTimeline <= 0 {
		next.EstimatedTimeline = state.Duration
	}
	if next.EstimatedTimeline <= 0 {
		next.EstimatedTimeline = fallbackTimeline
	}
	if next.Justification == "" {
		next.Justification = fallbackJustification
	}
	next.Pricing = NormalizePricing(pricing)

	ctxzap.Info(ctx, "timeline and budget estimated",
		zap.Int("estimated_timeline_weeks", next.EstimatedTimeline),
		zap.Int("pricing_length", len(next.Pricing)),
	)

	return next, nil
}

// ProposalWriter returns the stage that writes the long-form proposal and
// renders it with renderer. There is no fallback document: generation and
// rendering failures are returned to the caller.
func ProposalWriter(renderer DocumentRenderer) StageFunc {
	return func(ctx context.Context, gen Generator, state entity.ProposalState) (entity.ProposalState, error) {
		next := state

		reply, err := gen.Complete(ctx, proposalWriterPrompt(state))
		if err != nil {
			return state, fmt.Errorf("write proposal: %w", err)
		}
		if strings.TrimSpace(reply) == "" {
			return state, fmt.Errorf("write proposal: %w: %w", entity.ErrGeneration, entity.ErrEmptyReply)
		}
		next.ProposalMarkdown = reply

		ctxzap.Info(ctx, "proposal written", zap.Int("markdown_length", len(reply)))

		pdf, err := renderSafely(renderer, &entity.ProposalDocument{
			Title: entity.TitleFields{
				ClientName:   state.ClientName,
				BusinessName: state.BusinessName,
			},
			Markdown: reply,
		})
		if err != nil {
			if !errors.Is(err, entity.ErrRender) {
				err = fmt.Errorf("%w: %w", entity.ErrRender, err)
			}
			return state, fmt.Errorf("render proposal: %w", err)
		}
		next.ProposalPDF = pdf

		ctxzap.Info(ctx, "proposal rendered", zap.Int("pdf_size", len(pdf)))

		return next, nil
	}
}

// renderSafely turns a renderer panic into a render error so the run fails
// with a StageError instead of unwinding the caller.
func renderSafely(renderer DocumentRenderer, doc *entity.ProposalDocument) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: renderer panic: %v", entity.ErrRender, r)
		}
	}()
	return renderer.Format(doc)
}
