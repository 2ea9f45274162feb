package proposal

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	StageUnifiedAnalysis = "UnifiedAnalysis"
	StageTimelineBudget  = "TimelineBudget"
	StageProposalWriter  = "ProposalWriter"
)

// StageFunc reads the state built so far and returns it with the fields the
// stage owns filled in. The input value is never modified.
type StageFunc func(ctx context.Context, gen Generator, state entity.ProposalState) (entity.ProposalState, error)

type Stage struct {
	Name string
	Run  StageFunc
}

// ProgressFunc is called after every completed stage.
type ProgressFunc func(completed, total int, stage string)

type RunOption func(*runConfig)

type runConfig struct {
	progress ProgressFunc
}

// WithProgress reports stage completion of a single run.
func WithProgress(fn ProgressFunc) RunOption {
	return func(c *runConfig) {
		c.progress = fn
	}
}

// StageError reports the stage a pipeline run stopped at.
type StageError struct {
	Index int
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s) failed: %v", e.Index+1, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Pipeline runs a fixed list of stages in order against one state value.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds the proposal pipeline: unified analysis, then timeline
// and budget, then the proposal writer.
func NewPipeline(renderer DocumentRenderer) *Pipeline {
	return &Pipeline{
		stages: []Stage{
			{Name: StageUnifiedAnalysis, Run: UnifiedAnalysis},
			{Name: StageTimelineBudget, Run: TimelineBudget},
			{Name: StageProposalWriter, Run: ProposalWriter(renderer)},
		},
	}
}

// StageNames lists the stages in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run executes every stage sequentially. The first stage error stops the run
// and is returned as *StageError together with the state reached so far.
func (p *Pipeline) Run(
	ctx context.Context,
	gen Generator,
	initial entity.ProposalState,
	opts ...RunOption,
) (entity.ProposalState, error) {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	state := initial
	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return state, &StageError{Index: i, Stage: stage.Name, Err: err}
		}

		stageCtx := logger.AddFields(ctx, zap.String("stage", stage.Name))
		start := time.Now()
		ctxzap.Debug(stageCtx, "stage started")

		next, err := stage.Run(stageCtx, gen, state)
		if err != nil {
			ctxzap.Error(stageCtx, "stage failed",
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
			return state, &StageError{Index: i, Stage: stage.Name, Err: err}
		}
		state = next

		ctxzap.Info(stageCtx, "stage completed", zap.Int64("duration_ms", time.Since(start).Milliseconds()))

		if cfg.progress != nil {
			cfg.progress(i+1, len(p.stages), stage.Name)
		}
	}

	return state, nil
}
