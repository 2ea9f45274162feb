package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/futig/proposal-backend/internal/api"
	"github.com/futig/proposal-backend/internal/api/middleware"
	proposalapi "github.com/futig/proposal-backend/internal/api/proposal"
	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/integration/callback"
	"github.com/futig/proposal-backend/internal/integration/llm"
	"github.com/futig/proposal-backend/internal/pkg/formatter"
	pkglogger "github.com/futig/proposal-backend/internal/pkg/logger"
	"github.com/futig/proposal-backend/internal/pkg/validator"
	"github.com/futig/proposal-backend/internal/usecase/proposal"
	"go.uber.org/zap"
)

// requestTimeoutMargin leaves room to write the response after a pipeline
// run used its whole deadline.
const requestTimeoutMargin = 30 * time.Second

// Generator is a ready to use proposal pipeline for command line runs
type Generator struct {
	Usecase   *proposal.ProposalUsecase
	Validator *validator.Validator
	Config    *config.Config
	Logger    *zap.Logger
}

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := pkglogger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	formatters := newFormatterFactory(cfg, logger)
	proposalUC, err := newProposalUsecase(cfg, formatters, logger)
	if err != nil {
		return nil, err
	}

	// Initialize connectors
	callbackConnector := callback.NewConnector(cfg.CallbackConnectorCfg, logger)

	// Initialize validators
	requestValidator := validator.NewValidator(cfg.ValidationCfg)
	logger.Info("Validators initialized")

	// Setup API handlers
	proposalHandler := proposalapi.NewHandler(proposalUC, callbackConnector, formatters, requestValidator)
	logger.Info("API handlers initialized")

	var limiter *middleware.RateLimiter
	if cfg.RateLimitCfg.PerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitCfg.PerMinute, cfg.RateLimitCfg.Burst)
		logger.Info("Rate limiter enabled",
			zap.Int("per_minute", cfg.RateLimitCfg.PerMinute),
			zap.Int("burst", cfg.RateLimitCfg.Burst),
		)
	}

	// Setup router
	requestTimeout := cfg.PipelineTimeout + requestTimeoutMargin
	router := api.SetupRouter(proposalHandler, limiter, requestTimeout, cfg.DocsSpecPath, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:  server,
		limiter: limiter,
		stop:    make(chan struct{}),
		logger:  logger,
	}, nil
}

// BuildGenerator creates the proposal pipeline without the HTTP surface
func BuildGenerator() (*Generator, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := pkglogger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	proposalUC, err := newProposalUsecase(cfg, newFormatterFactory(cfg, logger), logger)
	if err != nil {
		return nil, err
	}

	return &Generator{
		Usecase:   proposalUC,
		Validator: validator.NewValidator(cfg.ValidationCfg),
		Config:    cfg,
		Logger:    logger,
	}, nil
}

func newFormatterFactory(cfg *config.Config, logger *zap.Logger) *formatter.Factory {
	docxEnabled := false
	if key := cfg.RenderCfg.UniofficeLicenseKey; key != "" {
		if err := formatter.ActivateDOCX(key); err != nil {
			logger.Warn("DOCX rendering disabled", zap.Error(err))
		} else {
			docxEnabled = true
		}
	}
	if !docxEnabled {
		logger.Info("DOCX rendering unavailable, set RENDER_UNIOFFICE_LICENSE_KEY to enable it")
	}

	return formatter.NewFactory(formatter.Options{
		FontPath:    cfg.RenderCfg.FontPath,
		PageSize:    cfg.RenderCfg.PageSize,
		DOCXEnabled: docxEnabled,
	})
}

func newProposalUsecase(cfg *config.Config, formatters *formatter.Factory, logger *zap.Logger) (*proposal.ProposalUsecase, error) {
	// Initialize external service connectors (with mock support)
	var llmConnector proposal.LLMConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services",
			zap.String("llm_url", cfg.LLMConnectorCfg.Url),
			zap.String("llm_model", cfg.LLMConnectorCfg.Model),
		)
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	pdfRenderer, err := formatters.Create(entity.FormatPDF)
	if err != nil {
		return nil, fmt.Errorf("setup pdf renderer: %w", err)
	}

	proposalUC := proposal.NewUsecase(
		llmConnector,
		pdfRenderer,
		cfg.RenderCfg.BusinessName,
		cfg.PipelineTimeout,
		logger,
	)
	logger.Info("Use cases initialized")

	return proposalUC, nil
}
