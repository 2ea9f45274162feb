package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/pkg/logger"
	"github.com/futig/proposal-backend/internal/pkg/response"
	proposaluc "github.com/futig/proposal-backend/internal/usecase/proposal"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxRequestBodySize = 1 << 20

type Handler struct {
	usecase      ProposalUsecase
	callbackConn CallbackConnector
	formatters   FormatterFactory
	validator    RequestValidator
}

func NewHandler(
	usecase ProposalUsecase,
	callbackConn CallbackConnector,
	formatters FormatterFactory,
	validator RequestValidator,
) *Handler {
	return &Handler{
		usecase:      usecase,
		callbackConn: callbackConn,
		formatters:   formatters,
		validator:    validator,
	}
}

// GenerateProposal handles POST /api/generate-proposal
func (h *Handler) GenerateProposal(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateProposal")

	var req entity.GenerateProposalRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateGenerateProposal(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	ctxzap.Info(ctx, "generating proposal",
		zap.String("client_name", req.ClientName),
		zap.Int("user_input_length", len(req.UserInput)),
		zap.Bool("async", req.CallbackURL != ""),
	)

	if req.CallbackURL != "" {
		h.generateAsync(ctx, w, &req)
		return
	}

	result, err := h.usecase.GenerateProposal(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "proposal generated successfully", zap.String("proposal_id", result.ID))
	h.respondJSON(w, http.StatusOK, toGenerateProposalResponse(result))
}

func (h *Handler) generateAsync(ctx context.Context, w http.ResponseWriter, req *entity.GenerateProposalRequest) {
	requestID := middleware.GetReqID(ctx)

	// Return accepted status
	h.respondJSON(w, http.StatusAccepted, &entity.AcceptedResponse{
		Status:  "accepted",
		Message: "proposal generation is being processed",
	})

	// Run the pipeline detached from the request lifetime
	go func() {
		bgCtx := logger.Detach(ctx,
			zap.String("request_id", requestID),
			zap.String("action", "GenerateProposal-async"),
		)
		defer func() {
			if r := recover(); r != nil {
				ctxzap.Error(bgCtx, "proposal generation panicked", zap.Any("panic", r), zap.Stack("stack"))
				h.callbackConn.SendError(bgCtx, req.CallbackURL, requestID, "failed to generate proposal", map[string]any{})
			}
		}()

		progress := proposaluc.WithProgress(func(completed, total int, stage string) {
			ctxzap.Info(bgCtx, "pipeline progress",
				zap.String("stage", stage),
				zap.String("progress", strconv.Itoa(completed)+"/"+strconv.Itoa(total)),
			)
		})

		result, err := h.usecase.GenerateProposal(bgCtx, req, progress)
		if err != nil {
			ctxzap.Error(bgCtx, "failed to generate proposal", zap.Error(err))

			details := map[string]any{}
			var stageErr *proposaluc.StageError
			if errors.As(err, &stageErr) {
				details["stage"] = stageErr.Stage
			}
			h.callbackConn.SendError(bgCtx, req.CallbackURL, requestID, "failed to generate proposal", details)
			return
		}

		ctxzap.Info(bgCtx, "proposal generated successfully", zap.String("proposal_id", result.ID))
		h.callbackConn.SendFinalResult(bgCtx, req.CallbackURL, requestID, toGenerateProposalResponse(result))
	}()
}

// DownloadPDF handles POST /api/download-pdf
func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DownloadPDF")
	h.renderDocument(ctx, w, r, entity.FormatPDF)
}

// DownloadDocument handles POST /api/download/{format}
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	format := entity.ResultFormat(chi.URLParam(r, "format"))

	ctx := logger.AddFields(r.Context(),
		zap.String("format", string(format)),
		zap.String("action", "DownloadDocument"),
	)

	if !format.IsValid() {
		err := fmt.Errorf("%w: %q (allowed: pdf, docx, html, markdown)", entity.ErrInvalidFormat, format)
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	h.renderDocument(ctx, w, r, format)
}

func (h *Handler) renderDocument(ctx context.Context, w http.ResponseWriter, r *http.Request, format entity.ResultFormat) {
	var req entity.RenderDocumentRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateRenderDocument(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	f, err := h.formatters.Create(format)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidFormat) {
			h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
			return
		}
		h.handleUsecaseError(ctx, w, err)
		return
	}

	content, err := f.Format(toProposalDocument(&req))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "document rendered", zap.Int("size", len(content)))

	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	if err := response.Attachment(w, f.ContentType(), "proposal"+f.FileExtension(), content); err != nil {
		ctxzap.Warn(ctx, "failed to write document", zap.Error(err))
	}
}

// Helper methods
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Error(ctx, message)
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrCredential):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid api key", err)
	case errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
