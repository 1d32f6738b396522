package pipeline

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/internal/prompts"
	"github.com/covenantlabs/covenant/pkg/handlers"
	"github.com/covenantlabs/covenant/pkg/routes"
)

// Handler provides the HTTP endpoints that run the pipeline. Read endpoints
// for analyses and parties live with their own domains; only the run
// operations are exposed here.
type Handler struct {
	orch   *Orchestrator
	logger *slog.Logger
}

// RunRequest is the body for a single analysis run. The document is
// addressed by path; perspective and bias shape the prompt.
type RunRequest struct {
	Perspective string `json:"perspective"`
	Bias        string `json:"bias"`
}

// BatchRequest is the body for a batch analysis run.
type BatchRequest struct {
	Requests []AnalyzeRequest `json:"requests"`
}

// rejectionResponse is the body for a rejected analysis, carrying the
// machine-checkable code alongside the model's note.
type rejectionResponse struct {
	Code string `json:"code"`
	Note string `json:"note,omitempty"`
}

// NewHandler creates a Handler over the orchestrator.
func NewHandler(orch *Orchestrator, logger *slog.Logger) *Handler {
	return &Handler{
		orch:   orch,
		logger: logger.With("handler", "pipeline"),
	}
}

// Routes returns the route group definition for pipeline run endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyses/{documentId}", Handler: h.Analyze},
			{Method: "POST", Pattern: "/analyses/batch", Handler: h.AnalyzeBatch},
			{Method: "POST", Pattern: "/parties/{documentId}", Handler: h.ExtractParties},
		},
	}
}

// Analyze runs a full analysis for the document in the path.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRun(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	record, err := h.orch.Analyze(r.Context(), *req)
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, record)
}

// AnalyzeBatch runs analyses for every request in the body and reports
// per-request outcomes.
func (h *Handler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if len(req.Requests) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			errors.New("empty batch"))
		return
	}

	results := h.orch.AnalyzeBatch(r.Context(), req.Requests)
	handlers.RespondJSON(w, http.StatusOK, results)
}

// ExtractParties runs party extraction for the document in the path.
func (h *Handler) ExtractParties(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	record, err := h.orch.ExtractParties(r.Context(), id)
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, record)
}

func (h *Handler) decodeRun(r *http.Request) (*AnalyzeRequest, error) {
	id, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		return nil, err
	}

	var body RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}

	bias, err := prompts.ParseBias(body.Bias)
	if err != nil {
		return nil, err
	}

	return &AnalyzeRequest{
		DocumentID:  id,
		Perspective: body.Perspective,
		Bias:        bias,
	}, nil
}

// respondRunError distinguishes a model rejection, which carries its own
// response shape, from ordinary pipeline errors.
func (h *Handler) respondRunError(w http.ResponseWriter, err error) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		handlers.RespondJSON(w, http.StatusUnprocessableEntity, rejectionResponse{
			Code: rejection.Code(),
			Note: rejection.Note,
		})
		return
	}

	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}
