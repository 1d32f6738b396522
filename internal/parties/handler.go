package parties

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/pkg/handlers"
	"github.com/covenantlabs/covenant/pkg/routes"
)

// Handler provides HTTP endpoints for reading extracted-parties records.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "parties"),
	}
}

// Routes returns the route group definition for extracted-parties endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/parties",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/document/{id}", Handler: h.ListByDocument},
		},
	}
}

// Find returns a single extracted-parties record by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	rec, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// ListByDocument returns all extraction records for a document, newest first.
func (h *Handler) ListByDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	items, err := h.sys.ListByDocument(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}
