package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openstrand/strandkit/internal/apperr"
	"github.com/openstrand/strandkit/internal/schema"
	"github.com/openstrand/strandkit/internal/schemaservice"
	"github.com/openstrand/strandkit/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	svc *schemaservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *schemaservice.Service) *Handler {
	return &Handler{svc: svc}
}

// schemaID extracts the record id from the URL (everything after
// /api/schemas/). Supports encoded slashes (e.g. topics%2Fintro.md).
func schemaID(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ValidateSchema handles POST /api/schemas/validate. It never writes; it
// returns the complete diagnostic list for the submitted document.
func (h *Handler) ValidateSchema(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}
	res, err := h.svc.Validate(r.Context(), req.Content)
	if err != nil {
		// Decode failures are still a diagnostic, not a server error.
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, validationResponse(res))
}

// ListSchemas handles GET /api/schemas?kind=Loom or ?q=name.
func (h *Handler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if query := q.Get("q"); query != "" {
		limit, _ := strconv.Atoi(q.Get("limit"))
		recs, err := h.svc.Search(r.Context(), query, limit)
		if err != nil {
			slog.Error("search schemas failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		writeJSON(w, http.StatusOK, listResponse(recs))
		return
	}

	kind := schema.Kind(q.Get("kind"))
	if !kind.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'kind' must be one of: Loom, Weave, Strand"))
		return
	}
	recs, err := h.svc.List(r.Context(), kind)
	if err != nil {
		slog.Error("list schemas failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, listResponse(recs))
}

// PendingSchemas handles GET /api/schemas/pending, the publish-queue view.
func (h *Handler) PendingSchemas(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.Pending(r.Context())
	if err != nil {
		slog.Error("pending schemas failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, listResponse(recs))
}

// GetSchema handles GET /api/schemas/*. With ?format=yaml it returns the
// serialized document instead of the JSON record.
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	id := schemaID(r)
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}

	if r.URL.Query().Get("format") == "yaml" {
		text, err := h.svc.Render(r.Context(), id)
		if err != nil {
			h.writeGetError(w, id, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(text)
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeGetError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse(rec))
}

func (h *Handler) writeGetError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	slog.Error("get schema failed", slog.String("id", id), slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// SaveSchema handles PUT /api/schemas/*.
func (h *Handler) SaveSchema(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := schemaID(r)
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	rec, res, err := h.svc.Save(r.Context(), id, req.Content,
		store.SaveOptions{Pending: req.Pending, Draft: req.Draft})
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse(res))
		return
	}
	writeJSON(w, http.StatusOK, recordResponse(rec))
}

// DeleteSchema handles DELETE /api/schemas/*.
func (h *Handler) DeleteSchema(w http.ResponseWriter, r *http.Request) {
	id := schemaID(r)
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete schema failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublishSchema handles POST /api/schemas/publish. The sync collaborator
// calls this after a successful server write.
func (h *Handler) PublishSchema(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Publish)
}

// ConflictSchema handles POST /api/schemas/conflict. The sync collaborator
// calls this after detecting server-side divergence.
func (h *Handler) ConflictSchema(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Conflict)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id string) (*store.Record, error)) {
	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	rec, err := op(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("transition failed", slog.String("id", req.ID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, recordResponse(rec))
}

// Changes handles GET /api/schemas/changes?id=...
func (h *Handler) Changes(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'id' is required"))
		return
	}
	unsaved, unpublished, err := h.svc.Changes(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("changes failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ChangesResponse{ID: id, Unsaved: unsaved, Unpublished: unpublished})
}

// Export handles GET /api/export, returning the full export document.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export(r.Context())
	if err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="strandkit-export.yaml"`)
	_, _ = w.Write(data)
}

// Import handles POST /api/import. The body is the export document itself.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	count, err := h.svc.Import(r.Context(), data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: count})
}
