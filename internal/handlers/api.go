package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	apperrors "items-finder/internal/errors"
	"items-finder/internal/models"
	"items-finder/internal/observability"
	"items-finder/internal/services"
)

type APIHandlers struct {
	workspace *services.Workspace
	logger    *slog.Logger
}

func NewAPIHandlers(workspace *services.Workspace, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		workspace: workspace,
		logger:    logger,
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.WriteError(w, h.logger, toAppError(err), observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = apperrors.BadRequestWrap(err, "Expected a multipart upload")
		}
		h.fail(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, apperrors.BadRequestWrap(err, "Missing file field"))
		return
	}
	defer file.Close()

	preview, err := h.workspace.Load(r.Context(), header.Filename, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	apperrors.WriteSuccess(w, preview)
}

func (h *APIHandlers) HandleTable(w http.ResponseWriter, r *http.Request) {
	preview, err := h.workspace.Preview()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apperrors.WriteSuccess(w, preview)
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.workspace.Categories()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apperrors.WriteSuccess(w, categories)
}

func (h *APIHandlers) HandleItems(w http.ResponseWriter, r *http.Request) {
	mode, category, err := readSelection(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.workspace.Compute(r.Context(), mode, category)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	apperrors.WriteSuccessWithHeaders(w, result, map[string]string{
		"Cache-Control": "no-store",
	})
}

type annotationRequest struct {
	Item              string `json:"item"`
	AvailableQuantity string `json:"available_quantity"`
}

func (h *APIHandlers) HandleAnnotate(w http.ResponseWriter, r *http.Request) {
	var req annotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, apperrors.BadRequestWrap(err, "Invalid annotation body"))
		return
	}
	if req.Item == "" {
		h.fail(w, r, apperrors.Validation("item is required"))
		return
	}

	h.workspace.Annotate(req.Item, req.AvailableQuantity)
	apperrors.WriteSuccess(w, h.workspace.Annotations())
}

func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	mode, category, err := readSelection(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	name, data, err := h.workspace.Export(r.Context(), mode, category)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", models.ExportMIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("write export", "error", err)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	apperrors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, h.workspace.Stats())
}
