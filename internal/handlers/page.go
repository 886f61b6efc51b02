package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apperrors "items-finder/internal/errors"
	"items-finder/internal/services"
	"items-finder/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheNoStore  = "no-store"
)

type PageHandlers struct {
	workspace *services.Workspace
	logger    *slog.Logger
}

func NewPageHandlers(workspace *services.Workspace, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		workspace: workspace,
		logger:    logger,
	}
}

func (h *PageHandlers) view() templates.DashboardView {
	preview, err := h.workspace.Preview()
	if err != nil {
		return templates.DashboardView{}
	}
	return templates.DashboardView{
		Source:     preview.Source,
		Header:     preview.Header,
		Rows:       preview.Rows,
		Categories: preview.Categories,
	}
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, status int, view templates.DashboardView) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheNoStore)
	w.WriteHeader(status)
	if err := templates.Dashboard(view).Render(ctx, w); err != nil {
		h.logger.Error("render dashboard", "error", err)
	}
}

func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.view())
}

// HandleUpload is the plain form upload used by the page. A failed upload
// re-renders the page with only the error, never a stale table.
func (h *PageHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	err := h.load(r)
	if err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	appErr := toAppError(err)
	h.logger.Warn("upload failed", "code", appErr.Code, "error", err)
	h.render(w, r, appErr.StatusCode, templates.DashboardView{Error: appErr.UserMessage()})
}

func (h *PageHandlers) load(r *http.Request) error {
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return apperrors.BadRequest("Choose an Excel file to upload")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return apperrors.BadRequest("Choose an Excel file to upload")
	}
	defer file.Close()

	_, err = h.workspace.Load(r.Context(), header.Filename, file)
	return err
}
