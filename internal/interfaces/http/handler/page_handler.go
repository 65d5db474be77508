package handler

import (
	"bytes"
	"net/http"

	"github.com/dreschagin/k8s-orchestration-demo/internal/interfaces/view"
	"github.com/dreschagin/k8s-orchestration-demo/pkg/logger"
)

const (
	// IndexTemplate is the template rendered for the landing page.
	IndexTemplate = "index.html"

	// Message is the text shown on the landing page.
	Message = "Minimal App to play around with K8s 🚀"
)

// PageHandler renders the landing page.
type PageHandler struct {
	renderer *view.Renderer
	logger   *logger.Logger
}

func NewPageHandler(renderer *view.Renderer, logger *logger.Logger) *PageHandler {
	return &PageHandler{
		renderer: renderer,
		logger:   logger,
	}
}

// ShowIndex renders index.html. The page is buffered so a failed render
// never leaves a half-written 200 behind.
func (h *PageHandler) ShowIndex(w http.ResponseWriter, r *http.Request) {
	data := view.Context{"message": Message}

	var buf bytes.Buffer
	if err := h.renderer.Page(IndexTemplate, data).Render(r.Context(), &buf); err != nil {
		h.logger.Error("Failed to render page", err, "template", IndexTemplate)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
