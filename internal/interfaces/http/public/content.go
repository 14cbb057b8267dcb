package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
	"github.com/sngm3741/nasam-site/internal/render"
)

// loadContent はストア未設定・取得失敗時もデフォルトとマージ済みのコンテンツを返す。
func (h *Handler) loadContent(r *http.Request) (content.Content, error) {
	if h.content == nil {
		return content.Defaults(), nil
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	return h.content.Content(ctx)
}

func (h *Handler) renderContent(w http.ResponseWriter, r *http.Request) (*render.Result, bool) {
	c, err := h.loadContent(r)
	if err != nil {
		h.logger.Warn("コンテンツの取得に失敗", zap.Error(err))
		common.WriteError(h.logger, w, http.StatusServiceUnavailable, "content is temporarily unavailable")
		return nil, false
	}
	result, err := h.renderer.Render(c)
	if err != nil {
		h.logger.Error("コンテンツの描画に失敗", zap.Error(err))
		common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to render content")
		return nil, false
	}
	return result, true
}

func (h *Handler) pageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.loadContent(r)
		if err != nil {
			h.logger.Warn("コンテンツの取得に失敗", zap.Error(err))
			http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		page, err := h.renderer.Page(c)
		if err != nil {
			h.logger.Error("ページの描画に失敗", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(page); err != nil {
			h.logger.Debug("ページの書き込みに失敗", zap.Error(err))
		}
	}
}

func (h *Handler) contentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.loadContent(r)
		if err != nil {
			h.logger.Warn("コンテンツの取得に失敗", zap.Error(err))
			common.WriteError(h.logger, w, http.StatusServiceUnavailable, "content is temporarily unavailable")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, c)
	}
}

func (h *Handler) projectDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		result, ok := h.renderContent(w, r)
		if !ok {
			return
		}
		detail, found := result.Registry.Project(id)
		if !found {
			common.WriteError(h.logger, w, http.StatusNotFound, "project not found")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, detail)
	}
}

func (h *Handler) categoryGalleryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		result, ok := h.renderContent(w, r)
		if !ok {
			return
		}
		images, found := result.Registry.Gallery(id)
		if !found {
			common.WriteError(h.logger, w, http.StatusNotFound, "category not found")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"id":     id,
			"images": images,
		})
	}
}
