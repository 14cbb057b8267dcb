package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/infrastructure/cloudinary"
	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
)

func (h *Handler) uploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.uploader == nil {
			common.WriteError(h.logger, w, http.StatusServiceUnavailable, "Image uploads are not configured.")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, common.MaxUploadBody)
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "multipart form with a file field is required")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		url, err := h.uploader.Upload(ctx, header.Filename, file)
		if err != nil {
			if errors.Is(err, cloudinary.ErrNotConfigured) {
				common.WriteError(h.logger, w, http.StatusServiceUnavailable, "Image uploads are not configured.")
				return
			}
			h.logger.Error("画像のアップロードに失敗", zap.String("filename", header.Filename), zap.Error(err))
			common.WriteError(h.logger, w, http.StatusBadGateway, err.Error())
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"url": url})
	}
}

// previewHandler は保存前の内容をデフォルトとマージしてページを描画する。
func (h *Handler) previewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var partial content.Partial
		if err := common.DecodeBody(r, &partial); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		page, err := h.renderer.Page(content.Merge(content.Defaults(), &partial))
		if err != nil {
			h.logger.Error("プレビューの描画に失敗", zap.Error(err))
			common.WriteError(h.logger, w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}
