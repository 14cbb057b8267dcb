package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	admindomain "github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
)

// reviewListHandler returns the moderation queue, highest rating first.
func (h *Handler) reviewListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		reviews, err := h.editor.Reviews(ctx)
		if err != nil {
			h.writeCommandError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"items": reviews,
		})
	}
}

func (h *Handler) reviewApprovalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.dispatch(w, r, commandRequest{Type: "toggleApproval", ID: chi.URLParam(r, "id")}, admindomain.CollectionReviews)
	}
}
