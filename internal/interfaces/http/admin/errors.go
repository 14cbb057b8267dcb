package admin

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	adminapp "github.com/sngm3741/nasam-site/internal/admin/application"
	admindomain "github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
)

// writeCommandError はアプリケーション層のエラーを HTTP ステータスへ変換する。
// ストアのエラーは加工せずにそのまま返す。
func (h *Handler) writeCommandError(w http.ResponseWriter, err error) {
	var confirm *adminapp.ConfirmationRequiredError
	switch {
	case errors.As(err, &confirm):
		body := map[string]any{
			"error":        "Deletion must be confirmed. Send the request again with confirmToken.",
			"confirmToken": confirm.Token,
			"expiresIn":    int(confirm.ExpiresIn.Seconds()),
		}
		if confirm.Reason != "" {
			body["reason"] = confirm.Reason
		}
		common.WriteJSON(h.logger, w, http.StatusConflict, body)
	case errors.Is(err, adminapp.ErrNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, err.Error())
	case errors.Is(err, admindomain.ErrInvalid),
		errors.Is(err, admindomain.ErrUnknownCollection),
		errors.Is(err, adminapp.ErrUnsupportedCommand),
		errors.Is(err, content.ErrUnknownSection):
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("管理操作に失敗", zap.Error(err))
		common.WriteError(h.logger, w, http.StatusInternalServerError, err.Error())
	}
}
