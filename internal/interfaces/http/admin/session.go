package admin

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
)

const (
	msgSignInRequired = "Sign in required."
	msgNotAuthorized  = "You are not authorized for admin access."
	msgSetupRequired  = "Admin setup is incomplete. Configure the missing keys and restart."
)

func (h *Handler) resolveEmail(r *http.Request) (string, bool) {
	if h.identity == nil {
		return "", false
	}
	return h.identity.Resolve(r)
}

// requireSetup は設定が揃うまでストアに触れずに 503 を返す。
func (h *Handler) requireSetup(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(h.setupIssues) > 0 {
			common.WriteJSON(h.logger, w, http.StatusServiceUnavailable, map[string]any{
				"error":   msgSetupRequired,
				"missing": h.setupIssues,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireOperator treats a signed-in but non allow-listed user exactly like an anonymous one.
func (h *Handler) requireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := h.resolveEmail(r)
		if !ok || !h.allowList.Allows(email) {
			common.WriteError(h.logger, w, http.StatusUnauthorized, msgSignInRequired)
			return
		}
		ctx := common.ContextWithOperator(r.Context(), common.Operator{Email: email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionHandler は明示的なサインイン確認。許可リスト外のユーザーにだけ 403 を返す。
func (h *Handler) sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(h.setupIssues) > 0 {
			common.WriteJSON(h.logger, w, http.StatusServiceUnavailable, map[string]any{
				"error":   msgSetupRequired,
				"missing": h.setupIssues,
			})
			return
		}
		email, ok := h.resolveEmail(r)
		if !ok {
			common.WriteError(h.logger, w, http.StatusUnauthorized, msgSignInRequired)
			return
		}
		if !h.allowList.Allows(email) {
			h.logger.Warn("許可リスト外のユーザーがサインインを試行", zap.String("email", email))
			common.WriteError(h.logger, w, http.StatusForbidden, msgNotAuthorized)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status":   "ok",
			"operator": common.Operator{Email: email},
		})
	}
}

func (h *Handler) setupStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		missing := h.setupIssues
		if missing == nil {
			missing = []string{}
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"ready":   len(missing) == 0,
			"missing": missing,
		})
	}
}

func operatorEmail(r *http.Request) string {
	operator, _ := common.OperatorFromContext(r.Context())
	return operator.Email
}
