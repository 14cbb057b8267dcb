package public

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
	"github.com/sngm3741/nasam-site/internal/prompt"
)

type promptPlanResponse struct {
	SuppressedUntil *int64            `json:"suppressedUntil"`
	Prompts         []prompt.PlanItem `json:"prompts"`
}

type promptShownRequest struct {
	Key             string `json:"key"`
	ConsentDeclined bool   `json:"consentDeclined"`
}

func (h *Handler) suppressedUntil(r *http.Request) time.Time {
	cookie, err := r.Cookie(prompt.CookieName)
	if err != nil {
		return time.Time{}
	}
	return prompt.ParseSuppressedUntil(cookie.Value)
}

// visitorState reads the client-reported state from the query string. Unparsable values count as false.
func visitorState(r *http.Request) prompt.State {
	flag := func(name string) bool {
		v, _ := strconv.ParseBool(r.URL.Query().Get(name))
		return v
	}
	return prompt.State{
		ModalOpen:        flag("modalOpen"),
		ReviewSubmitted:  flag("reviewSubmitted"),
		ContactSubmitted: flag("contactSubmitted"),
	}
}

// promptPlanHandler は抑止 Cookie と訪問者の状態を考慮した表示計画を返す。抑止期間中は空の計画。
func (h *Handler) promptPlanHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := h.now()
		until := h.suppressedUntil(r)

		res := promptPlanResponse{Prompts: prompt.Plan(h.prompts, visitorState(r), until, now)}
		if now.Before(until) {
			ms := until.UnixMilli()
			res.SuppressedUntil = &ms
		}
		common.WriteJSON(h.logger, w, http.StatusOK, res)
	}
}

// promptShownHandler starts the suppression window after the client displayed a prompt.
func (h *Handler) promptShownHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req promptShownRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&req); err != nil && err != io.EOF {
			common.WriteError(h.logger, w, http.StatusBadRequest, "invalid request body")
			return
		}

		now := h.now()
		until := now.Add(h.promptPolicy.WindowFor(req.ConsentDeclined))
		cookie := &http.Cookie{
			Name:     prompt.CookieName,
			Value:    prompt.FormatSuppressedUntil(until),
			Path:     "/",
			HttpOnly: false,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
		}
		// 保存への同意がない場合はセッション Cookie にとどめる
		if !req.ConsentDeclined {
			cookie.Expires = until
			cookie.MaxAge = int(until.Sub(now) / time.Second)
		}
		http.SetCookie(w, cookie)

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]int64{
			"suppressedUntil": until.UnixMilli(),
		})
	}
}
