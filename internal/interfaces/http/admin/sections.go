package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
)

// companyPayload は電話番号と所在地を配列でも改行区切りの文字列でも受け付ける。
type companyPayload struct {
	Name      string         `json:"name"`
	Tagline   string         `json:"tagline"`
	Intro     string         `json:"intro"`
	Email     string         `json:"email"`
	WhatsApp  string         `json:"whatsapp"`
	Phones    content.Lines  `json:"phones"`
	Locations content.Lines  `json:"locations"`
	Social    content.Social `json:"social"`
}

func (p companyPayload) toContent() content.Company {
	return content.Company{
		Name:      p.Name,
		Tagline:   p.Tagline,
		Intro:     p.Intro,
		Email:     p.Email,
		WhatsApp:  p.WhatsApp,
		Phones:    []string(p.Phones),
		Locations: []string(p.Locations),
		Social:    p.Social,
	}
}

func singletonSection(r *http.Request) (content.Section, bool) {
	section, err := content.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		return "", false
	}
	switch section {
	case content.SectionCompany, content.SectionBranding, content.SectionHero:
		return section, true
	}
	return "", false
}

func (h *Handler) sectionGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section, ok := singletonSection(r)
		if !ok {
			common.WriteError(h.logger, w, http.StatusNotFound, content.ErrUnknownSection.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		data, err := h.sections.Get(ctx, section)
		if err != nil {
			h.logger.Error("セクションの取得に失敗", zap.String("section", string(section)), zap.Error(err))
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]any{
				"error": err.Error(),
				"data":  map[string]any{},
			})
			return
		}
		if data == nil {
			data = map[string]any{}
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"section": section,
			"data":    data,
		})
	}
}

func (h *Handler) sectionSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section, ok := singletonSection(r)
		if !ok {
			common.WriteError(h.logger, w, http.StatusNotFound, content.ErrUnknownSection.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var (
			saved any
			err   error
		)
		switch section {
		case content.SectionCompany:
			var payload companyPayload
			if err := common.DecodeBody(r, &payload); err != nil {
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
				return
			}
			saved, err = h.sections.SaveCompany(ctx, payload.toContent())
		case content.SectionBranding:
			var payload content.Branding
			if err := common.DecodeBody(r, &payload); err != nil {
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
				return
			}
			saved, err = h.sections.SaveBranding(ctx, payload)
		case content.SectionHero:
			var payload content.Hero
			if err := common.DecodeBody(r, &payload); err != nil {
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
				return
			}
			saved, err = h.sections.SaveHero(ctx, payload)
		}
		if err != nil {
			h.writeCommandError(w, err)
			return
		}

		h.logger.Info("セクションを保存", zap.String("section", string(section)), zap.String("operator", operatorEmail(r)))
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"section": section,
			"data":    saved,
		})
	}
}
