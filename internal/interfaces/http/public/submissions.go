package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/nasam-site/internal/public/application"
	"github.com/sngm3741/nasam-site/internal/public/domain"
)

type reviewRequest struct {
	Name         string             `json:"name"`
	Category     string             `json:"category"`
	Comment      string             `json:"comment"`
	Rating       common.FlexibleInt `json:"rating"`
	Honeypot     string             `json:"hp"`
	CaptchaToken string             `json:"captchaToken"`
	// フォーム送信時の reCAPTCHA ウィジェットのフィールド名
	RecaptchaResponse string `json:"g-recaptcha-response"`
}

type contactRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Message           string `json:"message"`
	Honeypot          string `json:"hp"`
	CaptchaToken      string `json:"captchaToken"`
	RecaptchaResponse string `json:"g-recaptcha-response"`
}

func firstToken(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func (h *Handler) reviewSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.submissions == nil {
			common.WriteError(h.logger, w, http.StatusServiceUnavailable, "Reviews are not accepted right now.")
			return
		}
		var req reviewRequest
		if err := common.DecodeBody(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		review, err := h.submissions.SubmitReview(ctx, publicapp.SubmitReviewCommand{
			Name:         req.Name,
			Category:     req.Category,
			Comment:      req.Comment,
			Rating:       int(req.Rating),
			Honeypot:     req.Honeypot,
			CaptchaToken: firstToken(req.CaptchaToken, req.RecaptchaResponse),
			RemoteIP:     common.ClientIP(r),
		})
		if err != nil {
			h.writeSubmissionError(w, "review", err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, map[string]any{
			"status":  "ok",
			"id":      review.ID,
			"message": "Thank you for your review! It will appear once approved.",
		})
	}
}

func (h *Handler) contactSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.submissions == nil {
			common.WriteError(h.logger, w, http.StatusServiceUnavailable, "Messages are not accepted right now.")
			return
		}
		var req contactRequest
		if err := common.DecodeBody(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		message, err := h.submissions.SubmitContact(ctx, publicapp.SubmitContactCommand{
			Name:         req.Name,
			Email:        req.Email,
			Phone:        req.Phone,
			Message:      req.Message,
			Honeypot:     req.Honeypot,
			CaptchaToken: firstToken(req.CaptchaToken, req.RecaptchaResponse),
			RemoteIP:     common.ClientIP(r),
		})
		if err != nil {
			h.writeSubmissionError(w, "contact", err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, map[string]any{
			"status":  "ok",
			"id":      message.ID,
			"message": "Thank you! Your message has been sent.",
		})
	}
}

func (h *Handler) writeSubmissionError(w http.ResponseWriter, kind string, err error) {
	var validation *domain.ValidationError
	switch {
	case errors.Is(err, publicapp.ErrSpam):
		h.logger.Info("honeypot に入力があったため拒否", zap.String("kind", kind))
		common.WriteError(h.logger, w, http.StatusBadRequest, "Spam detected.")
	case errors.Is(err, publicapp.ErrCaptchaFailed):
		common.WriteError(h.logger, w, http.StatusBadRequest, "reCAPTCHA verification failed. Please try again.")
	case errors.As(err, &validation):
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
			"error": validation.Message,
			"field": validation.Field,
		})
	default:
		h.logger.Error("投稿の保存に失敗", zap.String("kind", kind), zap.Error(err))
		common.WriteError(h.logger, w, http.StatusInternalServerError, "We could not save your submission right now. Please try again in a moment.")
	}
}
