package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sngm3741/nasam-site/internal/public/domain"
)

// NotifyReview tells the admin that a review awaits moderation.
func (m *Messenger) NotifyReview(ctx context.Context, review domain.ReviewSubmission) error {
	if !m.Enabled() {
		return nil
	}
	payload := map[string]any{
		"reviewId": review.ID,
		"name":     review.Name,
		"category": review.Category,
		"rating":   review.Rating,
		"comment":  review.Comment,
	}
	return m.notifyAdmin(ctx, buildReviewMessage(m.adminBaseURL, review), payload)
}

// NotifyContact は管理者への通知と送信者への受付確認を送る。
func (m *Messenger) NotifyContact(ctx context.Context, message domain.ContactMessage) error {
	if !m.Enabled() {
		return nil
	}
	payload := map[string]any{
		"contactId": message.ID,
		"name":      message.Name,
		"email":     message.Email,
		"phone":     message.Phone,
		"message":   message.Message,
	}
	adminErr := m.notifyAdmin(ctx, buildContactMessage(message), payload)
	senderErr := m.notifySender(ctx, message.Email, buildContactConfirmation(message), payload)
	return errors.Join(adminErr, senderErr)
}

func buildReviewMessage(adminBaseURL string, review domain.ReviewSubmission) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**%s** left a new review awaiting approval.\n", review.Name))
	if review.Category != "" {
		builder.WriteString(fmt.Sprintf("- Client type: %s\n", review.Category))
	}
	builder.WriteString(fmt.Sprintf("- Rating: %d / 5\n", review.Rating))
	if review.Comment != "" {
		builder.WriteString(fmt.Sprintf("- Comment: %s\n", review.Comment))
	}
	if adminBaseURL != "" {
		builder.WriteString(fmt.Sprintf("[Moderate reviews](%s/reviews)\n", adminBaseURL))
	}
	return builder.String()
}

func buildContactMessage(message domain.ContactMessage) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("New enquiry from **%s**\n", message.Name))
	builder.WriteString(fmt.Sprintf("- Email: %s\n", message.Email))
	if message.Phone != "" {
		builder.WriteString(fmt.Sprintf("- Phone: %s\n", message.Phone))
	}
	builder.WriteString("> " + strings.ReplaceAll(message.Message, "\n", "\n> ") + "\n")
	return builder.String()
}

func buildContactConfirmation(message domain.ContactMessage) string {
	return fmt.Sprintf("Hello %s, thank you for contacting NASAM Hi-Tech Electricals. We received your message and will get back to you shortly.", message.Name)
}
