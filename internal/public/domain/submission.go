package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sngm3741/nasam-site/internal/content"
)

const (
	MaxNameLength    = 120
	MaxCommentLength = 2000
	MaxEmailLength   = 254
	MaxMessageLength = 5000
	MaxPhoneLength   = 40
)

// ValidationError is returned when visitor input is rejected. Its message is safe to show.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err carries a visitor-facing validation message.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// ReviewSubmission は訪問者から投稿された未承認レビュー。
type ReviewSubmission struct {
	ID        string
	Name      string
	Category  string
	Comment   string
	Rating    int
	CreatedAt time.Time
}

// NewReviewSubmission trims and validates a review. The rating is clamped to 1..5 (0 means 5).
func NewReviewSubmission(name, category, comment string, rating int, now time.Time) (ReviewSubmission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ReviewSubmission{}, invalid("name", "Please tell us your name.")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ReviewSubmission{}, invalid("name", "Name must be %d characters or fewer.", MaxNameLength)
	}
	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return ReviewSubmission{}, invalid("comment", "Comment must be %d characters or fewer.", MaxCommentLength)
	}
	return ReviewSubmission{
		Name:      name,
		Category:  strings.TrimSpace(category),
		Comment:   comment,
		Rating:    content.ClampSubmittedRating(rating),
		CreatedAt: now.UTC(),
	}, nil
}

// ContactMessage は問い合わせフォームの送信内容。保存後は読み出さない。
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}

// NewContactMessage trims and validates a contact form submission.
func NewContactMessage(name, email, phone, message string, now time.Time) (ContactMessage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ContactMessage{}, invalid("name", "Please tell us your name.")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ContactMessage{}, invalid("name", "Name must be %d characters or fewer.", MaxNameLength)
	}
	normalizedEmail, err := normalizeEmail(email)
	if err != nil {
		return ContactMessage{}, err
	}
	phone = strings.TrimSpace(phone)
	if utf8.RuneCountInString(phone) > MaxPhoneLength {
		return ContactMessage{}, invalid("phone", "Phone number must be %d characters or fewer.", MaxPhoneLength)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return ContactMessage{}, invalid("message", "Please include a message.")
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return ContactMessage{}, invalid("message", "Message must be %d characters or fewer.", MaxMessageLength)
	}
	return ContactMessage{
		Name:      name,
		Email:     normalizedEmail,
		Phone:     phone,
		Message:   message,
		CreatedAt: now.UTC(),
	}, nil
}

func normalizeEmail(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", invalid("email", "Please provide an email address.")
	}
	if len(trimmed) > MaxEmailLength {
		return "", invalid("email", "Email address must be %d characters or fewer.", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", invalid("email", "Please provide a valid email address.")
	}
	return addr.Address, nil
}
