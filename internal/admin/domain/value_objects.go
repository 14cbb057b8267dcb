package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/sngm3741/nasam-site/internal/content"
)

// ErrInvalid wraps every admin input validation failure.
var ErrInvalid = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// RequiredText is a trimmed, non-empty string.
type RequiredText string

func NewRequiredText(field, value string) (RequiredText, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", invalidf("%s is required", field)
	}
	return RequiredText(trimmed), nil
}

func (t RequiredText) String() string {
	return string(t)
}

type Email string

// NewEmail は空文字を許容し、値がある場合のみ形式を検証する。
func NewEmail(value string) (Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > 254 {
		return "", invalidf("email too long")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", invalidf("invalid email: %v", err)
	}
	return Email(strings.ToLower(addr.Address)), nil
}

func (e Email) String() string {
	return string(e)
}

// URL accepts absolute URLs, site-relative paths and in-page anchors. Empty is allowed.
type URL string

func NewURL(value string) (URL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if strings.HasPrefix(trimmed, "#") {
		return URL(trimmed), nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", invalidf("invalid URL: %v", err)
	}
	if parsed.Scheme != "" && parsed.Scheme != "http" && parsed.Scheme != "https" && parsed.Scheme != "mailto" && parsed.Scheme != "tel" {
		return "", invalidf("unsupported URL scheme: %s", parsed.Scheme)
	}
	return URL(trimmed), nil
}

func (u URL) String() string {
	return string(u)
}

// PhotoURL is a required image URL.
type PhotoURL string

func NewPhotoURL(value string) (PhotoURL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", invalidf("photo URL is required")
	}
	u, err := NewURL(trimmed)
	if err != nil {
		return "", err
	}
	return PhotoURL(u), nil
}

func (u PhotoURL) String() string {
	return string(u)
}

// Slug は明示値があればそれを、なければ fallback から生成したスラッグを返す。
type Slug string

func NewSlug(value, fallback string) Slug {
	if s := content.Slugify(value); s != "" {
		return Slug(s)
	}
	return Slug(content.Slugify(fallback))
}

func (s Slug) String() string {
	return string(s)
}

// TrimLines trims every entry and drops blanks.
func TrimLines(values []string) []string {
	result := make([]string, 0, len(values))
	for _, raw := range values {
		if v := strings.TrimSpace(raw); v != "" {
			result = append(result, v)
		}
	}
	return result
}
