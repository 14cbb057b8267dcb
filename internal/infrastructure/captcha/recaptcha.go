// Package captcha は reCAPTCHA の siteverify API でトークンを検証する。
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrVerificationFailed is returned when the token is missing or rejected.
var ErrVerificationFailed = errors.New("captcha verification failed")

const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type Config struct {
	// Secret が空なら検証は無効になる。
	Secret     string
	VerifyURL  string
	HTTPClient *http.Client
}

type Verifier struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
}

func NewVerifier(cfg Config) *Verifier {
	verifyURL := strings.TrimSpace(cfg.VerifyURL)
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Verifier{
		secret:     strings.TrimSpace(cfg.Secret),
		verifyURL:  verifyURL,
		httpClient: client,
	}
}

// Enabled reports whether a secret is configured.
func (v *Verifier) Enabled() bool {
	return v.secret != ""
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify はトークンを検証する。拒否された場合は ErrVerificationFailed をラップして返す。
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if !v.Enabled() {
		return nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is empty", ErrVerificationFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("siteverify リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("siteverify リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return fmt.Errorf("siteverify でエラーが発生: status=%d", res.StatusCode)
	}
	var payload siteverifyResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<16)).Decode(&payload); err != nil {
		return fmt.Errorf("siteverify レスポンスの解析に失敗: %w", err)
	}
	if !payload.Success {
		return fmt.Errorf("%w: %s", ErrVerificationFailed, strings.Join(payload.ErrorCodes, ","))
	}
	return nil
}
