// Package notify はメッセンジャーゲートウェイ経由で投稿受付の通知を送る。
// 送信に失敗した通知は FailureRecorder に保存し、後から再送できるようにする。
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	TargetAdmin  = "admin_notification"
	TargetSender = "sender_confirmation"
)

// FailureRecorder persists notifications that could not be delivered.
type FailureRecorder interface {
	Record(ctx context.Context, target string, payload map[string]any, cause error, attempts int) error
}

// Config configures a Messenger.
type Config struct {
	// Endpoint はゲートウェイのベース URL。空なら通知は無効。
	Endpoint string
	// AdminDestination receives new-submission notices with retry.
	AdminDestination string
	// FallbackDestination is tried once when the admin destination failed.
	FallbackDestination string
	// SenderDestination delivers the confirmation to the visitor. The visitor's email is the userId.
	SenderDestination string
	AdminUserID       string
	AdminBaseURL      string
	Attempts          int
	RetryDelay        time.Duration
	HTTPClient        *http.Client
	Failures          FailureRecorder
	Logger            *zap.Logger
}

// Messenger sends messages through the gateway's POST /messages endpoint.
type Messenger struct {
	endpoint            string
	adminDestination    string
	fallbackDestination string
	senderDestination   string
	adminUserID         string
	adminBaseURL        string
	attempts            int
	retryDelay          time.Duration
	httpClient          *http.Client
	failures            FailureRecorder
	logger              *zap.Logger
}

func New(cfg Config) *Messenger {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 3
	}
	adminUserID := strings.TrimSpace(cfg.AdminUserID)
	if adminUserID == "" {
		adminUserID = "admin"
	}
	return &Messenger{
		endpoint:            strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		adminDestination:    strings.TrimSpace(cfg.AdminDestination),
		fallbackDestination: strings.TrimSpace(cfg.FallbackDestination),
		senderDestination:   strings.TrimSpace(cfg.SenderDestination),
		adminUserID:         adminUserID,
		adminBaseURL:        strings.TrimRight(strings.TrimSpace(cfg.AdminBaseURL), "/"),
		attempts:            attempts,
		retryDelay:          cfg.RetryDelay,
		httpClient:          client,
		failures:            cfg.Failures,
		logger:              logger,
	}
}

// Enabled reports whether a gateway endpoint is configured.
func (m *Messenger) Enabled() bool {
	return m.endpoint != ""
}

// notifyAdmin は管理者宛てに送信し、失敗した場合はフォールバック先へ 1 回だけ送る。
// どちらも失敗した場合は失敗通知として保存する。
func (m *Messenger) notifyAdmin(ctx context.Context, text string, payload map[string]any) error {
	if m.adminDestination == "" && m.fallbackDestination == "" {
		return nil
	}
	var adminErr, fallbackErr error
	attempts := 0

	if m.adminDestination != "" {
		adminErr = m.sendWithRetry(ctx, m.adminDestination, m.adminUserID, text, m.attempts, m.retryDelay)
		attempts += m.attempts
		if adminErr == nil {
			return nil
		}
		m.logger.Warn("管理者通知の送信に失敗", zap.String("destination", m.adminDestination), zap.Error(adminErr))
	}
	if m.fallbackDestination != "" {
		fallbackErr = m.sendWithRetry(ctx, m.fallbackDestination, m.adminUserID, text, 1, 0)
		attempts++
		if fallbackErr == nil {
			return nil
		}
		m.logger.Warn("フォールバック通知の送信に失敗", zap.String("destination", m.fallbackDestination), zap.Error(fallbackErr))
	}

	combined := errors.Join(adminErr, fallbackErr)
	m.persistFailure(ctx, TargetAdmin, payload, combined, attempts)
	return combined
}

func (m *Messenger) notifySender(ctx context.Context, recipient, text string, payload map[string]any) error {
	if m.senderDestination == "" || strings.TrimSpace(recipient) == "" {
		return nil
	}
	err := m.sendWithRetry(ctx, m.senderDestination, recipient, text, m.attempts, m.retryDelay)
	if err != nil {
		m.logger.Warn("送信者への確認通知に失敗", zap.Error(err))
		m.persistFailure(ctx, TargetSender, payload, err, m.attempts)
	}
	return err
}

func (m *Messenger) persistFailure(ctx context.Context, target string, payload map[string]any, cause error, attempts int) {
	if m.failures == nil || cause == nil {
		return
	}
	if err := m.failures.Record(ctx, target, payload, cause, attempts); err != nil {
		m.logger.Error("failed_notifications への保存に失敗", zap.String("target", target), zap.Error(err))
	}
}

func (m *Messenger) sendWithRetry(ctx context.Context, destination, userID, text string, attempts int, delay time.Duration) error {
	if destination == "" {
		return errors.New("destination is empty")
	}
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = m.send(ctx, destination, userID, text); lastErr == nil {
			return nil
		}
		if i == attempts-1 || delay <= 0 {
			continue
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(lastErr, ctx.Err())
		case <-timer.C:
		}
	}
	return lastErr
}

func (m *Messenger) send(ctx context.Context, destination, userID, text string) error {
	trimmedUserID := strings.TrimSpace(userID)
	if trimmedUserID == "" {
		return errors.New("userID is required")
	}
	payload := map[string]any{
		"userId":      trimmedUserID,
		"text":        text,
		"destination": destination,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("メッセンジャー送信用ペイロードの作成に失敗: %w", err)
	}

	timeout := m.httpClient.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("メッセンジャー送信でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return nil
}
