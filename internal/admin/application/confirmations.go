package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sngm3741/nasam-site/internal/admin/domain"
)

// DefaultConfirmationTTL は削除確認トークンの有効期間。
const DefaultConfirmationTTL = 2 * time.Minute

var (
	// ErrConfirmationRequired marks a destructive command that still needs operator confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
	errConfirmationMismatch = errors.New("confirmation token does not match")
)

// ConfirmationRequiredError carries the token the operator must send back.
type ConfirmationRequiredError struct {
	Token     string
	ExpiresIn time.Duration
	// Reason is set when a supplied token was rejected.
	Reason string
}

func (e *ConfirmationRequiredError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrConfirmationRequired, e.Reason)
	}
	return ErrConfirmationRequired.Error()
}

func (e *ConfirmationRequiredError) Is(target error) bool {
	return target == ErrConfirmationRequired
}

type confirmationClaim struct {
	Collection domain.Collection `json:"collection"`
	ID         string            `json:"id"`
	Operator   string            `json:"operator"`
}

// Confirmations issues and consumes single-use delete confirmation tokens.
type Confirmations struct {
	store TokenStore
	ttl   time.Duration
}

// NewConfirmations returns a token issuer backed by store.
func NewConfirmations(store TokenStore, ttl time.Duration) *Confirmations {
	if ttl <= 0 {
		ttl = DefaultConfirmationTTL
	}
	return &Confirmations{store: store, ttl: ttl}
}

func confirmationKey(token string) string {
	return "confirm:" + token
}

// Issue は対象と操作者に束縛したトークンを発行する。
func (c *Confirmations) Issue(ctx context.Context, target domain.Target, operator string) (*ConfirmationRequiredError, error) {
	token := uuid.NewString()
	claim, err := json.Marshal(confirmationClaim{Collection: target.Collection, ID: target.ID, Operator: operator})
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, confirmationKey(token), claim, c.ttl); err != nil {
		return nil, fmt.Errorf("確認トークンの保存に失敗: %w", err)
	}
	return &ConfirmationRequiredError{Token: token, ExpiresIn: c.ttl}, nil
}

// Consume validates and invalidates token. Any failure means the operator must confirm again.
func (c *Confirmations) Consume(ctx context.Context, token string, target domain.Target, operator string) error {
	if _, err := uuid.Parse(token); err != nil {
		return errConfirmationMismatch
	}
	data, err := c.store.Take(ctx, confirmationKey(token))
	if err != nil {
		return errConfirmationMismatch
	}
	var claim confirmationClaim
	if err := json.Unmarshal(data, &claim); err != nil {
		return errConfirmationMismatch
	}
	if claim.Collection != target.Collection || claim.ID != target.ID || claim.Operator != operator {
		return errConfirmationMismatch
	}
	return nil
}
