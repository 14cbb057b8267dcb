package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sngm3741/nasam-site/internal/public/domain"
)

// SubmissionServiceConfig wires the SubmissionService.
type SubmissionServiceConfig struct {
	Repository SubmissionRepository
	Captcha    CaptchaVerifier
	Notifier   SubmissionNotifier
	Logger     *zap.Logger
	Now        func() time.Time
}

// SubmissionService accepts reviews and contact messages from visitors.
type SubmissionService struct {
	repo     SubmissionRepository
	captcha  CaptchaVerifier
	notifier SubmissionNotifier
	logger   *zap.Logger
	now      func() time.Time
	pending  sync.WaitGroup
}

// NewSubmissionService constructs a SubmissionService. Captcha and Notifier are optional.
func NewSubmissionService(cfg SubmissionServiceConfig) *SubmissionService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &SubmissionService{
		repo:     cfg.Repository,
		captcha:  cfg.Captcha,
		notifier: cfg.Notifier,
		logger:   logger,
		now:      now,
	}
}

// SubmitReview は未承認 (is_approved=false) のレビューとして保存する。
func (s *SubmissionService) SubmitReview(ctx context.Context, cmd SubmitReviewCommand) (*domain.ReviewSubmission, error) {
	if err := s.screen(ctx, cmd.Honeypot, cmd.CaptchaToken, cmd.RemoteIP); err != nil {
		return nil, err
	}
	review, err := domain.NewReviewSubmission(cmd.Name, cmd.Category, cmd.Comment, cmd.Rating, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveReview(ctx, &review); err != nil {
		return nil, err
	}
	s.dispatch(ctx, "review", func(ctx context.Context) error {
		return s.notifier.NotifyReview(ctx, review)
	})
	return &review, nil
}

// SubmitContact stores the message and then notifies the admin and the sender.
func (s *SubmissionService) SubmitContact(ctx context.Context, cmd SubmitContactCommand) (*domain.ContactMessage, error) {
	if err := s.screen(ctx, cmd.Honeypot, cmd.CaptchaToken, cmd.RemoteIP); err != nil {
		return nil, err
	}
	message, err := domain.NewContactMessage(cmd.Name, cmd.Email, cmd.Phone, cmd.Message, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveContact(ctx, &message); err != nil {
		return nil, err
	}
	s.dispatch(ctx, "contact", func(ctx context.Context) error {
		return s.notifier.NotifyContact(ctx, message)
	})
	return &message, nil
}

// Wait blocks until every in-flight notification finished.
func (s *SubmissionService) Wait() {
	s.pending.Wait()
}

func (s *SubmissionService) screen(ctx context.Context, honeypot, token, remoteIP string) error {
	if strings.TrimSpace(honeypot) != "" {
		return ErrSpam
	}
	if s.captcha == nil || !s.captcha.Enabled() {
		return nil
	}
	if strings.TrimSpace(token) == "" {
		return ErrCaptchaFailed
	}
	if err := s.captcha.Verify(ctx, token, remoteIP); err != nil {
		s.logger.Info("reCAPTCHA 検証に失敗", zap.Error(err))
		return ErrCaptchaFailed
	}
	return nil
}

// dispatch は通知をリクエストから切り離して非同期に送る。
func (s *SubmissionService) dispatch(ctx context.Context, kind string, send func(context.Context) error) {
	if s.notifier == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := send(detached); err != nil {
			s.logger.Warn("通知の送信に失敗", zap.String("kind", kind), zap.Error(err))
		}
	}()
}
