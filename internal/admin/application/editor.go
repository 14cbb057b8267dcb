package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/content"
)

// DefaultModerationLimit は管理画面のレビュー一覧の上限。
const DefaultModerationLimit = 50

// EditorConfig wires the Editor.
type EditorConfig struct {
	HeroPhotos      Repository[content.HeroPhoto]
	Categories      Repository[content.Category]
	Projects        Repository[content.Project]
	Reviews         ReviewRepository
	Confirmations   *Confirmations
	Invalidator     Invalidator
	Logger          *zap.Logger
	ModerationLimit int
}

// Editor implements the collection editing use-cases of the admin screen.
type Editor struct {
	heroPhotos      Repository[content.HeroPhoto]
	categories      Repository[content.Category]
	projects        Repository[content.Project]
	reviews         ReviewRepository
	confirmations   *Confirmations
	invalidator     Invalidator
	logger          *zap.Logger
	moderationLimit int
}

// Result describes the outcome of a dispatched command.
type Result struct {
	domain.Target
	Deleted  bool  `json:"deleted,omitempty"`
	Approved *bool `json:"approved,omitempty"`
}

func NewEditor(cfg EditorConfig) *Editor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := cfg.ModerationLimit
	if limit <= 0 {
		limit = DefaultModerationLimit
	}
	return &Editor{
		heroPhotos:      cfg.HeroPhotos,
		categories:      cfg.Categories,
		projects:        cfg.Projects,
		reviews:         cfg.Reviews,
		confirmations:   cfg.Confirmations,
		invalidator:     cfg.Invalidator,
		logger:          logger,
		moderationLimit: limit,
	}
}

func (e *Editor) HeroPhotos(ctx context.Context) ([]content.HeroPhoto, error) {
	return listWithFallback(ctx, e.logger, e.heroPhotos, ListOptions{SortField: "order"})
}

func (e *Editor) Categories(ctx context.Context) ([]content.Category, error) {
	return e.categories.List(ctx, ListOptions{})
}

// Projects は order 昇順で返す。並び替え付きの取得に失敗した場合は並び順なしで再取得する。
func (e *Editor) Projects(ctx context.Context) ([]content.Project, error) {
	return listWithFallback(ctx, e.logger, e.projects, ListOptions{SortField: "order"})
}

// Reviews returns reviews for moderation, highest rating first.
func (e *Editor) Reviews(ctx context.Context) ([]content.Review, error) {
	return listWithFallback[content.Review](ctx, e.logger, e.reviews, ListOptions{SortField: "rating", Descending: true, Limit: e.moderationLimit})
}

func listWithFallback[T any](ctx context.Context, logger *zap.Logger, repo Repository[T], opts ListOptions) ([]T, error) {
	items, err := repo.List(ctx, opts)
	if err == nil {
		return items, nil
	}
	logger.Warn("並び替え付きの一覧取得に失敗したため並び順なしで再取得します", zap.String("sort", opts.SortField), zap.Error(err))
	return repo.List(ctx, ListOptions{Limit: opts.Limit})
}

// Create はアイテムの型からコレクションを判定して新規作成し、採番された ID を返す。
func (e *Editor) Create(ctx context.Context, item any) (string, error) {
	var (
		id  string
		err error
	)
	switch v := item.(type) {
	case content.HeroPhoto:
		if v, err = normalizeHeroPhoto(v); err == nil {
			id, err = e.heroPhotos.Create(ctx, v)
		}
	case content.Category:
		if v, err = normalizeCategory(v); err == nil {
			id, err = e.categories.Create(ctx, v)
		}
	case content.Project:
		if v, err = normalizeProject(v); err == nil {
			id, err = e.projects.Create(ctx, v)
		}
	default:
		return "", fmt.Errorf("%w: create %T", ErrUnsupportedCommand, item)
	}
	if err != nil {
		return "", err
	}
	e.invalidate(ctx)
	return id, nil
}

// Dispatch executes one editor command. Every variant goes through this single entry point.
func (e *Editor) Dispatch(ctx context.Context, operator string, cmd domain.Command) (Result, error) {
	target := cmd.CommandTarget()
	if strings.TrimSpace(target.ID) == "" {
		return Result{}, fmt.Errorf("%w: id is required", domain.ErrInvalid)
	}

	var (
		result = Result{Target: target}
		err    error
	)
	switch c := cmd.(type) {
	case domain.Edit:
		err = e.edit(ctx, c)
	case domain.Delete:
		err = e.delete(ctx, operator, c)
		result.Deleted = err == nil
	case domain.ToggleApproval:
		var approved bool
		approved, err = e.toggleApproval(ctx, c)
		if err == nil {
			result.Approved = &approved
		}
	default:
		return Result{}, ErrUnsupportedCommand
	}
	if err != nil {
		return Result{}, err
	}
	e.invalidate(ctx)
	return result, nil
}

func (e *Editor) edit(ctx context.Context, cmd domain.Edit) error {
	id := cmd.ID
	switch cmd.Collection {
	case domain.CollectionHeroPhotos:
		item, ok := cmd.Item.(content.HeroPhoto)
		if !ok {
			return mismatch(cmd)
		}
		item, err := normalizeHeroPhoto(item)
		if err != nil {
			return err
		}
		return e.heroPhotos.Update(ctx, id, item)
	case domain.CollectionCategories:
		item, ok := cmd.Item.(content.Category)
		if !ok {
			return mismatch(cmd)
		}
		item, err := normalizeCategory(item)
		if err != nil {
			return err
		}
		return e.categories.Update(ctx, id, item)
	case domain.CollectionProjects:
		item, ok := cmd.Item.(content.Project)
		if !ok {
			return mismatch(cmd)
		}
		item, err := normalizeProject(item)
		if err != nil {
			return err
		}
		return e.projects.Update(ctx, id, item)
	case domain.CollectionReviews:
		item, ok := cmd.Item.(content.Review)
		if !ok {
			return mismatch(cmd)
		}
		item, err := normalizeReview(item)
		if err != nil {
			return err
		}
		return e.reviews.Update(ctx, id, item)
	}
	return domain.ErrUnknownCollection
}

func mismatch(cmd domain.Edit) error {
	return fmt.Errorf("%w: %T cannot be stored in %s", domain.ErrInvalid, cmd.Item, cmd.Collection)
}

// delete は確認トークンが一致した場合にのみストアへ削除を発行する。
func (e *Editor) delete(ctx context.Context, operator string, cmd domain.Delete) error {
	if e.confirmations != nil {
		if cmd.ConfirmToken == "" {
			required, err := e.confirmations.Issue(ctx, cmd.Target, operator)
			if err != nil {
				return err
			}
			return required
		}
		if err := e.confirmations.Consume(ctx, cmd.ConfirmToken, cmd.Target, operator); err != nil {
			required, issueErr := e.confirmations.Issue(ctx, cmd.Target, operator)
			if issueErr != nil {
				return issueErr
			}
			required.Reason = err.Error()
			return required
		}
	}

	switch cmd.Collection {
	case domain.CollectionHeroPhotos:
		return e.heroPhotos.Delete(ctx, cmd.ID)
	case domain.CollectionCategories:
		return e.categories.Delete(ctx, cmd.ID)
	case domain.CollectionProjects:
		return e.projects.Delete(ctx, cmd.ID)
	case domain.CollectionReviews:
		return e.reviews.Delete(ctx, cmd.ID)
	}
	return domain.ErrUnknownCollection
}

func (e *Editor) toggleApproval(ctx context.Context, cmd domain.ToggleApproval) (bool, error) {
	if cmd.Collection != domain.CollectionReviews {
		return false, ErrUnsupportedCommand
	}
	review, err := e.reviews.Get(ctx, cmd.ID)
	if err != nil {
		return false, err
	}
	next := !review.IsApproved()
	if err := e.reviews.SetApproval(ctx, cmd.ID, next); err != nil {
		return false, err
	}
	return next, nil
}

func (e *Editor) invalidate(ctx context.Context) {
	if e.invalidator != nil {
		e.invalidator.Invalidate(ctx)
	}
}
