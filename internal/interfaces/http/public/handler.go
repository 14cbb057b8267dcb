package public

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
	"github.com/sngm3741/nasam-site/internal/prompt"
	publicapp "github.com/sngm3741/nasam-site/internal/public/application"
	"github.com/sngm3741/nasam-site/internal/public/domain"
	"github.com/sngm3741/nasam-site/internal/render"
)

// ContentProvider returns the merged site content.
type ContentProvider interface {
	Content(ctx context.Context) (content.Content, error)
}

// Submissions accepts visitor reviews and contact messages.
type Submissions interface {
	SubmitReview(ctx context.Context, cmd publicapp.SubmitReviewCommand) (*domain.ReviewSubmission, error)
	SubmitContact(ctx context.Context, cmd publicapp.SubmitContactCommand) (*domain.ContactMessage, error)
}

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger       *zap.Logger
	content      ContentProvider
	submissions  Submissions
	renderer     *render.Renderer
	limiter      *common.RateLimiter
	prompts      []prompt.Entry
	promptPolicy prompt.Policy
	cookieSecure bool
	now          func() time.Time
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger       *zap.Logger
	Content      ContentProvider
	Submissions  Submissions
	Renderer     *render.Renderer
	RateLimiter  *common.RateLimiter
	Prompts      []prompt.Entry
	PromptPolicy prompt.Policy
	CookieSecure bool
	Now          func() time.Time
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.New(render.Options{})
	}
	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = common.NewRateLimiter(0, 1, logger)
	}
	prompts := cfg.Prompts
	if prompts == nil {
		prompts = prompt.DefaultEntries()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		logger:       logger,
		content:      cfg.Content,
		submissions:  cfg.Submissions,
		renderer:     renderer,
		limiter:      limiter,
		prompts:      prompts,
		promptPolicy: cfg.PromptPolicy,
		cookieSecure: cfg.CookieSecure,
		now:          now,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.pageHandler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/content", h.contentHandler())
		r.Get("/projects/{id}", h.projectDetailHandler())
		r.Get("/categories/{id}/gallery", h.categoryGalleryHandler())
		r.With(h.limiter.Middleware).Post("/reviews", h.reviewSubmitHandler())
		r.With(h.limiter.Middleware).Post("/contact", h.contactSubmitHandler())
		r.Get("/prompts", h.promptPlanHandler())
		r.Post("/prompts/shown", h.promptShownHandler())
	})
}
