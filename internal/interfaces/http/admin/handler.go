package admin

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminapp "github.com/sngm3741/nasam-site/internal/admin/application"
	admindomain "github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/render"
)

// IdentityResolver はリクエストから現在のユーザーのメールアドレスを解決する。未ログインなら false。
type IdentityResolver interface {
	Resolve(r *http.Request) (email string, ok bool)
}

// Uploader stores an uploaded file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger      *zap.Logger
	editor      *adminapp.Editor
	sections    *adminapp.Sections
	uploader    Uploader
	renderer    *render.Renderer
	allowList   admindomain.AllowList
	identity    IdentityResolver
	setupIssues []string
}

// Config provides dependencies for Handler.
type Config struct {
	Logger    *zap.Logger
	Editor    *adminapp.Editor
	Sections  *adminapp.Sections
	Uploader  Uploader
	Renderer  *render.Renderer
	AllowList admindomain.AllowList
	Identity  IdentityResolver
	// SetupIssues は未設定の管理用キー。空でない間は管理 API を閉じる。
	SetupIssues []string
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.New(render.Options{})
	}
	return &Handler{
		logger:      logger,
		editor:      cfg.Editor,
		sections:    cfg.Sections,
		uploader:    cfg.Uploader,
		renderer:    renderer,
		allowList:   cfg.AllowList,
		identity:    cfg.Identity,
		setupIssues: append([]string(nil), cfg.SetupIssues...),
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/setup", h.setupStatusHandler())
	r.Post("/session", h.sessionHandler())

	r.Group(func(r chi.Router) {
		r.Use(h.requireSetup)
		r.Use(h.requireOperator)

		r.Get("/sections/{section}", h.sectionGetHandler())
		r.Put("/sections/{section}", h.sectionSaveHandler())

		r.Get("/collections/{collection}", h.collectionListHandler())
		r.Post("/collections/{collection}", h.collectionCreateHandler())
		r.Post("/collections/{collection}/commands", h.commandHandler())
		r.Put("/collections/{collection}/{id}", h.collectionUpdateHandler())
		r.Delete("/collections/{collection}/{id}", h.collectionDeleteHandler())

		r.Get("/reviews", h.reviewListHandler())
		r.Post("/reviews/{id}/approval", h.reviewApprovalHandler())

		r.Post("/uploads", h.uploadHandler())
		r.Post("/preview", h.previewHandler())
	})
}
