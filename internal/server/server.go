package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	adminapp "github.com/sngm3741/nasam-site/internal/admin/application"
	admindomain "github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/config"
	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/infrastructure/cache"
	"github.com/sngm3741/nasam-site/internal/infrastructure/captcha"
	"github.com/sngm3741/nasam-site/internal/infrastructure/cloudinary"
	mongodoc "github.com/sngm3741/nasam-site/internal/infrastructure/mongo"
	"github.com/sngm3741/nasam-site/internal/infrastructure/notify"
	adminhttp "github.com/sngm3741/nasam-site/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/nasam-site/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/nasam-site/internal/interfaces/http/public"
	publicapp "github.com/sngm3741/nasam-site/internal/public/application"
	"github.com/sngm3741/nasam-site/internal/render"
)

const confirmationTTL = 2 * time.Minute

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger         *zap.Logger
	addr           string
	allowedOrigins []string
	client         *mongo.Client
	store          *mongodoc.ContentRepository
	cache          cache.Cache
	site           *publicapp.SiteService
	submissions    *publicapp.SubmissionService
	scheduler      *cron.Cron
	router         http.Handler
}

// New は Config と Mongo クライアント (未設定なら nil) を受け取り、サービスとハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	snapshots, err := cache.New(cache.Options{
		Type:       cfg.CacheType,
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.SnapshotTTL,
	})
	if err != nil {
		return nil, err
	}

	srv := &Server{
		logger:         logger,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		client:         client,
		cache:          snapshots,
	}

	var preloaded *content.Partial
	if path := strings.TrimSpace(cfg.ContentFile); path != "" {
		preloaded, err = content.LoadPartialFile(path)
		if err != nil {
			_ = snapshots.Close()
			return nil, fmt.Errorf("コンテンツファイルの読み込みに失敗: %w", err)
		}
		logger.Info("ファイルのコンテンツを配信します", zap.String("path", path))
	}

	var (
		source      publicapp.ContentSource
		editor      *adminapp.Editor
		sections    *adminapp.Sections
		failures    notify.FailureRecorder
		submissions publicapp.SubmissionRepository
	)
	if client != nil {
		db := client.Database(cfg.MongoDatabase)
		names := mongodoc.DefaultCollectionNames()
		srv.store = mongodoc.NewContentRepository(db, names)
		source = srv.store
		submissions = mongodoc.NewSubmissionRepository(db, names)
		failures = mongodoc.NewFailedNotificationRepository(db, names.FailedNotifications)
	}

	srv.site = publicapp.NewSiteService(publicapp.SiteServiceConfig{
		Fetcher:   publicapp.NewFetcher(source, logger, cfg.PublicReviewLimit),
		Cache:     snapshots,
		TTL:       cfg.SnapshotTTL,
		Preloaded: preloaded,
		Logger:    logger,
	})

	if srv.store != nil {
		editor = adminapp.NewEditor(adminapp.EditorConfig{
			HeroPhotos:    srv.store.HeroPhotoRepo,
			Categories:    srv.store.CategoryRepo,
			Projects:      srv.store.ProjectRepo,
			Reviews:       srv.store.ReviewRepo,
			Confirmations: adminapp.NewConfirmations(snapshots, confirmationTTL),
			Invalidator:   srv.site,
			Logger:        logger,
		})
		sections = adminapp.NewSections(srv.store, srv.site)
	}

	if submissions != nil {
		serviceCfg := publicapp.SubmissionServiceConfig{
			Repository: submissions,
			Logger:     logger,
		}
		verifier := captcha.NewVerifier(captcha.Config{Secret: cfg.RecaptchaSecret})
		if verifier.Enabled() {
			serviceCfg.Captcha = verifier
		} else {
			logger.Warn("RECAPTCHA_SECRET_KEY が未設定のため reCAPTCHA 検証を行いません")
		}
		messenger := notify.New(notify.Config{
			Endpoint:            cfg.MessengerEndpoint,
			AdminDestination:    cfg.MessengerAdminDestination,
			FallbackDestination: cfg.MessengerFallbackDestination,
			SenderDestination:   cfg.MessengerSenderDestination,
			AdminUserID:         cfg.MessengerAdminUserID,
			AdminBaseURL:        cfg.AdminBaseURL,
			Attempts:            cfg.MessengerAttempts,
			RetryDelay:          cfg.MessengerRetryDelay,
			HTTPClient:          &http.Client{Timeout: cfg.MessengerTimeout},
			Failures:            failures,
			Logger:              logger,
		})
		if messenger.Enabled() {
			serviceCfg.Notifier = messenger
		}
		srv.submissions = publicapp.NewSubmissionService(serviceCfg)
	}

	setupIssues := cfg.AdminSetupIssues()
	if client == nil && !containsIssue(setupIssues, "MONGO_URI") {
		setupIssues = append(setupIssues, "MONGO_URI")
	}
	if len(setupIssues) > 0 {
		logger.Warn("管理画面の設定が不足しています", zap.Strings("missing", setupIssues))
	}

	renderer := render.New(render.Options{})
	publicCfg := publichttp.Config{
		Logger:       logger,
		Content:      srv.site,
		Renderer:     renderer,
		RateLimiter:  commonhttp.NewRateLimiter(cfg.SubmissionRatePerMinute, cfg.SubmissionBurst, logger),
		CookieSecure: cfg.CookieSecure,
	}
	if srv.submissions != nil {
		publicCfg.Submissions = srv.submissions
	}
	adminCfg := adminhttp.Config{
		Logger:   logger,
		Editor:   editor,
		Sections: sections,
		Uploader: cloudinary.NewUploader(cloudinary.Config{
			CloudName:    cfg.CloudinaryCloudName,
			UploadPreset: cfg.CloudinaryUploadPreset,
			BaseURL:      cfg.CloudinaryBaseURL,
			MaxWidth:     cfg.CloudinaryMaxWidth,
		}),
		Renderer:    renderer,
		AllowList:   admindomain.NewAllowList(cfg.AdminEmails),
		Identity:    newJWTIdentity(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience),
		SetupIssues: setupIssues,
	}
	srv.router = srv.routes(publichttp.NewHandler(publicCfg), adminhttp.NewHandler(adminCfg))

	if source != nil && preloaded == nil {
		srv.scheduler = cron.New()
		if _, err := srv.scheduler.AddFunc(cfg.RefreshSchedule, srv.refreshContent); err != nil {
			_ = snapshots.Close()
			return nil, fmt.Errorf("CONTENT_REFRESH_SCHEDULE が不正です: %w", err)
		}
	}

	return srv, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(public *publichttp.Handler, admin *adminhttp.Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(commonhttp.RequestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	public.Register(router)
	router.Route("/admin", admin.Register)
	return router
}

// refreshContent は定期的にストアから再取得し、スナップショットを温めておく。
func (s *Server) refreshContent() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.site.Refresh(ctx); err != nil {
		s.logger.Warn("コンテンツの定期更新に失敗", zap.Error(err))
	}
}

// Run はHTTPサーバーを起動し、シグナルを受けるまでブロックする。
func (s *Server) Run() error {
	if s.scheduler != nil {
		s.scheduler.Start()
		go s.refreshContent()
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP サーバー起動", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,X-Confirm-Token")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler はストアへの疎通確認を行う。ストア未設定でもデフォルト表示できるため ok を返す。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
				"status": "ok",
				"store":  "not_configured",
				"time":   time.Now().Format(time.RFC3339),
			})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.store.Ping(ctx); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"store":  "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// shutdown は定期処理・通知送信の完了を待ってから、キャッシュと MongoDB を閉じる。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if s.scheduler != nil {
		select {
		case <-s.scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			s.logger.Warn("定期処理の停止待ちがタイムアウトしました")
		}
	}
	if s.submissions != nil {
		done := make(chan struct{})
		go func() {
			s.submissions.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			s.logger.Warn("通知送信の完了待ちがタイムアウトしました")
		}
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Warn("キャッシュのクローズに失敗", zap.Error(err))
	}
	if s.client != nil {
		if err := s.client.Disconnect(shutdownCtx); err != nil {
			s.logger.Error("MongoDB 切断時にエラー", zap.Error(err))
		}
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("サーバーが異常終了: %w", err)
		}
	case sig := <-sigChan:
		srv.logger.Info("シグナルを受信。サーバー停止処理を開始します。", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Error("サーバー停止時にエラー", zap.Error(err))
		}
	}

	srv.shutdown(context.Background())
	return runErr
}

func containsIssue(issues []string, key string) bool {
	for _, issue := range issues {
		if issue == key {
			return true
		}
	}
	return false
}
