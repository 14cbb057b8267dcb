// Package config は環境変数から実行時設定を読み込む。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr      string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	MongoURI            string        `env:"MONGO_URI"`
	MongoDatabase       string        `env:"MONGO_DB" envDefault:"nasam"`
	MongoConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`

	// キャッシュ: "memory" または "redis"
	CacheType   string `env:"CACHE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
	CachePrefix string `env:"CACHE_PREFIX" envDefault:"nasam:"`

	SnapshotTTL       time.Duration `env:"CONTENT_SNAPSHOT_TTL" envDefault:"5m"`
	RefreshSchedule   string        `env:"CONTENT_REFRESH_SCHEDULE" envDefault:"@every 5m"`
	PublicReviewLimit int           `env:"PUBLIC_REVIEW_LIMIT" envDefault:"12"`
	// ContentFile が設定されている場合、ストアの代わりにこのファイルの内容を表示する。
	ContentFile string `env:"CONTENT_FILE"`

	AdminEmails  []string `env:"ADMIN_EMAILS" envSeparator:","`
	JWTSecret    string   `env:"AUTH_JWT_SECRET"`
	JWTIssuer    string   `env:"AUTH_JWT_ISSUER"`
	JWTAudience  string   `env:"AUTH_JWT_AUDIENCE"`
	AdminBaseURL string   `env:"ADMIN_BASE_URL"`

	AllowedOrigins []string `env:"API_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	CookieSecure   bool     `env:"COOKIE_SECURE" envDefault:"false"`

	RecaptchaSecret  string `env:"RECAPTCHA_SECRET_KEY"`
	RecaptchaSiteKey string `env:"RECAPTCHA_SITE_KEY"`

	SubmissionRatePerMinute int `env:"SUBMISSION_RATE_PER_MINUTE" envDefault:"5"`
	SubmissionBurst         int `env:"SUBMISSION_RATE_BURST" envDefault:"3"`

	MessengerEndpoint            string        `env:"MESSENGER_GATEWAY_URL"`
	MessengerAdminDestination    string        `env:"MESSENGER_ADMIN_DESTINATION" envDefault:"discord"`
	MessengerFallbackDestination string        `env:"MESSENGER_SLACK_DESTINATION"`
	MessengerSenderDestination   string        `env:"MESSENGER_SENDER_DESTINATION"`
	MessengerAdminUserID         string        `env:"MESSENGER_ADMIN_USER_ID" envDefault:"admin"`
	MessengerTimeout             time.Duration `env:"MESSENGER_GATEWAY_TIMEOUT" envDefault:"3s"`
	MessengerAttempts            int           `env:"MESSENGER_RETRY_ATTEMPTS" envDefault:"3"`
	MessengerRetryDelay          time.Duration `env:"MESSENGER_RETRY_DELAY" envDefault:"500ms"`

	CloudinaryCloudName    string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryUploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET"`
	CloudinaryBaseURL      string `env:"CLOUDINARY_BASE_URL" envDefault:"https://api.cloudinary.com"`
	CloudinaryMaxWidth     int    `env:"CLOUDINARY_MAX_WIDTH" envDefault:"2400"`
}

// Load parses environment variables and returns a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.AdminEmails = nonEmpty(cfg.AdminEmails)
	cfg.AllowedOrigins = nonEmpty(cfg.AllowedOrigins)
	switch strings.ToLower(strings.TrimSpace(cfg.CacheType)) {
	case "", "memory", "redis":
	default:
		return Config{}, fmt.Errorf("CACHE_TYPE must be memory or redis, got %q", cfg.CacheType)
	}
	if strings.EqualFold(cfg.CacheType, "redis") && strings.TrimSpace(cfg.RedisURL) == "" {
		return Config{}, fmt.Errorf("REDIS_URL is required when CACHE_TYPE=redis")
	}
	return cfg, nil
}

// StoreConfigured reports whether a document store connection string is set.
func (c Config) StoreConfigured() bool {
	return strings.TrimSpace(c.MongoURI) != ""
}

// AdminSetupIssues は管理画面を有効にするために不足している設定キーを返す。
func (c Config) AdminSetupIssues() []string {
	var issues []string
	if len(c.AdminEmails) == 0 {
		issues = append(issues, "ADMIN_EMAILS")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		issues = append(issues, "AUTH_JWT_SECRET")
	}
	if !c.StoreConfigured() {
		issues = append(issues, "MONGO_URI")
	}
	return issues
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
