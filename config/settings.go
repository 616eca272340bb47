package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings is the whole runtime configuration, read from the environment
// (after godotenv has loaded .env in main).
type Settings struct {
	Port        string   `envconfig:"PORT" default:"8080"`
	CorsOrigins []string `envconfig:"CORS_ORIGINS"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string   `envconfig:"LOG_FORMAT" default:"text"`

	MySQLURL    string `envconfig:"MYSQL_URL"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBUser      string `envconfig:"DB_USER" default:"root"`
	DBPass      string `envconfig:"DB_PASS"`
	DBHost      string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort      string `envconfig:"DB_PORT" default:"3306"`
	DBName      string `envconfig:"DB_NAME" default:"pension_db"`
	SeedDemo    bool   `envconfig:"SEED_DEMO_DATA" default:"true"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"disk"`
	UploadDir     string `envconfig:"UPLOAD_DIR" default:"uploads"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	S3Bucket      string `envconfig:"S3_BUCKET" default:"transaction-screenshots"`
	S3Region      string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint    string `envconfig:"S3_ENDPOINT"`
	S3PublicURL   string `envconfig:"S3_PUBLIC_URL"`

	RedisURL          string        `envconfig:"REDIS_URL"`
	SubmissionLockTTL time.Duration `envconfig:"SUBMISSION_LOCK_TTL" default:"2m"`

	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`
	SMTPFrom string `envconfig:"SMTP_FROM" default:"reservations@pension.local"`

	AdminAPIKey string `envconfig:"ADMIN_API_KEY"`
}

func Load() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	switch s.StorageDriver {
	case "disk", "s3":
	default:
		return nil, fmt.Errorf("read settings: unknown STORAGE_DRIVER %q", s.StorageDriver)
	}
	s.PublicBaseURL = strings.TrimRight(s.PublicBaseURL, "/")
	return &s, nil
}

// AllowedOrigins returns the trimmed CORS origins, "*" when none are set.
func (s *Settings) AllowedOrigins() []string {
	origins := make([]string, 0, len(s.CorsOrigins))
	for _, part := range s.CorsOrigins {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (s *Settings) MailEnabled() bool {
	return s.SMTPHost != ""
}
