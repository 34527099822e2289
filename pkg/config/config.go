package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	R2           R2Config
	Sheets       SheetsConfig
	SMTP         SMTPConfig
	Upload       UploadConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.R2.validate(cfg.FeatureFlags); err != nil {
		return nil, err
	}
	if err := cfg.Sheets.validate(cfg.FeatureFlags); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INCUBEZ_APP_ENV" default:"development"`
	Port         string `envconfig:"INCUBEZ_APP_PORT" default:"5000"`
	ClientURL    string `envconfig:"INCUBEZ_CLIENT_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"INCUBEZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INCUBEZ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"INCUBEZ_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"INCUBEZ_DB_DSN" default:"incubez.db"`

	MaxOpenConns    int           `envconfig:"INCUBEZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INCUBEZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INCUBEZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INCUBEZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"INCUBEZ_REDIS_URL"`
	Address      string        `envconfig:"INCUBEZ_REDIS_ADDR"`
	Password     string        `envconfig:"INCUBEZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"INCUBEZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INCUBEZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INCUBEZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INCUBEZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INCUBEZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INCUBEZ_REDIS_WRITE_TIMEOUT" default:"5s"`

	IdempotencyTTL time.Duration `envconfig:"INCUBEZ_IDEMPOTENCY_TTL" default:"24h"`
}

// Enabled reports whether a redis endpoint was configured at all. The
// idempotency layer degrades to pass-through when it is absent.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type R2Config struct {
	AccountID       string `envconfig:"R2_ACCOUNT_ID"`
	AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY"`
	Endpoint        string `envconfig:"R2_ENDPOINT"`
	BucketName      string `envconfig:"R2_BUCKET_NAME"`
	PublicBaseURL   string `envconfig:"R2_PUBLIC_BASE_URL"`
}

func (r R2Config) validate(flags FeatureFlagsConfig) error {
	if !flags.UseObjectStore {
		return nil
	}
	missing := []string{}
	if r.AccountID == "" && r.PublicBaseURL == "" {
		missing = append(missing, "R2_ACCOUNT_ID")
	}
	if r.AccessKeyID == "" {
		missing = append(missing, "R2_ACCESS_KEY_ID")
	}
	if r.SecretAccessKey == "" {
		missing = append(missing, "R2_SECRET_ACCESS_KEY")
	}
	if r.Endpoint == "" {
		missing = append(missing, "R2_ENDPOINT")
	}
	if r.BucketName == "" {
		missing = append(missing, "R2_BUCKET_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("object store enabled but %s required", strings.Join(missing, ", "))
	}
	return nil
}

type SheetsConfig struct {
	SpreadsheetID   string `envconfig:"GOOGLE_SHEETS_ID"`
	CredentialsJSON string `envconfig:"GOOGLE_CREDENTIALS_JSON"`
	ClientEmail     string `envconfig:"GOOGLE_DRIVE_CLIENT_EMAIL"`
	PrivateKey      string `envconfig:"GOOGLE_DRIVE_PRIVATE_KEY"`
	FounderSheet    string `envconfig:"GOOGLE_SHEETS_FOUNDER_SHEET" default:"Founders_Submissions"`
	SeekerSheet     string `envconfig:"GOOGLE_SHEETS_SEEKER_SHEET" default:"Seekers_Applications"`
}

func (s SheetsConfig) validate(flags FeatureFlagsConfig) error {
	if !flags.UseRecordSink {
		return nil
	}
	if s.SpreadsheetID == "" {
		return fmt.Errorf("record sink enabled but GOOGLE_SHEETS_ID required")
	}
	if s.CredentialsJSON == "" && (s.ClientEmail == "" || s.PrivateKey == "") {
		return fmt.Errorf("record sink enabled but google service account credentials required")
	}
	return nil
}

type SMTPConfig struct {
	Host       string `envconfig:"EMAIL_HOST" default:"smtp.gmail.com"`
	Port       int    `envconfig:"EMAIL_PORT" default:"587"`
	User       string `envconfig:"EMAIL_USER"`
	Password   string `envconfig:"EMAIL_PASS"`
	FromName   string `envconfig:"EMAIL_FROM_NAME" default:"INCUBEZ Talent"`
	AdminEmail string `envconfig:"ADMIN_EMAIL"`
}

// Configured reports whether credentials are present; the dispatcher skips
// sending when they are not, mirroring the platform's optional email setup.
func (s SMTPConfig) Configured() bool {
	return s.User != "" && s.Password != ""
}

type UploadConfig struct {
	ScratchDir        string   `envconfig:"INCUBEZ_UPLOAD_SCRATCH_DIR" default:"uploads/temp"`
	FounderMaxMB      int64    `envconfig:"INCUBEZ_UPLOAD_FOUNDER_MAX_MB" default:"200"`
	SeekerMaxMB       int64    `envconfig:"INCUBEZ_UPLOAD_SEEKER_MAX_MB" default:"100"`
	AllowedMimeTypes  []string `envconfig:"INCUBEZ_UPLOAD_ALLOWED_MIME_TYPES" default:"video/mp4,video/quicktime,video/x-msvideo,video/webm"`
	MaxFormFieldBytes int64    `envconfig:"INCUBEZ_UPLOAD_MAX_FIELD_BYTES" default:"1048576"`
}

func (u UploadConfig) FounderMaxBytes() int64 { return u.FounderMaxMB * 1024 * 1024 }
func (u UploadConfig) SeekerMaxBytes() int64  { return u.SeekerMaxMB * 1024 * 1024 }

type FeatureFlagsConfig struct {
	UseObjectStore   bool `envconfig:"INCUBEZ_USE_OBJECT_STORE" default:"true"`
	UseRecordSink    bool `envconfig:"INCUBEZ_USE_RECORD_SINK" default:"true"`
	UseNotifications bool `envconfig:"INCUBEZ_USE_NOTIFICATIONS" default:"true"`
}
