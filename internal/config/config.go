package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort               = "8080"
	defaultDatabaseURL        = "permit.db"
	defaultPermitTable        = "wp_tbl"
	defaultPhotosTable        = "photos"
	defaultAutoMigrate        = "true"
	defaultStorageDriver      = "disk"
	defaultBucket             = "wp_bucket"
	defaultBucketPublic       = "true"
	defaultSignedTTLSeconds   = "3600"
	defaultMaxUploadMB        = "10"
	defaultS3Region           = "us-east-1"
	defaultDiskDir            = "./uploads"
	defaultDiskURLBase        = "/files"
	defaultURLSigningSecret   = "change-me-url-signing-secret"
	defaultRequireSafetyCheck = "false"
)

const (
	DriverS3     = "s3"
	DriverB2     = "b2"
	DriverDisk   = "disk"
	DriverMemory = "memory"
)

// Config holds everything the permit service reads from the environment.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	PermitTable string
	PhotosTable string
	AutoMigrate bool

	StorageDriver string
	Bucket        string
	BucketPublic  bool
	SignedURLTTL  time.Duration
	MaxUploadMB   float64

	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
	S3PublicBaseURL   string

	B2KeyID  string
	B2AppKey string

	DiskDir          string
	DiskURLBase      string
	URLSigningSecret string

	CSCOptions                []string
	RequireSafetyConfirmation bool
	CORSAllowedOrigins        []string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.PermitTable = strings.TrimSpace(getEnv("PERMIT_TABLE", defaultPermitTable))
	cfg.PhotosTable = strings.TrimSpace(getEnv("PHOTOS_TABLE", defaultPhotosTable))
	cfg.AutoMigrate = parseBoolEnv("AUTO_MIGRATE", defaultAutoMigrate)

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", defaultStorageDriver)))
	cfg.Bucket = strings.TrimSpace(getEnv("STORAGE_BUCKET", defaultBucket))
	cfg.BucketPublic = parseBoolEnv("STORAGE_BUCKET_PUBLIC", defaultBucketPublic)

	var err error
	cfg.SignedURLTTL, err = parseSecondsEnv("STORAGE_SIGNED_TTL", defaultSignedTTLSeconds)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadMB, err = parseFloatEnv("MAX_UPLOAD_MB", defaultMaxUploadMB)
	if err != nil {
		return nil, err
	}

	cfg.S3Region = strings.TrimSpace(getEnv("S3_REGION", defaultS3Region))
	cfg.S3Endpoint = strings.TrimSpace(os.Getenv("S3_ENDPOINT"))
	cfg.S3AccessKeyID = strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID"))
	cfg.S3SecretAccessKey = strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY"))
	cfg.S3UsePathStyle = parseBoolEnv("S3_USE_PATH_STYLE", "false")
	cfg.S3PublicBaseURL = strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL"))

	cfg.B2KeyID = strings.TrimSpace(os.Getenv("B2_KEY_ID"))
	cfg.B2AppKey = strings.TrimSpace(os.Getenv("B2_APP_KEY"))

	cfg.DiskDir = strings.TrimSpace(getEnv("DISK_DIR", defaultDiskDir))
	cfg.DiskURLBase = strings.TrimRight(strings.TrimSpace(getEnv("DISK_URL_BASE", defaultDiskURLBase)), "/")
	cfg.URLSigningSecret = strings.TrimSpace(getEnv("URL_SIGNING_SECRET", defaultURLSigningSecret))

	cfg.CSCOptions = splitList(os.Getenv("CSC_OPTIONS"))
	cfg.RequireSafetyConfirmation = parseBoolEnv("REQUIRE_SAFETY_CONFIRMATION", defaultRequireSafetyCheck)
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("storage config: driver=%s, bucket=%s, public=%t, signedTTL=%s, maxUploadMB=%g",
		cfg.StorageDriver, cfg.Bucket, cfg.BucketPublic, cfg.SignedURLTTL, cfg.MaxUploadMB)

	return cfg, nil
}

// IsProdLike reports whether strict checks apply.
func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

// UsesPostgres reports whether DatabaseURL points at PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.PermitTable == "" {
		return fmt.Errorf("PERMIT_TABLE must not be empty")
	}
	if cfg.PhotosTable == "" {
		return fmt.Errorf("PHOTOS_TABLE must not be empty")
	}
	if cfg.PermitTable == cfg.PhotosTable {
		return fmt.Errorf("PERMIT_TABLE and PHOTOS_TABLE must differ")
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET must not be empty")
	}
	if cfg.SignedURLTTL <= 0 {
		return fmt.Errorf("STORAGE_SIGNED_TTL must be > 0")
	}
	if cfg.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be > 0")
	}

	switch cfg.StorageDriver {
	case DriverS3:
		if cfg.S3Region == "" {
			return fmt.Errorf("S3_REGION must not be empty")
		}
		if (cfg.S3AccessKeyID == "") != (cfg.S3SecretAccessKey == "") {
			return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
		}
	case DriverB2:
		if cfg.B2KeyID == "" || cfg.B2AppKey == "" {
			return fmt.Errorf("B2_KEY_ID and B2_APP_KEY are required for STORAGE_DRIVER=b2")
		}
	case DriverDisk:
		if cfg.DiskDir == "" {
			return fmt.Errorf("DISK_DIR must not be empty")
		}
		if !strings.HasPrefix(cfg.DiskURLBase, "/") && !strings.HasPrefix(cfg.DiskURLBase, "http") {
			return fmt.Errorf("DISK_URL_BASE must be a path or an absolute URL")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: s3, b2, disk, memory")
	}

	if isProdLike(cfg.AppEnv) {
		if !cfg.UsesPostgres() {
			return fmt.Errorf("in prod/release DATABASE_URL must point at PostgreSQL")
		}
		if cfg.StorageDriver == DriverMemory {
			return fmt.Errorf("in prod/release STORAGE_DRIVER=memory is not allowed")
		}
		if cfg.StorageDriver == DriverS3 && cfg.S3AccessKeyID == "" && cfg.S3Endpoint != "" {
			return fmt.Errorf("in prod/release S3 credentials must be set for a custom S3_ENDPOINT")
		}
		if cfg.StorageDriver == DriverDisk && !cfg.BucketPublic && isEmptyOrDefault(cfg.URLSigningSecret, defaultURLSigningSecret) {
			return fmt.Errorf("in prod/release URL_SIGNING_SECRET must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseSecondsEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		// also accept Go duration syntax, e.g. "1h"
		d, derr := time.ParseDuration(value)
		if derr != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
		}
		return d, nil
	}
	return time.Duration(n) * time.Second, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
