package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_ENV", "ENV", "PORT", "DATABASE_URL", "PERMIT_TABLE", "PHOTOS_TABLE", "AUTO_MIGRATE",
		"STORAGE_DRIVER", "STORAGE_BUCKET", "STORAGE_BUCKET_PUBLIC", "STORAGE_SIGNED_TTL", "MAX_UPLOAD_MB",
		"S3_REGION", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_USE_PATH_STYLE",
		"S3_PUBLIC_BASE_URL", "B2_KEY_ID", "B2_APP_KEY", "DISK_DIR", "DISK_URL_BASE",
		"URL_SIGNING_SECRET", "CSC_OPTIONS", "REQUIRE_SAFETY_CONFIRMATION", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(name, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "permit.db", cfg.DatabaseURL)
	assert.Equal(t, "wp_tbl", cfg.PermitTable)
	assert.Equal(t, "photos", cfg.PhotosTable)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, DriverDisk, cfg.StorageDriver)
	assert.Equal(t, "wp_bucket", cfg.Bucket)
	assert.True(t, cfg.BucketPublic)
	assert.Equal(t, time.Hour, cfg.SignedURLTTL)
	assert.Equal(t, 10.0, cfg.MaxUploadMB)
	assert.Equal(t, "/files", cfg.DiskURLBase)
	assert.Empty(t, cfg.CSCOptions)
	assert.False(t, cfg.RequireSafetyConfirmation)
	assert.False(t, cfg.UsesPostgres())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BUCKET_PUBLIC", "false")
	t.Setenv("STORAGE_SIGNED_TTL", "600")
	t.Setenv("MAX_UPLOAD_MB", "2.5")
	t.Setenv("CSC_OPTIONS", "Negombo, Kelaniya ,,Moratuwa")
	t.Setenv("REQUIRE_SAFETY_CONFIRMATION", "yes")
	t.Setenv("DISK_URL_BASE", "/media/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://permits.example.lk")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.BucketPublic)
	assert.Equal(t, 10*time.Minute, cfg.SignedURLTTL)
	assert.Equal(t, 2.5, cfg.MaxUploadMB)
	assert.Equal(t, []string{"Negombo", "Kelaniya", "Moratuwa"}, cfg.CSCOptions)
	assert.True(t, cfg.RequireSafetyConfirmation)
	assert.Equal(t, "/media", cfg.DiskURLBase)
	assert.Equal(t, []string{"https://permits.example.lk"}, cfg.CORSAllowedOrigins)
}

func TestFromEnvAcceptsDurationTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_SIGNED_TTL", "90m")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.SignedURLTTL)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad ttl", env: map[string]string{"STORAGE_SIGNED_TTL": "soon"}},
		{name: "zero ttl", env: map[string]string{"STORAGE_SIGNED_TTL": "0"}},
		{name: "bad max size", env: map[string]string{"MAX_UPLOAD_MB": "ten"}},
		{name: "negative max size", env: map[string]string{"MAX_UPLOAD_MB": "-1"}},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "ftp"}},
		{name: "b2 without keys", env: map[string]string{"STORAGE_DRIVER": "b2"}},
		{name: "s3 half credentials", env: map[string]string{"STORAGE_DRIVER": "s3", "S3_ACCESS_KEY_ID": "AKIA"}},
		{name: "same tables", env: map[string]string{"PERMIT_TABLE": "photos"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnvProdRequiresPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PostgreSQL")
}

func TestFromEnvProdPrivateDiskNeedsSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/permits")
	t.Setenv("STORAGE_BUCKET_PUBLIC", "false")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL_SIGNING_SECRET")

	t.Setenv("URL_SIGNING_SECRET", "a-real-secret")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
	assert.True(t, cfg.UsesPostgres())
}
