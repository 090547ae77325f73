package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, StoreSQLite, cfg.StoreBackend)
	assert.Equal(t, PhotosLocal, cfg.PhotoBackend)
	assert.Equal(t, 300, cfg.ThumbnailMaxPx)
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.False(t, cfg.S3PathStyle)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("PHOTO_BACKEND", "s3")
	t.Setenv("PHOTO_S3_BUCKET", "kit-photos")
	t.Setenv("PHOTO_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("PHOTO_S3_PATH_STYLE", "true")
	t.Setenv("THUMBNAIL_MAX_PX", "512")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, PhotosS3, cfg.PhotoBackend)
	assert.Equal(t, "kit-photos", cfg.S3Bucket)
	assert.Equal(t, "http://minio:9000", cfg.S3Endpoint)
	assert.True(t, cfg.S3PathStyle)
	assert.Equal(t, 512, cfg.ThumbnailMaxPx)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("THUMBNAIL_MAX_PX", "big")
	t.Setenv("PHOTO_S3_PATH_STYLE", "maybe")

	cfg := Load()

	assert.Equal(t, 300, cfg.ThumbnailMaxPx)
	assert.False(t, cfg.S3PathStyle)
}
