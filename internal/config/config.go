package config

import (
	"os"
	"strconv"
)

// Backend selectors.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
	PhotosLocal = "local"
	PhotosS3    = "s3"
)

type Config struct {
	ListenAddr   string
	StoreBackend string
	DBPath       string

	PhotoBackend   string
	PhotoPath      string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3PathStyle    bool
	S3AccessKey    string
	S3SecretKey    string
	ThumbnailMaxPx int

	MetricsNamespace string
	LogLevel         string
	LogFile          string
}

func Load() *Config {
	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		StoreBackend:     getEnv("STORE_BACKEND", StoreSQLite),
		DBPath:           getEnv("DB_PATH", "/data/kitroom.db"),
		PhotoBackend:     getEnv("PHOTO_BACKEND", PhotosLocal),
		PhotoPath:        getEnv("PHOTO_LOCAL_PATH", "/data/photos"),
		S3Bucket:         getEnv("PHOTO_S3_BUCKET", ""),
		S3Region:         getEnv("PHOTO_S3_REGION", "us-east-1"),
		S3Endpoint:       getEnv("PHOTO_S3_ENDPOINT", ""),
		S3PathStyle:      getEnvBool("PHOTO_S3_PATH_STYLE", false),
		S3AccessKey:      getEnv("PHOTO_S3_ACCESS_KEY_ID", ""),
		S3SecretKey:      getEnv("PHOTO_S3_SECRET_ACCESS_KEY", ""),
		ThumbnailMaxPx:   getEnvInt("THUMBNAIL_MAX_PX", 300),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "kitroom"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// getEnvInt falls back to defaultVal for unset, malformed or non-positive
// values.
func getEnvInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return b
}
