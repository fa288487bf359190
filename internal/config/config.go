package config

import (
	"os"
	"strconv"
	"time"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendFS     = "fs"
	BackendMinIO  = "minio"
	BackendWebDAV = "webdav"
)

// DefaultMaxUploadBytes is the per-upload ceiling used when MAX_UPLOAD_BYTES is unset.
const DefaultMaxUploadBytes int64 = 200 * 1024 * 1024

// StorageConfig holds the paths and limits shared by the media and URL stores.
type StorageConfig struct {
	Backend        string
	MediaDir       string
	URLFile        string
	MaxUploadBytes int64
	FileMode       os.FileMode
	LockTimeout    time.Duration
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// WebDAVConfig holds settings for a WebDAV share used as the media directory.
type WebDAVConfig struct {
	URL      string
	User     string
	Password string
	Path     string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost       string
	Port          string
	Timezone      string
	LogLevel      string
	SlideshowFile string
	Storage       StorageConfig
	MinIO         MinIOConfig
	WebDAV        WebDAVConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:       getEnv("APP_HOST", "localhost:8000"),
		Port:          getEnv("PORT", "8000"),
		Timezone:      getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SlideshowFile: getEnv("SLIDESHOW_FILE", ""),
		Storage: StorageConfig{
			Backend:        getEnv("STORAGE_BACKEND", BackendFS),
			MediaDir:       getEnv("MEDIA_DIR", "signage_media"),
			URLFile:        getEnv("URL_FILE", "signage_urls.txt"),
			MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
			FileMode:       getEnvFileMode("FILE_MODE", 0o664),
			LockTimeout:    time.Duration(getEnvInt("URL_LOCK_TIMEOUT_MS", 5000)) * time.Millisecond,
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		WebDAV: WebDAVConfig{
			URL:      getEnv("WEBDAV_URL", ""),
			User:     getEnv("WEBDAV_USER", ""),
			Password: getEnv("WEBDAV_PASSWORD", ""),
			Path:     getEnv("WEBDAV_PATH", "/"),
		},
	}
}

// Location resolves Timezone, falling back to UTC for unknown zone names.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil && i > 0 {
			return i
		}
	}
	return def
}

// getEnvFileMode parses an octal permission string such as "0664" or "664".
func getEnvFileMode(key string, def os.FileMode) os.FileMode {
	if v := os.Getenv(key); v != "" {
		m, err := strconv.ParseUint(v, 8, 32)
		if err == nil && m <= 0o777 {
			return os.FileMode(m)
		}
	}
	return def
}
