package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string

	LOG_LEVEL string
	LOG_DEV   bool

	// Google sign-in is enabled only when GOOGLE_CLIENT_ID is set.
	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	// Attachment storage is disabled when S3_ENDPOINT is empty.
	S3_ENDPOINT   string
	S3_ACCESS_KEY string
	S3_SECRET_KEY string
	S3_BUCKET     string
	S3_REGION     string
	S3_USE_SSL    bool

	// DotenvLoaded reports whether a .env file was found.
	DotenvLoaded bool
)

// LoadEnv reads .env (if present) and the process environment into the
// package variables. It fails when a required key is missing.
func LoadEnv() error {
	DotenvLoaded = godotenv.Load() == nil

	PORT = getEnv("PORT", "8080")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_DEV = getBool("LOG_DEV", false)

	var err error
	if DB_URL, err = mustEnv("DB_URL"); err != nil {
		return err
	}
	if JWT_SECRET, err = mustEnv("JWT_SECRET"); err != nil {
		return err
	}

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	S3_ENDPOINT = getEnv("S3_ENDPOINT", "")
	S3_ACCESS_KEY = getEnv("S3_ACCESS_KEY", "")
	S3_SECRET_KEY = getEnv("S3_SECRET_KEY", "")
	S3_BUCKET = getEnv("S3_BUCKET", "brickshot")
	S3_REGION = getEnv("S3_REGION", "us-east-1")
	S3_USE_SSL = getBool("S3_USE_SSL", true)
	return nil
}

func GoogleEnabled() bool { return GOOGLE_CLIENT_ID != "" }

func StorageEnabled() bool { return S3_ENDPOINT != "" }

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required environment variable: %s", key)
	}
	return v, nil
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
