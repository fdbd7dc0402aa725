package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	MongoURI    string
	Database    string
	JWTSecret   []byte
	TokenTTL    time.Duration
	UploadDir   string
	KafkaBroker string
	CORSOrigin  string
}

func LoadConfig() (*Config, error) {
	// Try to load env file but don't fail if it's not found
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		Database:    getEnv("MONGODB_DATABASE", "bridebloom"),
		UploadDir:   getEnv("UPLOAD_DIR", "static/uploads"),
		KafkaBroker: getEnv("KAFKA_BROKER", ""),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
	}

	// JWT Secret (critical for security)
	secretStr := os.Getenv("JWT_SECRET")
	if secretStr == "" {
		slog.Warn("JWT_SECRET environment variable not set. Generating a random key for development. Issued tokens will be invalid on restart. PLEASE SET JWT_SECRET IN PRODUCTION!")
		cfg.JWTSecret = generateRandomBytes(32)
	} else {
		decodedKey, err := base64.StdEncoding.DecodeString(secretStr)
		if err != nil || len(decodedKey) < 32 {
			// Accept a raw (non-base64) secret as long as it is long enough.
			if len(secretStr) >= 32 {
				cfg.JWTSecret = []byte(secretStr)
			} else {
				slog.Warn("JWT_SECRET is invalid or too short (min 32 bytes recommended). Generating a random key for development. PLEASE SET A SECURE JWT_SECRET IN PRODUCTION!")
				cfg.JWTSecret = generateRandomBytes(32)
			}
		} else {
			cfg.JWTSecret = decodedKey
		}
	}

	ttlStr := getEnv("TOKEN_TTL", "1h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		slog.Error("Invalid TOKEN_TTL environment variable. Falling back to 1h.", "TOKEN_TTL", ttlStr)
		ttl = time.Hour
	}
	cfg.TokenTTL = ttl

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8080"
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// generateRandomBytes generates a random byte slice of specified length
// Uses crypto/rand for secure random numbers.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		// Fallback to a less secure key if crypto/rand fails. This fallback
		// is only for panic prevention, not for production use.
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(fallbackKey) < n {
			paddedKey := make([]byte, n)
			copy(paddedKey, fallbackKey)
			return paddedKey
		}
		return []byte(fallbackKey)[:n]
	}
	return b
}
