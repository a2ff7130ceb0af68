package config

import (
	"campussafety/internal/log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	Port      string
	LogLevel  string

	JWTSecret    string
	AuthUsername string
	AuthPassword string

	// Comma separated origins, "*" allows any
	CORSOrigins []string

	PublicBaseURL string
	Timezone      string

	Upload     UploadConfig
	Completion *CompletionConfig
}

// UploadConfig bounds photo uploads
type UploadConfig struct {
	MaxBytes  int64
	Workers   int
	QueueSize int
	Retries   int
}

// Load reads .env when present, then the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file, using process environment")
	} else {
		log.Info(".env file loaded")
	}

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	// Remove redis:// prefix if present
	redisAddr = strings.TrimPrefix(redisAddr, "redis://")

	return &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "campussafety"),
		RedisAddr:     redisAddr,
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		AuthUsername:  getEnv("AUTH_USERNAME", "admin@example.com"),
		AuthPassword:  getEnv("AUTH_PASSWORD", "admin"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		Timezone:      getEnv("FORM_TIMEZONE", "America/New_York"),
		Upload: UploadConfig{
			MaxBytes:  getEnvInt64("UPLOAD_MAX_BYTES", 10<<20),
			Workers:   int(getEnvInt64("UPLOAD_WORKERS", 4)),
			QueueSize: int(getEnvInt64("UPLOAD_QUEUE", 64)),
			Retries:   int(getEnvInt64("UPLOAD_RETRIES", 3)),
		},
		Completion: DefaultCompletionConfig(),
	}
}

// Location resolves the timezone used for submission dates. Unknown zones
// fall back to America/New_York.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warnf("unknown FORM_TIMEZONE %q, using America/New_York", c.Timezone)
		loc, _ = time.LoadLocation("America/New_York")
	}
	return loc
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		log.Warnf("invalid %s=%q, using %d", key, val, defaultVal)
		return defaultVal
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
