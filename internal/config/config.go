package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Admin
	AdminUserIDs []string

	// Notifications
	AdminEmail   string
	MailFrom     string
	ResendAPIKey string
	ResendAPIURL string
	MailRate     float64

	// Reminder sweep
	ReminderEnabled   bool
	ReminderInterval  time.Duration
	ReminderThreshold time.Duration

	// Assistant (OpenAI-compatible chat completions)
	LLMAPIKey string
	LLMAPIURL string
	LLMModel  string
	AITimeout time.Duration

	// Image host
	ImageKitPrivateKey string
	ImageKitUploadURL  string
	// Hosts the assistant may fetch images from (https only)
	ImageHosts         []string

	// Optional shared cache for rate limits and sweep locks
	RedisURL string

	LogRetention time.Duration

	// Server
	Port        string
	CORSOrigins string
	Env         string
	SentryDSN   string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "support_desk"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		AdminUserIDs: parseCSV(getEnv("ADMIN_USER_IDS", "")),

		AdminEmail:   getEnv("ADMIN_EMAIL", ""),
		MailFrom:     getEnv("MAIL_FROM", "MeetYourAPI-noreply@resend.dev"),
		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		ResendAPIURL: getEnv("RESEND_API_URL", "https://api.resend.com/emails"),
		MailRate:     parseFloat(getEnv("MAIL_RATE", "2"), 2),

		ReminderEnabled:   parseBool(getEnv("REMINDER_ENABLED", "true"), true),
		ReminderInterval:  parseDuration(getEnv("REMINDER_INTERVAL", "3h"), 3*time.Hour),
		ReminderThreshold: parseDuration(getEnv("REMINDER_THRESHOLD", "3h"), 3*time.Hour),

		LLMAPIKey: getEnv("LLM_API_KEY", ""),
		LLMAPIURL: getEnv("LLM_API_URL", "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"),
		LLMModel:  getEnv("LLM_MODEL", "gemini-1.5-flash"),
		AITimeout: parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),

		ImageKitPrivateKey: getEnv("IMAGEKIT_PRIVATE_KEY", ""),
		ImageKitUploadURL:  getEnv("IMAGEKIT_UPLOAD_URL", "https://upload.imagekit.io/api/v1/files/upload"),
		ImageHosts:         parseCSV(getEnv("IMAGE_HOSTS", "ik.imagekit.io")),

		RedisURL: getEnv("REDIS_URL", ""),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 720*time.Hour),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		Env:         getEnv("APP_ENV", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
