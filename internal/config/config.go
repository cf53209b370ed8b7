package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string
	MongoURI        string
	MongoDB         string
	ServerAddr      string
	FrontendOrigins []string

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheFreshSeconds int
	CacheRetainHours  int

	RateLimitWindowSec     int
	RateLimitCreate        int
	RateLimitUpdate        int
	RateLimitContactUpdate int
	RateLimitDelete        int
	RateLimitSubmissions   int

	AdminAPIKey       string
	AdminUser         string
	AdminPassword     string
	AdminSetupKey     string
	JWTSecret         string
	AccessTTLMinutes  int
	RefreshTTLMinutes int
	CookieSecure      bool

	BrevoAPIKey      string
	BrevoSenderEmail string
	BrevoSenderName  string
	BrevoSandbox     bool
	OwnerEmail       string

	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3PublicURL      string
	UploadTTLMinutes int

	Timezone *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func Load() (*Config, error) {
	// Missing .env is fine; real environment variables win over file values.
	_ = godotenv.Load(".env")

	loc, err := time.LoadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017/portfolio")
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "portfolio"
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		MongoURI:        mongoURI,
		MongoDB:         mongoDB,
		ServerAddr:      getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigins: getEnvList("FRONTEND_ORIGINS", []string{"http://localhost:3000"}),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CacheFreshSeconds: getEnvInt("CACHE_FRESH_SECONDS", 600),
		CacheRetainHours:  getEnvInt("CACHE_RETAIN_HOURS", 168),

		RateLimitWindowSec:     getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		RateLimitCreate:        getEnvInt("RATE_LIMIT_CREATE", 5),
		RateLimitUpdate:        getEnvInt("RATE_LIMIT_UPDATE", 10),
		RateLimitContactUpdate: getEnvInt("RATE_LIMIT_CONTACT_UPDATE", 15),
		RateLimitDelete:        getEnvInt("RATE_LIMIT_DELETE", 3),
		RateLimitSubmissions:   getEnvInt("RATE_LIMIT_SUBMISSIONS", 5),

		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),
		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminSetupKey:     getEnv("ADMIN_SETUP_KEY", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AccessTTLMinutes:  getEnvInt("ACCESS_TTL_MINUTES", 15),
		RefreshTTLMinutes: getEnvInt("REFRESH_TTL_MINUTES", 43200),
		CookieSecure:      getEnvBool("COOKIE_SECURE", false),

		BrevoAPIKey:      getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail: getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:  getEnv("BREVO_SENDER_NAME", ""),
		BrevoSandbox:     getEnvBool("BREVO_SANDBOX", false),
		OwnerEmail:       getEnv("OWNER_EMAIL", ""),

		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("S3_SECRET_KEY", ""),
		S3PublicURL:      getEnv("S3_PUBLIC_URL", ""),
		UploadTTLMinutes: getEnvInt("UPLOAD_TTL_MINUTES", 15),

		Timezone: loc,
	}

	return cfg, nil
}

func (c *Config) CacheFreshness() time.Duration {
	return time.Duration(c.CacheFreshSeconds) * time.Second
}

func (c *Config) CacheRetention() time.Duration {
	return time.Duration(c.CacheRetainHours) * time.Hour
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSec) * time.Second
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	// mongodb URIs sometimes include extra path segments; we only support the first one as db name.
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}
