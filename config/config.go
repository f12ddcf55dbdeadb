package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and handed to the components that need it
type Config struct {
	AppName     string
	Environment string
	Debug       bool
	Port        string

	DatabaseURL string

	SecretKey string
	TokenTTL  time.Duration
	OTPTTL    time.Duration

	Admin  AdminSeed
	Twilio TwilioConfig
	Upload UploadConfig

	RedisURL    string
	CatalogTTL  time.Duration
	RabbitMQURL string
}

// AdminSeed is the account created when the database has no admin yet
type AdminSeed struct {
	Name     string
	Username string
	Password string
	Email    string
	Phone    string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
}

// Enabled reports whether all credentials needed to send SMS are present
func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

type UploadConfig struct {
	Dir          string
	URLPrefix    string
	MaxSize      int64
	AllowedTypes []string
}

// CookieSecure is false only in debug so cookies work over plain http locally
func (c Config) CookieSecure() bool {
	return !c.Debug
}

// Load reads .env (if present) and the process environment
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	return Config{
		AppName:     getEnv("APP_NAME", "Bite Me Buddy"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Debug:       getEnvBool("DEBUG", false),
		Port:        getEnv("PORT", "8080"),

		DatabaseURL: getEnv("DATABASE_URL", "bitemebuddy.db"),

		SecretKey: getEnv("SECRET_KEY", "change-this-secret-key-in-production"),
		TokenTTL:  time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		OTPTTL:    time.Duration(getEnvInt("OTP_TTL_MINUTES", 5)) * time.Minute,

		Admin: AdminSeed{
			Name:     getEnv("ADMIN_NAME", "Administrator"),
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "Admin@123"),
			Email:    getEnv("ADMIN_EMAIL", "admin@bitemebuddy.com"),
			Phone:    getEnv("ADMIN_PHONE", "+919876543210"),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
			BaseURL:    getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "static/uploads"),
			URLPrefix:    getEnv("UPLOAD_URL_PREFIX", "/static/uploads"),
			MaxSize:      int64(getEnvInt("MAX_UPLOAD_SIZE", 5*1024*1024)),
			AllowedTypes: getEnvList("ALLOWED_IMAGE_TYPES", []string{"image/jpeg", "image/png", "image/gif"}),
		},

		RedisURL:    getEnv("REDIS_URL", ""),
		CatalogTTL:  time.Duration(getEnvInt("CATALOG_CACHE_SECONDS", 300)) * time.Second,
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
