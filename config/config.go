package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	AppEnv string
	Port   string

	// Storage: "mongo" or "memory"
	StoreDriver   string
	MongoURI      string
	MongoDatabase string

	JWTSecret string
	JWTExpiry time.Duration

	// Lets user-supplied image and product URLs reach private networks.
	AllowPrivateFetch bool

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// AI: "gemini", "gateway" or "anthropic"
	AIProvider       string
	AITimeout        time.Duration
	GeminiAPIKey     string
	GeminiModel      string
	AIGatewayURL     string
	AIGatewayAPIKey  string
	AIGatewayModel   string
	AnthropicAPIKey  string
	ClaudeModel      string
	RPMAPIKey        string
	RPMAppID         string
	AICallsPerHour   int
	RedisAddr        string
	RedisPassword    string
	SendGridAPIKey   string
	EmailFrom        string
	SentryDSN        string
	MediaProvider    string
	MediaFolder      string
	CloudinaryCloud  string
	CloudinaryPreset string
	CloudinaryKey    string
	CloudinarySecret string
	AWSRegion        string
	AWSBucketName    string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string

	// Local outfit composer limits
	OutfitMaxTops    int
	OutfitMaxBottoms int
	OutfitMaxDresses int
	OutfitMaxResults int
}

// Load loads environment variables from a .env file (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppEnv: envString("APP_ENV", "development"),
		Port:   envString("PORT", "8080"),

		StoreDriver:   strings.ToLower(envString("STORE_DRIVER", "mongo")),
		MongoURI:      envString("MONGO_URI", "mongodb://localhost:27017/"),
		MongoDatabase: envString("MONGO_DATABASE", "stylesync"),

		JWTSecret: envString("JWT_SECRET", ""),
		JWTExpiry: envDuration("JWT_EXPIRY", 24*time.Hour),

		AllowPrivateFetch: envBool("ALLOW_PRIVATE_FETCH", false),

		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  envString("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),

		AIProvider:      strings.ToLower(envString("AI_PROVIDER", "gemini")),
		AITimeout:       envDuration("AI_TIMEOUT", 30*time.Second),
		GeminiAPIKey:    envString("GEMINI_API_KEY", ""),
		GeminiModel:     envString("GEMINI_MODEL", "gemini-1.5-flash"),
		AIGatewayURL:    envString("AI_GATEWAY_URL", ""),
		AIGatewayAPIKey: envString("AI_GATEWAY_API_KEY", ""),
		AIGatewayModel:  envString("AI_GATEWAY_MODEL", "google/gemini-2.5-flash"),
		AnthropicAPIKey: envString("ANTHROPIC_API_KEY", ""),
		ClaudeModel:     envString("CLAUDE_MODEL", "claude-3-5-sonnet-20240620"),
		RPMAPIKey:       envString("RPM_API_KEY", ""),
		RPMAppID:        envString("RPM_APP_ID", ""),
		AICallsPerHour:  envInt("AI_CALLS_PER_HOUR", 60),

		RedisAddr:     envString("REDIS_ADDR", ""),
		RedisPassword: envString("REDIS_PASSWORD", ""),

		SendGridAPIKey: envString("SENDGRID_API_KEY", ""),
		EmailFrom:      envString("EMAIL_FROM", "no-reply@stylesync.app"),
		SentryDSN:      envString("SENTRY_DSN", ""),

		MediaProvider:    strings.ToLower(envString("MEDIA_PROVIDER", "cloudinary")),
		MediaFolder:      envString("MEDIA_FOLDER", "stylesync"),
		CloudinaryCloud:  envString("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryPreset: envString("CLOUDINARY_UPLOAD_PRESET", "stylesync_unsigned"),
		CloudinaryKey:    envString("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: envString("CLOUDINARY_API_SECRET", ""),
		AWSRegion:        envString("AWS_REGION", "us-east-1"),
		AWSBucketName:    envString("AWS_BUCKET_NAME", ""),
		S3Endpoint:       envString("S3_ENDPOINT", ""),
		S3AccessKey:      envString("S3_ACCESS_KEY", ""),
		S3SecretKey:      envString("S3_SECRET_KEY", ""),

		OutfitMaxTops:    envInt("OUTFIT_MAX_TOPS", 3),
		OutfitMaxBottoms: envInt("OUTFIT_MAX_BOTTOMS", 2),
		OutfitMaxDresses: envInt("OUTFIT_MAX_DRESSES", 2),
		OutfitMaxResults: envInt("OUTFIT_MAX_RESULTS", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations that must never reach production.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.IsProduction() {
		if c.StoreDriver == "memory" {
			return fmt.Errorf("STORE_DRIVER=memory is not durable and is not allowed in production")
		}
		if c.AllowPrivateFetch {
			return fmt.Errorf("ALLOW_PRIVATE_FETCH is not allowed in production")
		}
	}
	if c.JWTSecret != "" {
		return nil
	}
	// A throwaway secret only makes sense when users vanish with the process.
	if c.StoreDriver != "memory" {
		return fmt.Errorf("JWT_SECRET is required with STORE_DRIVER=%s", c.StoreDriver)
	}
	secret, err := randomSecret()
	if err != nil {
		return fmt.Errorf("generate JWT secret: %w", err)
	}
	slog.Warn("JWT_SECRET not set, signing with a random per-process secret")
	c.JWTSecret = secret
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}
