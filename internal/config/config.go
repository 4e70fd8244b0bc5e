package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Auth           AuthConfig
	AdminBootstrap AdminBootstrapConfig
	Logging        LoggingConfig
	CORS           CORSConfig
	Email          EmailConfig
	Jobs           JobsConfig
	Tracing        TracingConfig
	Environment    string
}

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdle        int
}

type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	Issuer    string
	// OpenRegistration lets anyone call POST /api/auth/register without a token.
	OpenRegistration bool
}

type AdminBootstrapConfig struct {
	Username string
	Password string
	Email    string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins  []string
	AllowAllOrigins bool
}

type EmailConfig struct {
	Enabled bool
	// Provider is "smtp" or "resend".
	Provider string
	// Delivery is "sync" or "queue".
	Delivery     string
	From         string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	ResendAPIKey string
	Recipients   RecipientsConfig
}

// RecipientsConfig holds the organisation inbox for each public form.
// An empty value falls back to EmailConfig.From.
type RecipientsConfig struct {
	Contact             string
	PodcastGuest        string
	DisabilityInclusion string
	UdaanTalk           string
}

type JobsConfig struct {
	NotificationMaxAttempts int
	NotificationWorkers     int
}

type TracingConfig struct {
	Enabled     bool
	Exporter    string
	Endpoint    string
	SampleRate  float64
	ServiceName string
}

const minProductionSecretLength = 32

func Load() (Config, error) {
	environment := getEnv("ENVIRONMENT", "development")

	cfg := Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvInt("PORT", getEnvInt("SERVER_PORT", 5000)),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:5000"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdle:        getEnvInt("DATABASE_MAX_IDLE_CONNECTIONS", 2),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			JWTExpiry:        time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
			Issuer:           getEnv("JWT_ISSUER", "pankhokiudaan"),
			OpenRegistration: getEnvBool("AUTH_OPEN_REGISTRATION", false),
		},
		AdminBootstrap: AdminBootstrapConfig{
			Username: getEnv("ADMIN_USERNAME", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Email:    getEnv("ADMIN_EMAIL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins(getEnv("CORS_ALLOWED_ORIGINS", ""), getEnv("FRONTEND_URL", "")),
		},
		Email: EmailConfig{
			Enabled:      getEnvBool("EMAIL_ENABLED", true),
			Provider:     strings.ToLower(getEnv("EMAIL_PROVIDER", "smtp")),
			Delivery:     strings.ToLower(getEnv("EMAIL_DELIVERY", "sync")),
			From:         getEnv("EMAIL_FROM", getEnv("EMAIL_USER", "")),
			FromName:     getEnv("EMAIL_FROM_NAME", "Pankho Ki Udaan"),
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnvInt("SMTP_PORT", 465),
			SMTPUser:     getEnv("SMTP_USER", getEnv("EMAIL_USER", "")),
			SMTPPassword: getEnv("SMTP_PASSWORD", getEnv("EMAIL_PASSWORD", "")),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			Recipients: RecipientsConfig{
				Contact:             getEnv("CONTACT_EMAIL", ""),
				PodcastGuest:        getEnv("PODCAST_EMAIL", ""),
				DisabilityInclusion: getEnv("DISABILITY_INCLUSION_EMAIL", ""),
				UdaanTalk:           getEnv("UDAAN_TALK_EMAIL", ""),
			},
		},
		Jobs: JobsConfig{
			NotificationMaxAttempts: getEnvInt("JOB_RETRY_NOTIFICATION", 5),
			NotificationWorkers:     getEnvInt("JOB_WORKERS_NOTIFICATION", 2),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", false),
			Exporter:    getEnv("TRACING_EXPORTER", "stdout"),
			Endpoint:    getEnv("TRACING_ENDPOINT", "localhost:4317"),
			SampleRate:  getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "pankhokiudaan-server"),
		},
		Environment: environment,
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	if environment == "production" {
		if len(cfg.Auth.JWTSecret) < minProductionSecretLength {
			return Config{}, fmt.Errorf("JWT_SECRET must be at least %d bytes in production", minProductionSecretLength)
		}
		if len(cfg.CORS.AllowedOrigins) == 0 {
			return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS or FRONTEND_URL must be set in production")
		}
	} else {
		cfg.CORS.AllowAllOrigins = true
	}

	switch cfg.Email.Provider {
	case "smtp", "resend":
	default:
		return Config{}, fmt.Errorf("EMAIL_PROVIDER must be smtp or resend, got %q", cfg.Email.Provider)
	}
	switch cfg.Email.Delivery {
	case "sync", "queue":
	default:
		return Config{}, fmt.Errorf("EMAIL_DELIVERY must be sync or queue, got %q", cfg.Email.Delivery)
	}
	if cfg.Email.Enabled && cfg.Email.Provider == "resend" && cfg.Email.ResendAPIKey == "" {
		return Config{}, fmt.Errorf("RESEND_API_KEY is required when EMAIL_PROVIDER=resend")
	}

	return cfg, nil
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "test"
}

func corsOrigins(list, frontendURL string) []string {
	seen := map[string]bool{}
	var origins []string
	for _, origin := range append(strings.Split(list, ","), frontendURL) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" || seen[origin] {
			continue
		}
		seen[origin] = true
		origins = append(origins, origin)
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
