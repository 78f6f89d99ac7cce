package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	ListenAddr  string
	LogLevel    string

	AuthCookieSecure bool

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Keycloak     KeycloakConfig
	Notifier     NotifierConfig
	Mail         MailConfig
	Verification VerificationConfig
}

// KeycloakConfig describes the Keycloak realm this service talks to, both as
// an OIDC relying party and through the admin REST API.
type KeycloakConfig struct {
	BaseURL           string
	Realm             string
	ClientID          string
	ClientSecret      string
	RedirectURL       string
	PostLogoutURL     string
	AdminClientID     string
	AdminClientSecret string
}

// NotifierConfig configures the lifecycle-event delivery pipeline.
type NotifierConfig struct {
	// Endpoints are candidate base URLs for reaching the backend of record,
	// tried in order until one accepts the notification.
	Endpoints           []string
	LoginTimeout        time.Duration
	RegistrationTimeout time.Duration
	QueueSize           int
	BreakerThreshold    int
	BreakerCooldown     time.Duration
}

// MailConfig holds Mailjet API credentials and sender identity.
type MailConfig struct {
	APIKey    string
	APISecret string
	FromEmail string
	FromName  string
}

// VerificationConfig configures email-verification token issuance.
type VerificationConfig struct {
	VerifyURL string
	TokenTTL  time.Duration
}

// IssuerURL returns the OIDC issuer for the configured realm.
func (k KeycloakConfig) IssuerURL() string {
	return strings.TrimRight(k.BaseURL, "/") + "/realms/" + k.Realm
}

// AdminURL returns the admin REST base for the configured realm.
func (k KeycloakConfig) AdminURL() string {
	return strings.TrimRight(k.BaseURL, "/") + "/admin/realms/" + k.Realm
}

// TokenURL returns the realm token endpoint.
func (k KeycloakConfig) TokenURL() string {
	return k.IssuerURL() + "/protocol/openid-connect/token"
}

// EndSessionURL returns the realm logout endpoint.
func (k KeycloakConfig) EndSessionURL() string {
	return k.IssuerURL() + "/protocol/openid-connect/logout"
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "keycloak-companion"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		ListenAddr:       getenv("LISTEN_ADDR", ":8081"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		AuthCookieSecure: authCookieSecure,

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "keycloak_companion"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		Keycloak: KeycloakConfig{
			BaseURL:           getenv("KEYCLOAK_BASE_URL", "http://localhost:8080"),
			Realm:             getenv("KEYCLOAK_REALM", "spring-boot-realm"),
			ClientID:          getenv("KEYCLOAK_CLIENT_ID", ""),
			ClientSecret:      getenv("KEYCLOAK_CLIENT_SECRET", ""),
			RedirectURL:       getenv("KEYCLOAK_REDIRECT_URL", "http://localhost:8081/auth/callback"),
			PostLogoutURL:     getenv("KEYCLOAK_POST_LOGOUT_URL", "http://localhost:8081/?logout=true"),
			AdminClientID:     getenv("KEYCLOAK_ADMIN_CLIENT_ID", ""),
			AdminClientSecret: getenv("KEYCLOAK_ADMIN_CLIENT_SECRET", ""),
		},

		Notifier: NotifierConfig{
			Endpoints: getenvList("NOTIFIER_ENDPOINTS", []string{
				"http://host.docker.internal:8081",
				"http://localhost:8081",
				"http://172.17.0.1:8081",
				"http://192.168.1.1:8081",
			}),
			LoginTimeout:        getenvDuration("NOTIFIER_LOGIN_TIMEOUT", 20*time.Second),
			RegistrationTimeout: getenvDuration("NOTIFIER_REGISTRATION_TIMEOUT", 3*time.Second),
			QueueSize:           getenvInt("NOTIFIER_QUEUE_SIZE", 256),
			BreakerThreshold:    getenvInt("NOTIFIER_BREAKER_THRESHOLD", 5),
			BreakerCooldown:     getenvDuration("NOTIFIER_BREAKER_COOLDOWN", 30*time.Second),
		},

		Mail: MailConfig{
			APIKey:    getenv("MAILJET_API_KEY", ""),
			APISecret: getenv("MAILJET_API_SECRET", ""),
			FromEmail: getenv("MAILJET_FROM_EMAIL", ""),
			FromName:  getenv("MAILJET_FROM_NAME", "Keycloak Companion"),
		},

		Verification: VerificationConfig{
			VerifyURL: getenv("EMAIL_VERIFICATION_URL", "http://localhost:8081/auth/verify-email"),
			TokenTTL:  getenvDuration("EMAIL_VERIFICATION_TTL", 24*time.Hour),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvList(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return def
	}
	return out
}
