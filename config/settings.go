package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Supported values of DB_TYPE.
const (
	DatabaseMongo    = "mongo"
	DatabasePostgres = "postgres"
	DatabaseSupabase = "supa"
)

// Supported values of CHAT_PROVIDER.
const (
	ChatProviderGemini = "gemini"
	ChatProviderOpenAI = "openai"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Chat     ChatConfig
	Notify   NotifyConfig
	Auth     AuthConfig
	App      AppConfig
}

type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	AcceptedOrigins    []string
	RateLimitPerMinute int
	// TrustProxyHeaders keys the rate limiter on X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

type DatabaseConfig struct {
	Type string
	// URI is the connection string for the selected backend. It may be empty;
	// the connection cache reports that as a configuration error per request.
	URI string
	// URIKey names the environment variable URI was read from.
	URIKey string
	// Name is the Mongo database name.
	Name string
}

type ChatConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	Timeout      time.Duration
}

type NotifyConfig struct {
	ResendAPIKey     string
	ResendFromEmail  string
	ContactInbox     string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	TwilioToNumber   string
}

type AuthConfig struct {
	AdminJWTSecret string
}

type AppConfig struct {
	Environment string
	LogLevel    string
}

// IsProduction reports whether diagnostics should be withheld from clients.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

// Load reads .env (if present) and builds the configuration from the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables")
	}
	return FromMap(New())
}

// FromMap builds the configuration from an environment map.
func FromMap(env map[string]string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               GetString(env, "PORT", "8080"),
			ReadTimeout:        time.Duration(GetInt(env, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
			WriteTimeout:       time.Duration(GetInt(env, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
			IdleTimeout:        time.Duration(GetInt(env, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
			AcceptedOrigins:    GetList(env, "ACCEPTED_ORIGINS", []string{"*"}),
			RateLimitPerMinute: GetInt(env, "RATE_LIMIT_PER_MINUTE", 20),
			TrustProxyHeaders:  GetBool(env, "TRUST_PROXY_HEADERS", false),
		},
		Database: databaseFromMap(env),
		Chat: ChatConfig{
			Provider:     strings.ToLower(GetString(env, "CHAT_PROVIDER", ChatProviderGemini)),
			GeminiAPIKey: GetString(env, "GOOGLE_GEMINI_API_KEY", ""),
			GeminiModel:  GetString(env, "GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey: GetString(env, "OPENAI_API_KEY", ""),
			OpenAIModel:  GetString(env, "OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:      time.Duration(GetInt(env, "CHAT_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Notify: NotifyConfig{
			ResendAPIKey:     GetString(env, "RESEND_API_KEY", ""),
			ResendFromEmail:  GetString(env, "RESEND_FROM_EMAIL", ""),
			ContactInbox:     GetString(env, "CONTACT_INBOX", ""),
			TwilioAccountSID: GetString(env, "TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:  GetString(env, "TWILIO_AUTH_TOKEN", ""),
			TwilioFromNumber: GetString(env, "TWILIO_FROM_NUMBER", ""),
			TwilioToNumber:   GetString(env, "TWILIO_TO_NUMBER", ""),
		},
		Auth: AuthConfig{
			AdminJWTSecret: GetString(env, "ADMIN_JWT_SECRET", ""),
		},
		App: AppConfig{
			Environment: strings.ToLower(GetString(env, "APP_ENV", "development")),
			LogLevel:    strings.ToLower(GetString(env, "LOG_LEVEL", "info")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func databaseFromMap(env map[string]string) DatabaseConfig {
	dbType := strings.ToLower(GetString(env, "DB_TYPE", DatabaseMongo))

	switch dbType {
	case DatabasePostgres:
		return DatabaseConfig{
			Type:   dbType,
			URI:    GetString(env, "DATABASE_URL", ""),
			URIKey: "DATABASE_URL",
		}
	case DatabaseSupabase:
		uri := GetString(env, "DATABASE_URL", "")
		if uri == "" && GetString(env, "SUPABASE_DB_HOST", "") != "" {
			uri = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
				GetString(env, "SUPABASE_DB_HOST", ""),
				GetString(env, "SUPABASE_DB_USER", ""),
				GetString(env, "SUPABASE_DB_PASSWORD", ""),
				GetString(env, "SUPABASE_DB_NAME", ""),
				GetString(env, "SUPABASE_DB_PORT", "5432"),
			)
		}
		return DatabaseConfig{
			Type:   dbType,
			URI:    uri,
			URIKey: "DATABASE_URL",
		}
	default:
		return DatabaseConfig{
			Type:   dbType,
			URI:    GetString(env, "MONGODB_URI", ""),
			URIKey: "MONGODB_URI",
			Name:   GetString(env, "MONGODB_DB", "portfolio"),
		}
	}
}

// Validate rejects settings that can never work. A missing connection string
// is not rejected here.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Type {
	case DatabaseMongo, DatabasePostgres, DatabaseSupabase:
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.Database.Type)
	}

	switch c.Chat.Provider {
	case ChatProviderGemini, ChatProviderOpenAI:
	default:
		return fmt.Errorf("unsupported CHAT_PROVIDER %q", c.Chat.Provider)
	}

	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}

	return nil
}
