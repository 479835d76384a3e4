package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Policy   PolicyConfig
	Email    EmailConfig
	Uploads  UploadConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT"`
	Env             string        `env:"APP_ENV" envDefault:"development"`
	EnableTLS       bool          `env:"ENABLE_TLS" envDefault:"true"`
	CertPath        string        `env:"TLS_CERT_PATH"`
	KeyPath         string        `env:"TLS_KEY_PATH"`
	CertPEM         string        `env:"TLS_CERT"`
	KeyPEM          string        `env:"TLS_KEY"`
	AllowSelfSigned bool          `env:"TLS_SELF_SIGNED" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL,required,notEmpty"`
	MaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	ApplySchema     bool          `env:"APPLY_SCHEMA_ON_START" envDefault:"true"`
	SchemaPath      string        `env:"SCHEMA_PATH" envDefault:"pkg/db/schema.sql"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"24h"`
	Issuer    string        `env:"JWT_ISSUER" envDefault:"startupconnect"`
}

// PolicyConfig toggles the access rules. Setting both to false reproduces the
// permissive behaviour where any authenticated user may act on any startup.
type PolicyConfig struct {
	RequireStartupOwnership bool `env:"POLICY_REQUIRE_STARTUP_OWNERSHIP" envDefault:"true"`
	RequireNegotiationParty bool `env:"POLICY_REQUIRE_NEGOTIATION_PARTY" envDefault:"true"`
}

type EmailConfig struct {
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	SenderEmail    string `env:"SENDGRID_SENDER_EMAIL"`
	SenderName     string `env:"SENDGRID_SENDER_NAME" envDefault:"StartupConnect"`
}

type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR" envDefault:"uploads/pitch-decks"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"20971520"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Server.Env = strings.ToLower(strings.TrimSpace(c.Server.Env))
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	// TLS is enforced in production
	if c.Server.Env == "production" {
		c.Server.EnableTLS = true
	}
	if c.Server.Port == "" {
		if c.Server.EnableTLS {
			c.Server.Port = "8443"
		} else {
			c.Server.Port = "8080"
		}
	}

	origins := make([]string, 0, len(c.CORS.AllowedOrigins))
	for _, o := range c.CORS.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.CORS.AllowedOrigins = origins
}

// Validate ensures TLS settings are safe for the selected environment.
func (s ServerConfig) Validate() error {
	if s.Env == "production" {
		if !s.EnableTLS {
			return fmt.Errorf("TLS must be enabled in production")
		}
		if s.CertPath == "" || s.KeyPath == "" {
			return fmt.Errorf("TLS_CERT_PATH and TLS_KEY_PATH are required in production")
		}
	}
	return nil
}
