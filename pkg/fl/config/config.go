package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env"` // "dev" or "prod"
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Site     SiteConfig     `yaml:"site"`
	Contact  ContactConfig  `yaml:"contact"`
	Mail     MailConfig     `yaml:"mail"`
	Admin    AdminConfig    `yaml:"admin"`
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	ProfilePath string `yaml:"profile_path"`
}

type ContactConfig struct {
	// RateLimit is the maximum number of submissions per IP per hour.
	RateLimit int `yaml:"rate_limit"`
	// AllowedOrigins is a comma-separated list for CORS; empty allows all.
	AllowedOrigins string `yaml:"allowed_origins"`
	// StatusTTL is how long a terminal submission status is held before the
	// flow returns to idle, e.g. "3s".
	StatusTTL string `yaml:"status_ttl"`
}

type MailConfig struct {
	// Endpoint of the EmailJS-compatible send API. Empty disables relaying;
	// submissions are then only stored locally.
	Endpoint   string `yaml:"endpoint"`
	ServiceID  string `yaml:"service_id"`
	TemplateID string `yaml:"template_id"`
	PublicKey  string `yaml:"public_key"`
}

type AdminConfig struct {
	// Token guards the message dashboard API. Empty disables those routes.
	Token string `yaml:"token"`
}

func Load() *Config {
	// .env is optional; real env vars win over it
	godotenv.Load()

	env := os.Getenv("FOLIO_ENV")
	if env == "" {
		env = "dev" // Default to dev for safety
	}

	var dbPath string
	if env == "dev" {
		dbPath = "_workspace/db/folio.db"
	} else {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".folio", "folio.db")
	}

	cfg := &Config{
		Env:      env,
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Path: dbPath},
		Log:      LogConfig{Level: "info"},
		Site:     SiteConfig{Title: "Portfolio", ProfilePath: "profile.yaml"},
		Contact:  ContactConfig{RateLimit: 5, StatusTTL: "3s"},
		Mail:     MailConfig{Endpoint: "https://api.emailjs.com/api/v1.0/email/send"},
	}

	data, err := os.ReadFile("config.yaml")
	if err == nil {
		yaml.Unmarshal(data, cfg)
	}

	// Environment overrides (highest priority)
	if v := os.Getenv("FOLIO_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FOLIO_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FOLIO_SITE_PROFILE_PATH"); v != "" {
		cfg.Site.ProfilePath = v
	}
	if v := os.Getenv("FOLIO_MAIL_ENDPOINT"); v != "" {
		cfg.Mail.Endpoint = v
	}
	if v := os.Getenv("FOLIO_MAIL_SERVICE_ID"); v != "" {
		cfg.Mail.ServiceID = v
	}
	if v := os.Getenv("FOLIO_MAIL_TEMPLATE_ID"); v != "" {
		cfg.Mail.TemplateID = v
	}
	if v := os.Getenv("FOLIO_MAIL_PUBLIC_KEY"); v != "" {
		cfg.Mail.PublicKey = v
	}
	if v := os.Getenv("FOLIO_ADMIN_TOKEN"); v != "" {
		cfg.Admin.Token = v
	}

	return cfg
}
