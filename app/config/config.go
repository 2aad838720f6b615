package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds everything the blog reads at startup.
type Config struct {
	Addr             string
	DBPath           string
	SessionDir       string
	SessionTTL       time.Duration
	SessionCookie    string
	CookieSecure     bool
	AdminID          int
	MailUser         string
	MailPassword     string
	SMTPHost         string
	SMTPPort         int
	ContactRecipient string
	SiteName         string
	LogLevel         string
	AppEnv           string
	BackupDir        string
	StaticDir        string
}

var defaults = map[string]any{
	"ADDR":              ":5000",
	"DB_PATH":           "blog.db",
	"SESSION_DIR":       "data/sessions",
	"SESSION_TTL":       "720h",
	"SESSION_COOKIE":    "session_token",
	"COOKIE_SECURE":     false,
	"ADMIN_ID":          1,
	"EMAIL":             "",
	"PASSWORD":          "",
	"SMTP_HOST":         "smtp.gmail.com",
	"SMTP_PORT":         587,
	"CONTACT_RECIPIENT": "",
	"SITE_NAME":         "SoriOner's Blog",
	"LOG_LEVEL":         "info",
	"APP_ENV":           "development",
	"BACKUP_DIR":        "data/backups",
	"STATIC_DIR":        "static",
}

// Load reads .env (if present), the optional config file and the environment,
// in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Addr:             v.GetString("ADDR"),
		DBPath:           v.GetString("DB_PATH"),
		SessionDir:       v.GetString("SESSION_DIR"),
		SessionTTL:       v.GetDuration("SESSION_TTL"),
		SessionCookie:    v.GetString("SESSION_COOKIE"),
		CookieSecure:     v.GetBool("COOKIE_SECURE"),
		AdminID:          v.GetInt("ADMIN_ID"),
		MailUser:         strings.TrimSpace(v.GetString("EMAIL")),
		MailPassword:     v.GetString("PASSWORD"),
		SMTPHost:         v.GetString("SMTP_HOST"),
		SMTPPort:         v.GetInt("SMTP_PORT"),
		ContactRecipient: strings.TrimSpace(v.GetString("CONTACT_RECIPIENT")),
		SiteName:         v.GetString("SITE_NAME"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		AppEnv:           strings.ToLower(v.GetString("APP_ENV")),
		BackupDir:        v.GetString("BACKUP_DIR"),
		StaticDir:        v.GetString("STATIC_DIR"),
	}
	if cfg.ContactRecipient == "" {
		cfg.ContactRecipient = cfg.MailUser
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		cfg.LogLevel = "info"
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %q", v.GetString("SESSION_TTL"))
	}
	if cfg.AdminID <= 0 {
		return nil, fmt.Errorf("ADMIN_ID must be positive, got %d", cfg.AdminID)
	}
	if cfg.SessionCookie == "" {
		return nil, errors.New("SESSION_COOKIE must not be empty")
	}
	return cfg, nil
}

// MailConfigured reports whether contact messages can be delivered.
func (c *Config) MailConfigured() bool {
	return c.MailUser != "" && c.MailPassword != ""
}

// Production reports whether the app runs with APP_ENV=production.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}
