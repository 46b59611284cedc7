package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StoreXLSX     = "xlsx"
	StoreFirebase = "firebase"
)

type Config struct {
	Port     int            `yaml:"port"`
	Timezone string         `yaml:"timezone"`
	Store    StoreConfig    `yaml:"store"`
	Mail     MailConfig     `yaml:"mail"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type StoreConfig struct {
	Backend                    string        `yaml:"backend"`
	File                       string        `yaml:"file"`
	FirebaseServiceAccountPath string        `yaml:"firebaseServiceAccountPath"`
	FirebaseDatabaseURL        string        `yaml:"firebaseDatabaseURL"`
	Timeout                    time.Duration `yaml:"timeout"`
}

type MailConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"-"`
	FromName string        `yaml:"fromName"`
	Timeout  time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	APIKey  string        `yaml:"-"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type TelegramConfig struct {
	BotToken        string        `yaml:"-"`
	OrganiserChatID int64         `yaml:"organiserChatID"`
	Timeout         time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		Port: 8080,
		Store: StoreConfig{
			Backend: StoreXLSX,
			File:    "registrations.xlsx",
			Timeout: 5 * time.Second,
		},
		Mail: MailConfig{
			Host:     "smtp.gmail.com",
			Port:     587,
			FromName: "Saylani Registration",
			Timeout:  15 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.5-flash",
			Timeout: 20 * time.Second,
		},
		Telegram: TelegramConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Load reads defaults, then the first YAML file found, then the environment.
// An explicit path that cannot be read or parsed is an error; the implicit
// candidates are skipped silently.
func Load(configPath string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := mergeFile(&cfg, configPath); err != nil {
			return Config{}, err
		}
	} else if _, err := os.Stat("config.yaml"); err == nil {
		if err := mergeFile(&cfg, "config.yaml"); err != nil {
			return Config{}, err
		}
	}

	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error parsing config %s: %w", path, err)
	}
	return nil
}

func ApplyEnvOverrides(cfg *Config) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Timezone, "TIMEZONE")
	setString(&cfg.Store.Backend, "STORE_BACKEND")
	setString(&cfg.Store.File, "REGISTRATIONS_FILE")
	setString(&cfg.Store.FirebaseServiceAccountPath, "FIREBASE_SERVICE_ACCOUNT_KEY_PATH")
	setString(&cfg.Store.FirebaseDatabaseURL, "FIREBASE_DATABASE_URL")
	setString(&cfg.Mail.Host, "SMTP_HOST")
	setString(&cfg.Mail.Username, "GOOGLE_EMAIL")
	setString(&cfg.Mail.Password, "GOOGLE_PASSWORD")
	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "GEMINI_MODEL")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")

	ints := []struct {
		dst *int
		key string
	}{
		{&cfg.Port, "PORT"},
		{&cfg.Mail.Port, "SMTP_PORT"},
	}
	for _, i := range ints {
		raw := strings.TrimSpace(os.Getenv(i.key))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", i.key, raw, err)
		}
		*i.dst = v
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_ORGANISER_CHAT_ID")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_ORGANISER_CHAT_ID %q: %w", raw, err)
		}
		cfg.Telegram.OrganiserChatID = v
	}

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&cfg.Store.Timeout, "STORE_TIMEOUT"},
		{&cfg.Mail.Timeout, "MAIL_TIMEOUT"},
		{&cfg.Gemini.Timeout, "INFERENCE_TIMEOUT"},
		{&cfg.Telegram.Timeout, "TELEGRAM_TIMEOUT"},
	}
	for _, d := range durations {
		raw := strings.TrimSpace(os.Getenv(d.key))
		if raw == "" {
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.key, raw, err)
		}
		*d.dst = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Store.Backend {
	case StoreXLSX:
		if c.Store.File == "" {
			return fmt.Errorf("registrations file not set")
		}
	case StoreFirebase:
		if c.Store.FirebaseServiceAccountPath == "" || c.Store.FirebaseDatabaseURL == "" {
			return fmt.Errorf("firebase backend needs FIREBASE_SERVICE_ACCOUNT_KEY_PATH and FIREBASE_DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	for name, d := range map[string]time.Duration{
		"store":     c.Store.Timeout,
		"mail":      c.Mail.Timeout,
		"inference": c.Gemini.Timeout,
		"telegram":  c.Telegram.Timeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s timeout must be positive", name)
		}
	}
	return nil
}

// Location resolves Timezone, falling back to the process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.OrganiserChatID != 0
}
