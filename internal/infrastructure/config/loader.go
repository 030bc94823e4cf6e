package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"radioBot/internal/infrastructure/logging"
)

const (
	DefaultHighriseURL    = "wss://highrise.game/web/botapi"
	DefaultRadioAPIURL    = "http://localhost:9126/api"
	DefaultRadioStreamURL = "http://localhost:9126/stream"
	DefaultPrefix         = "!"
	DefaultDatabasePath   = "data/radiobot.db"
	DefaultConsoleUser    = "console"
)

// placeholderAdmins ship in sample configs and must never grant rights.
var placeholderAdmins = map[string]bool{
	"admin_user_id_1": true,
	"admin_user_id_2": true,
}

type Config struct {
	HighriseToken string `yaml:"highrise_token"`
	HighriseRoom  string `yaml:"highrise_room"`
	HighriseURL   string `yaml:"highrise_url"`

	RadioAPIURL    string        `yaml:"radio_api_url"`
	RadioStreamURL string        `yaml:"radio_stream_url"`
	RadioTimeout   time.Duration `yaml:"radio_timeout"`

	DefaultAdmins   []string      `yaml:"admins"`
	Prefix          string        `yaml:"prefix"`
	MaxQueueDisplay int           `yaml:"max_queue_display"`
	PollInterval    time.Duration `yaml:"poll_interval"`

	Features Features          `yaml:"features"`
	Messages map[string]string `yaml:"messages"`

	ConsoleAddr     string `yaml:"console_addr"`
	ConsoleOperator string `yaml:"console_operator"`
	DatabasePath    string `yaml:"database_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type Features struct {
	AutoAnnounce bool `yaml:"auto_announce"`
	Welcome      bool `yaml:"welcome"`
}

// Load layers defaults, the optional YAML file named by RADIO_BOT_CONFIG and
// environment variables (a .env file is honoured), then validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv("RADIO_BOT_CONFIG")); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}

	cfg.DefaultAdmins = cleanAdmins(cfg.DefaultAdmins)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		HighriseURL:     DefaultHighriseURL,
		RadioAPIURL:     DefaultRadioAPIURL,
		RadioStreamURL:  DefaultRadioStreamURL,
		RadioTimeout:    10 * time.Second,
		Prefix:          DefaultPrefix,
		MaxQueueDisplay: 5,
		PollInterval:    10 * time.Second,
		Features: Features{
			AutoAnnounce: true,
			Welcome:      true,
		},
		ConsoleOperator: DefaultConsoleUser,
		DatabasePath:    DefaultDatabasePath,
		LogLevel:        "INFO",
		LogFormat:       "json",
	}
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	str("HIGHRISE_BOT_TOKEN", &cfg.HighriseToken)
	str("HIGHRISE_ROOM_ID", &cfg.HighriseRoom)
	str("HIGHRISE_WS_URL", &cfg.HighriseURL)
	str("RADIO_API_URL", &cfg.RadioAPIURL)
	str("RADIO_STREAM_URL", &cfg.RadioStreamURL)
	str("BOT_PREFIX", &cfg.Prefix)
	str("CONSOLE_ADDR", &cfg.ConsoleAddr)
	str("CONSOLE_OPERATOR_ID", &cfg.ConsoleOperator)
	str("DATABASE_PATH", &cfg.DatabasePath)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	if v := strings.TrimSpace(getenv("BOT_ADMINS")); v != "" {
		cfg.DefaultAdmins = append(cfg.DefaultAdmins, strings.Split(v, ",")...)
	}

	if v := strings.TrimSpace(getenv("MAX_QUEUE_DISPLAY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: MAX_QUEUE_DISPLAY must be an integer, got %q", v)
		}
		cfg.MaxQueueDisplay = n
	}

	for key, dst := range map[string]*time.Duration{
		"RADIO_API_TIMEOUT": &cfg.RadioTimeout,
		"POLL_INTERVAL":     &cfg.PollInterval,
	} {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s must be a duration, got %q", key, v)
		}
		*dst = d
	}

	if v := strings.TrimSpace(getenv("AUTO_ANNOUNCE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: AUTO_ANNOUNCE must be a boolean, got %q", v)
		}
		cfg.Features.AutoAnnounce = b
	}

	return nil
}

func cleanAdmins(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, id := range in {
		id = strings.TrimSpace(id)
		if id == "" || placeholderAdmins[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Validate checks that the configuration can run a bot.
func (c *Config) Validate() error {
	if c.Prefix == "" {
		return fmt.Errorf("command prefix cannot be empty")
	}

	u, err := url.Parse(c.RadioAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("radio API URL must be absolute, got %q", c.RadioAPIURL)
	}

	if c.RadioTimeout <= 0 {
		return fmt.Errorf("radio timeout must be positive, got %v", c.RadioTimeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	if c.MaxQueueDisplay <= 0 {
		return fmt.Errorf("max queue display must be positive, got %d", c.MaxQueueDisplay)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s. Valid levels are: DEBUG, INFO, WARN, ERROR, FATAL", c.LogLevel)
	}

	if c.HighriseToken != "" && c.HighriseRoom == "" {
		return fmt.Errorf("HIGHRISE_ROOM_ID is required when HIGHRISE_BOT_TOKEN is set")
	}
	if c.HighriseToken == "" && c.ConsoleAddr == "" {
		return fmt.Errorf("no transport configured: set HIGHRISE_BOT_TOKEN or CONSOLE_ADDR")
	}

	return nil
}

// HighriseEnabled reports whether the bot should join a Highrise room.
func (c *Config) HighriseEnabled() bool {
	return c.HighriseToken != "" && c.HighriseRoom != ""
}
