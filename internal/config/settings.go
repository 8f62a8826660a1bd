package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. ZENDESK_CACHE_DIR.
const EnvPrefix = "ZENDESK"

// Settings are the process-level knobs shared by every command.
type Settings struct {
	CacheDir        string `mapstructure:"cache_dir"`
	ConfigPath      string `mapstructure:"config"`
	SlackWebhookURL string `mapstructure:"slack_webhook_url"`
	SlackChannel    string `mapstructure:"slack_channel"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
}

// NewViper returns a viper instance with defaults and environment binding.
// Callers bind their flags on top.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache_dir", DefaultCacheDir())
	v.SetDefault("config", DefaultConfigPath())
	v.SetDefault("slack_webhook_url", "")
	v.SetDefault("slack_channel", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// LoadSettings resolves settings from v.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &s, nil
}

// Slack returns the webhook and channel, preferring settings over the file.
func (s *Settings) Slack(cfg *Config) (webhookURL, channel string) {
	webhookURL, channel = s.SlackWebhookURL, s.SlackChannel
	if cfg != nil {
		if webhookURL == "" {
			webhookURL = cfg.SlackWebhookURL
		}
		if channel == "" {
			channel = cfg.SlackChannel
		}
	}
	return webhookURL, channel
}

// DefaultCacheDir is where fetched API responses are stored.
func DefaultCacheDir() string {
	return filepath.Join(os.TempDir(), "zendesk-skill")
}

// DefaultConfigPath is the per-user config file.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".zendesk-skill", "config.json")
	}
	return filepath.Join(home, ".claude", ".zendesk-skill", "config.json")
}
