// Package config loads the business-hours file and CLI settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"zendesk/internal/biztime"
)

// ErrNotConfigured means business-hours tracking is not set up.
var ErrNotConfigured = errors.New("business hours not configured")

// Config is the parsed config file. BusinessHours and OnCall are nil when
// their keys are absent.
type Config struct {
	BusinessHours   *biztime.BusinessHours `json:"business_hours,omitempty" yaml:"business_hours,omitempty"`
	OnCall          *biztime.OnCall        `json:"oncall,omitempty" yaml:"oncall,omitempty"`
	SlackWebhookURL string                 `json:"slack_webhook_url,omitempty" yaml:"slack_webhook_url,omitempty"`
	SlackChannel    string                 `json:"slack_channel,omitempty" yaml:"slack_channel,omitempty"`
}

// Calendar builds the business calendar, or returns ErrNotConfigured.
func (c *Config) Calendar() (*biztime.Calendar, error) {
	if c == nil || c.BusinessHours == nil {
		return nil, ErrNotConfigured
	}
	return biztime.NewCalendar(*c.BusinessHours)
}

// ActiveOnCall returns the on-call policy when it is enabled alongside
// business hours, else nil.
func (c *Config) ActiveOnCall() *biztime.OnCall {
	if c == nil || c.BusinessHours == nil || c.OnCall == nil || !c.OnCall.Enabled {
		return nil
	}
	oc := *c.OnCall
	return &oc
}

// LoadFromPath reads a config file (YAML or JSON). A missing file yields
// an error wrapping ErrNotConfigured.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotConfigured)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses a config from bytes. ext is the file extension used as a
// format hint; empty means detect from content. Fields omitted inside a
// present business_hours or oncall block take their defaults.
func Load(data []byte, ext string) (*Config, error) {
	unmarshal, kind := decoderFor(data, ext)

	var present map[string]any
	if err := unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", kind, err)
	}

	bh := biztime.DefaultBusinessHours()
	oc := biztime.DefaultOnCall()
	raw := struct {
		BusinessHours   *biztime.BusinessHours `json:"business_hours" yaml:"business_hours"`
		OnCall          *biztime.OnCall        `json:"oncall" yaml:"oncall"`
		SlackWebhookURL string                 `json:"slack_webhook_url" yaml:"slack_webhook_url"`
		SlackChannel    string                 `json:"slack_channel" yaml:"slack_channel"`
	}{BusinessHours: &bh, OnCall: &oc}
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", kind, err)
	}

	cfg := &Config{SlackWebhookURL: raw.SlackWebhookURL, SlackChannel: raw.SlackChannel}
	if present["business_hours"] != nil {
		cfg.BusinessHours = raw.BusinessHours
	}
	if present["oncall"] != nil {
		cfg.OnCall = raw.OnCall
	}
	return cfg, nil
}

func decoderFor(data []byte, ext string) (func([]byte, any) error, string) {
	ext = strings.ToLower(ext)
	switch ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal, "yaml"
	case ".json":
		return json.Unmarshal, "json"
	}
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		return json.Unmarshal, "json"
	}
	return yaml.Unmarshal, "yaml"
}
