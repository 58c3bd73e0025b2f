package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBackendURL     = "http://localhost:8123/"
	DefaultReconnectDelay = time.Second
	DefaultJournalEvery   = time.Second

	ReconnectAlways  = "always"
	ReconnectDesired = "desired"
)

type Display struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Video struct {
	NativeWidth  float64 `yaml:"native_width"`
	NativeHeight float64 `yaml:"native_height"`
}

type Selection struct {
	DefaultSide    float64 `yaml:"default_side"`
	ResetBelow     float64 `yaml:"reset_below"`
	MinSide        float64 `yaml:"min_side"`
	StartsDisabled bool    `yaml:"starts_disabled"`
}

// Channel configures the classification stream. JournalEvery is the minimum
// gap between journaled results that repeat the previous label.
type Channel struct {
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	Reconnect      string        `yaml:"reconnect"`
	JournalEvery   time.Duration `yaml:"journal_every"`
}

type Config struct {
	BackendURL  string    `yaml:"backend_url"`
	Display     Display   `yaml:"display"`
	Video       Video     `yaml:"video"`
	Selection   Selection `yaml:"selection"`
	Channel     Channel   `yaml:"channel"`
	JournalPath string    `yaml:"journal_path"`
	LogPath     string    `yaml:"log_path"`
	LogLevel    string    `yaml:"log_level"`
}

func Default() Config {
	return Config{
		BackendURL:  DefaultBackendURL,
		Display:     Display{Width: 711, Height: 400},
		Video:       Video{NativeWidth: 1920, NativeHeight: 1080},
		Selection:   Selection{DefaultSide: 400, ResetBelow: 10, MinSide: 50},
		Channel:     Channel{ReconnectDelay: DefaultReconnectDelay, Reconnect: ReconnectAlways, JournalEvery: DefaultJournalEvery},
		JournalPath: filepath.Join(".roictl", "journal.db"),
		LogPath:     filepath.Join(".roictl", "roictl.log"),
		LogLevel:    "info",
	}
}

// Load reads the YAML file at path over the defaults. A missing file yields
// the defaults; an empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config: %w", err)
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalizes zero values back to defaults and rejects settings the
// console cannot run with.
func (c *Config) Validate() error {
	def := Default()
	if strings.TrimSpace(c.BackendURL) == "" {
		c.BackendURL = def.BackendURL
	}
	if !strings.HasSuffix(c.BackendURL, "/") {
		c.BackendURL += "/"
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend url must be http or https, got %q", c.BackendURL)
	}
	if c.Display.Width <= 0 {
		c.Display.Width = def.Display.Width
	}
	if c.Display.Height <= 0 {
		c.Display.Height = def.Display.Height
	}
	if c.Video.NativeWidth <= 0 {
		c.Video.NativeWidth = def.Video.NativeWidth
	}
	if c.Video.NativeHeight <= 0 {
		c.Video.NativeHeight = def.Video.NativeHeight
	}
	if c.Selection.DefaultSide <= 0 {
		c.Selection.DefaultSide = def.Selection.DefaultSide
	}
	if c.Selection.ResetBelow <= 0 {
		c.Selection.ResetBelow = def.Selection.ResetBelow
	}
	if c.Selection.MinSide <= c.Selection.ResetBelow {
		c.Selection.MinSide = def.Selection.MinSide
	}
	if c.Channel.ReconnectDelay <= 0 {
		c.Channel.ReconnectDelay = def.Channel.ReconnectDelay
	}
	if c.Channel.JournalEvery <= 0 {
		c.Channel.JournalEvery = def.Channel.JournalEvery
	}
	switch c.Channel.Reconnect {
	case "":
		c.Channel.Reconnect = ReconnectAlways
	case ReconnectAlways, ReconnectDesired:
	default:
		return fmt.Errorf("channel reconnect must be %q or %q, got %q", ReconnectAlways, ReconnectDesired, c.Channel.Reconnect)
	}
	if c.JournalPath == "" {
		c.JournalPath = def.JournalPath
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	return nil
}

// ChannelURL derives the websocket URL of the classification channel from the
// backend base URL (http -> ws, https -> wss).
func (c Config) ChannelURL() string {
	base := c.BackendURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "predict"
}
