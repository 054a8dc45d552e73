package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

const (
	AppName         = "KRadio"
	AppTagline      = "Terminal player for Korean radio"
	AppDescription  = "A terminal-based player for Korean live radio stations"
	AppProjectURL   = "https://github.com/qwer999/radio"
	AppProjectShort = "github.com/qwer999/radio"

	ConfigDir      = ".config/kradio"
	ConfigFileName = "config.yml"

	DefaultVolume         = 70
	MinVolume             = 0
	MaxVolume             = 100
	DefaultRelayURL       = "https://broken-field-5aad.qwer999.workers.dev/"
	DefaultRefreshMinutes = 15
)

// ClampVolume ensures volume is within the valid range [0, 100].
func ClampVolume(volume int) int {
	if volume < MinVolume {
		return MinVolume
	}
	if volume > MaxVolume {
		return MaxVolume
	}
	return volume
}

// AppVersion can be overridden at build time using ldflags:
// go build -ldflags "-X github.com/qwer999/radio/internal/config.AppVersion=1.0.0"
var AppVersion = "dev"

type Theme struct {
	Background        string `yaml:"background"`
	Foreground        string `yaml:"foreground"`
	Borders           string `yaml:"borders"`
	Highlight         string `yaml:"highlight"`
	MutedVolume       string `yaml:"muted_volume"`
	HeaderBackground  string `yaml:"header_background"`
	ProgramForeground string `yaml:"program_foreground"`
	HelpBackground    string `yaml:"help_background"`
	HelpForeground    string `yaml:"help_foreground"`
	HelpHotkey        string `yaml:"help_hotkey"`
	ModalBackground   string `yaml:"modal_background"`
}

type Config struct {
	Volume         int    `yaml:"volume"`
	LastStation    string `yaml:"last_station"`
	Autoplay       bool   `yaml:"autoplay"`
	RelayURL       string `yaml:"relay_url"`
	RefreshMinutes int    `yaml:"refresh_minutes"`
	DataDir        string `yaml:"data_dir"`
	Theme          Theme  `yaml:"theme"`
}

// RefreshInterval converts the configured refresh period to a
// duration, falling back to the default for non-positive values.
func (c *Config) RefreshInterval() time.Duration {
	minutes := c.RefreshMinutes
	if minutes <= 0 {
		minutes = DefaultRefreshMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(home, ConfigDir, ConfigFileName)
	return configPath, nil
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the config at path, filling missing fields from the
// defaults. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Volume = ClampVolume(cfg.Volume)
	if cfg.RelayURL == "" {
		cfg.RelayURL = DefaultRelayURL
	}

	return cfg, nil
}

// Save writes the configuration to disk atomically using temp file + rename.
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

func (c *Config) SaveTo(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename config file: %w", err)
	}

	tmpPath = "" // Prevent defer from removing the final file
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Volume:         DefaultVolume,
		LastStation:    "",
		Autoplay:       false,
		RelayURL:       DefaultRelayURL,
		RefreshMinutes: DefaultRefreshMinutes,
		Theme: Theme{
			Background:        "#1a1b25",
			Foreground:        "#a3aacb",
			Borders:           "#40445b",
			Highlight:         "#ff9d65",
			MutedVolume:       "#fe0702",
			HeaderBackground:  "#473533",
			ProgramForeground: "#c8d0e8",
			HelpBackground:    "#322f45",
			HelpForeground:    "#9aa3c6",
			HelpHotkey:        "#ff9d65",
			ModalBackground:   "#282a36",
		},
	}
}

func GetColor(colorStr string) tcell.Color {
	if colorStr == "" || colorStr == "default" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(colorStr)
}
