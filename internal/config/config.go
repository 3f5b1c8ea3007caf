package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Player   PlayerConfig   `mapstructure:"player"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the catalog backend configuration
type ServerConfig struct {
	URL string `mapstructure:"url"` // Backend API base URL
}

// PlayerConfig holds external media player configuration
type PlayerConfig struct {
	Command        string   `mapstructure:"command"`          // Player binary, default mpv
	Args           []string `mapstructure:"args"`             // Extra player arguments
	AttachTimeout  string   `mapstructure:"attach_timeout"`   // Max wait for the control socket, e.g. "5s"
	AttachInterval string   `mapstructure:"attach_interval"`  // Poll interval while waiting, e.g. "100ms"
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme string `mapstructure:"theme"`

	// ExclusivePlayer closes open overlays when the player opens. The
	// original behavior allowed both to be visible; keep it switchable.
	ExclusivePlayer bool `mapstructure:"exclusive_player"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "",
		},
		Player: PlayerConfig{
			Command:        "mpv",
			Args:           []string{},
			AttachTimeout:  "5s",
			AttachInterval: "100ms",
		},
		UI: UIConfig{
			Theme:           "default",
			ExclusivePlayer: true,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "flicker", "flicker.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "flicker", "flicker.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "flicker")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "flicker")
	}
}

// DefaultDataPath returns the durable data directory (session file, catalog
// snapshot) for the current OS
func DefaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "flicker")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "flicker")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("FLICKER")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("server.url", cfg.Server.URL)

	viper.Set("player.command", cfg.Player.Command)
	viper.Set("player.args", cfg.Player.Args)
	viper.Set("player.attach_timeout", cfg.Player.AttachTimeout)
	viper.Set("player.attach_interval", cfg.Player.AttachInterval)

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.exclusive_player", cfg.UI.ExclusivePlayer)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the backend URL is set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}
