package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the emulator configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MemoryCapacity uint32 `toml:"memory_capacity"`
		MaxSteps       uint64 `toml:"max_steps"`
		DefaultEntry   string `toml:"default_entry"`
		EnableTrace    bool   `toml:"enable_trace"`
	} `toml:"execution"`

	// Debugger settings
	Debugger struct {
		HistorySize int `toml:"history_size"`
	} `toml:"debugger"`

	// API settings
	API struct {
		Addr string `toml:"addr"`
	} `toml:"api"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MemoryCapacity = 1024
	cfg.Execution.MaxSteps = 1000000
	cfg.Execution.DefaultEntry = "0x0"
	cfg.Execution.EnableTrace = false

	cfg.Debugger.HistorySize = 1000

	cfg.API.Addr = "127.0.0.1:7878"

	return cfg
}

// GetConfigPath returns the platform-specific config file path
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\rv32i-emu\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rv32i-emu")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/rv32i-emu/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rv32i-emu")

	default:
		// Unknown platform: use current directory
		return "config.toml"
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0750); err != nil {
		// If we can't create the directory, fall back to current directory
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\rv32i-emu\logs
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "rv32i-emu", "logs")

	case "darwin", "linux":
		// macOS/Linux: ~/.local/share/rv32i-emu/logs
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "rv32i-emu", "logs")

	default:
		return "logs"
	}

	// Ensure directory exists
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read and parse config file
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	// Encode to TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
