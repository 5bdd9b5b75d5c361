// Package config loads and saves settings for the regdeps analysis tools
// (the CLI, the TUI trace browser, and the streaming HTTP/WebSocket
// service) from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the analyzer configuration.
type Config struct {
	// Stream settings control how trace files are read.
	Stream struct {
		InputFile   string `toml:"input_file"`
		MaxEntries  int    `toml:"max_entries"`
		StrictAlign bool   `toml:"strict_alignment"`
	} `toml:"stream"`

	// Browser settings control the TUI trace browser.
	Browser struct {
		HistorySize      int  `toml:"history_size"`
		ShowDisassembly  bool `toml:"show_disassembly"`
		ShowDependencies bool `toml:"show_dependencies"`
	} `toml:"browser"`

	// Display settings control textual rendering.
	Display struct {
		ColorOutput    bool   `toml:"color_output"`
		BytesPerLine   int    `toml:"bytes_per_line"`
		DisasmContext  int    `toml:"disasm_context"`
		RegisterFormat string `toml:"register_format"` // "vN" or "dec"
	} `toml:"display"`

	// Stats settings control trace statistics export.
	Stats struct {
		OutputFile     string `toml:"output_file"`
		Format         string `toml:"format"` // json, csv, html
		HotRegisterMin uint64 `toml:"hot_register_min"`
	} `toml:"stats"`

	// Serve settings control the streaming HTTP/WebSocket service.
	Serve struct {
		Port            int  `toml:"port"`
		BroadcastBuffer int  `toml:"broadcast_buffer"`
		EnableWebSocket bool `toml:"enable_websocket"`
	} `toml:"serve"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Stream.InputFile = "trace.regdeps"
	cfg.Stream.MaxEntries = 1000000
	cfg.Stream.StrictAlign = true

	cfg.Browser.HistorySize = 1000
	cfg.Browser.ShowDisassembly = true
	cfg.Browser.ShowDependencies = true

	cfg.Display.ColorOutput = true
	cfg.Display.BytesPerLine = 16
	cfg.Display.DisasmContext = 5
	cfg.Display.RegisterFormat = "vN"

	cfg.Stats.OutputFile = "stats.json"
	cfg.Stats.Format = "json"
	cfg.Stats.HotRegisterMin = 100

	cfg.Serve.Port = 8080
	cfg.Serve.BroadcastBuffer = 256
	cfg.Serve.EnableWebSocket = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\regdeps\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "regdeps")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/regdeps/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "regdeps")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific directory for service logs.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "regdeps", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "regdeps", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. If the file does
// not exist, it returns the default configuration rather than an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
