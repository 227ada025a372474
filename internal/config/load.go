package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	mintDir := filepath.Join(configDir, "mint")
	if err := os.MkdirAll(mintDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(mintDir, "config.toml"), nil
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	// First run: write defaults so the user has something to edit.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Printf("config: no config file found at %s, creating with defaults", configPath)
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", configPath, err)
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if config.Providers == nil {
		config.Providers = make(map[string]ProviderConfig)
	}
	config.applyDefaults()

	return &config, nil
}

func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// applyDefaults fills in fields that older config files may not carry.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Recording.SampleRate == 0 {
		c.Recording.SampleRate = def.Recording.SampleRate
	}
	if c.Recording.Channels == 0 {
		c.Recording.Channels = def.Recording.Channels
	}
	if c.Recording.Format == "" {
		c.Recording.Format = def.Recording.Format
	}
	if c.Recording.BufferSize == 0 {
		c.Recording.BufferSize = def.Recording.BufferSize
	}
	if c.Recording.ChannelBufferSize == 0 {
		c.Recording.ChannelBufferSize = def.Recording.ChannelBufferSize
	}
	if c.Recording.Timeout == 0 {
		c.Recording.Timeout = def.Recording.Timeout
	}
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = def.Transcription.Provider
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = def.Transcription.Model
	}
	if c.Transcription.MicLabel == "" {
		c.Transcription.MicLabel = def.Transcription.MicLabel
	}
	if c.Transcription.SystemLabel == "" {
		c.Transcription.SystemLabel = def.Transcription.SystemLabel
	}
	if c.Notes.Provider == "" {
		c.Notes.Provider = def.Notes.Provider
	}
}

// StoragePath resolves the meeting archive directory, defaulting to
// ~/Documents/MINT like the desktop app.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return expandTilde(c.Storage.Path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "MINT")
	}
	return filepath.Join(home, "Documents", "MINT")
}

// APIKeyFor resolves the API key for a provider from config, falling back
// to the conventional environment variable.
func (c *Config) APIKeyFor(provider string) string {
	if p, ok := c.Providers[provider]; ok && p.APIKey != "" {
		return p.APIKey
	}
	switch provider {
	case "deepgram":
		return os.Getenv("DEEPGRAM_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	}
	return ""
}

func expandTilde(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
