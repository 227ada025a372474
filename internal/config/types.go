package config

import "time"

type Config struct {
	Storage       StorageConfig             `toml:"storage"`
	Recording     RecordingConfig           `toml:"recording"`
	Transcription TranscriptionConfig       `toml:"transcription"`
	Notes         NotesConfig               `toml:"notes"`
	Notifications NotificationsConfig       `toml:"notifications"`
	Providers     map[string]ProviderConfig `toml:"providers"`
}

// StorageConfig locates the meeting archive on disk.
type StorageConfig struct {
	Path string `toml:"path"` // empty = ~/Documents/MINT
}

type RecordingConfig struct {
	SampleRate        int           `toml:"sample_rate"`         // target rate fed to the transcription provider
	Channels          int           `toml:"channels"`
	Format            string        `toml:"format"`
	BufferSize        int           `toml:"buffer_size"`
	Device            string        `toml:"device"`              // microphone target (empty = default)
	DeviceSampleRate  int           `toml:"device_sample_rate"`  // native capture rate (0 = capture at target rate)
	SystemAudio       bool          `toml:"system_audio"`        // also capture the system loopback source
	SystemDevice      string        `toml:"system_device"`       // monitor/loopback target (empty = default monitor)
	ChannelBufferSize int           `toml:"channel_buffer_size"`
	Timeout           time.Duration `toml:"timeout"`
}

type TranscriptionConfig struct {
	Provider    string `toml:"provider"` // "deepgram" only currently
	Model       string `toml:"model"`
	Language    string `toml:"language"`
	MicLabel    string `toml:"mic_label"`    // speaker label for the microphone session
	SystemLabel string `toml:"system_label"` // speaker label for the system-audio session
}

// NotesConfig selects the language-model backend used for notes generation.
type NotesConfig struct {
	Provider string `toml:"provider"` // "openai", "gemini", "ollama"
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"` // for ollama / OpenAI-compatible local backends
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}

// ProviderConfig holds the API key for one external provider.
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}
