package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate the config directory and strip ambient API keys
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DEEPGRAM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
}

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Providers["deepgram"] = ProviderConfig{APIKey: "dg-key"}
	cfg.Providers["openai"] = ProviderConfig{APIKey: "oa-key"}
	return cfg
}

func TestValidate(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults with keys",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero sample rate",
			mutate:  func(c *Config) { c.Recording.SampleRate = 0 },
			wantErr: "sample_rate",
		},
		{
			name:    "negative channels",
			mutate:  func(c *Config) { c.Recording.Channels = -1 },
			wantErr: "channels",
		},
		{
			name:    "empty format",
			mutate:  func(c *Config) { c.Recording.Format = "" },
			wantErr: "format",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Recording.Timeout = 0 },
			wantErr: "timeout",
		},
		{
			name:    "unsupported transcription provider",
			mutate:  func(c *Config) { c.Transcription.Provider = "whisper" },
			wantErr: "transcription.provider",
		},
		{
			name:    "deepgram without key",
			mutate:  func(c *Config) { delete(c.Providers, "deepgram") },
			wantErr: "Deepgram API key",
		},
		{
			name:    "empty mic label",
			mutate:  func(c *Config) { c.Transcription.MicLabel = "" },
			wantErr: "mic_label",
		},
		{
			name:    "unsupported notes provider",
			mutate:  func(c *Config) { c.Notes.Provider = "anthropic" },
			wantErr: "notes.provider",
		},
		{
			name:    "openai notes without key",
			mutate:  func(c *Config) { delete(c.Providers, "openai") },
			wantErr: "OpenAI API key",
		},
		{
			name: "gemini notes without key",
			mutate: func(c *Config) {
				c.Notes.Provider = "gemini"
			},
			wantErr: "Gemini API key",
		},
		{
			name: "ollama needs no key",
			mutate: func(c *Config) {
				c.Notes.Provider = "ollama"
				delete(c.Providers, "openai")
			},
		},
		{
			name:    "invalid notification type",
			mutate:  func(c *Config) { c.Notifications.Type = "email" },
			wantErr: "notifications.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadCreatesDefaultsOnFirstRun(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Transcription.Provider != "deepgram" {
		t.Errorf("default transcription provider = %q", cfg.Transcription.Provider)
	}
	if cfg.Recording.SampleRate != 16000 {
		t.Errorf("default sample rate = %d", cfg.Recording.SampleRate)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("first Load should write the default config file: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolateEnv(t)

	cfg := DefaultConfig()
	cfg.Storage.Path = "/tmp/mint-meetings"
	cfg.Transcription.Model = "nova-3"
	cfg.Transcription.SystemLabel = "Guest"
	cfg.Recording.SystemAudio = false
	cfg.Notes.Provider = "ollama"
	cfg.Notes.BaseURL = "http://localhost:11434/v1"
	cfg.Providers["deepgram"] = ProviderConfig{APIKey: "dg-secret"}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Storage.Path != cfg.Storage.Path {
		t.Errorf("storage path = %q, want %q", loaded.Storage.Path, cfg.Storage.Path)
	}
	if loaded.Transcription.Model != "nova-3" || loaded.Transcription.SystemLabel != "Guest" {
		t.Errorf("transcription did not round-trip: %+v", loaded.Transcription)
	}
	if loaded.Recording.SystemAudio {
		t.Error("system_audio = true, want false")
	}
	if loaded.Notes.Provider != "ollama" || loaded.Notes.BaseURL != cfg.Notes.BaseURL {
		t.Errorf("notes did not round-trip: %+v", loaded.Notes)
	}
	if loaded.Providers["deepgram"].APIKey != "dg-secret" {
		t.Error("provider key did not round-trip")
	}
}

func TestLoadAppliesDefaultsToSparseFile(t *testing.T) {
	isolateEnv(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	sparse := "[storage]\npath = \"~/meetings\"\n"
	if err := os.WriteFile(path, []byte(sparse), 0644); err != nil {
		t.Fatalf("write sparse config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Path != "~/meetings" {
		t.Errorf("explicit value lost: %q", cfg.Storage.Path)
	}
	if cfg.Recording.SampleRate != 16000 || cfg.Recording.Format != "s16" {
		t.Errorf("recording defaults not applied: %+v", cfg.Recording)
	}
	if cfg.Transcription.MicLabel != "Me" || cfg.Transcription.SystemLabel != "Them" {
		t.Errorf("label defaults not applied: %+v", cfg.Transcription)
	}
	if cfg.Recording.Timeout != 4*time.Hour {
		t.Errorf("timeout default not applied: %v", cfg.Recording.Timeout)
	}
	if cfg.Providers == nil {
		t.Error("providers map should never be nil after Load")
	}
}

func TestAPIKeyFor(t *testing.T) {
	isolateEnv(t)

	cfg := DefaultConfig()
	cfg.Providers["deepgram"] = ProviderConfig{APIKey: "from-config"}

	if got := cfg.APIKeyFor("deepgram"); got != "from-config" {
		t.Errorf("APIKeyFor(deepgram) = %q, config value should win", got)
	}

	t.Setenv("OPENAI_API_KEY", "from-env")
	if got := cfg.APIKeyFor("openai"); got != "from-env" {
		t.Errorf("APIKeyFor(openai) = %q, want the env fallback", got)
	}

	if got := cfg.APIKeyFor("gemini"); got != "" {
		t.Errorf("APIKeyFor(gemini) = %q, want empty", got)
	}
	if got := cfg.APIKeyFor("unknown"); got != "" {
		t.Errorf("APIKeyFor(unknown) = %q, want empty", got)
	}
}

func TestStoragePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}

	cfg := DefaultConfig()
	if got := cfg.StoragePath(); got != filepath.Join(home, "Documents", "MINT") {
		t.Errorf("default StoragePath() = %q", got)
	}

	cfg.Storage.Path = "~/meetings/archive"
	if got := cfg.StoragePath(); got != filepath.Join(home, "meetings", "archive") {
		t.Errorf("tilde StoragePath() = %q", got)
	}

	cfg.Storage.Path = "/var/lib/mint"
	if got := cfg.StoragePath(); got != "/var/lib/mint" {
		t.Errorf("absolute StoragePath() = %q", got)
	}
}
