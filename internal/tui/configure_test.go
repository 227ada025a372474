package tui

import (
	"strings"
	"testing"

	"github.com/mintapp/mint/internal/config"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"short key fully masked", "abc", "***"},
		{"eight chars fully masked", "12345678", "***"},
		{"long key shows edges", "sk-proj-abcdefghijklmnop", "sk-proj...mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskAPIKey(tt.key); got != tt.expected {
				t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestProviderDisplayName(t *testing.T) {
	if got := providerDisplayName("deepgram"); got != "Deepgram" {
		t.Errorf("providerDisplayName(deepgram) = %q", got)
	}
	if got := providerDisplayName("mystery"); got != "mystery" {
		t.Errorf("unknown providers should pass through, got %q", got)
	}
}

func TestFormatProvidersLabel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers = map[string]config.ProviderConfig{
		"deepgram": {APIKey: "key-one"},
		"openai":   {APIKey: ""},
	}

	label := formatProvidersLabel(cfg)
	if label != "API Keys (1/3 configured)" {
		t.Errorf("unexpected label: %q", label)
	}
}

func TestFormatNotificationsLabel(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.Notifications.Enabled = false
	if got := formatNotificationsLabel(cfg); got != "Notifications (off)" {
		t.Errorf("unexpected label: %q", got)
	}

	cfg.Notifications.Enabled = true
	cfg.Notifications.Type = "desktop"
	if got := formatNotificationsLabel(cfg); got != "Notifications (desktop)" {
		t.Errorf("unexpected label: %q", got)
	}
}

func TestLogoMentionsApp(t *testing.T) {
	if !strings.Contains(Logo(), "meeting capture") {
		t.Error("logo should carry the app tagline")
	}
}
