package config

import "time"

// DefaultConfig returns the initial configuration written on first run.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "",
		},
		Recording: RecordingConfig{
			SampleRate:        16000,
			Channels:          1,
			Format:            "s16",
			BufferSize:        8192,
			Device:            "",
			DeviceSampleRate:  0,
			SystemAudio:       true,
			SystemDevice:      "",
			ChannelBufferSize: 30,
			Timeout:           4 * time.Hour,
		},
		Transcription: TranscriptionConfig{
			Provider:    "deepgram",
			Model:       "nova-2",
			Language:    "en",
			MicLabel:    "Me",
			SystemLabel: "Them",
		},
		Notes: NotesConfig{
			Provider: "openai",
			Model:    "",
			BaseURL:  "",
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
		Providers: make(map[string]ProviderConfig),
	}
}
