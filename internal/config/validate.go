package config

import "fmt"

func (c *Config) Validate() error {
	if c.Recording.SampleRate <= 0 {
		return fmt.Errorf("invalid recording.sample_rate: %d", c.Recording.SampleRate)
	}
	if c.Recording.Channels <= 0 {
		return fmt.Errorf("invalid recording.channels: %d", c.Recording.Channels)
	}
	if c.Recording.BufferSize <= 0 {
		return fmt.Errorf("invalid recording.buffer_size: %d", c.Recording.BufferSize)
	}
	if c.Recording.ChannelBufferSize <= 0 {
		return fmt.Errorf("invalid recording.channel_buffer_size: %d", c.Recording.ChannelBufferSize)
	}
	if c.Recording.Format == "" {
		return fmt.Errorf("invalid recording.format: empty")
	}
	if c.Recording.DeviceSampleRate < 0 {
		return fmt.Errorf("invalid recording.device_sample_rate: %d", c.Recording.DeviceSampleRate)
	}
	if c.Recording.Timeout <= 0 {
		return fmt.Errorf("invalid recording.timeout: %v", c.Recording.Timeout)
	}

	switch c.Transcription.Provider {
	case "deepgram":
		if c.APIKeyFor("deepgram") == "" {
			return fmt.Errorf("Deepgram API key required: not found in config (providers.deepgram.api_key) or environment variable (DEEPGRAM_API_KEY)")
		}
	default:
		return fmt.Errorf("unsupported transcription.provider: %s (must be deepgram)", c.Transcription.Provider)
	}
	if c.Transcription.Model == "" {
		return fmt.Errorf("invalid transcription.model: empty")
	}
	if c.Transcription.MicLabel == "" {
		return fmt.Errorf("invalid transcription.mic_label: empty")
	}

	switch c.Notes.Provider {
	case "openai":
		if c.APIKeyFor("openai") == "" {
			return fmt.Errorf("OpenAI API key required for notes: not found in config (providers.openai.api_key) or environment variable (OPENAI_API_KEY)")
		}
	case "gemini":
		if c.APIKeyFor("gemini") == "" {
			return fmt.Errorf("Gemini API key required for notes: not found in config (providers.gemini.api_key) or environment variable (GEMINI_API_KEY)")
		}
	case "ollama":
		// local backend, no key required
	default:
		return fmt.Errorf("unsupported notes.provider: %s (must be openai, gemini, or ollama)", c.Notes.Provider)
	}

	validTypes := map[string]bool{"desktop": true, "log": true, "none": true, "": true}
	if !validTypes[c.Notifications.Type] {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}

	return nil
}
