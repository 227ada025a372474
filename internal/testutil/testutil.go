// Package testutil provides shared mocks and fixtures for package tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mintapp/mint/internal/audio"
	"github.com/mintapp/mint/internal/config"
	"github.com/mintapp/mint/internal/notes"
	"github.com/mintapp/mint/internal/session"
)

// TestConfig returns a valid configuration for testing
func TestConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{
			Path: "",
		},
		Recording: config.RecordingConfig{
			SampleRate:        16000,
			Channels:          1,
			Format:            "s16",
			BufferSize:        8192,
			Device:            "",
			SystemAudio:       false,
			ChannelBufferSize: 30,
			Timeout:           5 * time.Minute,
		},
		Transcription: config.TranscriptionConfig{
			Provider:    "deepgram",
			Model:       "nova-2",
			Language:    "en",
			MicLabel:    "Me",
			SystemLabel: "Them",
		},
		Notes: config.NotesConfig{
			Provider: "openai",
			Model:    "gpt-4o",
		},
		Notifications: config.NotificationsConfig{
			Enabled: false,
			Type:    "log",
		},
		Providers: map[string]config.ProviderConfig{
			"deepgram": {APIKey: "test-deepgram-key"},
			"openai":   {APIKey: "test-openai-key"},
		},
	}
}

// CreateTempConfigFile creates a temporary config file for testing
func CreateTempConfigFile(t *testing.T, configContent string) string {
	t.Helper()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// TestContext returns a context with timeout for testing
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// WaitForCondition waits for a condition to be true or times out
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("Condition not met within %v", timeout)
		default:
			if condition() {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// MockAudioFrame creates a test audio frame
func MockAudioFrame(data []byte) audio.Frame {
	if data == nil {
		data = make([]byte, 1024)
		for i := range data {
			data[i] = byte(i % 256)
		}
	}

	return audio.Frame{
		Data:      data,
		Timestamp: time.Now(),
	}
}

// MockSession implements session.Session for testing. ScriptedEvents
// are delivered after Open; the event channel stays open until Close so
// consumers block the way they would on a live session.
type MockSession struct {
	IDVal      string
	SpeakerVal string
	OpenErr    error

	// ScriptedEvents are queued onto the event channel when Open succeeds.
	ScriptedEvents []session.Event

	mu         sync.Mutex
	opened     bool
	closed     bool
	CloseCount int
	FedFrames  [][]byte
	eventsCh   chan session.Event
}

func NewMockSession(id, speaker string) *MockSession {
	return &MockSession{
		IDVal:      id,
		SpeakerVal: speaker,
		eventsCh:   make(chan session.Event, 64),
	}
}

func (m *MockSession) ID() string      { return m.IDVal }
func (m *MockSession) Speaker() string { return m.SpeakerVal }

func (m *MockSession) Open(ctx context.Context) error {
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = true
	for _, ev := range m.ScriptedEvents {
		m.eventsCh <- ev
	}
	return nil
}

func (m *MockSession) Feed(frame []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened || m.closed {
		return
	}
	m.FedFrames = append(m.FedFrames, frame)
}

// Emit delivers an extra event, simulating the provider mid-session.
func (m *MockSession) Emit(ev session.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.eventsCh <- ev
}

func (m *MockSession) Events() <-chan session.Event {
	return m.eventsCh
}

func (m *MockSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCount++
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.eventsCh)
	return nil
}

func (m *MockSession) Opened() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

// MockProducer implements audio.Producer for testing
type MockProducer struct {
	Frames     []audio.Frame
	StartError error

	mu        sync.Mutex
	recording atomic.Bool
	stopCh    chan struct{}
}

func NewMockProducer() *MockProducer {
	return &MockProducer{
		Frames: []audio.Frame{MockAudioFrame(nil)},
	}
}

func (m *MockProducer) Start(ctx context.Context) (<-chan audio.Frame, <-chan error, error) {
	if m.StartError != nil {
		return nil, nil, m.StartError
	}

	m.mu.Lock()
	m.stopCh = make(chan struct{})
	m.mu.Unlock()

	m.recording.Store(true)

	frameCh := make(chan audio.Frame, len(m.Frames)+1)
	errCh := make(chan error, 1)

	go func() {
		defer close(frameCh)
		defer close(errCh)
		defer m.recording.Store(false)

		for _, frame := range m.Frames {
			select {
			case <-ctx.Done():
				return
			case <-m.stopCh:
				return
			case frameCh <- frame:
			}
		}

		// keep channels open until stopped
		select {
		case <-ctx.Done():
		case <-m.stopCh:
		}
	}()

	return frameCh, errCh, nil
}

func (m *MockProducer) Stop() error {
	if !m.recording.Load() {
		return nil
	}

	m.mu.Lock()
	if m.stopCh != nil {
		close(m.stopCh)
		m.stopCh = nil
	}
	m.mu.Unlock()
	return nil
}

func (m *MockProducer) IsRecording() bool {
	return m.recording.Load()
}

// MockNotesAdapter implements notes.Adapter for testing
type MockNotesAdapter struct {
	GenerateFunc func(ctx context.Context, transcript string) (*notes.Notes, error)

	mu          sync.Mutex
	Transcripts []string
}

func (m *MockNotesAdapter) Generate(ctx context.Context, transcript string) (*notes.Notes, error) {
	m.mu.Lock()
	m.Transcripts = append(m.Transcripts, transcript)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, transcript)
	}
	return &notes.Notes{Summary: "mock summary"}, nil
}

func (m *MockNotesAdapter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Transcripts)
}
