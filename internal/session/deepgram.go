package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const defaultDeepgramURL = "wss://api.deepgram.com/v1/listen"

// DeepgramConfig configures one live transcription session.
type DeepgramConfig struct {
	APIKey           string
	Model            string
	Language         string
	SampleRate       int
	Speaker          string
	URL              string        // override for tests; empty = api.deepgram.com
	HandshakeTimeout time.Duration // 0 = 10s
}

// Deepgram implements Session over the Deepgram live websocket API.
type Deepgram struct {
	config DeepgramConfig
	id     string

	eventsCh chan Event
	sendCh   chan []byte
	readyCh  chan struct{}

	mu      sync.Mutex
	conn    *websocket.Conn
	started bool
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Deepgram websocket response types (incoming)
type deepgramResponse struct {
	Type        string           `json:"type"`
	Channel     *deepgramChannel `json:"channel,omitempty"`
	Metadata    *deepgramMeta    `json:"metadata,omitempty"`
	Error       *deepgramError   `json:"error,omitempty"`
	IsFinal     bool             `json:"is_final,omitempty"`
	SpeechFinal bool             `json:"speech_final,omitempty"`
}

type deepgramChannel struct {
	Alternatives []deepgramAlternative `json:"alternatives,omitempty"`
}

type deepgramAlternative struct {
	Transcript string         `json:"transcript"`
	Confidence float64        `json:"confidence"`
	Words      []deepgramWord `json:"words,omitempty"`
}

type deepgramWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type deepgramMeta struct {
	RequestID string `json:"request_id"`
}

type deepgramError struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// closeStream message signals end of audio to the provider.
type deepgramCloseStream struct {
	Type string `json:"type"`
}

func NewDeepgram(config DeepgramConfig) *Deepgram {
	return &Deepgram{
		config:   config,
		id:       uuid.NewString(),
		eventsCh: make(chan Event, 100),
		sendCh:   make(chan []byte, 50),
		readyCh:  make(chan struct{}),
	}
}

func (s *Deepgram) ID() string      { return s.id }
func (s *Deepgram) Speaker() string { return s.config.Speaker }

// Open dials the websocket and waits for the provider's first Metadata
// message before reporting success. A socket that opens but never
// acknowledges is treated as a connection failure.
func (s *Deepgram) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return NewConnectionError(fmt.Errorf("session already open"))
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	wsURL, err := s.buildURL()
	if err != nil {
		s.mu.Unlock()
		return NewConnectionError(fmt.Errorf("build websocket url: %w", err))
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+s.config.APIKey)

	conn, resp, err := websocket.DefaultDialer.DialContext(s.ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			log.Printf("deepgram: dial failed with status %d", resp.StatusCode)
		}
		s.cancel()
		s.mu.Unlock()
		return NewConnectionError(fmt.Errorf("websocket dial: %w", err))
	}

	s.conn = conn
	s.started = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.readLoop()
	s.wg.Add(1)
	go s.writeLoop()

	// readiness handshake: wait for the provider to acknowledge
	timeout := s.config.HandshakeTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	handshakeCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	select {
	case <-s.readyCh:
		log.Printf("deepgram: session %s ready, speaker=%s, model=%s", s.id, s.config.Speaker, s.config.Model)
		return nil
	case <-handshakeCtx.Done():
		_ = s.Close()
		return NewConnectionError(fmt.Errorf("provider readiness handshake: %w", handshakeCtx.Err()))
	}
}

func (s *Deepgram) buildURL() (string, error) {
	base := s.config.URL
	if base == "" {
		base = defaultDeepgramURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("model", s.config.Model)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(s.config.SampleRate))
	q.Set("channels", "1")
	q.Set("interim_results", "true")
	q.Set("smart_format", "true")
	q.Set("punctuate", "true")
	if s.config.Language != "" {
		q.Set("language", s.config.Language)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Feed forwards one audio frame. Frames are dropped, never queued
// indefinitely, when the session is not connected or the send buffer is
// full. The audio producer must never be blocked by the network.
func (s *Deepgram) Feed(frame []byte) {
	s.mu.Lock()
	open := s.started && !s.closed
	s.mu.Unlock()
	if !open {
		return
	}

	select {
	case s.sendCh <- frame:
	default:
		log.Printf("deepgram: session %s dropped frame, send buffer full", s.id)
	}
}

func (s *Deepgram) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case frame := <-s.sendCh:
			s.mu.Lock()
			conn := s.conn
			s.mu.Unlock()
			if conn == nil {
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				log.Printf("deepgram: session %s write error: %v", s.id, err)
				s.emit(Event{Speaker: s.config.Speaker, Err: NewConnectionError(fmt.Errorf("websocket write: %w", err))})
				return
			}
		}
	}
}

func (s *Deepgram) readLoop() {
	defer s.wg.Done()
	defer close(s.eventsCh)

	ready := false
	for {
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-s.ctx.Done():
				// normal shutdown; discard anything still in flight
				return
			default:
			}
			s.emit(Event{Speaker: s.config.Speaker, Err: NewConnectionError(fmt.Errorf("websocket read: %w", err))})
			return
		}

		var resp deepgramResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			log.Printf("deepgram: parse error: %v", err)
			continue
		}

		switch resp.Type {
		case "Metadata":
			if !ready {
				ready = true
				close(s.readyCh)
			}

		case "Results":
			if resp.Channel == nil || len(resp.Channel.Alternatives) == 0 {
				continue
			}
			alt := resp.Channel.Alternatives[0]
			if alt.Transcript == "" {
				continue
			}

			start, end := wordSpan(alt.Words)
			s.emit(Event{
				Speaker:        s.config.Speaker,
				Content:        alt.Transcript,
				TimestampStart: start,
				TimestampEnd:   end,
				IsFinal:        resp.IsFinal || resp.SpeechFinal,
			})

		case "Error":
			if resp.Error != nil {
				errMsg := resp.Error.Message
				if resp.Error.Description != "" {
					errMsg = fmt.Sprintf("%s: %s", errMsg, resp.Error.Description)
				}
				s.emit(Event{Speaker: s.config.Speaker, Err: NewConnectionError(fmt.Errorf("deepgram: %s", errMsg))})
			}

		case "UtteranceEnd", "SpeechStarted":
			// informational only

		default:
			log.Printf("deepgram: unknown message type: %s", resp.Type)
		}
	}
}

// emit delivers an event unless the session is shutting down.
func (s *Deepgram) emit(ev Event) {
	select {
	case <-s.ctx.Done():
	case s.eventsCh <- ev:
	}
}

func wordSpan(words []deepgramWord) (start, end float64) {
	if len(words) == 0 {
		return 0, 0
	}
	return words[0].Start, words[len(words)-1].End
}

func (s *Deepgram) Events() <-chan Event {
	return s.eventsCh
}

// Close terminates the session. Safe to call any number of times,
// including before Open.
func (s *Deepgram) Close() error {
	s.mu.Lock()
	if !s.started || s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	cancel := s.cancel
	s.mu.Unlock()

	// tell the provider the audio is done (best effort)
	if conn != nil {
		msg, _ := json.Marshal(deepgramCloseStream{Type: "CloseStream"})
		_ = conn.WriteMessage(websocket.TextMessage, msg)
	}

	if cancel != nil {
		cancel()
	}

	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}

	s.wg.Wait()

	log.Printf("deepgram: session %s closed", s.id)
	return nil
}
