// Package meeting drives the recording lifecycle: it owns the active
// recording, wires audio producers to transcription sessions, and walks
// each meeting through recording, processing and a terminal status.
package meeting

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mintapp/mint/internal/audio"
	"github.com/mintapp/mint/internal/config"
	"github.com/mintapp/mint/internal/merge"
	"github.com/mintapp/mint/internal/notes"
	"github.com/mintapp/mint/internal/notify"
	"github.com/mintapp/mint/internal/session"
	"github.com/mintapp/mint/internal/store"
)

// Factories let tests substitute mock sessions, producers and notes
// backends without touching the lifecycle logic.
type (
	SessionFactory  func(session.DeepgramConfig) session.Session
	ProducerFactory func(audio.Config) audio.Producer
	AdapterFactory  func(notes.Config) (notes.Adapter, error)
)

// Orchestrator serializes start/stop/regenerate for one daemon
// instance. The active recording it holds is the single source of
// truth for "is a recording in progress".
type Orchestrator struct {
	config   func() *config.Config
	store    *store.Store
	notifier notify.Notifier

	NewSession  SessionFactory
	NewProducer ProducerFactory
	NewAdapter  AdapterFactory

	mu     sync.Mutex
	active *recording
}

// recording is the state of one in-progress meeting, created on start
// and torn down exactly once on stop.
type recording struct {
	meetingID string
	title     string
	cancel    context.CancelFunc
	producers []audio.Producer
	sessions  []session.Session
	merger    *merge.Merger
	wg        sync.WaitGroup
}

func New(cfg func() *config.Config, st *store.Store, notifier notify.Notifier) *Orchestrator {
	return &Orchestrator{
		config:   cfg,
		store:    st,
		notifier: notifier,
		NewSession: func(c session.DeepgramConfig) session.Session {
			return session.NewDeepgram(c)
		},
		NewProducer: func(c audio.Config) audio.Producer {
			return audio.NewRecorder(c)
		},
		NewAdapter: notes.NewAdapter,
	}
}

// Active reports the in-progress meeting id, if any.
func (o *Orchestrator) Active() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return "", false
	}
	return o.active.meetingID, true
}

// Subscribe attaches a live-feed listener to the active recording's
// merger. Fails with a StateError when nothing is recording.
func (o *Orchestrator) Subscribe() (<-chan merge.FeedEvent, func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return nil, nil, NewStateError(fmt.Errorf("no active recording"))
	}
	ch, cancel := o.active.merger.Subscribe()
	return ch, cancel, nil
}

// Start creates a meeting and brings up the capture pipeline. The
// microphone path is mandatory: any failure on it aborts the start and
// leaves no active recording. The system-audio path is best effort and
// downgrades to mic-only on failure.
func (o *Orchestrator) Start(ctx context.Context, title string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active != nil {
		return "", NewStateError(fmt.Errorf("recording already active: %s", o.active.meetingID))
	}

	cfg := o.config()
	if strings.TrimSpace(title) == "" {
		title = "Untitled Meeting"
	}

	id, err := o.store.CreateMeeting(title)
	if err != nil {
		return "", err
	}

	merger := merge.New(func(ev session.Event) {
		// append failures stay off the live feed
		appendErr := o.store.AppendEntry(id, store.Entry{
			Speaker:        ev.Speaker,
			Content:        ev.Content,
			TimestampStart: ev.TimestampStart,
			TimestampEnd:   ev.TimestampEnd,
		})
		if appendErr != nil {
			log.Printf("meeting: transcript append failed for %s: %v", id, appendErr)
		}
	})

	// capture outlives the Start call; the recording has its own
	// lifetime bounded only by Stop and the configured timeout
	runCtx := context.Background()
	var cancel context.CancelFunc
	if cfg.Recording.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, cfg.Recording.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(runCtx)
	}

	rec := &recording{
		meetingID: id,
		title:     title,
		cancel:    cancel,
		merger:    merger,
	}

	micSession := o.NewSession(o.sessionConfig(cfg, cfg.Transcription.MicLabel))
	if err := micSession.Open(ctx); err != nil {
		o.abortStart(rec)
		return "", err
	}
	rec.sessions = append(rec.sessions, micSession)

	micProducer := o.NewProducer(o.producerConfig(cfg, cfg.Recording.Device))
	frameCh, errCh, err := micProducer.Start(runCtx)
	if err != nil {
		o.abortStart(rec)
		return "", err
	}
	rec.producers = append(rec.producers, micProducer)
	o.pump(rec, micSession, frameCh, errCh)

	if cfg.Recording.SystemAudio {
		if err := o.startSystemAudio(ctx, runCtx, cfg, rec); err != nil {
			log.Printf("meeting: system audio unavailable, continuing mic-only: %v", err)
		}
	}

	o.active = rec
	if cfg.Notifications.Enabled {
		o.notifier.RecordingStarted(title)
	}
	log.Printf("meeting: recording started: %s (%d sessions)", id, len(rec.sessions))
	return id, nil
}

func (o *Orchestrator) startSystemAudio(ctx, runCtx context.Context, cfg *config.Config, rec *recording) error {
	target := cfg.Recording.SystemDevice
	if target == "" {
		monitor, err := audio.DefaultMonitorSource(ctx)
		if err != nil {
			return err
		}
		target = monitor
	}

	sysSession := o.NewSession(o.sessionConfig(cfg, cfg.Transcription.SystemLabel))
	if err := sysSession.Open(ctx); err != nil {
		return err
	}

	sysProducer := o.NewProducer(o.producerConfig(cfg, target))
	frameCh, errCh, err := sysProducer.Start(runCtx)
	if err != nil {
		_ = sysSession.Close()
		return err
	}

	rec.sessions = append(rec.sessions, sysSession)
	rec.producers = append(rec.producers, sysProducer)
	o.pump(rec, sysSession, frameCh, errCh)
	return nil
}

// pump wires one producer/session pair: frames forward to the session,
// session events forward to the merger, producer errors get logged.
func (o *Orchestrator) pump(rec *recording, sess session.Session, frameCh <-chan audio.Frame, errCh <-chan error) {
	rec.wg.Add(3)

	go func() {
		defer rec.wg.Done()
		for frame := range frameCh {
			sess.Feed(frame.Data)
		}
	}()

	go func() {
		defer rec.wg.Done()
		for ev := range sess.Events() {
			if ev.Err != nil {
				log.Printf("meeting: session %s error: %v", sess.ID(), ev.Err)
				continue
			}
			rec.merger.Handle(sess.ID(), ev)
		}
	}()

	go func() {
		defer rec.wg.Done()
		for err := range errCh {
			log.Printf("meeting: producer error for session %s: %v", sess.ID(), err)
		}
	}()
}

// abortStart unwinds a partially-built recording after a fatal start
// failure. The meeting is best-effort marked failed so it never lingers
// in status recording.
func (o *Orchestrator) abortStart(rec *recording) {
	for _, p := range rec.producers {
		if err := p.Stop(); err != nil {
			log.Printf("meeting: producer stop during abort: %v", err)
		}
	}
	rec.cancel()
	for _, s := range rec.sessions {
		if err := s.Close(); err != nil {
			log.Printf("meeting: session close during abort: %v", err)
		}
	}
	rec.wg.Wait()
	rec.merger.Close()

	endedAt := timestampNow()
	if err := o.store.UpdateStatus(rec.meetingID, store.StatusFailed, endedAt); err != nil {
		log.Printf("meeting: failed to mark %s failed after aborted start: %v", rec.meetingID, err)
	}
	o.store.ClearBuffer(rec.meetingID)
}

// Stop tears down the active recording and runs post-processing.
// Shutdown order is producers, then sessions, then merger, then the
// status transition; a failure at any step never skips the later ones.
// Stopping with nothing active is a benign no-op.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.mu.Lock()
	rec := o.active
	o.active = nil
	o.mu.Unlock()

	if rec == nil {
		log.Printf("meeting: stop requested with no active recording")
		return nil
	}

	for _, p := range rec.producers {
		if err := p.Stop(); err != nil {
			log.Printf("meeting: producer stop: %v", err)
		}
	}
	rec.cancel()

	for _, s := range rec.sessions {
		if err := s.Close(); err != nil {
			log.Printf("meeting: session close: %v", err)
		}
	}
	rec.wg.Wait()
	rec.merger.Close()

	cfg := o.config()
	if cfg.Notifications.Enabled {
		o.notifier.RecordingStopped(rec.title)
	}

	if err := o.process(ctx, rec.meetingID, rec.title, timestampNow()); err != nil {
		// stop still completes; the failure lives in the meeting status
		log.Printf("meeting: post-processing failed for %s: %v", rec.meetingID, err)
	}

	log.Printf("meeting: recording stopped: %s", rec.meetingID)
	return nil
}

// Regenerate re-runs notes generation for a terminal meeting. Only
// user-triggered; there are no automatic retries.
func (o *Orchestrator) Regenerate(ctx context.Context, id string) error {
	meta, err := o.store.Meeting(id)
	if err != nil {
		return err
	}
	if meta.Status != store.StatusCompleted && meta.Status != store.StatusFailed {
		return NewStateError(fmt.Errorf("meeting %s is %s; regeneration requires completed or failed", id, meta.Status))
	}
	return o.process(ctx, id, meta.Title, "")
}

// process drives processing to a terminal status. endedAt is stamped
// when non-empty (the stop path); regeneration leaves it untouched.
// Every meeting that enters processing leaves it: on any failure the
// status is forced to failed, and if even that write fails it is
// logged and left to manual recovery.
func (o *Orchestrator) process(ctx context.Context, id, title, endedAt string) error {
	if err := o.store.UpdateStatus(id, store.StatusProcessing, ""); err != nil {
		log.Printf("meeting: failed to mark %s processing: %v", id, err)
	}

	transcript, err := o.store.FullTranscript(id)
	if err != nil {
		log.Printf("meeting: transcript read failed for %s: %v", id, err)
		transcript = ""
	}

	if strings.TrimSpace(transcript) == "" {
		// empty meeting: complete without touching the notes provider
		if err := o.store.UpdateStatus(id, store.StatusCompleted, endedAt); err != nil {
			log.Printf("meeting: failed to mark %s completed: %v", id, err)
		}
		o.store.ClearBuffer(id)
		log.Printf("meeting: %s completed with empty transcript", id)
		return nil
	}

	cfg := o.config()
	genErr := o.generateNotes(ctx, cfg, id, transcript)
	o.store.ClearBuffer(id)

	if genErr != nil {
		if err := o.store.UpdateStatus(id, store.StatusFailed, endedAt); err != nil {
			log.Printf("meeting: failed to record failure for %s: %v", id, err)
		}
		if cfg.Notifications.Enabled {
			o.notifier.NotesFailed(title)
		}
		return genErr
	}

	if err := o.store.UpdateStatus(id, store.StatusCompleted, endedAt); err != nil {
		log.Printf("meeting: failed to mark %s completed: %v", id, err)
	}
	if cfg.Notifications.Enabled {
		o.notifier.NotesReady(title)
	}
	return nil
}

func (o *Orchestrator) generateNotes(ctx context.Context, cfg *config.Config, id, transcript string) error {
	// adapter per call, so provider choice can change between meetings
	adapter, err := o.NewAdapter(notes.Config{
		Provider: cfg.Notes.Provider,
		APIKey:   cfg.APIKeyFor(cfg.Notes.Provider),
		Model:    cfg.Notes.Model,
		BaseURL:  cfg.Notes.BaseURL,
	})
	if err != nil {
		return notes.NewGenerationError(err)
	}

	n, err := adapter.Generate(ctx, transcript)
	if err != nil {
		return err
	}
	return o.store.SaveNotes(id, n)
}

func (o *Orchestrator) sessionConfig(cfg *config.Config, speaker string) session.DeepgramConfig {
	return session.DeepgramConfig{
		APIKey:     cfg.APIKeyFor(cfg.Transcription.Provider),
		Model:      cfg.Transcription.Model,
		Language:   cfg.Transcription.Language,
		SampleRate: cfg.Recording.SampleRate,
		Speaker:    speaker,
	}
}

func (o *Orchestrator) producerConfig(cfg *config.Config, target string) audio.Config {
	return audio.Config{
		SampleRate:        cfg.Recording.SampleRate,
		CaptureRate:       cfg.Recording.DeviceSampleRate,
		Channels:          cfg.Recording.Channels,
		Format:            cfg.Recording.Format,
		BufferSize:        cfg.Recording.BufferSize,
		Target:            target,
		ChannelBufferSize: cfg.Recording.ChannelBufferSize,
	}
}

func timestampNow() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
