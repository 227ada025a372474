package session

import "context"

// Event is a single transcript result from a streaming session. Interim
// events for the same session supersede the previous interim; final
// events are terminal for their utterance span.
type Event struct {
	Speaker        string
	Content        string
	TimestampStart float64 // seconds, provider clock
	TimestampEnd   float64
	IsFinal        bool
	Err            error // non-nil if the session failed
}

// Session is one live connection to a speech-to-text provider, bound to
// one audio source and one speaker label.
type Session interface {
	// Open establishes the streaming connection. It does not return
	// success until the provider has acknowledged the session is ready
	// to receive audio.
	Open(ctx context.Context) error

	// Feed forwards one audio frame. It never blocks: frames arriving
	// before Open resolves, or after Close, are dropped.
	Feed(frame []byte)

	// Events returns the transcript event stream. The channel is closed
	// after Close; events still in flight at close time are discarded.
	Events() <-chan Event

	// Close terminates the connection. Idempotent.
	Close() error

	// ID identifies this session instance (stable for its lifetime).
	ID() string

	// Speaker returns the label attached to every event of this session.
	Speaker() string
}
