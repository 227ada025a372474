package merge

import (
	"sync"

	"github.com/mintapp/mint/internal/session"
)

// SlotKey identifies the single outstanding interim entry for one
// (session, speaker) pair.
type SlotKey struct {
	SessionID string
	Speaker   string
}

// FeedEvent is what live-feed subscribers receive: the raw transcript
// event plus the session it came from.
type FeedEvent struct {
	SessionID string
	Event     session.Event
}

// Merger combines transcript events from concurrent sessions into one
// feed. Per slot, at most one interim entry is outstanding; a new
// interim replaces it wholesale and a final event discards it. Entries
// from different slots never evict each other. No ordering is imposed
// across slots beyond arrival order; cross-speaker chronology is left
// to the provider timestamps.
type Merger struct {
	mu       sync.Mutex
	interims map[SlotKey]session.Event
	onFinal  func(session.Event)
	subs     []chan FeedEvent
	closed   bool
}

// New creates a merger. onFinal is invoked, in arrival order, for every
// finalized entry; it is the persistence hook.
func New(onFinal func(session.Event)) *Merger {
	return &Merger{
		interims: make(map[SlotKey]session.Event),
		onFinal:  onFinal,
	}
}

// Handle processes one event from the given session.
func (m *Merger) Handle(sessionID string, ev session.Event) {
	if ev.Err != nil {
		return
	}
	key := SlotKey{SessionID: sessionID, Speaker: ev.Speaker}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if ev.IsFinal {
		// the interim for this slot is superseded, never persisted
		delete(m.interims, key)
	} else {
		m.interims[key] = ev
	}
	subs := make([]chan FeedEvent, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	if ev.IsFinal && m.onFinal != nil {
		m.onFinal(ev)
	}

	fe := FeedEvent{SessionID: sessionID, Event: ev}
	for _, sub := range subs {
		select {
		case sub <- fe:
		default:
			// slow subscriber; live display is best-effort
		}
	}
}

// Interim returns the outstanding interim entry for a slot, if any.
func (m *Merger) Interim(sessionID, speaker string) (session.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.interims[SlotKey{SessionID: sessionID, Speaker: speaker}]
	return ev, ok
}

// Subscribe registers a live-feed listener. The returned cancel func
// removes the subscription and closes the channel.
func (m *Merger) Subscribe() (<-chan FeedEvent, func()) {
	ch := make(chan FeedEvent, 64)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				close(ch)
				break
			}
		}
		m.mu.Unlock()
	}
	return ch, cancel
}

// Close discards all interim state and closes every subscriber channel.
// Handle becomes a no-op afterwards.
func (m *Merger) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.interims = make(map[SlotKey]session.Event)
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()

	for _, sub := range subs {
		close(sub)
	}
}
