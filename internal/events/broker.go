package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status values published while a session moves through an analysis.
const (
	StatusImage     = "image"
	StatusAnalyzing = "analyzing"
	StatusComplete  = "complete"
	StatusFailed    = "failed"
	StatusCleared   = "cleared"
)

// Event describes a status update for one session.
type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}

// New stamps an event with an ID and timestamp.
func New(sessionID, status, message string) Event {
	return Event{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Status:    status,
		Message:   message,
		At:        time.Now().UTC(),
	}
}

// Broker manages SSE subscribers keyed by session.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan Event]string
}

// NewBroker constructs a broker instance.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[chan Event]string),
	}
}

// Subscribe returns a channel that receives events for the given session.
func (b *Broker) Subscribe(sessionID string) chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	b.subscribers[ch] = sessionID
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel from the broker.
func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish fans the event out to subscribers of the same session.
func (b *Broker) Publish(evt Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	for ch, sessionID := range b.subscribers {
		if sessionID != evt.SessionID {
			continue
		}
		select {
		case ch <- evt:
		default:
			// drop if subscriber is slow
		}
	}
	b.mu.RUnlock()
}
