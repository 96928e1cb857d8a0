package events

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

const subscriberBuffer = 16

// Hub fans events out to any number of subscribers. A nil *Hub accepts
// Publish and drops everything.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub { return &Hub{subs: make(map[chan Event]struct{})} }

// Subscribe registers a new buffered subscription. Callers must Unsubscribe.
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch. It is safe to call twice.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish encodes payload as JSON and offers it to every subscriber. Slow
// subscribers miss the event instead of blocking the publisher. It returns
// the number of subscribers that received it.
func (h *Hub) Publish(name string, payload any) int {
	if h == nil {
		return 0
	}

	b, err := json.Marshal(payload)
	if err != nil {
		logrus.WithField("event", name).Errorf("failed to encode event: %v", err)
		return 0
	}
	msg := Event{Name: name, Data: b}

	delivered := 0
	h.mu.RLock()
	for ch := range h.subs {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	h.mu.RUnlock()

	logrus.WithFields(logrus.Fields{
		"event":     name,
		"delivered": delivered,
	}).Debug("event published")

	return delivered
}
