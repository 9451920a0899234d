// Package broadcast fans store changes out to every interested subscriber.
//
// A Hub is an in-process publish/subscribe channel keyed by store key.
// Delivery is best-effort: a subscriber whose buffer is full misses the
// event instead of stalling the writer. Events published from one
// goroutine reach each subscriber in publish order.
package broadcast

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBuffer is the per-subscriber queue length used by NewHub.
const DefaultBuffer = 64

// Event describes one change of a store key.
type Event struct {
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value,omitempty"`
	Deleted bool            `json:"deleted,omitempty"`
	Seq     uint64          `json:"seq"`
	At      time.Time       `json:"at"`
}

// Publisher is the write side of a Hub.
type Publisher interface {
	Publish(ev Event)
}

// Hub routes events to subscriptions.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	nextID  uint64
	seq     atomic.Uint64
	buffer  int
	metrics *Metrics
	now     func() time.Time
}

// Option configures a Hub.
type Option func(*Hub)

// WithBuffer sets the per-subscriber queue length.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithMetrics records publish and drop counts.
func WithMetrics(m *Metrics) Option {
	return func(h *Hub) { h.metrics = m }
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		subs:   make(map[uint64]*Subscription),
		buffer: DefaultBuffer,
		now:    time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

var _ Publisher = (*Hub)(nil)

// Publish stamps ev with the next sequence number and delivers it to every
// subscription watching ev.Key. It never blocks.
func (h *Hub) Publish(ev Event) {
	ev.Seq = h.seq.Add(1)
	if ev.At.IsZero() {
		ev.At = h.now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	h.metrics.incPublished(ev.Key)
	for _, s := range h.subs {
		if !s.wants(ev.Key) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			s.dropped.Add(1)
			h.metrics.incDropped(ev.Key)
		}
	}
}

// Subscribe registers interest in keys. With no keys every event is delivered.
func (h *Hub) Subscribe(keys ...string) *Subscription {
	s := &Subscription{
		ch:  make(chan Event, h.buffer),
		hub: h,
	}
	if len(keys) > 0 {
		s.keys = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			s.keys[k] = struct{}{}
		}
	}

	h.mu.Lock()
	h.nextID++
	s.id = h.nextID
	h.subs[s.id] = s
	n := len(h.subs)
	h.mu.Unlock()

	h.metrics.setSubscribers(n)
	return s
}

// Subscribers returns the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	delete(h.subs, s.id)
	close(s.ch)
	n := len(h.subs)
	h.mu.Unlock()

	h.metrics.setSubscribers(n)
}

// Subscription is one receiver registered on a Hub.
type Subscription struct {
	id      uint64
	keys    map[string]struct{}
	ch      chan Event
	hub     *Hub
	once    sync.Once
	dropped atomic.Uint64
}

// C returns the event channel. It is closed by Close.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Dropped returns how many events this subscription missed.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close unregisters the subscription and closes its channel. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.remove(s) })
}

func (s *Subscription) wants(key string) bool {
	if s.keys == nil {
		return true
	}
	_, ok := s.keys[key]
	return ok
}
