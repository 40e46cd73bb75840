package broadcast

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"fishwatch/internal/logger"
)

// ErrSubscriberClosed is returned by Subscriber.Send after the subscriber's
// transport is gone.
var ErrSubscriberClosed = errors.New("subscriber closed")

// Subscriber is one live observer of alert events. It carries a bounded
// outgoing queue; the connection handler owning the transport drains
// Messages() with a single writer and calls Close when the transport breaks.
type Subscriber struct {
	id        string
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// ID identifies the subscriber in logs.
func (s *Subscriber) ID() string {
	return s.id
}

// Messages is the ordered stream of outgoing payloads for this subscriber.
func (s *Subscriber) Messages() <-chan []byte {
	return s.send
}

// Done is closed when the subscriber's transport is gone.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Close marks the transport as broken. Safe to call more than once.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Send enqueues a direct message for this subscriber, blocking until the
// writer pump has room. Used by connection handlers to interleave per-frame
// replies with broadcast alerts on the same ordered queue.
func (s *Subscriber) Send(msg []byte) error {
	select {
	case <-s.done:
		return ErrSubscriberClosed
	case s.send <- msg:
		return nil
	}
}

// Hub owns the registry of live subscribers and fans alert events out to
// them. Publish snapshots the registry before delivering, so registrations
// and disconnects during a fan-out never race the iteration.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]bool
	queueSize   int
	logger      *logger.Logger
}

func NewHub(queueSize int, log *logger.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Hub{
		subscribers: make(map[*Subscriber]bool),
		queueSize:   queueSize,
		logger:      log,
	}
}

// Register adds a new subscriber and returns its handle.
func (h *Hub) Register() *Subscriber {
	s := &Subscriber{
		id:   uuid.NewString(),
		send: make(chan []byte, h.queueSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.subscribers[s] = true
	total := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Info("Subscriber %s registered (total: %d)", s.id, total)
	return s
}

// Unregister removes a subscriber and closes it. Idempotent.
func (h *Hub) Unregister(s *Subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[s]
	if ok {
		delete(h.subscribers, s)
	}
	total := len(h.subscribers)
	h.mu.Unlock()

	s.Close()

	if ok {
		h.logger.Info("Subscriber %s unregistered (total: %d)", s.id, total)
	}
}

// Publish delivers msg to every current subscriber, best effort. A closed
// subscriber is unregistered; a subscriber whose queue is saturated is
// treated as stalled and unregistered as well, so one slow observer cannot
// starve the rest. Neither aborts delivery to the remaining subscribers.
// Per-subscriber delivery order matches publish order.
func (h *Hub) Publish(msg []byte) {
	h.mu.RLock()
	snapshot := make([]*Subscriber, 0, len(h.subscribers))
	for s := range h.subscribers {
		snapshot = append(snapshot, s)
	}
	h.mu.RUnlock()

	for _, s := range snapshot {
		select {
		case <-s.done:
			h.Unregister(s)
		case s.send <- msg:
		default:
			h.logger.Warning("Subscriber %s queue full, dropping subscriber", s.id)
			h.Unregister(s)
		}
	}
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
