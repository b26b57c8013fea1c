// Package realtime implements the notification subsystem: an observable
// in-memory store that is the single source of truth for notifications, a
// websocket hub that pushes every published notification to connected clients,
// and a reconnecting channel client.
package realtime

import (
	"sync"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/google/uuid"
)

// subscriberBuffer is the per-subscriber channel capacity. Publish never blocks:
// a subscriber that falls this far behind starts dropping messages.
const subscriberBuffer = 64

// Store is a thread-safe, insertion-ordered notification list with
// subscribe/notify semantics. Newest notifications sit at the front. The
// websocket hub and the REST notification endpoints share one Store, so
// read/unread state is consistent across both surfaces.
type Store struct {
	mu            sync.RWMutex
	notifications []domain.Notification // most-recent-first
	seen          map[string]struct{}   // IDs already stored, for dedup
	subscribers   map[int]chan domain.Notification
	nextSubID     int
	maxSize       int
}

// NewStore creates a notification store that retains at most maxSize entries.
// maxSize <= 0 means unbounded.
func NewStore(maxSize int) *Store {
	return &Store{
		seen:        make(map[string]struct{}),
		subscribers: make(map[int]chan domain.Notification),
		maxSize:     maxSize,
	}
}

// Publish stores a new notification and fans it out to all subscribers.
// A zero ID gets a generated UUID; a zero timestamp gets the current time.
// Read starts false. Publishing an ID that is already stored is a no-op
// (dedup), and the stored copy is returned.
func (s *Store) Publish(n domain.Notification) domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	n.Read = false

	if _, dup := s.seen[n.NotificationID]; dup {
		return s.find(n.NotificationID)
	}
	s.seen[n.NotificationID] = struct{}{}

	// Prepend: most-recent-first ordering.
	s.notifications = append([]domain.Notification{n}, s.notifications...)
	if s.maxSize > 0 && len(s.notifications) > s.maxSize {
		evicted := s.notifications[len(s.notifications)-1]
		delete(s.seen, evicted.NotificationID)
		s.notifications = s.notifications[:s.maxSize]
	}

	// Fan out while still holding the lock. Cancel closes subscriber channels
	// under the same lock, so a send can never hit a closed channel; the sends
	// are non-blocking, so holding the lock here cannot stall on a slow peer.
	for _, ch := range s.subscribers {
		select {
		case ch <- n:
		default: // slow subscriber, drop rather than block Publish
		}
	}
	return n
}

// find returns the stored copy for an ID; caller must hold at least a read lock.
func (s *Store) find(id string) domain.Notification {
	for _, n := range s.notifications {
		if n.NotificationID == id {
			return n
		}
	}
	return domain.Notification{}
}

// Subscribe registers a new subscriber and returns its receive channel together
// with a cancel function. Cancelling closes the channel and stops delivery.
func (s *Store) Subscribe() (<-chan domain.Notification, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan domain.Notification, subscriberBuffer)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// List returns a copy of the notification list, most recent first.
func (s *Store) List() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flips one notification's read flag. Returns false if the ID is unknown.
// Marking an already-read notification again is a harmless no-op.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].NotificationID == id {
			s.notifications[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead flips every notification to read. Idempotent.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

// Delete removes one notification. Returns false if the ID is unknown.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].NotificationID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			delete(s.seen, id)
			return true
		}
	}
	return false
}

// ClearAll empties the list.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = nil
	s.seen = make(map[string]struct{})
}
