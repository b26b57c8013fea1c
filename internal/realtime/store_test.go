package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePublishOrdersMostRecentFirst(t *testing.T) {
	s := NewStore(0)

	first := s.Publish(domain.Notification{Title: "first"})
	second := s.Publish(domain.Notification{Title: "second"})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.NotificationID, list[0].NotificationID)
	assert.Equal(t, first.NotificationID, list[1].NotificationID)
	assert.False(t, list[0].Read, "new notifications start unread")
	assert.NotEmpty(t, list[0].NotificationID, "ID is generated when absent")
	assert.False(t, list[0].Timestamp.IsZero(), "timestamp is assigned on publish")
}

func TestStorePublishDeduplicatesByID(t *testing.T) {
	s := NewStore(0)

	s.Publish(domain.Notification{NotificationID: "n1", Title: "original"})
	s.Publish(domain.Notification{NotificationID: "n1", Title: "duplicate"})

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "original", list[0].Title)
}

func TestStoreMarkReadAndUnreadCount(t *testing.T) {
	s := NewStore(0)
	n1 := s.Publish(domain.Notification{Title: "a"})
	s.Publish(domain.Notification{Title: "b"})

	assert.Equal(t, 2, s.UnreadCount())
	assert.True(t, s.MarkRead(n1.NotificationID))
	assert.Equal(t, 1, s.UnreadCount())
	assert.False(t, s.MarkRead("unknown"))

	// Marking the same notification again changes nothing.
	assert.True(t, s.MarkRead(n1.NotificationID))
	assert.Equal(t, 1, s.UnreadCount())
}

func TestStoreMarkAllReadIsIdempotent(t *testing.T) {
	s := NewStore(0)
	s.Publish(domain.Notification{Title: "a"})
	s.Publish(domain.Notification{Title: "b"})

	s.MarkAllRead()
	assert.Equal(t, 0, s.UnreadCount())

	// Applying it twice leaves all entries read.
	s.MarkAllRead()
	assert.Equal(t, 0, s.UnreadCount())
	for _, n := range s.List() {
		assert.True(t, n.Read)
	}
}

func TestStoreDeleteAndClearAll(t *testing.T) {
	s := NewStore(0)
	n1 := s.Publish(domain.Notification{Title: "a"})
	s.Publish(domain.Notification{Title: "b"})

	assert.True(t, s.Delete(n1.NotificationID))
	assert.False(t, s.Delete(n1.NotificationID), "second delete reports unknown ID")
	assert.Len(t, s.List(), 1)

	// A deleted ID may be published again.
	s.Publish(domain.Notification{NotificationID: n1.NotificationID, Title: "a again"})
	assert.Len(t, s.List(), 2)

	s.ClearAll()
	assert.Empty(t, s.List())
	assert.Equal(t, 0, s.UnreadCount())
}

func TestStoreEvictsOldestBeyondMaxSize(t *testing.T) {
	s := NewStore(2)
	s.Publish(domain.Notification{NotificationID: "n1"})
	s.Publish(domain.Notification{NotificationID: "n2"})
	s.Publish(domain.Notification{NotificationID: "n3"})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "n3", list[0].NotificationID)
	assert.Equal(t, "n2", list[1].NotificationID)

	// The evicted ID is forgotten by the dedup set too.
	s.Publish(domain.Notification{NotificationID: "n1"})
	assert.Equal(t, "n1", s.List()[0].NotificationID)
}

func TestStoreSubscribeReceivesPublishes(t *testing.T) {
	s := NewStore(0)
	events, cancel := s.Subscribe()
	defer cancel()

	published := s.Publish(domain.Notification{Title: "hello"})

	select {
	case got := <-events:
		assert.Equal(t, published.NotificationID, got.NotificationID)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the published notification")
	}
}

func TestStoreSubscribeCancelStopsDelivery(t *testing.T) {
	s := NewStore(0)
	events, cancel := s.Subscribe()
	cancel()

	// Channel is closed; publishing afterwards must not panic.
	s.Publish(domain.Notification{Title: "after cancel"})

	_, open := <-events
	assert.False(t, open, "cancelled subscriber channel should be closed")

	// Cancel twice is safe.
	cancel()
}

func TestStorePublishRacingSubscriberCancelDoesNotPanic(t *testing.T) {
	s := NewStore(0)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				s.Publish(domain.Notification{Title: "race"})
			}
		}
	}()

	// Churn subscribers while publishes are in flight. A cancel landing
	// mid-publish must never let Publish send on the closed channel.
	for i := 0; i < 500; i++ {
		_, cancel := s.Subscribe()
		cancel()
	}

	close(stop)
	wg.Wait()
}

func TestStorePublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	s := NewStore(0)
	_, cancel := s.Subscribe() // never drained
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			s.Publish(domain.Notification{Title: "burst"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
