package chat

import (
	"sync"

	"github.com/iyunix/go-brainchat/internal/domain"
)

// NotificationFeed is a bounded FIFO of notifications waiting to be shown.
// When full, the oldest entry is dropped.
type NotificationFeed struct {
	mu       sync.Mutex
	items    []domain.Notification
	capacity int
}

func NewNotificationFeed(capacity int) *NotificationFeed {
	if capacity < 1 {
		capacity = 1
	}
	return &NotificationFeed{capacity: capacity}
}

func (f *NotificationFeed) Notify(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items) == f.capacity {
		f.items = append(f.items[:0], f.items[1:]...)
	}
	f.items = append(f.items, n)
}

// Drain returns the queued notifications, oldest first, and empties the feed.
func (f *NotificationFeed) Drain() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Notification, len(f.items))
	copy(out, f.items)
	f.items = f.items[:0]
	return out
}

func (f *NotificationFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
