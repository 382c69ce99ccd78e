package events

import (
	"context"
	"slices"
	"sync"
)

const subscriberBuffer = 16

type subscriber struct {
	userID string
	ch     chan Event
}

// Bus fans events out to in-process subscribers of the event's user.
// A subscriber whose buffer is full misses the event.
type Bus struct {
	mu          sync.Mutex
	subscribers []*subscriber
	closed      bool
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel of userID's events and a function that
// unsubscribes and closes it.
func (b *Bus) Subscribe(userID string) (<-chan Event, func()) {
	s := &subscriber{userID: userID, ch: make(chan Event, subscriberBuffer)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(s.ch)
		return s.ch, func() {}
	}
	b.subscribers = append(b.subscribers, s)
	b.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() { b.remove(s) })
	}
}

func (b *Bus) remove(s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := slices.Index(b.subscribers, s)
	if idx != -1 {
		b.subscribers[idx] = nil
		b.subscribers = slices.Delete(b.subscribers, idx, idx+1)
		close(s.ch)
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

func (b *Bus) Publish(_ context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subscribers {
		if s.userID != event.UserID {
			continue
		}
		select {
		case s.ch <- event:
		default:
		}
	}
	return nil
}

// Close ends every subscription.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subscribers {
		close(s.ch)
	}
	b.subscribers = nil
	b.closed = true
	return nil
}
