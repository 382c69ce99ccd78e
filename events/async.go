package events

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// DefaultQueueSize bounds the events waiting for a slow broker.
const DefaultQueueSize = 256

var (
	ErrQueueFull = errors.New("events: queue full")
	ErrClosed    = errors.New("events: publisher closed")
)

// Async forwards events to next from a single background goroutine, so
// callers never wait on a broker. Events that do not fit in the queue are
// dropped.
type Async struct {
	next  Publisher
	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

func NewAsync(next Publisher, size int) *Async {
	if size <= 0 {
		size = DefaultQueueSize
	}
	a := &Async{
		next:  next,
		queue: make(chan Event, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for event := range a.queue {
		if err := a.next.Publish(context.Background(), event); err != nil {
			log.Warnf("events: deliver %s for %s: %v", event.Name, event.UserID, err)
		}
	}
}

// Publish queues event and returns at once.
func (a *Async) Publish(_ context.Context, event Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close delivers what is already queued, then closes next.
func (a *Async) Close() error {
	var err error
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.queue)
		a.mu.Unlock()

		<-a.done
		err = a.next.Close()
	})
	return err
}
