package session

import (
	"sync"
	"sync/atomic"

	"github.com/mr1hm/go-disaster-dashboard/internal/dashboard"
)

const subscriberBuffer = 16

type subscriber struct {
	session string
	ch      chan *dashboard.View
}

// Broadcaster fans recomputed views out to the streams watching a session.
type Broadcaster struct {
	subscribers map[uint64]subscriber
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]subscriber),
	}
}

func (b *Broadcaster) Subscribe(sessionID string) (uint64, <-chan *dashboard.View) {
	id := b.nextID.Add(1)
	ch := make(chan *dashboard.View, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = subscriber{session: sessionID, ch: ch}
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Publish sends v to every subscriber of sessionID. Subscribers whose buffer
// is full miss this view; the next one replaces it anyway.
func (b *Broadcaster) Publish(sessionID string, v *dashboard.View) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		if sub.session != sessionID {
			continue
		}
		select {
		case sub.ch <- v:
		default:
		}
	}
}

// CloseSession closes the streams of one session.
func (b *Broadcaster) CloseSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subscribers {
		if sub.session == sessionID {
			close(sub.ch)
			delete(b.subscribers, id)
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, causing streams to exit gracefully
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}
