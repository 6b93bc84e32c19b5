package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// Broker fans out change notifications to in-process subscribers keyed by owner.
//
// Notifications carry no data: a subscriber re-reads whatever it watches. Each subscriber
// channel holds one pending signal, so a burst of changes collapses into a single wake-up
// and Publish never blocks on a slow reader.
type Broker struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]map[chan struct{}]struct{}
	closed bool
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[uuid.UUID]map[chan struct{}]struct{}),
	}
}

// Subscribe registers interest in ownerID. The returned cancel func removes the
// subscription and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe(ownerID uuid.UUID) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	if b.subs[ownerID] == nil {
		b.subs[ownerID] = make(map[chan struct{}]struct{})
	}
	b.subs[ownerID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			owners, ok := b.subs[ownerID]
			if !ok {
				return
			}
			if _, ok := owners[ch]; !ok {
				return
			}
			delete(owners, ch)
			if len(owners) == 0 {
				delete(b.subs, ownerID)
			}
			close(ch)
		})
	}
}

// Publish signals every subscriber of ownerID.
func (b *Broker) Publish(ownerID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[ownerID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions for ownerID.
func (b *Broker) Subscribers(ownerID uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[ownerID])
}

// Close closes every subscriber channel. Later subscriptions receive a closed channel.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for ownerID, owners := range b.subs {
		for ch := range owners {
			close(ch)
		}
		delete(b.subs, ownerID)
	}
}
