package services

import (
	"sync"

	"backend/entity"
)

// PositionFeed is an in-process insert feed: every committed rider position
// is published to all current subscribers. There is no replay — a subscriber
// only sees inserts made after it subscribed.
type PositionFeed struct {
	mu   sync.Mutex
	next int
	subs map[int]chan entity.RiderPosition
}

func NewPositionFeed() *PositionFeed {
	return &PositionFeed{subs: make(map[int]chan entity.RiderPosition)}
}

// Subscribe returns a channel of future inserts and a cancel func. Cancel
// must be called when the consumer goes away or the channel leaks.
func (f *PositionFeed) Subscribe(buffer int) (<-chan entity.RiderPosition, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan entity.RiderPosition, buffer)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish fans out to all subscribers. A subscriber that cannot keep up has
// the sample dropped rather than blocking the writer; consumers reconcile
// with LatestFor after a gap.
func (f *PositionFeed) Publish(p entity.RiderPosition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- p:
		default:
		}
	}
}
