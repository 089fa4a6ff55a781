package task

import "sync"

// bus fans snapshots out to subscribers. When a subscriber's buffer is full
// its oldest queued snapshot is discarded, so the newest one always arrives.
// Publishes are serialized by the store's write lock.
type bus struct {
	mu   sync.RWMutex
	subs map[chan []Task]struct{}
}

func newBus() *bus {
	return &bus{subs: make(map[chan []Task]struct{})}
}

func (b *bus) publish(snapshot []Task) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		snap := cloneAll(snapshot)
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (b *bus) subscribe() chan []Task {
	ch := make(chan []Task, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *bus) unsubscribe(ch chan []Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}
