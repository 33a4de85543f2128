package cache

import "sync"

const subscriberBuffer = 32

// hub fans transitions out to subscribers. Slow subscribers miss events
// rather than blocking the cache.
type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Transition
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan Transition)}
}

func (h *hub) subscribe() (<-chan Transition, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan Transition, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

func (h *hub) publish(t Transition) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- t:
		default:
		}
	}
}
