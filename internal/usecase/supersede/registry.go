package supersede

import (
	"container/list"
	"sync"
	"time"
)

// DefaultMaxSlots bounds the number of remembered sessions.
const DefaultMaxSlots = 10000

// Registry hands out one Slot per session id. The least recently used slot
// is dropped once more than max sessions are tracked.
type Registry struct {
	debounce time.Duration
	max      int

	mu    sync.Mutex
	order *list.List
	slots map[string]*list.Element
}

type entry struct {
	id   string
	slot *Slot
}

// NewRegistry creates a registry whose slots all use the same debounce window.
func NewRegistry(debounce time.Duration, maxSlots int) *Registry {
	if maxSlots <= 0 {
		maxSlots = DefaultMaxSlots
	}
	return &Registry{
		debounce: debounce,
		max:      maxSlots,
		order:    list.New(),
		slots:    make(map[string]*list.Element),
	}
}

// Slot returns the slot for id, creating it on first use.
func (r *Registry) Slot(id string) *Slot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if el, ok := r.slots[id]; ok {
		r.order.MoveToFront(el)
		return el.Value.(*entry).slot
	}

	s := New(r.debounce)
	r.slots[id] = r.order.PushFront(&entry{id: id, slot: s})

	for r.order.Len() > r.max {
		oldest := r.order.Back()
		r.order.Remove(oldest)
		delete(r.slots, oldest.Value.(*entry).id)
	}
	return s
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}
