package notify

import "sync"

const EventOrderCreated = "order:created"

type Event struct {
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

// Bus is an in-process observer registry. Subscribers come and go; broadcasts
// reach whoever is connected at that moment and are dropped for subscribers
// that cannot keep up.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

func (b *Bus) Subscribe() (int, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Event, 16)
	b.subs[id] = ch
	return id, ch
}

func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *Bus) Broadcast(name string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- Event{Name: name, Payload: payload}:
		default:
		}
	}
}
