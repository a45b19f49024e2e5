// Package event publishes domain events after a successful write.
//
// Publishing is fire-and-forget from the caller's point of view: a failed
// publish is logged by the caller and never undoes the write it describes.
//
//	bus := event.NewBus()
//	bus.Listen("order.placed", func(e event.Event) { ... })
//	ch, cancel := bus.Subscribe(16)   // e.g. a websocket feed
//	defer cancel()
//
//	pub := event.Multi(bus, event.NewRedisPublisher(rdb, "delish:orders:events"))
//	_ = pub.Publish(ctx, event.New("order.placed", order))
package event

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Event is one published fact.
type Event struct {
	Name    string    `json:"event"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// New stamps an event with the current time.
func New(name string, payload any) Event {
	return Event{Name: name, Payload: payload, At: time.Now().UTC()}
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Handler receives an event synchronously.
type Handler func(e Event)

// ─── In-memory bus ────────────────────────────────────────────────────────────

// Bus dispatches events in-process: to named listeners synchronously, and to
// channel subscribers without blocking (a full subscriber misses the event).
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	subs     map[int]chan Event
	nextID   int
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}, subs: map[int]chan Event{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Subscribe returns a channel receiving every event and a func that
// unsubscribes and closes it.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish implements Publisher.
func (b *Bus) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[e.Name]))
	copy(hs, b.handlers[e.Name])
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
	return nil
}

// Flush removes all listeners (useful in tests).
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

// ─── Combinators ──────────────────────────────────────────────────────────────

type multi []Publisher

// Multi publishes to every publisher and joins their errors.
func Multi(pubs ...Publisher) Publisher {
	out := make(multi, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (m multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type nop struct{}

// Nop discards every event.
func Nop() Publisher { return nop{} }

func (nop) Publish(context.Context, Event) error { return nil }
