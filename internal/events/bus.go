package events

import "sync"

// Event is a generic type placeholder for any event type
type Event any

// Subscriber is a channel that transports events of type T
type Subscriber[T Event] chan T

const subscriberBuffer = 100

type EventBus[T Event] struct {
	subscribers map[Subscriber[T]]struct{}
	mutex       sync.RWMutex
}

func NewEventBus[T Event]() *EventBus[T] {
	return &EventBus[T]{
		subscribers: make(map[Subscriber[T]]struct{}),
	}
}

func (bus *EventBus[T]) Subscribe() Subscriber[T] {
	ch := make(Subscriber[T], subscriberBuffer)
	bus.mutex.Lock()
	bus.subscribers[ch] = struct{}{}
	bus.mutex.Unlock()
	return ch
}

// Unsubscribe removes ch and closes it. Unknown channels are ignored,
// so calling it twice is safe.
func (bus *EventBus[T]) Unsubscribe(ch Subscriber[T]) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	if _, ok := bus.subscribers[ch]; !ok {
		return
	}
	delete(bus.subscribers, ch)
	close(ch)
}

// Publish broadcasts an event of type T to all registered subscribers.
// Subscribers whose buffer is full miss the event; it reports how many
// subscribers received it.
func (bus *EventBus[T]) Publish(event T) int {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()
	delivered := 0
	for subscriber := range bus.subscribers {
		select {
		case subscriber <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// Len returns the number of active subscribers
func (bus *EventBus[T]) Len() int {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()
	return len(bus.subscribers)
}
