package events

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"sync"
	"testing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewEventBus[any]()
	a := bus.Subscribe()
	b := bus.Subscribe()

	delivered := bus.Publish(CatalogFileChanged{Path: "catalog.json"})

	assert.Equal(t, 2, delivered)
	assert.Equal(t, CatalogFileChanged{Path: "catalog.json"}, <-a)
	assert.Equal(t, CatalogFileChanged{Path: "catalog.json"}, <-b)
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := NewEventBus[int]()
	slow := bus.Subscribe()

	for i := 0; i < subscriberBuffer; i++ {
		require.Equal(t, 1, bus.Publish(i))
	}

	assert.Equal(t, 0, bus.Publish(-1))
	assert.Len(t, slow, subscriberBuffer)
	assert.Equal(t, 0, <-slow)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus[any]()
	ch := bus.Subscribe()

	bus.Unsubscribe(ch)
	bus.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, bus.Len())
	assert.Zero(t, bus.Publish(CatalogReloadFailed{Error: "boom"}))
}

func TestConsumerGoroutineStopsOnUnsubscribe(t *testing.T) {
	bus := NewEventBus[any]()
	ch := bus.Subscribe()

	var (
		wg       sync.WaitGroup
		received []any
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for event := range ch {
			received = append(received, event)
		}
	}()

	bus.Publish(CatalogReloaded{Version: 2, Count: 3})
	bus.Unsubscribe(ch)
	wg.Wait()

	require.Len(t, received, 1)
	assert.Equal(t, uint64(2), received[0].(CatalogReloaded).Version)
}
