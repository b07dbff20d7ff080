// ABOUTME: Tests for the generic notification fan-out
// ABOUTME: Covers ordering, snapshot semantics, fault isolation, unsubscribe

package watch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	n := NewNotifier[int](nil)

	var got []string
	n.Subscribe(func(int) { got = append(got, "first") })
	n.Subscribe(func(int) { got = append(got, "second") })
	n.Subscribe(func(int) { got = append(got, "third") })

	n.Publish(1)

	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	n := NewNotifier[string](nil)

	var calls int
	id := n.Subscribe(func(string) { calls++ })

	n.Publish("a")
	n.Unsubscribe(id)
	n.Publish("b")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, n.Len())

	// Unknown or already-removed handles are a no-op.
	n.Unsubscribe(id)
	n.Unsubscribe("no-such-handle")
}

func TestPanickingObserverDoesNotBlockSiblings(t *testing.T) {
	n := NewNotifier[int](nil)

	var before, after bool
	n.Subscribe(func(int) { before = true })
	n.Subscribe(func(int) { panic("observer failure") })
	n.Subscribe(func(int) { after = true })

	require.NotPanics(t, func() { n.Publish(7) })
	assert.True(t, before)
	assert.True(t, after)
}

func TestSubscribeDuringDeliveryDoesNotAffectInFlightPublish(t *testing.T) {
	n := NewNotifier[int](nil)

	var lateCalls int
	var firstCalls int
	n.Subscribe(func(int) {
		firstCalls++
		if firstCalls == 1 {
			n.Subscribe(func(int) { lateCalls++ })
		}
	})

	n.Publish(1)
	assert.Equal(t, 0, lateCalls, "observer added mid-delivery must not see the in-flight event")

	n.Publish(2)
	assert.Equal(t, 1, lateCalls)
	assert.Equal(t, 2, firstCalls)
}

func TestUnsubscribeDuringDeliveryStillDeliversInFlight(t *testing.T) {
	n := NewNotifier[int](nil)

	var secondCalls int
	var secondID string
	n.Subscribe(func(int) { n.Unsubscribe(secondID) })
	secondID = n.Subscribe(func(int) { secondCalls++ })

	n.Publish(1)
	assert.Equal(t, 1, secondCalls, "snapshot taken before delivery includes the removed observer")

	n.Publish(2)
	assert.Equal(t, 1, secondCalls)
}

func TestConcurrentSubscribePublish(t *testing.T) {
	n := NewNotifier[int](nil)

	var mu sync.Mutex
	total := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Subscribe(func(int) {
				mu.Lock()
				total++
				mu.Unlock()
			})
			n.Publish(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, n.Len())
}
