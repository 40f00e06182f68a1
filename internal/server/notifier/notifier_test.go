package notifier

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscribeUnsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Count())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Count())

	_, open := <-ch
	assert.False(t, open, "channel should be closed")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()
	a, b := n.Subscribe(), n.Subscribe()
	defer n.Unsubscribe(a)
	defer n.Unsubscribe(b)

	ev := n.Broadcast("workbook changed")
	assert.Equal(t, uint64(1), ev.Version)

	for _, ch := range []chan Event{a, b} {
		got := <-ch
		assert.Equal(t, ev, got)
	}
}

func TestNotifier_FullBufferSkips(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Broadcast("first")
	n.Broadcast("second")

	got := <-ch
	assert.Equal(t, "first", got.Reason)
	assert.Equal(t, uint64(2), n.Version())
	assert.Empty(t, ch)
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Broadcast("tick")
			n.Unsubscribe(ch)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(20), n.Version())
	assert.Equal(t, 0, n.Count())
}
