package bus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversInOrder(t *testing.T) {
	t.Parallel()

	b := New(16)
	defer b.Close()

	var (
		mu  sync.Mutex
		got []Reason
	)
	b.Subscribe("recorder", func(reason Reason) {
		mu.Lock()
		got = append(got, reason)
		mu.Unlock()
	})

	want := []Reason{ReasonCreate, ReasonUpdate, ReasonDelete, ReasonRollback, ReasonConfirm}
	for _, r := range want {
		b.Notify(r)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == len(want)
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, got)
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	b := New(16)
	defer b.Close()

	var (
		mu    sync.Mutex
		calls int
	)
	unsubscribe := b.Subscribe("once", func(Reason) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	b.Notify(ReasonCreate)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, time.Second, 5*time.Millisecond)

	unsubscribe()
	b.Notify(ReasonUpdate)
	b.Notify(ReasonDelete)

	// Give the dispatcher a chance to misbehave before asserting.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestBusDebounceCoalescesBursts(t *testing.T) {
	t.Parallel()

	b := New(16)
	defer b.Close()

	var (
		mu     sync.Mutex
		fires  int
		latest Reason
	)
	b.SubscribeDebounced("stats", 40*time.Millisecond, func(reason Reason) {
		mu.Lock()
		fires++
		latest = reason
		mu.Unlock()
	})

	// A bulk import fires one notification per record.
	for range 20 {
		b.Notify(ReasonCreate)
	}
	b.Notify(ReasonReload)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fires == 1 && latest == ReasonReload
	}, time.Second, 5*time.Millisecond)

	// Quiet period over: a fresh notification fires again.
	b.Notify(ReasonDelete)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fires == 2 && latest == ReasonDelete
	}, time.Second, 5*time.Millisecond)
}
