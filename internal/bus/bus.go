package bus

import (
	"sync"
	"time"
)

// Reason tags why the mirror changed. It is the whole payload: subscribers
// re-read the mirror instead of trusting snapshots smuggled through the event,
// so reordered remote confirmations can never desynchronize a view.
type Reason string

const (
	ReasonCreate   Reason = "create"
	ReasonUpdate   Reason = "update"
	ReasonDelete   Reason = "delete"
	ReasonReload   Reason = "reload"
	ReasonRollback Reason = "rollback"
	ReasonConfirm  Reason = "confirm"
)

// Handler consumes one change notification.
type Handler func(reason Reason)

type subscriber struct {
	name    string
	deliver func(reason Reason)
	stop    func()
}

// Bus fans change notifications out to registered subscribers. A single
// dispatcher goroutine drains a FIFO queue, so delivery order matches the
// order mutations were applied locally even when remote calls resolve out of
// order.
type Bus struct {
	mu     sync.Mutex
	subs   []*subscriber
	queue  chan Reason
	done   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// New starts a bus with the given queue capacity. Mutations are human-paced;
// the buffer only needs to absorb short bursts such as bulk imports.
func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 256
	}

	b := &Bus{
		queue: make(chan Reason, buffer),
		done:  make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

func (b *Bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case reason := <-b.queue:
			b.mu.Lock()
			subs := append([]*subscriber(nil), b.subs...)
			b.mu.Unlock()

			for _, s := range subs {
				s.deliver(reason)
			}
		case <-b.done:
			return
		}
	}
}

// Notify enqueues a change notification. Called by the mirror after every
// successful mutation.
func (b *Bus) Notify(reason Reason) {
	select {
	case b.queue <- reason:
	case <-b.done:
	}
}

// Subscribe registers a handler invoked synchronously on the dispatcher
// goroutine for every notification, in order. Returns an unsubscribe func.
func (b *Bus) Subscribe(name string, h Handler) func() {
	s := &subscriber{
		name:    name,
		deliver: func(reason Reason) { h(reason) },
		stop:    func() {},
	}

	return b.add(s)
}

// SubscribeDebounced registers a handler that coalesces bursts: after a
// notification it waits for the window to stay quiet, then fires once with the
// latest reason. Used by subscribers whose re-derivation is comparatively
// expensive, such as a full table re-render.
func (b *Bus) SubscribeDebounced(name string, window time.Duration, h Handler) func() {
	if window <= 0 {
		window = 100 * time.Millisecond
	}

	events := make(chan Reason, 1)
	quit := make(chan struct{})

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		var (
			timer  *time.Timer
			fireCh <-chan time.Time
			latest Reason
		)
		for {
			select {
			case reason := <-events:
				latest = reason
				if timer == nil {
					timer = time.NewTimer(window)
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(window)
				}
				fireCh = timer.C
			case <-fireCh:
				fireCh = nil
				h(latest)
			case <-quit:
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()

	s := &subscriber{
		name: name,
		deliver: func(reason Reason) {
			// Collapse the pending value instead of blocking the dispatcher.
			select {
			case events <- reason:
			default:
				select {
				case <-events:
				default:
				}
				events <- reason
			}
		},
		stop: func() { close(quit) },
	}

	return b.add(s)
}

func (b *Bus) add(s *subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			for i, sub := range b.subs {
				if sub == s {
					b.subs = append(b.subs[:i], b.subs[i+1:]...)
					break
				}
			}
			b.mu.Unlock()
			s.stop()
		})
	}
}

// Close stops the dispatcher and all debounce goroutines. Pending queued
// notifications are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	close(b.done)
	for _, s := range subs {
		s.stop()
	}
	b.wg.Wait()
}
