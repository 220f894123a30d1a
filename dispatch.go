package eventchannel

import (
	"context"
)

// Start begins dispatching queued events on a dedicated goroutine, if it hasn't started already.
// Cancelling ctx halts dispatch the same way [Channel.Stop] does.
// Once halted for any reason, a Channel cannot be restarted.
//
// This is safe to call multiple times from multiple goroutines. Only the first call begins processing.
func (c *Channel) Start(ctx context.Context) *Channel {
	c.startLoop.Do(func() {
		if !c.status.CompareAndSwap(int32(StatusIdle), int32(StatusRunning)) {
			// Stopped before it ever started.
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithCancel(ctx)
		go func() {
			// Translates a Stop call into dispatch cancellation.
			defer cancel()
			select {
			case <-c.stopRequested:
			case <-c.done:
			}
		}()
		go c.processEvents(ctx)
	})
	return c
}

// processEvents is the single consumer of the event queue.
// It runs until ctx is cancelled, until Stop is called, or until a handler fails.
func (c *Channel) processEvents(ctx context.Context) {
	defer close(c.done)
	defer c.status.Store(int32(StatusStopped))
	for {
		// A stop request is checked before every take, so queued events are never dispatched after one.
		select {
		case <-ctx.Done():
			c.stopping()
			c.halt("canceled")
			return
		case <-c.stopRequested:
			c.stopping()
			c.halt("canceled")
			return
		default:
		}
		evt, err := c.events.Take(ctx)
		if err != nil {
			// Cancellation is the clean shutdown path, not an error.
			c.stopping()
			c.halt("canceled")
			return
		}
		if err := c.dispatch(evt); err != nil {
			c.stopping()
			c.halt("handler failure")
			return
		}
	}
}

// stopping records the transition out of StatusRunning, unless a Stop call already did.
func (c *Channel) stopping() {
	c.status.CompareAndSwap(int32(StatusRunning), int32(StatusStopping))
}

// dispatch delivers one event to every matching subscription in registration order.
// A handler error abandons the event immediately: later subscriptions are skipped, the one-off sweep doesn't run, and the error is returned to halt the loop.
func (c *Channel) dispatch(evt Event) error {
	c.reg.mux.Lock()
	defer c.reg.mux.Unlock()
	anyCalled := false
	for _, sub := range c.reg.subs {
		if !sub.accepts(evt) {
			continue
		}
		if err := sub.handle(evt); err != nil {
			c.diag.handlerFailed(sub.id, err)
			return err
		}
		sub.used = true
		anyCalled = true
		if sub.oneOff {
			c.diag.oneOffFired(sub.id)
		}
	}
	c.reg.sweepLocked()
	if !anyCalled {
		c.diag.noHandlerMatched()
	}
	return nil
}

func (c *Channel) halt(reason string) {
	if c.conf.discardPending {
		discarded := 0
		for {
			if _, ok := c.events.TryTake(); !ok {
				break
			}
			discarded++
		}
		if discarded > 0 {
			c.diag.pendingDiscarded(discarded)
		}
	}
	c.diag.loopStopped(reason, c.events.Len())
}
