package eventchannel

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/saylorsolutions/eventchannel/syncx"
)

// Event is an opaque message payload flowing through a [Channel].
// The channel makes no assumptions about its shape or identity.
type Event any

// Predicate decides whether a [Handler] should receive an [Event].
// Predicates are evaluated by the dispatch goroutine for every queued event, so they should be fast, and they must not panic.
type Predicate func(evt Event) bool

// MatchAll is a [Predicate] that accepts every [Event].
func MatchAll(Event) bool {
	return true
}

// Handler processes an [Event] accepted by its [Predicate].
// A returned error is treated as a programming error: it is reported to the channel's diagnostic logger, and it permanently halts all further dispatch.
// A Handler that needs to tolerate failures should handle them itself and return nil.
type Handler func(evt Event) error

type subscription struct {
	id      uuid.UUID
	accepts Predicate
	handle  Handler
	oneOff  bool
	used    bool // written only by the dispatch goroutine while holding the registry mutex
}

// registry is the ordered collection of subscriptions for a [Channel].
// Every access - insert, remove, dispatch iteration, and the one-off sweep - happens under the one exclusive mutex, so registration changes never overlap an in-flight dispatch.
type registry struct {
	mux  sync.Mutex
	subs []*subscription
}

func (r *registry) insert(sub *subscription) {
	syncx.LockFunc(&r.mux, func() {
		r.subs = append(r.subs, sub)
	})
}

// remove deletes sub by identity, reporting whether a deletion occurred.
func (r *registry) remove(sub *subscription) bool {
	return syncx.LockFuncT(&r.mux, func() bool {
		for i, s := range r.subs {
			if s == sub {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return true
			}
		}
		return false
	})
}

// sweepLocked drops every one-off subscription that has fired.
// The caller must hold the registry mutex.
func (r *registry) sweepLocked() {
	r.subs = slices.DeleteFunc(r.subs, func(s *subscription) bool {
		return s.oneOff && s.used
	})
}

func (r *registry) size() int {
	return syncx.LockFuncT(&r.mux, func() int {
		return len(r.subs)
	})
}

// HandlerDescriptor is the removal capability returned when a handler is added to a [Channel].
// It identifies exactly one registration, even when the same predicate and handler were registered multiple times.
type HandlerDescriptor struct {
	id  uuid.UUID
	sub *subscription
	ch  *Channel
}

// ID gets the unique ID assigned to this registration, matching the "handler" attribute of the channel's diagnostic log entries.
func (d *HandlerDescriptor) ID() string {
	return d.id.String()
}

// Remove unregisters the handler this descriptor was returned for.
// It's safe to call Remove multiple times; removing an already-removed handler is logged and otherwise does nothing.
func (d *HandlerDescriptor) Remove() {
	if d.ch.reg.remove(d.sub) {
		d.ch.diag.handlerRemoved(d.id)
		return
	}
	d.ch.diag.handlerNotRemoved(d.id)
}
