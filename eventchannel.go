package eventchannel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/saylorsolutions/eventchannel/env"
	"github.com/saylorsolutions/eventchannel/queue"
)

// DefaultCapacity is the event queue capacity used when no [Capacity] option is given.
const DefaultCapacity = 64

const (
	// EnvCapacity is the environment variable read by [FromEnv] to override the queue capacity.
	EnvCapacity = "EVENTCHANNEL_CAPACITY"
	// EnvLogLevel is the environment variable read by [FromEnv] to override the minimum diagnostic log level.
	EnvLogLevel = "EVENTCHANNEL_LOG_LEVEL"
)

type channelConf struct {
	capacity       int
	log            *slog.Logger
	logLevel       *slog.Level
	discardPending bool
}

// ConfigFunc configures a [Channel] during construction with [New].
type ConfigFunc func(conf *channelConf) error

// Capacity overrides [DefaultCapacity] for the channel's event queue.
// The capacity must be at least 1, and is fixed for the life of the channel.
func Capacity(capacity int) ConfigFunc {
	return func(conf *channelConf) error {
		if capacity < 1 {
			return fmt.Errorf("invalid capacity '%d'", capacity)
		}
		conf.capacity = capacity
		return nil
	}
}

// Logger directs the channel's diagnostic output to log.
// Diagnostics are discarded when no logger is configured.
func Logger(log *slog.Logger) ConfigFunc {
	return func(conf *channelConf) error {
		if log == nil {
			return fmt.Errorf("nil logger")
		}
		conf.log = log
		return nil
	}
}

// DiscardPendingOnHalt makes the dispatch goroutine drain and drop any events still queued at the moment it exits, whether it halted from cancellation or a handler failure.
// By default pending events are left in the queue, where they can be observed with [Channel.Depth].
func DiscardPendingOnHalt() ConfigFunc {
	return func(conf *channelConf) error {
		conf.discardPending = true
		return nil
	}
}

// FromEnv overrides earlier configuration with values from the environment:
//   - EVENTCHANNEL_CAPACITY: the event queue capacity, see [Capacity].
//   - EVENTCHANNEL_LOG_LEVEL: the minimum diagnostic log level, one of "debug", "info", "warn", or "error".
//
// Unset, empty, or invalid values leave the current configuration unchanged.
func FromEnv() ConfigFunc {
	return func(conf *channelConf) error {
		if capacity := env.Int(EnvCapacity, int64(conf.capacity)); capacity >= 1 {
			conf.capacity = int(capacity)
		}
		if sval := env.Val(EnvLogLevel, ""); len(sval) > 0 {
			var level slog.Level
			if err := level.UnmarshalText([]byte(sval)); err == nil {
				conf.logLevel = &level
			}
		}
		return nil
	}
}

// Status reports the lifecycle state of a channel's dispatch goroutine.
type Status int32

const (
	StatusIdle     Status = iota // StatusIdle means Start hasn't been called yet.
	StatusRunning                // StatusRunning means the dispatch goroutine is draining the queue.
	StatusStopping               // StatusStopping means a stop was requested, but the dispatch goroutine hasn't exited yet.
	StatusStopped                // StatusStopped means the dispatch goroutine has exited and will never dispatch again.
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusStopping:
		return "stopping"
	case StatusStopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown status %d", int32(s))
	}
}

// Channel is a bounded, in-process event dispatch hub.
// Producers submit events with [Channel.Submit], and a single dispatch goroutine started by [Channel.Start] drains them in FIFO order to every registered handler whose [Predicate] accepts them.
//
// A Channel must be created with [New] or [Instance].
type Channel struct {
	conf   channelConf
	diag   diagnostics
	events *queue.Bounded[Event]
	reg    registry

	startLoop     sync.Once
	stopLoop      sync.Once
	stopRequested chan struct{}
	done          chan struct{}
	status        atomic.Int32
}

var (
	instanceChannel *Channel
	initOnce        sync.Once
)

// Instance is useful in cases where a single, global [Channel] is desired.
// The instance is created on first use; to configure it, call [InitInstance] first.
func Instance() *Channel {
	InitInstance()
	return instanceChannel
}

// InitInstance configures the global [Channel] returned from [Instance], returning whether this call performed the configuration.
// Only the first call has any effect.
func InitInstance(opts ...ConfigFunc) bool {
	configured := false
	initOnce.Do(func() {
		instanceChannel = New(opts...)
		configured = true
	})
	return configured
}

// New creates a [Channel] with the given configuration.
// New panics if a [ConfigFunc] rejects its input, since that's not recoverable at this point.
func New(opts ...ConfigFunc) *Channel {
	conf := channelConf{
		capacity: DefaultCapacity,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(&conf); err != nil {
			panic(fmt.Sprintf("invalid event channel config: %v", err))
		}
	}
	if conf.logLevel != nil {
		// Applied last so the level override works no matter where Logger appears in opts.
		conf.log = slog.New(minLevelHandler{level: *conf.logLevel, impl: conf.log.Handler()})
	}
	return &Channel{
		conf:          conf,
		diag:          diagnostics{log: conf.log},
		events:        queue.NewBounded[Event](conf.capacity),
		stopRequested: make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Submit enqueues evt for dispatch, blocking while the event queue is full.
// If ctx is cancelled before a slot frees, then an error wrapping [queue.ErrCanceled] is returned and evt is not enqueued.
//
// Note that Submit keeps succeeding after the dispatch goroutine has halted, right up until the queue fills.
// Producers that need to detect a halted channel should check [Channel.Status].
func (c *Channel) Submit(ctx context.Context, evt Event) error {
	c.diag.eventQueued(c.events.Len())
	return c.events.Put(ctx, evt)
}

// AddHandler registers handle to be invoked for every dispatched [Event] that accepts returns true for.
// The registration stays active until the returned [HandlerDescriptor] removes it.
//
// Neither accepts nor handle may be nil.
// Handlers and predicates must not call back into registration or removal methods of the same channel, since dispatch holds the registry lock while they run.
func (c *Channel) AddHandler(accepts Predicate, handle Handler) *HandlerDescriptor {
	return c.addHandler(accepts, handle, false)
}

// AddOneOffHandler is the same as [Channel.AddHandler], except that the registration removes itself after its first successful invocation.
// A one-off handler will never be invoked twice.
func (c *Channel) AddOneOffHandler(accepts Predicate, handle Handler) *HandlerDescriptor {
	return c.addHandler(accepts, handle, true)
}

func (c *Channel) addHandler(accepts Predicate, handle Handler, oneOff bool) *HandlerDescriptor {
	if accepts == nil {
		panic("nil predicate")
	}
	if handle == nil {
		panic("nil handler")
	}
	sub := &subscription{
		id:      uuid.New(),
		accepts: accepts,
		handle:  handle,
		oneOff:  oneOff,
	}
	c.reg.insert(sub)
	c.diag.handlerAdded(sub.id, oneOff)
	return &HandlerDescriptor{id: sub.id, sub: sub, ch: c}
}

// Status reports the lifecycle state of the dispatch goroutine.
// After a handler failure this is the only in-band way to detect that events are no longer being dispatched.
func (c *Channel) Status() Status {
	return Status(c.status.Load())
}

// Depth gets the number of events waiting in the queue.
// A depth that only ever grows is a sign that the dispatch goroutine has halted, see [Channel.Status].
func (c *Channel) Depth() int {
	return c.events.Len()
}

// Done returns a channel that is closed once the dispatch goroutine has exited.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Stop requests that the dispatch goroutine halt, and immediately returns without waiting for it to do so.
// An event being dispatched when Stop is called is allowed to finish.
// To wait for processing to cease, use [Channel.AwaitStop].
// This is safe to call multiple times from multiple goroutines.
func (c *Channel) Stop() {
	c.stopLoop.Do(func() {
		if c.status.CompareAndSwap(int32(StatusIdle), int32(StatusStopped)) {
			// Never started, so there's no dispatch goroutine to wait on.
			close(c.done)
			return
		}
		c.status.CompareAndSwap(int32(StatusRunning), int32(StatusStopping))
		close(c.stopRequested)
	})
}

// AwaitStop halts the dispatch goroutine like [Channel.Stop], and waits for it to exit.
// The timeout value sets a deadline for waiting.
func (c *Channel) AwaitStop(timeout time.Duration) {
	c.Stop()
	select {
	case <-c.done:
	case <-time.After(timeout):
	}
}
