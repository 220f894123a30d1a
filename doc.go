/*
Package eventchannel provides a bounded, in-process event dispatch hub that decouples event producers from consumers in an application.

# Design Priorities

Here are the design priorities of the implementation:

  - Producers and consumers should never share more than the [Channel] itself, so either side can change without the other noticing.
  - Backpressure should be built in: a fixed-capacity queue blocks producers rather than growing without bound.
  - Dispatch should be deterministic: one goroutine drains the queue in FIFO order, and handlers are invoked in registration order.
  - Failures should be loud. A handler returning an error is a programming error, and the channel halts rather than silently dropping events per-handler.

# Channel Primitives

An [Event] is an opaque payload. The channel doesn't inspect it beyond passing it to each registered [Predicate], so any type that's meaningful to the application can be dispatched.

A [Handler] is registered together with a [Predicate] using [Channel.AddHandler].
The predicate decides which events the handler receives, and [MatchAll] can be used when a handler wants everything.
[Channel.AddOneOffHandler] registers a handler that removes itself after its first successful invocation; it will never fire twice.

Both registration methods return a [HandlerDescriptor], which identifies exactly that registration.
Calling [HandlerDescriptor.Remove] unregisters it, even if the same predicate and handler functions were registered more than once.
Removing a handler twice is safe; the second call is logged and otherwise does nothing.

# Channel Initialization

There are two distinct ways to initialize a [Channel]:
  - Use the [Instance] function to get a global singleton Channel, optionally configured up front with [InitInstance].
  - Use the [New] function to get an instance.

Configuration uses [ConfigFunc] options: [Capacity] sizes the event queue (64 by default), [Logger] attaches a diagnostic [log/slog.Logger], [FromEnv] reads deployment overrides from the environment, and [DiscardPendingOnHalt] controls what happens to queued events when dispatch halts.

To start propagation of events, use [Channel.Start] with a context.
Exactly one dispatch goroutine is created, no matter how many times Start is called.
When the context is cancelled, or [Channel.Stop] is called, the dispatch goroutine exits cleanly after finishing the event it's working on.
To stop the channel and wait for processing to fully stop, use [Channel.AwaitStop].

# Event Flow

Producers use [Channel.Submit] to enqueue events, blocking while the queue is full.
The dispatch goroutine takes one event at a time and invokes every matching handler in registration order, under the same lock used for registration, so adding or removing a handler never races with an in-flight dispatch.

If a handler returns an error, dispatch of the current event is abandoned and the channel halts permanently.
This is deliberate: it surfaces programming errors immediately instead of quietly skipping a broken handler forever.
Note that producers don't get an error from this - Submit keeps succeeding until the queue fills - so applications that care should watch [Channel.Status] or [Channel.Done].

Note that calling registration or removal methods from inside a handler or predicate will deadlock, since dispatch holds the registry lock while they run.
To remove a handler after some event, prefer [Channel.AddOneOffHandler], or remove it from another goroutine.
*/
package eventchannel
