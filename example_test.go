package eventchannel_test

import (
	"context"
	"fmt"
	"time"

	"github.com/saylorsolutions/eventchannel"
)

func ExampleChannel() {
	done := make(chan struct{})
	ch := eventchannel.New(eventchannel.Capacity(8))
	ch.AddOneOffHandler(eventchannel.MatchAll, func(evt eventchannel.Event) error {
		fmt.Println("received:", evt)
		close(done)
		return nil
	})
	ch.Start(context.Background())

	if err := ch.Submit(context.Background(), "hello"); err != nil {
		fmt.Println("submit failed:", err)
	}
	<-done
	ch.AwaitStop(time.Second)
	// Output: received: hello
}

func ExampleChannel_AddHandler() {
	type userCreated struct {
		name string
	}
	done := make(chan struct{})
	ch := eventchannel.New()
	descriptor := ch.AddHandler(func(evt eventchannel.Event) bool {
		_, ok := evt.(userCreated)
		return ok
	}, func(evt eventchannel.Event) error {
		fmt.Println("new user:", evt.(userCreated).name)
		return nil
	})
	// Registered last, so it observes each event after the handler above.
	ch.AddHandler(eventchannel.MatchAll, func(evt eventchannel.Event) error {
		if evt == "shutdown" {
			close(done)
		}
		return nil
	})
	ch.Start(context.Background())

	ctx := context.Background()
	_ = ch.Submit(ctx, userCreated{name: "ada"})
	_ = ch.Submit(ctx, "not a user event")
	_ = ch.Submit(ctx, userCreated{name: "grace"})
	_ = ch.Submit(ctx, "shutdown")
	<-done

	descriptor.Remove()
	ch.AwaitStop(time.Second)
	// Output:
	// new user: ada
	// new user: grace
}
