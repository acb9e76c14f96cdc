package events

import (
	"testing"
	"time"
)

func TestSendDoesNotBlockWhenFull(t *testing.T) {
	bus := NewBus(1)
	done := make(chan struct{})
	go func() {
		bus.Send(Status{Text: "one"})
		bus.Send(Status{Text: "two"})
		bus.Send(Status{Text: "three"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Send blocked on a full bus")
	}

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		select {
		case ev := <-bus.C():
			seen[ev.(Status).Text] = true
		case <-time.After(time.Second):
			t.Fatalf("expected three events, got %d", len(seen))
		}
	}
	if len(seen) != 3 {
		t.Fatalf("expected all events delivered, got %v", seen)
	}
}

func TestNilBusIgnoresSends(t *testing.T) {
	var bus *Bus
	bus.Send(Status{Text: "ignored"})
	bus.SendBlocking(Status{Text: "ignored"})
}
