// Package events carries messages from background goroutines to the UI loop.
package events

// Event is anything delivered to the UI loop. Concrete types are switched on
// by the loop; unknown events are ignored.
type Event interface{}

// Tone selects how a status message is colored.
type Tone int

const (
	ToneNormal Tone = iota
	ToneSuccess
	ToneError
)

// Status replaces the text of the status line.
type Status struct {
	Text string
	Tone Tone
}

// Refresh asks the UI loop to re-sync panels and redraw.
type Refresh struct {
	Path string
}

// Bus is a multi-producer queue consumed by a single UI loop.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer size.
func NewBus(size int) *Bus {
	if size < 1 {
		size = 1
	}
	return &Bus{ch: make(chan Event, size)}
}

// Send enqueues ev without blocking the caller. When the buffer is full the
// send is handed to a goroutine, so order between two producers is not kept
// but each producer never waits on the UI.
func (b *Bus) Send(ev Event) {
	if b == nil || ev == nil {
		return
	}
	select {
	case b.ch <- ev:
	default:
		go func() { b.ch <- ev }()
	}
}

// SendBlocking enqueues ev and waits for buffer space. Producers that must keep
// their own events in order (one process's read chunks before its exit event)
// use this instead of Send.
func (b *Bus) SendBlocking(ev Event) {
	if b == nil || ev == nil {
		return
	}
	b.ch <- ev
}

// Status is a shorthand for sending a Status event.
func (b *Bus) Status(text string, tone Tone) {
	b.Send(Status{Text: text, Tone: tone})
}

// C exposes the receive side for the UI loop.
func (b *Bus) C() <-chan Event {
	return b.ch
}
