package eventbus

import (
	"io"
	"log/slog"
)

// Name identifies an event on the bus.
type Name string

const (
	SwitchCursorTool        Name = "switchcursortool"
	CursorToolChanged       Name = "cursortoolchanged"
	PresentationModeChanged Name = "presentationmodechanged"
	Resize                  Name = "resize"

	PresentationMode   Name = "presentationmode"
	OpenFile           Name = "openfile"
	Print              Name = "print"
	Download           Name = "download"
	FirstPage          Name = "firstpage"
	LastPage           Name = "lastpage"
	RotateCW           Name = "rotatecw"
	RotateCCW          Name = "rotateccw"
	DocumentProperties Name = "documentproperties"
)

// Details carries the named payload fields of an event.
type Details map[string]any

// Event is delivered to every handler subscribed to Name.
type Event struct {
	Name    Name
	Source  any
	Details Details
}

// Value returns the payload field stored under key.
func (e Event) Value(key string) (any, bool) {
	if e.Details == nil {
		return nil, false
	}
	v, ok := e.Details[key]
	return v, ok
}

// Bool returns the payload field stored under key, or false when it is
// missing or not a bool.
func (e Event) Bool(key string) bool {
	v, _ := e.Value(key)
	b, _ := v.(bool)
	return b
}

// Handler reacts to a dispatched event.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous in-process publish/subscribe channel. It is meant to
// be driven from a single goroutine (the Bubble Tea update loop).
type Bus struct {
	logger   *slog.Logger
	handlers map[Name][]subscription
	nextID   uint64
}

// Option customises bus behaviour.
type Option func(*Bus)

// WithLogger sets the logger used to report failing handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New constructs an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		handlers: make(map[Name][]subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// On registers handler for name. The returned function removes it again.
func (b *Bus) On(name Name, handler Handler) func() {
	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], subscription{id: id, handler: handler})
	return func() {
		b.off(name, id)
	}
}

func (b *Bus) off(name Name, id uint64) {
	subs := b.handlers[name]
	for i, sub := range subs {
		if sub.id != id {
			continue
		}
		next := make([]subscription, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		if len(next) == 0 {
			delete(b.handlers, name)
		} else {
			b.handlers[name] = next
		}
		return
	}
}

// Dispatch delivers the event to every handler registered for name at the
// time of the call. A handler that panics is logged and skipped; the
// remaining handlers still run.
func (b *Bus) Dispatch(name Name, source any, details Details) {
	subs := b.handlers[name]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)

	evt := Event{Name: name, Source: source, Details: details}
	for _, sub := range snapshot {
		b.deliver(sub, evt)
	}
}

func (b *Bus) deliver(sub subscription, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event", string(evt.Name),
				"subscription", sub.id,
				"panic", r)
		}
	}()
	sub.handler(evt)
}

// Subscribers reports how many handlers are registered for name.
func (b *Bus) Subscribers(name Name) int {
	return len(b.handlers[name])
}
