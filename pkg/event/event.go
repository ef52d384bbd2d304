// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	JourneyStarted    Type = "journey_started"
	JourneyCompleted  Type = "journey_completed"
	JourneyRejected   Type = "journey_rejected"
	TraceTransition   Type = "trace_transition"
	CommandApplied    Type = "command_applied"
	CommandFailed     Type = "command_failed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is a handle to a registered handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type. Calling Cancel
// on the returned subscription removes it; repeated calls are harmless.
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
}

// Publish sends an event to all subscribed handlers synchronously, in
// subscription order.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := append([]registration(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// Specific event implementations

// JourneyEvent describes a spacecraft journey starting, ending or being
// refused.
type JourneyEvent struct {
	BaseEvent
	Craft  string
	From   string
	To     string
	Result string
}

// NewJourneyEvent creates a new journey event
func NewJourneyEvent(eventType Type, source interface{}, craft, from, to, result string) *JourneyEvent {
	return &JourneyEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Craft:  craft,
		From:   from,
		To:     to,
		Result: result,
	}
}

// TraceEvent is published when a body's trace enters or leaves the
// full-ellipse mode.
type TraceEvent struct {
	BaseEvent
	Body    string
	Entered bool
}

// NewTraceEvent creates a new trace event
func NewTraceEvent(source interface{}, body string, entered bool) *TraceEvent {
	return &TraceEvent{
		BaseEvent: BaseEvent{
			EventType: TraceTransition,
			Source:    source,
		},
		Body:    body,
		Entered: entered,
	}
}

// CommandEvent reports the outcome of a control command.
type CommandEvent struct {
	BaseEvent
	Command string
	Err     error
}

// NewCommandEvent creates a CommandApplied event, or CommandFailed when err
// is non-nil.
func NewCommandEvent(source interface{}, command string, err error) *CommandEvent {
	t := CommandApplied
	if err != nil {
		t = CommandFailed
	}
	return &CommandEvent{
		BaseEvent: BaseEvent{
			EventType: t,
			Source:    source,
		},
		Command: command,
		Err:     err,
	}
}
