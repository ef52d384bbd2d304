package event

import (
	"errors"
	"sync"
	"testing"
)

func TestNewEventBus_Initialized(t *testing.T) {
	bus := NewEventBus()
	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}
	if bus.handlers == nil {
		t.Error("handlers map should be initialized")
	}
	if bus.nextID != 1 {
		t.Errorf("nextID = %d, want 1", bus.nextID)
	}
}

func TestBaseEvent_Accessors(t *testing.T) {
	e := &BaseEvent{EventType: SimulationStarted, Source: "sim"}
	if e.GetType() != SimulationStarted {
		t.Errorf("GetType() = %v", e.GetType())
	}
	if e.GetSource() != "sim" {
		t.Errorf("GetSource() = %v", e.GetSource())
	}
}

func TestBusSubscribe_ReturnsSubscription(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(JourneyStarted, func(Event) {})
	if sub == nil {
		t.Fatal("Subscribe() returned nil subscription")
	}
	if sub.ID == 0 {
		t.Error("subscription ID should not be 0")
	}
	if sub.Cancel == nil {
		t.Error("subscription Cancel function should not be nil")
	}

	bus.mu.RLock()
	n := len(bus.handlers[JourneyStarted])
	bus.mu.RUnlock()
	if n != 1 {
		t.Errorf("expected 1 handler, got %d", n)
	}
}

func TestBusSubscribe_MultipleHandlers_UniqueIDs(t *testing.T) {
	bus := NewEventBus()
	sub1 := bus.Subscribe(JourneyStarted, func(Event) {})
	sub2 := bus.Subscribe(JourneyStarted, func(Event) {})
	bus.Subscribe(JourneyCompleted, func(Event) {})

	if sub1.ID == sub2.ID {
		t.Error("subscriptions should have unique IDs")
	}

	bus.mu.RLock()
	started := len(bus.handlers[JourneyStarted])
	completed := len(bus.handlers[JourneyCompleted])
	bus.mu.RUnlock()
	if started != 2 || completed != 1 {
		t.Errorf("handler counts = %d, %d; want 2, 1", started, completed)
	}
}

func TestBusPublish_CallsHandlersInOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int
	bus.Subscribe(SimulationStarted, func(Event) { order = append(order, 1) })
	bus.Subscribe(SimulationStarted, func(Event) { order = append(order, 2) })
	bus.Subscribe(SimulationStopped, func(Event) { order = append(order, 3) })

	bus.Publish(&BaseEvent{EventType: SimulationStarted})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
}

func TestBusPublish_NoSubscribers_NoPanic(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(&BaseEvent{EventType: TraceTransition})
}

func TestSubscriptionCancel_RemovesHandler(t *testing.T) {
	bus := NewEventBus()
	called := false
	keep := 0
	sub := bus.Subscribe(JourneyRejected, func(Event) { called = true })
	bus.Subscribe(JourneyRejected, func(Event) { keep++ })

	sub.Cancel()
	sub.Cancel()

	bus.Publish(&BaseEvent{EventType: JourneyRejected})

	if called {
		t.Error("handler should not be called after cancellation")
	}
	if keep != 1 {
		t.Errorf("remaining handler called %d times, want 1", keep)
	}
}

func TestSubscriptionCancel_LastHandler_DeletesType(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(CommandApplied, func(Event) {})
	sub.Cancel()

	bus.mu.RLock()
	_, ok := bus.handlers[CommandApplied]
	bus.mu.RUnlock()
	if ok {
		t.Error("event type should be removed once it has no handlers")
	}
}

func TestBusPublish_HandlerSubscribes_NoDeadlock(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe(SimulationStarted, func(Event) {
		bus.Subscribe(SimulationStopped, func(Event) {})
	})
	bus.Publish(&BaseEvent{EventType: SimulationStarted})

	bus.mu.RLock()
	n := len(bus.handlers[SimulationStopped])
	bus.mu.RUnlock()
	if n != 1 {
		t.Errorf("expected nested subscription to register, got %d", n)
	}
}

func TestBus_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0

	const subscribers = 10
	wg.Add(subscribers)
	for i := 0; i < subscribers; i++ {
		go func() {
			defer wg.Done()
			bus.Subscribe(TraceTransition, func(Event) {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			bus.Publish(&BaseEvent{EventType: TraceTransition})
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != subscribers*3 {
		t.Errorf("expected %d handler calls, got %d", subscribers*3, count)
	}
}

func TestNewJourneyEvent_Fields(t *testing.T) {
	e := NewJourneyEvent(JourneyStarted, "sim", "Apollo 21", "Earth", "Mars", "started")
	if e.GetType() != JourneyStarted || e.GetSource() != "sim" {
		t.Errorf("base fields = %v, %v", e.GetType(), e.GetSource())
	}
	if e.Craft != "Apollo 21" || e.From != "Earth" || e.To != "Mars" || e.Result != "started" {
		t.Errorf("unexpected journey event %+v", e)
	}
}

func TestNewTraceEvent_Fields(t *testing.T) {
	e := NewTraceEvent(nil, "Mercury", true)
	if e.GetType() != TraceTransition {
		t.Errorf("GetType() = %v", e.GetType())
	}
	if e.Body != "Mercury" || !e.Entered {
		t.Errorf("unexpected trace event %+v", e)
	}
}

func TestNewCommandEvent_TypeFollowsError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Type
	}{
		{"success", nil, CommandApplied},
		{"failure", errors.New("boom"), CommandFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewCommandEvent(nil, "set_speed", tt.err)
			if e.GetType() != tt.want {
				t.Errorf("GetType() = %v, want %v", e.GetType(), tt.want)
			}
			if e.Command != "set_speed" || e.Err != tt.err {
				t.Errorf("unexpected command event %+v", e)
			}
		})
	}
}
