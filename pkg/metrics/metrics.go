// Package metrics exposes Prometheus collectors for the simulation loop,
// spacecraft journeys and control commands.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Journey result label values.
const (
	JourneyStarted   = "started"
	JourneyCompleted = "completed"
	JourneyRejected  = "rejected"
)

// Collector bundles the orrery metrics and the gatherer that serves them.
type Collector struct {
	gatherer prometheus.Gatherer

	Frames           prometheus.Counter
	FrameDuration    prometheus.Histogram
	Bodies           prometheus.Gauge
	Journeys         *prometheus.CounterVec
	JourneyActive    prometheus.Gauge
	Commands         *prometheus.CounterVec
	TraceTransitions *prometheus.CounterVec
	StreamClients    prometheus.Gauge
}

// NewCollector registers the orrery metrics against reg, defaulting to the
// global registry when nil. Registering twice against the same registry
// returns the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.Frames, err = register[prometheus.Counter](reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_frames_total",
		Help: "Simulation frames completed.",
	}), "orrery_frames_total"); err != nil {
		return nil, err
	}
	if c.FrameDuration, err = register[prometheus.Histogram](reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orrery_frame_duration_seconds",
		Help:    "Wall time spent updating one simulation frame.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
	}), "orrery_frame_duration_seconds"); err != nil {
		return nil, err
	}
	if c.Bodies, err = register[prometheus.Gauge](reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_bodies",
		Help: "Celestial bodies in the simulated system.",
	}), "orrery_bodies"); err != nil {
		return nil, err
	}
	if c.Journeys, err = register[*prometheus.CounterVec](reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_journeys_total",
		Help: "Spacecraft journeys, labeled by outcome.",
	}, []string{"result"}), "orrery_journeys_total"); err != nil {
		return nil, err
	}
	if c.JourneyActive, err = register[prometheus.Gauge](reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_journey_in_progress",
		Help: "1 while the spacecraft is traveling.",
	}), "orrery_journey_in_progress"); err != nil {
		return nil, err
	}
	if c.Commands, err = register[*prometheus.CounterVec](reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_commands_total",
		Help: "Control commands applied, labeled by command and result.",
	}, []string{"command", "result"}), "orrery_commands_total"); err != nil {
		return nil, err
	}
	if c.TraceTransitions, err = register[*prometheus.CounterVec](reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_trace_transitions_total",
		Help: "Orbit traces entering or leaving full-ellipse mode.",
	}, []string{"direction"}), "orrery_trace_transitions_total"); err != nil {
		return nil, err
	}
	if c.StreamClients, err = register[prometheus.Gauge](reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_stream_clients",
		Help: "Connected snapshot stream clients.",
	}), "orrery_stream_clients"); err != nil {
		return nil, err
	}

	return c, nil
}

// Handler serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// ObserveFrame records one completed frame.
func (c *Collector) ObserveFrame(d time.Duration) {
	if c == nil {
		return
	}
	c.Frames.Inc()
	c.FrameDuration.Observe(d.Seconds())
}

// SetBodies sets the body gauge.
func (c *Collector) SetBodies(n int) {
	if c == nil {
		return
	}
	c.Bodies.Set(float64(n))
}

// SetStreamClients sets the connected stream client gauge.
func (c *Collector) SetStreamClients(n int) {
	if c == nil {
		return
	}
	c.StreamClients.Set(float64(n))
}

// Subscribe feeds journey, trace and command events from bus into the
// collector. The returned function removes the subscriptions.
func (c *Collector) Subscribe(bus *event.Bus) func() {
	subs := []*event.Subscription{
		bus.Subscribe(event.JourneyStarted, func(event.Event) {
			c.Journeys.WithLabelValues(JourneyStarted).Inc()
			c.JourneyActive.Set(1)
		}),
		bus.Subscribe(event.JourneyCompleted, func(event.Event) {
			c.Journeys.WithLabelValues(JourneyCompleted).Inc()
			c.JourneyActive.Set(0)
		}),
		bus.Subscribe(event.JourneyRejected, func(event.Event) {
			c.Journeys.WithLabelValues(JourneyRejected).Inc()
		}),
		bus.Subscribe(event.TraceTransition, func(e event.Event) {
			if te, ok := e.(*event.TraceEvent); ok {
				dir := "left"
				if te.Entered {
					dir = "entered"
				}
				c.TraceTransitions.WithLabelValues(dir).Inc()
			}
		}),
		bus.Subscribe(event.CommandApplied, c.countCommand("ok")),
		bus.Subscribe(event.CommandFailed, c.countCommand("error")),
	}

	return func() {
		for _, s := range subs {
			s.Cancel()
		}
	}
}

func (c *Collector) countCommand(result string) event.Handler {
	return func(e event.Event) {
		if ce, ok := e.(*event.CommandEvent); ok {
			c.Commands.WithLabelValues(ce.Command, result).Inc()
		}
	}
}

func register[T prometheus.Collector](reg prometheus.Registerer, col T, name string) (T, error) {
	if err := reg.Register(col); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return col, nil
}
