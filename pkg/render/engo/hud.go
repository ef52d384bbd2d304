// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"strings"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/event"
)

// messageLifetime is how long a journey message stays in the status line.
const messageLifetime = 5 * time.Second

// HUDSystem shows the simulation status in the window title: the current
// target, speed, journey progress and the latest journey message.
type HUDSystem struct {
	sim      *engine.Simulation
	setTitle func(string)
	now      func() time.Time

	message   string
	messageAt time.Time
	lastTitle string

	cancel func()
}

// NewHUDSystem creates a HUD for sim and subscribes to its journey events.
func NewHUDSystem(sim *engine.Simulation) *HUDSystem {
	hud := &HUDSystem{
		sim:      sim,
		setTitle: engo.SetTitle,
		now:      time.Now,
	}
	hud.subscribe(sim.EventBus)
	return hud
}

func (hud *HUDSystem) subscribe(bus *event.Bus) {
	subs := []*event.Subscription{
		bus.Subscribe(event.JourneyStarted, hud.onJourney),
		bus.Subscribe(event.JourneyCompleted, hud.onJourney),
		bus.Subscribe(event.JourneyRejected, hud.onJourney),
	}
	hud.cancel = func() {
		for _, s := range subs {
			s.Cancel()
		}
	}
}

func (hud *HUDSystem) onJourney(e event.Event) {
	je, ok := e.(*event.JourneyEvent)
	if !ok {
		return
	}
	switch je.GetType() {
	case event.JourneyStarted:
		hud.AddMessage(fmt.Sprintf("%s departed %s for %s", je.Craft, je.From, je.To))
	case event.JourneyCompleted:
		hud.AddMessage(fmt.Sprintf("%s arrived at %s", je.Craft, je.To))
	case event.JourneyRejected:
		hud.AddMessage(fmt.Sprintf("journey refused: %s", je.Result))
	}
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the window title when the status changes.
func (hud *HUDSystem) Update(dt float32) {
	title := hud.Status()
	if title == hud.lastTitle {
		return
	}
	hud.lastTitle = title
	hud.setTitle(title)
}

// AddMessage shows msg for a few seconds.
func (hud *HUDSystem) AddMessage(msg string) {
	hud.message = msg
	hud.messageAt = hud.now()
}

// Status builds the status line.
func (hud *HUDSystem) Status() string {
	parts := []string{"Orrery"}

	if target := hud.sim.Target(); target != nil {
		parts = append(parts, "target "+target.Name)
	}
	if hud.sim.Running {
		parts = append(parts, fmt.Sprintf("%gx", hud.sim.Speed))
	} else {
		parts = append(parts, "paused")
	}
	if c := hud.sim.Craft; c != nil && c.Traveling() {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", c.Name, c.Progress()*100))
	}
	if hud.message != "" && hud.now().Sub(hud.messageAt) < messageLifetime {
		parts = append(parts, hud.message)
	}

	return strings.Join(parts, " | ")
}

// Close drops the event subscriptions.
func (hud *HUDSystem) Close() {
	if hud.cancel != nil {
		hud.cancel()
		hud.cancel = nil
	}
}
