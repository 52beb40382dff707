package ecs

import (
	"github.com/phanxgames/marionette"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EventType is the Donburi event type for every stage event.
var EventType = events.NewEventType[marionette.Event]()

// HitEventType receives only EventHit events, for systems that react to
// taps on figures.
var HitEventType = events.NewEventType[marionette.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued and delivered by ProcessEvents or events.ProcessAllEvents.
func NewDonburiSink(world donburi.World) marionette.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(e marionette.Event) {
	EventType.Publish(s.world, e)
	if e.Type == marionette.EventHit {
		HitEventType.Publish(s.world, e)
	}
}
