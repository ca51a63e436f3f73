package core

import "github.com/1siamBot/rts-sim/engine/maplib"

// Event represents a simulation event
type Event struct {
	Type    EventType
	Tick    uint64
	Entity  *Entity // subject, may already be removed from the world
	Pos     maplib.Vec
	Payload interface{}
}

type EventType uint16

const (
	EvtEntitySpawned EventType = iota
	EvtEntityDestroyed
	EvtDamaged   // payload: DamagePayload, drives the hit flash
	EvtExplosion // destruction effect at Pos
	EvtWeaponFired
	EvtConstructionComplete
	EvtUnitProduced
	EvtResourceUnloaded // payload: int credits
	EvtResourceDepleted
	EvtAIModeChanged // payload: the new mode
	EvtGameOver      // payload: Outcome
)

// DamagePayload describes one hit
type DamagePayload struct {
	Source EntityID
	Amount int
}

// EventBus dispatches events to listeners
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// Emit queues an event for dispatch
func (eb *EventBus) Emit(e Event) {
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int { return len(eb.queue) }

// Dispatch processes all queued events. Handlers may emit; those events are
// delivered in the same call.
func (eb *EventBus) Dispatch() {
	for i := 0; i < len(eb.queue); i++ {
		e := eb.queue[i]
		for _, h := range eb.listeners[e.Type] {
			h(e)
		}
	}
	eb.queue = eb.queue[:0]
}
