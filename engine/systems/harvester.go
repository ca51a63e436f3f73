package systems

import (
	"math"

	"github.com/1siamBot/rts-sim/engine/core"
)

// NearestResource returns the closest node with resources left, or nil
func NearestResource(w *core.World, e *core.Entity) *core.Entity {
	var best *core.Entity
	bestDist := math.MaxFloat64
	for _, r := range w.Resources() {
		if r.Resource.Amount <= 0 {
			continue
		}
		if d := e.Pos.DistanceTo(r.Pos); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

// NearestRefinery returns the closest completed refinery of the unit's faction, or nil
func NearestRefinery(w *core.World, e *core.Entity) *core.Entity {
	var best *core.Entity
	bestDist := math.MaxFloat64
	for _, b := range w.Buildings(e.Faction) {
		if !b.Building.IsRefinery() {
			continue
		}
		if d := e.Pos.DistanceTo(b.Pos); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}

// seekWork sends a harvester to the nearest resource, or home with what it carries
func seekWork(w *core.World, e *core.Entity) {
	u := e.Unit
	if u.Cargo.Carried < u.Cargo.Capacity {
		if r := NearestResource(w, e); r != nil {
			u.Target = r.ID
			u.State = core.StateMovingToResource
			return
		}
	}
	if u.Cargo.Carried > 0 {
		u.Target = 0
		u.State = core.StateReturningToBase
		return
	}
	setIdle(e)
}

// backOff idles a unit whose path request failed and delays its next attempt
func backOff(w *core.World, e *core.Entity) {
	setIdle(e)
	e.Unit.RetryAt = w.Now + PathRetryDelay
}

func stepMovingToResource(w *core.World, e *core.Entity) {
	u := e.Unit
	r := w.Get(u.Target)
	if r == nil || r.Resource == nil {
		setIdle(e)
		return
	}
	if e.Pos.DistanceTo(r.Pos) > HarvestReach {
		if !OrderMove(w, e, r.Pos) {
			backOff(w, e)
		}
		return
	}
	u.State = core.StateHarvesting
}

func stepHarvesting(w *core.World, e *core.Entity) {
	u := e.Unit
	node := w.Get(u.Target)
	if node == nil || node.Resource == nil || node.Resource.Amount <= 0 {
		seekWork(w, e)
		return
	}
	if u.Cargo.Carried >= u.Cargo.Capacity {
		u.Target = 0
		u.State = core.StateReturningToBase
		return
	}

	res := node.Resource
	amount := min(u.Cargo.Rate, res.Amount, u.Cargo.Capacity-u.Cargo.Carried)
	res.Amount -= amount
	u.Cargo.Carried += amount

	if res.Amount <= 0 {
		w.Events.Emit(core.Event{Type: core.EvtResourceDepleted, Tick: w.TickCount, Entity: node, Pos: node.Pos})
		w.Remove(node.ID)
		u.Target = 0
		u.State = core.StateReturningToBase
		return
	}
	if u.Cargo.Carried >= u.Cargo.Capacity {
		u.Target = 0
		u.State = core.StateReturningToBase
	}
}

func stepReturning(w *core.World, e *core.Entity) {
	u := e.Unit
	ref := w.Get(u.Target)
	if ref == nil || ref.Building == nil || ref.Faction != e.Faction || !ref.Building.IsRefinery() {
		ref = NearestRefinery(w, e)
		if ref == nil {
			backOff(w, e)
			return
		}
		u.Target = ref.ID
	}
	if ref.Building.DistanceToFootprint(e.Pos) > DockReach {
		if !OrderMove(w, e, ref.Pos) {
			backOff(w, e)
		}
		return
	}
	u.Path = nil
	u.State = core.StateUnloading
}

func stepUnloading(w *core.World, e *core.Entity) {
	u := e.Unit
	if u.Cargo.Carried > 0 {
		w.Economy[e.Faction].Credits += u.Cargo.Carried
		w.Events.Emit(core.Event{Type: core.EvtResourceUnloaded, Tick: w.TickCount, Entity: e, Pos: e.Pos, Payload: u.Cargo.Carried})
		u.Cargo.Carried = 0
	}
	if r := NearestResource(w, e); r != nil {
		u.Target = r.ID
		u.State = core.StateMovingToResource
		return
	}
	setIdle(e)
}
