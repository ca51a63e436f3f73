package systems

import (
	"github.com/1siamBot/rts-sim/engine/core"
)

// progressEpsilon absorbs float drift from the fractional construction step
const progressEpsilon = 1e-9

// BuildingSystem advances construction and production queues
type BuildingSystem struct{}

func (s *BuildingSystem) Priority() int { return 20 }

func (s *BuildingSystem) Update(w *core.World, _ float64) {
	for _, f := range core.Factions {
		for _, b := range w.Buildings(f) {
			if b.Alive() {
				StepBuilding(w, b)
			}
		}
	}
}

// StepBuilding runs one tick of construction or, once built, production
func StepBuilding(w *core.World, e *core.Entity) {
	b := e.Building
	if b.Constructing {
		b.Construction += ConstructionStep
		if b.Construction >= 100-progressEpsilon {
			b.Construction = 100
			b.Constructing = false
			w.Log.Info("construction complete", "id", e.ID, "type", b.Type, "faction", e.Faction, "tick", w.TickCount)
			w.Events.Emit(core.Event{Type: core.EvtConstructionComplete, Tick: w.TickCount, Entity: e, Pos: e.Pos})
		}
		return
	}

	p := &b.Production
	if !p.Active {
		if !p.Next() {
			return
		}
	}
	p.Progress += ProductionStep
	if p.Progress < 100-progressEpsilon {
		return
	}

	unit, err := CreateUnit(w, p.Type, e.Faction, b.Rally)
	if err != nil {
		w.Log.Warn("production failed", "building", e.ID, "unit", p.Type, "error", err)
	} else {
		w.Log.Info("unit produced", "id", unit.ID, "type", p.Type, "faction", e.Faction, "tick", w.TickCount)
		w.Events.Emit(core.Event{Type: core.EvtUnitProduced, Tick: w.TickCount, Entity: unit, Pos: unit.Pos})
	}
	p.Progress = 0
	p.Active = false
	p.Next()
}

// Enqueue starts production immediately if the line is free, else queues it
func Enqueue(b *core.Building, t core.UnitType) {
	p := &b.Production
	if !p.Active {
		p.Active = true
		p.Type = t
		p.Progress = 0
		return
	}
	p.Queue = append(p.Queue, t)
}
