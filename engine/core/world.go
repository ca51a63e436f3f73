package core

import (
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/pathfind"
)

// EntityID is a unique identifier for entities within one world
type EntityID uint64

// Outcome is the match result from the player's point of view
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeDraw:
		return "draw"
	default:
		return "in progress"
	}
}

// System processes the world each tick
type System interface {
	Update(w *World, dt float64)
	Priority() int
}

// World is the authoritative simulation state. Every subsystem receives it
// explicitly; nothing in the simulation reads global state.
type World struct {
	entities  map[EntityID]*Entity
	nextID    EntityID
	units     [2][]*Entity
	buildings [2][]*Entity
	resources []*Entity
	systems   []System

	Economy [2]Economy
	Grid    *pathfind.NavGrid
	Terrain maplib.Terrain
	// Fog holds per-faction visibility; a nil entry means that faction sees everything
	Fog [2]*FogOfWar

	Selection []EntityID
	Groups    map[int][]EntityID

	Events *EventBus
	Rand   *rand.Rand
	Log    *slog.Logger

	TickCount uint64
	TickRate  float64 // ticks per simulated second
	Now       time.Duration
	Outcome   Outcome
}

// NewWorld creates an empty world over the given terrain
func NewWorld(tickRate float64, terrain maplib.Terrain, seed int64) *World {
	if terrain == nil {
		terrain = maplib.FlatTerrain(0)
	}
	return &World{
		entities: make(map[EntityID]*Entity),
		Grid:     pathfind.NewNavGrid(terrain),
		Terrain:  terrain,
		Groups:   make(map[int][]EntityID),
		Events:   NewEventBus(),
		Rand:     rand.New(rand.NewSource(seed)),
		Log:      slog.Default(),
		TickRate: tickRate,
	}
}

// Spawn adds an entity to the world, assigning its ID. Buildings carve their
// footprint into the nav grid.
func (w *World) Spawn(e *Entity) EntityID {
	w.nextID++
	e.ID = w.nextID
	e.removed = false
	e.Y = w.Terrain.HeightAt(e.Pos.X, e.Pos.Z)
	w.entities[e.ID] = e
	switch e.Kind {
	case KindUnit:
		w.units[e.Faction] = append(w.units[e.Faction], e)
	case KindBuilding:
		w.buildings[e.Faction] = append(w.buildings[e.Faction], e)
		w.Grid.Carve(e.Building.Footprint)
	case KindResource:
		w.resources = append(w.resources, e)
	}
	w.Events.Emit(Event{Type: EvtEntitySpawned, Tick: w.TickCount, Entity: e, Pos: e.Pos})
	return e.ID
}

// Remove takes an entity out of the world. It returns false if the entity was
// already gone, so callers run their cleanup exactly once.
func (w *World) Remove(id EntityID) bool {
	e, ok := w.entities[id]
	if !ok {
		return false
	}
	delete(w.entities, id)
	e.removed = true
	switch e.Kind {
	case KindUnit:
		w.units[e.Faction] = removeEntity(w.units[e.Faction], e)
	case KindBuilding:
		w.buildings[e.Faction] = removeEntity(w.buildings[e.Faction], e)
		w.Grid.Release(e.Building.Footprint)
	case KindResource:
		w.resources = removeEntity(w.resources, e)
	}
	w.Selection = slices.DeleteFunc(w.Selection, func(s EntityID) bool { return s == id })
	w.Events.Emit(Event{Type: EvtEntityDestroyed, Tick: w.TickCount, Entity: e, Pos: e.Pos})
	return true
}

func removeEntity(list []*Entity, e *Entity) []*Entity {
	if i := slices.Index(list, e); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

// Get resolves an ID to a live entity, or nil
func (w *World) Get(id EntityID) *Entity {
	if id == 0 {
		return nil
	}
	return w.entities[id]
}

// Units returns a snapshot of a faction's units in creation order
func (w *World) Units(f Faction) []*Entity {
	if f > FactionEnemy {
		return nil
	}
	return slices.Clone(w.units[f])
}

// Buildings returns a snapshot of a faction's buildings in creation order
func (w *World) Buildings(f Faction) []*Entity {
	if f > FactionEnemy {
		return nil
	}
	return slices.Clone(w.buildings[f])
}

// Resources returns a snapshot of the remaining resource nodes
func (w *World) Resources() []*Entity {
	return slices.Clone(w.resources)
}

// UnitCount returns how many units a faction has
func (w *World) UnitCount(f Faction) int { return len(w.units[f]) }

// BuildingCount returns how many buildings a faction has
func (w *World) BuildingCount(f Faction) int { return len(w.buildings[f]) }

// FindBuilding returns the first building of a type owned by f, or nil
func (w *World) FindBuilding(f Faction, t BuildingType) *Entity {
	for _, b := range w.buildings[f] {
		if b.Building.Type == t {
			return b
		}
	}
	return nil
}

// EntityCount returns the number of live entities
func (w *World) EntityCount() int {
	return len(w.entities)
}

// CanSee applies fog of war: an observer always sees its own side, and sees
// others only on tiles its fog marks visible.
func (w *World) CanSee(observer Faction, e *Entity) bool {
	if !e.Alive() {
		return false
	}
	if e.Faction == observer || observer > FactionEnemy {
		return true
	}
	fog := w.Fog[observer]
	if fog == nil {
		return true
	}
	return fog.IsVisible(maplib.WorldToTile(e.Pos))
}

// HeightAt returns the terrain height under p
func (w *World) HeightAt(p maplib.Vec) float64 {
	return w.Terrain.HeightAt(p.X, p.Z)
}

// TickDuration is the simulated time covered by one tick
func (w *World) TickDuration() time.Duration {
	return time.Duration(float64(time.Second) / w.TickRate)
}

// AddSystem registers a system
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	// Sort by priority (simple insertion)
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i].Priority() < w.systems[i-1].Priority() {
			w.systems[i], w.systems[i-1] = w.systems[i-1], w.systems[i]
		}
	}
}

// Over reports whether the match has been decided
func (w *World) Over() bool { return w.Outcome != OutcomeNone }

// Tick runs all systems once, then delivers the events they emitted.
// A decided match no longer advances.
func (w *World) Tick(dt float64) {
	if w.Over() {
		return
	}
	for _, s := range w.systems {
		s.Update(w, dt)
	}
	w.TickCount++
	w.Now = time.Duration(float64(w.TickCount) / w.TickRate * float64(time.Second))
	w.Events.Dispatch()
}
