package core

import (
	"time"

	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/pathfind"
)

// Kind identifies which role record an entity carries
type Kind uint8

const (
	KindUnit Kind = iota
	KindBuilding
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBuilding:
		return "building"
	default:
		return "resource"
	}
}

// Entity is a unit, building or resource node owned by the world
type Entity struct {
	ID      EntityID
	Kind    Kind
	Faction Faction // FactionNone for resources

	Pos    maplib.Vec
	Y      float64 // ground height under Pos
	Facing float64 // radians, atan2(dx, dz)

	Health  Health
	Vision  int  // vision radius in tiles
	Visible bool // visible to the player this tick

	Unit     *Unit
	Building *Building
	Resource *Resource

	removed bool
}

// Alive reports whether the entity is still part of the world
func (e *Entity) Alive() bool { return e != nil && !e.removed }

// IsCombat reports whether the entity is a unit with a weapon
func (e *Entity) IsCombat() bool { return e.Unit != nil && e.Unit.Weapon.Damage > 0 }

// IsHarvester reports whether the entity is a unit that carries resources
func (e *Entity) IsHarvester() bool { return e.Unit != nil && e.Unit.Cargo.Capacity > 0 }

// ---- Health ----

// Health represents hit points. Current may dip below zero on the killing blow.
type Health struct {
	Current int
	Max     int
}

func (h Health) Ratio() float64 {
	if h.Max <= 0 || h.Current <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}

// ---- Units ----

// UnitType names a producible unit
type UnitType string

const (
	Harvester UnitType = "harvester"
	LightTank UnitType = "lightTank"
	HeavyTank UnitType = "heavyTank"
)

// UnitState is the behavior state of a unit
type UnitState uint8

const (
	StateIdle UnitState = iota
	StateMoving
	StateAttacking
	StateMovingToResource
	StateHarvesting
	StateReturningToBase
	StateUnloading
)

var stateNames = [...]string{"idle", "moving", "attacking", "movingToResource", "harvesting", "returningToBase", "unloading"}

func (s UnitState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Weapon is a direct-fire weapon gated by range and cooldown
type Weapon struct {
	Damage   int
	Range    float64
	Cooldown time.Duration
	ReadyAt  time.Duration // sim time when the next shot is allowed
}

// Cargo is a harvester's load
type Cargo struct {
	Carried  int
	Capacity int
	Rate     int // extracted per harvesting tick
}

// Unit is the mobile part of an entity
type Unit struct {
	Type   UnitType
	State  UnitState
	Weapon Weapon
	Speed  float64 // world units per tick
	Path   []maplib.Vec
	Target EntityID // re-resolved through the world on every use
	Cargo  Cargo

	// RetryAt delays the next automatic path request after an unreachable result
	RetryAt time.Duration
}

// ---- Buildings ----

// BuildingType names a constructible building
type BuildingType string

const (
	CommandCenter BuildingType = "commandCenter"
	Barracks      BuildingType = "barracks"
	WarFactory    BuildingType = "warFactory"
	PowerPlant    BuildingType = "powerPlant"
)

// Production is a building's unit production line
type Production struct {
	Active   bool
	Type     UnitType
	Progress float64 // 0-100
	Queue    []UnitType
}

// Busy reports whether anything is in production or queued
func (p *Production) Busy() bool { return p.Active || len(p.Queue) > 0 }

// Next pops the queue head into the active slot. Returns false if the queue is empty.
func (p *Production) Next() bool {
	if len(p.Queue) == 0 {
		p.Active = false
		p.Type = ""
		return false
	}
	p.Type = p.Queue[0]
	p.Queue = p.Queue[1:]
	p.Active = true
	p.Progress = 0
	return true
}

// Building is the static part of an entity
type Building struct {
	Type         BuildingType
	Width, Depth float64
	Footprint    pathfind.Footprint

	Construction float64 // 0-100
	Constructing bool

	Production Production
	Rally      maplib.Vec

	PowerGen int
	PowerUse int
}

// ConstructionFraction returns construction progress in [0, 1]
func (b *Building) ConstructionFraction() float64 {
	return min(1, max(0, b.Construction/100))
}

// IsRefinery reports whether harvesters may unload here
func (b *Building) IsRefinery() bool {
	return b.Type == CommandCenter && !b.Constructing
}

// DistanceToFootprint returns the distance from p to the edge of the carved tiles
func (b *Building) DistanceToFootprint(p maplib.Vec) float64 {
	lo := maplib.TileCenter(b.Footprint.Min)
	hi := maplib.TileCenter(b.Footprint.Max)
	half := maplib.TileSize / 2
	dx := max(lo.X-half-p.X, 0, p.X-(hi.X+half))
	dz := max(lo.Z-half-p.Z, 0, p.Z-(hi.Z+half))
	return maplib.Vec{X: dx, Z: dz}.Len()
}

// ---- Resources ----

// ResourceCapacity is the starting amount of every resource node
const ResourceCapacity = 5000

// Resource is a harvestable node
type Resource struct {
	Amount   int
	Capacity int
}

// Scale is the visual size factor: 1 when full, 0.5 when empty
func (r *Resource) Scale() float64 {
	if r.Capacity <= 0 {
		return 0.5
	}
	depletion := 1 - float64(r.Amount)/float64(r.Capacity)
	return 1 - depletion*0.5
}
