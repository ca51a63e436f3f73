package systems

import (
	"time"

	"github.com/1siamBot/rts-sim/engine/core"
)

// UnitDef defines a unit type that can be produced
type UnitDef struct {
	Type     core.UnitType
	Cost     int
	HP       int
	Damage   int
	Range    float64
	Speed    float64 // world units per tick
	Vision   int     // tiles
	Capacity int     // harvesters only
	Rate     int     // harvesters only
}

// BuildingDef defines a building type
type BuildingDef struct {
	Type       core.BuildingType
	Cost       int
	HP         int
	Width      float64
	Depth      float64
	PowerGen   int
	PowerUse   int
	CanProduce []core.UnitType
}

// Fixed design parameters
const (
	WeaponCooldown   = 1000 * time.Millisecond
	DefaultVision    = 8
	BuildingVision   = 10
	StartingCredits  = 2000
	StartingPower    = 100
	ConstructionStep = 0.2 // construction progress per tick
	ProductionStep   = 0.5 // production progress per tick
	PlacementMargin  = 10.0
	RallyOffset      = 50.0
	WaypointReached  = 5.0
	HarvestReach     = 15.0
	DockReach        = 20.0
	PathRetryDelay   = time.Second
	FormationSpacing = 15.0
	EnemyStipend     = 10 // credits per simulated second
)

// Units holds every unit definition
var Units = map[core.UnitType]*UnitDef{
	core.Harvester: {Type: core.Harvester, Cost: 800, HP: 150, Range: 100, Speed: 0.5, Vision: DefaultVision, Capacity: 500, Rate: 5},
	core.LightTank: {Type: core.LightTank, Cost: 500, HP: 120, Damage: 15, Range: 150, Speed: 0.8, Vision: DefaultVision},
	core.HeavyTank: {Type: core.HeavyTank, Cost: 700, HP: 200, Damage: 25, Range: 120, Speed: 0.5, Vision: 6},
}

// Buildings holds every building definition
var Buildings = map[core.BuildingType]*BuildingDef{
	core.CommandCenter: {Type: core.CommandCenter, Cost: 1500, HP: 1000, Width: 40, Depth: 40, PowerUse: 25,
		CanProduce: []core.UnitType{core.Harvester}},
	core.Barracks:   {Type: core.Barracks, Cost: 500, HP: 500, Width: 30, Depth: 30, PowerUse: 25},
	core.WarFactory: {Type: core.WarFactory, Cost: 800, HP: 800, Width: 35, Depth: 45, PowerUse: 25,
		CanProduce: []core.UnitType{core.Harvester, core.LightTank, core.HeavyTank}},
	core.PowerPlant: {Type: core.PowerPlant, Cost: 300, HP: 300, Width: 30, Depth: 30, PowerGen: 100},
}

// Produces reports whether this building type can build a unit type
func (d *BuildingDef) Produces(t core.UnitType) bool {
	for _, u := range d.CanProduce {
		if u == t {
			return true
		}
	}
	return false
}
