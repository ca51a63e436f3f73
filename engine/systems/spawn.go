package systems

import (
	"fmt"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/pathfind"
)

// CreateUnit spawns a unit of type t in the idle state
func CreateUnit(w *core.World, t core.UnitType, f core.Faction, at maplib.Vec) (*core.Entity, error) {
	def, ok := Units[t]
	if !ok {
		return nil, fmt.Errorf("create unit %q: %w", t, ErrUnknownType)
	}
	e := &core.Entity{
		Kind:    core.KindUnit,
		Faction: f,
		Pos:     at,
		Health:  core.Health{Current: def.HP, Max: def.HP},
		Vision:  def.Vision,
		Unit: &core.Unit{
			Type:   t,
			State:  core.StateIdle,
			Speed:  def.Speed,
			Weapon: core.Weapon{Damage: def.Damage, Range: def.Range, Cooldown: WeaponCooldown},
			Cargo:  core.Cargo{Capacity: def.Capacity, Rate: def.Rate},
		},
	}
	w.Spawn(e)
	return e, nil
}

// CreateBuilding spawns a building and carves its footprint. Only command
// centers start complete. Placement is the caller's concern.
func CreateBuilding(w *core.World, t core.BuildingType, f core.Faction, at maplib.Vec) (*core.Entity, error) {
	def, ok := Buildings[t]
	if !ok {
		return nil, fmt.Errorf("create building %q: %w", t, ErrUnknownType)
	}
	b := &core.Building{
		Type:         t,
		Width:        def.Width,
		Depth:        def.Depth,
		Footprint:    pathfind.FootprintAt(at, def.Width, def.Depth),
		Constructing: t != core.CommandCenter,
		Rally:        at.Add(maplib.Vec{Z: RallyOffset}),
		PowerGen:     def.PowerGen,
		PowerUse:     def.PowerUse,
	}
	if !b.Constructing {
		b.Construction = 100
	}
	e := &core.Entity{
		Kind:     core.KindBuilding,
		Faction:  f,
		Pos:      at,
		Health:   core.Health{Current: def.HP, Max: def.HP},
		Vision:   BuildingVision,
		Building: b,
	}
	w.Spawn(e)
	return e, nil
}

// CreateResourceNode spawns a full resource node
func CreateResourceNode(w *core.World, at maplib.Vec) *core.Entity {
	e := &core.Entity{
		Kind:     core.KindResource,
		Faction:  core.FactionNone,
		Pos:      at,
		Resource: &core.Resource{Amount: core.ResourceCapacity, Capacity: core.ResourceCapacity},
	}
	w.Spawn(e)
	return e
}

// baseUnit is a starting unit relative to its command center
type baseUnit struct {
	t      core.UnitType
	offset maplib.Vec
}

var startingUnits = [2][]baseUnit{
	core.FactionPlayer: {
		{core.Harvester, maplib.Vec{X: 30}},
		{core.LightTank, maplib.Vec{Z: 30}},
		{core.LightTank, maplib.Vec{X: -30}},
	},
	core.FactionEnemy: {
		{core.Harvester, maplib.Vec{X: -30}},
		{core.LightTank, maplib.Vec{Z: -30}},
		{core.LightTank, maplib.Vec{X: 30}},
	},
}

// SetupSkirmish creates both bases, starting units, resource nodes and
// economies from a terrain map
func SetupSkirmish(w *core.World, tm *maplib.TerrainMap) error {
	for _, f := range core.Factions {
		base := tm.Start(int(f))
		w.Economy[f] = core.Economy{Credits: StartingCredits, Power: StartingPower}
		if _, err := CreateBuilding(w, core.CommandCenter, f, base); err != nil {
			return err
		}
		for _, su := range startingUnits[f] {
			if _, err := CreateUnit(w, su.t, f, base.Add(su.offset)); err != nil {
				return err
			}
		}
	}
	if len(tm.ResourceNodes) == 0 {
		tm.PlaceResources(w.Rand, maplib.ResourceNodeCount)
	}
	for _, p := range tm.ResourceNodes {
		CreateResourceNode(w, p)
	}
	w.Log.Info("skirmish ready",
		"player_base", tm.Start(0), "enemy_base", tm.Start(1),
		"resources", len(tm.ResourceNodes))
	return nil
}
