package systems

import (
	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/pathfind"
)

// UnitSystem drives every unit's state machine once per tick, including
// movement, firing and harvesting
type UnitSystem struct{}

func (s *UnitSystem) Priority() int { return 10 }

func (s *UnitSystem) Update(w *core.World, _ float64) {
	for _, f := range core.Factions {
		for _, e := range w.Units(f) {
			if !e.Alive() {
				continue
			}
			StepUnit(w, e)
		}
	}
}

// StepUnit runs one tick of a unit's state machine
func StepUnit(w *core.World, e *core.Entity) {
	before := e.Unit.State
	switch before {
	case core.StateIdle:
		stepIdle(w, e)
	case core.StateMoving:
		stepMoving(w, e)
	case core.StateAttacking:
		stepAttacking(w, e)
	case core.StateMovingToResource:
		stepMovingToResource(w, e)
	case core.StateHarvesting:
		stepHarvesting(w, e)
	case core.StateReturningToBase:
		stepReturning(w, e)
	case core.StateUnloading:
		stepUnloading(w, e)
	default:
		e.Unit.State = core.StateIdle
	}
	if e.Alive() && e.Unit.State != before {
		w.Log.Debug("unit state", "id", e.ID, "from", before, "to", e.Unit.State, "tick", w.TickCount)
	}
}

// setIdle drops path and target
func setIdle(e *core.Entity) {
	e.Unit.State = core.StateIdle
	e.Unit.Target = 0
	e.Unit.Path = nil
}

// autoEngages reports whether the unit picks fights on its own. Only the
// player's combat units do; the AI assigns targets itself.
func autoEngages(e *core.Entity) bool {
	return e.IsCombat() && e.Faction == core.FactionPlayer
}

func stepIdle(w *core.World, e *core.Entity) {
	u := e.Unit
	if autoEngages(e) {
		if enemy := NearestEnemy(w, e, u.Weapon.Range); enemy != nil {
			u.Target = enemy.ID
			u.State = core.StateAttacking
			return
		}
	}
	if e.IsHarvester() && w.Now >= u.RetryAt {
		seekWork(w, e)
	}
}

func stepMoving(w *core.World, e *core.Entity) {
	u := e.Unit
	if len(u.Path) == 0 {
		setIdle(e)
		return
	}
	if followPath(w, e) {
		arrive(w, e)
		return
	}
	if autoEngages(e) {
		if enemy := NearestEnemy(w, e, u.Weapon.Range); enemy != nil {
			u.Target = enemy.ID
			u.Path = nil
			u.State = core.StateAttacking
			return
		}
	}
	if t := w.Get(u.Target); e.IsCombat() && t != nil && t.Faction == e.Faction.Opponent() &&
		w.CanSee(e.Faction, t) && InRange(e, t) {
		u.Path = nil
		u.State = core.StateAttacking
	}
}

// arrive picks the state after a path runs out, based on the outstanding target
func arrive(w *core.World, e *core.Entity) {
	u := e.Unit
	u.Path = nil
	t := w.Get(u.Target)
	switch {
	case t == nil:
		setIdle(e)
	case t.Kind == core.KindResource:
		u.State = core.StateHarvesting
	case t.Faction == e.Faction.Opponent():
		u.State = core.StateAttacking
	case e.IsHarvester() && t.Building != nil && t.Faction == e.Faction:
		u.State = core.StateReturningToBase
	default:
		setIdle(e)
	}
}

func stepAttacking(w *core.World, e *core.Entity) {
	u := e.Unit
	t := w.Get(u.Target)
	if t == nil || !e.IsCombat() || t.Faction != e.Faction.Opponent() || !w.CanSee(e.Faction, t) {
		setIdle(e)
		return
	}
	if !InRange(e, t) {
		if !OrderMove(w, e, t.Pos) {
			setIdle(e)
		}
		return
	}
	u.Path = nil
	e.Facing = pathfind.HeadingTo(e.Pos, t.Pos)
	TryFire(w, e, t)
}
