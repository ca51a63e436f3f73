package systems

import (
	"math"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/pathfind"
)

// ApplyDamage subtracts health and destroys the target at zero or below.
// Damage to an entity that is already gone is ignored.
func ApplyDamage(w *core.World, target *core.Entity, amount int, source core.EntityID) {
	if !target.Alive() || target.Kind == core.KindResource {
		return
	}
	target.Health.Current -= amount
	w.Events.Emit(core.Event{
		Type:    core.EvtDamaged,
		Tick:    w.TickCount,
		Entity:  target,
		Pos:     target.Pos,
		Payload: core.DamagePayload{Source: source, Amount: amount},
	})
	if target.Health.Current <= 0 {
		Destroy(w, target)
	}
}

// Destroy removes an entity exactly once: explosion effect, removal from its
// collection and the selection, footprint release, then the win check.
func Destroy(w *core.World, e *core.Entity) bool {
	if !e.Alive() {
		return false
	}
	w.Events.Emit(core.Event{Type: core.EvtExplosion, Tick: w.TickCount, Entity: e, Pos: e.Pos})
	if !w.Remove(e.ID) {
		return false
	}
	w.Log.Info("entity destroyed", "id", e.ID, "kind", e.Kind, "faction", e.Faction, "tick", w.TickCount)
	CheckWinCondition(w)
	return true
}

// CheckWinCondition decides the match once a side has no command center
func CheckWinCondition(w *core.World) {
	if w.Over() {
		return
	}
	player := w.FindBuilding(core.FactionPlayer, core.CommandCenter) != nil
	enemy := w.FindBuilding(core.FactionEnemy, core.CommandCenter) != nil
	switch {
	case !player && enemy:
		w.Outcome = core.OutcomeDefeat
	case player && !enemy:
		w.Outcome = core.OutcomeVictory
	case !player && !enemy:
		w.Outcome = core.OutcomeDraw
	default:
		return
	}
	w.Log.Info("game over", "outcome", w.Outcome, "tick", w.TickCount)
	w.Events.Emit(core.Event{Type: core.EvtGameOver, Tick: w.TickCount, Payload: w.Outcome})
}

// InRange reports whether target is within the unit's weapon range
func InRange(u, target *core.Entity) bool {
	return u.Pos.DistanceTo(target.Pos) <= u.Unit.Weapon.Range
}

// TryFire shoots at target if the weapon has cooled down. Returns true on a shot.
func TryFire(w *core.World, u, target *core.Entity) bool {
	wep := &u.Unit.Weapon
	if wep.Damage <= 0 || w.Now < wep.ReadyAt || !target.Alive() {
		return false
	}
	u.Facing = pathfind.HeadingTo(u.Pos, target.Pos)
	wep.ReadyAt = w.Now + wep.Cooldown
	w.Events.Emit(core.Event{Type: core.EvtWeaponFired, Tick: w.TickCount, Entity: u, Pos: target.Pos})
	ApplyDamage(w, target, wep.Damage, u.ID)
	return true
}

// NearestEnemy returns the closest opposing unit or building the entity's
// faction can see, optionally limited to maxDist (<= 0 means unlimited)
func NearestEnemy(w *core.World, e *core.Entity, maxDist float64) *core.Entity {
	var best *core.Entity
	bestDist := math.MaxFloat64
	opp := e.Faction.Opponent()
	consider := func(c *core.Entity) {
		if !w.CanSee(e.Faction, c) {
			return
		}
		d := e.Pos.DistanceTo(c.Pos)
		if maxDist > 0 && d > maxDist {
			return
		}
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	for _, c := range w.Units(opp) {
		consider(c)
	}
	for _, c := range w.Buildings(opp) {
		consider(c)
	}
	return best
}
