package systems

import (
	"fmt"
	"slices"

	"github.com/1siamBot/rts-sim/engine/core"
)

// Execute applies one command to the world. Rejected commands return an
// error and leave the world unchanged, except that a move nobody can path
// still idles the ordered units before returning ErrUnreachable.
func Execute(w *core.World, cmd core.Command) error {
	if w.Over() {
		return ErrGameOver
	}
	if cmd.Faction > core.FactionEnemy {
		w.Log.Debug("command rejected", "faction", cmd.Faction, "cmd", cmd.Type, "tick", w.TickCount, "error", ErrInvalidFaction)
		return ErrInvalidFaction
	}
	cmd.Tick = w.TickCount
	var err error
	switch cmd.Type {
	case core.CmdMove:
		err = execMove(w, cmd)
	case core.CmdAttack:
		err = execAttack(w, cmd)
	case core.CmdStop:
		err = forEachUnit(w, cmd, setIdle)
	case core.CmdHarvest:
		err = execHarvest(w, cmd)
	case core.CmdReturnToBase:
		err = forEachUnit(w, cmd, func(e *core.Entity) {
			if e.IsHarvester() {
				e.Unit.Path = nil
				e.Unit.Target = 0
				e.Unit.State = core.StateReturningToBase
			}
		})
	case core.CmdBuild:
		err = execBuild(w, cmd)
	case core.CmdProduce:
		err = execProduce(w, cmd)
	case core.CmdSetRally:
		var b *core.Entity
		if b, err = ownedBuilding(w, cmd); err == nil {
			b.Building.Rally = cmd.Pos
		}
	case core.CmdSelect:
		execSelect(w, cmd)
	case core.CmdAssignGroup:
		ids := cmd.Units
		if len(ids) == 0 {
			ids = w.Selection
		}
		w.Groups[cmd.Group] = slices.Clone(ids)
	case core.CmdRecallGroup:
		live := slices.DeleteFunc(slices.Clone(w.Groups[cmd.Group]), func(id core.EntityID) bool {
			return w.Get(id) == nil
		})
		w.Groups[cmd.Group] = live
		w.Selection = slices.Clone(live)
	default:
		err = fmt.Errorf("%w: %v", ErrUnknownCommand, cmd.Type)
	}
	if err != nil {
		w.Log.Debug("command rejected", "faction", cmd.Faction, "cmd", cmd.Type, "tick", cmd.Tick, "error", err)
	}
	return err
}

// actingUnits resolves the command's units (or the selection) to live units
// owned by the issuing faction
func actingUnits(w *core.World, cmd core.Command) []*core.Entity {
	ids := cmd.Units
	if len(ids) == 0 {
		ids = w.Selection
	}
	var out []*core.Entity
	for _, id := range ids {
		if e := w.Get(id); e != nil && e.Kind == core.KindUnit && e.Faction == cmd.Faction {
			out = append(out, e)
		}
	}
	return out
}

func forEachUnit(w *core.World, cmd core.Command, fn func(e *core.Entity)) error {
	units := actingUnits(w, cmd)
	if len(units) == 0 {
		return ErrUnknownEntity
	}
	for _, e := range units {
		fn(e)
	}
	return nil
}

func execMove(w *core.World, cmd core.Command) error {
	units := actingUnits(w, cmd)
	if len(units) == 0 {
		return ErrUnknownEntity
	}
	offsets := FormationOffsets(len(units))
	moved := 0
	for i, e := range units {
		e.Unit.Target = 0
		if OrderMove(w, e, cmd.Pos.Add(offsets[i])) {
			moved++
		} else {
			setIdle(e)
		}
	}
	if moved == 0 {
		return ErrUnreachable
	}
	return nil
}

func execAttack(w *core.World, cmd core.Command) error {
	target := w.Get(cmd.Target)
	if target == nil {
		return ErrUnknownEntity
	}
	if target.Faction != cmd.Faction.Opponent() || !w.CanSee(cmd.Faction, target) {
		return ErrInvalidTarget
	}
	units := actingUnits(w, cmd)
	ordered := 0
	for _, e := range units {
		if !e.IsCombat() {
			continue
		}
		e.Unit.Path = nil
		e.Unit.Target = target.ID
		e.Unit.State = core.StateAttacking
		ordered++
	}
	if ordered == 0 {
		return ErrUnknownEntity
	}
	return nil
}

func execHarvest(w *core.World, cmd core.Command) error {
	node := w.Get(cmd.Target)
	if cmd.Target != 0 && (node == nil || node.Resource == nil) {
		return ErrInvalidTarget
	}
	ordered := 0
	for _, e := range actingUnits(w, cmd) {
		if !e.IsHarvester() {
			continue
		}
		r := node
		if r == nil {
			if r = NearestResource(w, e); r == nil {
				continue
			}
		}
		e.Unit.Path = nil
		e.Unit.Target = r.ID
		e.Unit.State = core.StateMovingToResource
		ordered++
	}
	if ordered == 0 {
		return ErrUnknownEntity
	}
	return nil
}

func execBuild(w *core.World, cmd core.Command) error {
	def, ok := Buildings[cmd.Building]
	if !ok {
		return ErrUnknownType
	}
	if !IsAreaClear(w, cmd.Pos, cmd.Building) {
		return ErrInvalidPlacement
	}
	if !w.Economy[cmd.Faction].Spend(def.Cost) {
		return ErrInsufficientCredits
	}
	b, err := CreateBuilding(w, cmd.Building, cmd.Faction, cmd.Pos)
	if err != nil {
		return err
	}
	w.Log.Info("building placed", "id", b.ID, "type", cmd.Building, "faction", cmd.Faction, "tick", w.TickCount)
	return nil
}

func ownedBuilding(w *core.World, cmd core.Command) (*core.Entity, error) {
	b := w.Get(cmd.Target)
	if b == nil || b.Building == nil {
		return nil, ErrUnknownEntity
	}
	if b.Faction != cmd.Faction {
		return nil, ErrNotOwned
	}
	return b, nil
}

func execProduce(w *core.World, cmd core.Command) error {
	b, err := ownedBuilding(w, cmd)
	if err != nil {
		return err
	}
	udef, ok := Units[cmd.Unit]
	if !ok {
		return ErrUnknownType
	}
	if b.Building.Constructing || !Buildings[b.Building.Type].Produces(cmd.Unit) {
		return ErrCannotProduce
	}
	if !w.Economy[cmd.Faction].Spend(udef.Cost) {
		return ErrInsufficientCredits
	}
	Enqueue(b.Building, cmd.Unit)
	return nil
}

func execSelect(w *core.World, cmd core.Command) {
	if !cmd.Additive {
		w.Selection = w.Selection[:0]
	}
	for _, id := range cmd.Units {
		e := w.Get(id)
		if e == nil || e.Faction != cmd.Faction || slices.Contains(w.Selection, id) {
			continue
		}
		w.Selection = append(w.Selection, id)
	}
}
