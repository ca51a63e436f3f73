package systems

import (
	"errors"
	"slices"
	"testing"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
)

func TestExecute_Build(t *testing.T) {
	w := newTestWorld()
	mustBuilding(t, w, core.CommandCenter, core.FactionPlayer, maplib.Vec{})

	if err := Execute(w, core.Build(core.FactionPlayer, core.Barracks, maplib.Vec{X: 70})); err != nil {
		t.Fatalf("build: %v", err)
	}
	if w.Economy[core.FactionPlayer].Credits != StartingCredits-500 {
		t.Fatalf("credits = %d", w.Economy[core.FactionPlayer].Credits)
	}
	b := w.FindBuilding(core.FactionPlayer, core.Barracks)
	if b == nil || !b.Building.Constructing {
		t.Fatal("barracks should exist and be under construction")
	}

	w.Economy[core.FactionPlayer].Credits = 100
	before := w.EntityCount()
	cases := []struct {
		cmd  core.Command
		want error
	}{
		{core.Build(core.FactionPlayer, core.Barracks, maplib.Vec{X: 40}), ErrInvalidPlacement},
		{core.Build(core.FactionPlayer, "bunker", maplib.Vec{X: -200}), ErrUnknownType},
		{core.Build(core.FactionPlayer, core.CommandCenter, maplib.Vec{X: -200}), ErrInsufficientCredits},
	}
	for _, c := range cases {
		if err := Execute(w, c.cmd); !errors.Is(err, c.want) {
			t.Errorf("build %s at %v: err = %v, want %v", c.cmd.Building, c.cmd.Pos, err, c.want)
		}
	}
	if w.EntityCount() != before || w.Economy[core.FactionPlayer].Credits != 100 {
		t.Fatal("rejected builds changed the world")
	}
}

func TestExecute_MoveFormation(t *testing.T) {
	w := newTestWorld()
	a := mustUnit(t, w, core.LightTank, core.FactionPlayer, maplib.Vec{})
	b := mustUnit(t, w, core.LightTank, core.FactionPlayer, maplib.Vec{X: 20})
	foreign := mustUnit(t, w, core.LightTank, core.FactionEnemy, maplib.Vec{X: -20})

	err := Execute(w, core.Move(core.FactionPlayer, []core.EntityID{a.ID, b.ID, foreign.ID}, maplib.Vec{X: 200, Z: 200}))
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if a.Unit.State != core.StateMoving || b.Unit.State != core.StateMoving {
		t.Fatal("own units should be moving")
	}
	if foreign.Unit.State != core.StateIdle {
		t.Fatal("moved a unit owned by the other side")
	}
	if slices.Equal(a.Unit.Path, b.Unit.Path) {
		t.Fatal("formation should spread destinations")
	}

	err = Execute(w, core.Move(core.FactionPlayer, []core.EntityID{a.ID}, maplib.Vec{Z: 700}))
	if !errors.Is(err, ErrUnreachable) || a.Unit.State != core.StateIdle {
		t.Fatalf("err = %v state %v, want unreachable and idle", err, a.Unit.State)
	}
}

func TestExecute_AttackTargets(t *testing.T) {
	w := newTestWorld()
	tank := mustUnit(t, w, core.LightTank, core.FactionPlayer, maplib.Vec{})
	harv := mustUnit(t, w, core.Harvester, core.FactionPlayer, maplib.Vec{X: 30})
	enemy := mustUnit(t, w, core.HeavyTank, core.FactionEnemy, maplib.Vec{X: 300})
	units := []core.EntityID{tank.ID, harv.ID}

	if err := Execute(w, core.Attack(core.FactionPlayer, units, harv.ID)); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("attacking a friend: err = %v", err)
	}
	if err := Execute(w, core.Attack(core.FactionPlayer, units, enemy.ID)); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if tank.Unit.State != core.StateAttacking || tank.Unit.Target != enemy.ID {
		t.Fatal("tank did not take the order")
	}
	if harv.Unit.State != core.StateIdle {
		t.Fatal("harvesters cannot attack")
	}

	w.Fog[core.FactionPlayer] = core.NewFogOfWar(core.FactionPlayer)
	if err := Execute(w, core.Attack(core.FactionPlayer, units, enemy.ID)); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("attacking through shroud: err = %v", err)
	}
}

func TestExecute_StopAndHarvest(t *testing.T) {
	w := newTestWorld()
	node := CreateResourceNode(w, maplib.Vec{X: 200})
	harv := mustUnit(t, w, core.Harvester, core.FactionPlayer, maplib.Vec{})
	tank := mustUnit(t, w, core.LightTank, core.FactionPlayer, maplib.Vec{Z: 40})

	if err := Execute(w, core.Command{Faction: core.FactionPlayer, Type: core.CmdHarvest, Units: []core.EntityID{harv.ID, tank.ID}}); err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if harv.Unit.State != core.StateMovingToResource || harv.Unit.Target != node.ID {
		t.Fatalf("harvester state %v target %d", harv.Unit.State, harv.Unit.Target)
	}
	if tank.Unit.State != core.StateIdle {
		t.Fatal("tank cannot harvest")
	}
	err := Execute(w, core.Command{Faction: core.FactionPlayer, Type: core.CmdHarvest, Units: []core.EntityID{harv.ID}, Target: tank.ID})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("harvesting a tank: err = %v", err)
	}

	if err := Execute(w, core.Command{Faction: core.FactionPlayer, Type: core.CmdStop, Units: []core.EntityID{harv.ID}}); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if harv.Unit.State != core.StateIdle || harv.Unit.Target != 0 {
		t.Fatal("stop should idle the harvester")
	}
}

func TestExecute_SelectionAndGroups(t *testing.T) {
	w := newTestWorld()
	a := mustUnit(t, w, core.LightTank, core.FactionPlayer, maplib.Vec{})
	b := mustUnit(t, w, core.LightTank, core.FactionPlayer, maplib.Vec{X: 40})
	c := mustUnit(t, w, core.HeavyTank, core.FactionPlayer, maplib.Vec{X: 80})
	enemy := mustUnit(t, w, core.LightTank, core.FactionEnemy, maplib.Vec{X: 300})
	mustBuilding(t, w, core.CommandCenter, core.FactionPlayer, maplib.Vec{X: -300, Z: -300})
	mustBuilding(t, w, core.CommandCenter, core.FactionEnemy, maplib.Vec{X: 300, Z: 300})

	sel := func(additive bool, ids ...core.EntityID) {
		t.Helper()
		cmd := core.Command{Faction: core.FactionPlayer, Type: core.CmdSelect, Units: ids, Additive: additive}
		if err := Execute(w, cmd); err != nil {
			t.Fatalf("select: %v", err)
		}
	}

	sel(false, a.ID, enemy.ID, b.ID)
	if !slices.Equal(w.Selection, []core.EntityID{a.ID, b.ID}) {
		t.Fatalf("selection = %v", w.Selection)
	}
	sel(true, b.ID, c.ID)
	if !slices.Equal(w.Selection, []core.EntityID{a.ID, b.ID, c.ID}) {
		t.Fatalf("additive selection = %v", w.Selection)
	}

	if err := Execute(w, core.Command{Faction: core.FactionPlayer, Type: core.CmdAssignGroup, Group: 1}); err != nil {
		t.Fatal(err)
	}
	sel(false, c.ID)
	Destroy(w, b)
	if err := Execute(w, core.Command{Faction: core.FactionPlayer, Type: core.CmdRecallGroup, Group: 1}); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(w.Selection, []core.EntityID{a.ID, c.ID}) {
		t.Fatalf("recalled selection = %v", w.Selection)
	}

	// commands with no explicit units act on the selection
	if err := Execute(w, core.Move(core.FactionPlayer, nil, maplib.Vec{Z: -200})); err != nil {
		t.Fatal(err)
	}
	if a.Unit.State != core.StateMoving || c.Unit.State != core.StateMoving {
		t.Fatal("selection did not move")
	}
}

func TestExecute_RallyAndGameOver(t *testing.T) {
	w := newTestWorld()
	cc := mustBuilding(t, w, core.CommandCenter, core.FactionPlayer, maplib.Vec{})
	enemyCC := mustBuilding(t, w, core.CommandCenter, core.FactionEnemy, maplib.Vec{X: 300})

	rally := maplib.Vec{X: -100, Z: 60}
	if err := Execute(w, core.Command{Faction: core.FactionPlayer, Type: core.CmdSetRally, Target: cc.ID, Pos: rally}); err != nil {
		t.Fatal(err)
	}
	if cc.Building.Rally != rally {
		t.Fatalf("rally = %v", cc.Building.Rally)
	}
	if err := Execute(w, core.Command{Faction: core.FactionPlayer, Type: core.CmdType(99)}); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v, want unknown command", err)
	}

	Destroy(w, enemyCC)
	err := Execute(w, core.Build(core.FactionPlayer, core.PowerPlant, maplib.Vec{X: -200}))
	if !errors.Is(err, ErrGameOver) {
		t.Fatalf("err = %v after victory", err)
	}
}

func TestExecute_RejectsNonPlayableFaction(t *testing.T) {
	w := newTestWorld()
	mustBuilding(t, w, core.CommandCenter, core.FactionPlayer, maplib.Vec{})
	credits := w.Economy
	before := w.EntityCount()

	for _, f := range []core.Faction{core.FactionNone, core.Faction(7)} {
		cmds := []core.Command{
			core.Build(f, core.PowerPlant, maplib.Vec{X: -200}),
			{Faction: f, Type: core.CmdProduce, Unit: core.LightTank},
			{Faction: f, Type: core.CmdSelect},
		}
		for _, cmd := range cmds {
			if err := Execute(w, cmd); !errors.Is(err, ErrInvalidFaction) {
				t.Errorf("faction %d %s: err = %v", f, cmd.Type, err)
			}
		}
	}
	if w.EntityCount() != before || w.Economy != credits {
		t.Fatal("rejected commands changed the world")
	}
}
