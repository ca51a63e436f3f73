package systems

import (
	"errors"
	"slices"
	"testing"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
)

func TestPlacement(t *testing.T) {
	w := newTestWorld()
	mustBuilding(t, w, core.CommandCenter, core.FactionPlayer, maplib.Vec{})

	cases := []struct {
		name string
		at   maplib.Vec
		want bool
	}{
		{"overlaps margin", maplib.Vec{X: 40}, false},
		{"clear of margin", maplib.Vec{X: 70}, true},
		{"off the map", maplib.Vec{X: 490}, false},
		{"open ground", maplib.Vec{X: -200, Z: 200}, true},
	}
	for _, c := range cases {
		if got := IsAreaClear(w, c.at, core.Barracks); got != c.want {
			t.Errorf("%s: IsAreaClear(%v) = %v, want %v", c.name, c.at, got, c.want)
		}
	}
	if IsAreaClear(w, maplib.Vec{X: 200}, "bunker") {
		t.Error("unknown building type accepted")
	}
}

func TestPlacement_SteepTerrain(t *testing.T) {
	tm := maplib.NewTerrainMap("hill")
	tm.Raise(maplib.Tile{X: 30, Z: 30}, maplib.Tile{X: 32, Z: 32}, 20)
	w := core.NewWorld(60, tm, 1)

	// tile 29 sits on the slope up to the plateau
	edge := maplib.TileCenter(maplib.Tile{X: 29, Z: 29})
	if IsAreaClear(w, edge, core.Barracks) {
		t.Fatal("placed a building on a slope")
	}
	if !IsAreaClear(w, maplib.Vec{X: -200, Z: -200}, core.Barracks) {
		t.Fatal("flat ground rejected")
	}
}

func TestConstruction_Takes500Ticks(t *testing.T) {
	w := newTestWorld()
	b := mustBuilding(t, w, core.Barracks, core.FactionPlayer, maplib.Vec{X: 100})
	done := countEvents(w, core.EvtConstructionComplete)
	if !b.Building.Constructing || b.Building.ConstructionFraction() != 0 {
		t.Fatal("new barracks should start unbuilt")
	}
	for i := 0; i < 499; i++ {
		StepBuilding(w, b)
	}
	if !b.Building.Constructing {
		t.Fatalf("finished early at %v", b.Building.Construction)
	}
	StepBuilding(w, b)
	w.Events.Dispatch()
	if b.Building.Constructing || b.Building.Construction != 100 || *done != 1 {
		t.Fatalf("constructing=%v progress=%v events=%d", b.Building.Constructing, b.Building.Construction, *done)
	}
}

func TestProduction_QueueFIFO(t *testing.T) {
	w := newTestWorld()
	wf := complete(mustBuilding(t, w, core.WarFactory, core.FactionPlayer, maplib.Vec{}))
	produced := countEvents(w, core.EvtUnitProduced)

	for _, ut := range []core.UnitType{core.LightTank, core.HeavyTank, core.Harvester} {
		if err := Execute(w, core.Produce(core.FactionPlayer, wf.ID, ut)); err != nil {
			t.Fatalf("produce %s: %v", ut, err)
		}
	}
	if got := w.Economy[core.FactionPlayer].Credits; got != 0 {
		t.Fatalf("credits = %d, want 0", got)
	}
	err := Execute(w, core.Produce(core.FactionPlayer, wf.ID, core.LightTank))
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("err = %v, want insufficient credits", err)
	}
	p := &wf.Building.Production
	if p.Type != core.LightTank || !slices.Equal(p.Queue, []core.UnitType{core.HeavyTank, core.Harvester}) {
		t.Fatalf("production = %v %v", p.Type, p.Queue)
	}

	for i := 0; i < 200; i++ {
		StepBuilding(w, wf)
	}
	w.Events.Dispatch()
	units := w.Units(core.FactionPlayer)
	if len(units) != 1 || units[0].Unit.Type != core.LightTank || *produced != 1 {
		t.Fatalf("after 200 ticks: %d units, %d events", len(units), *produced)
	}
	if units[0].Pos != wf.Building.Rally {
		t.Fatalf("spawned at %v, want rally %v", units[0].Pos, wf.Building.Rally)
	}
	if p.Type != core.HeavyTank || len(p.Queue) != 1 || p.Progress != 0 {
		t.Fatalf("next in line = %v, queue %v, progress %v", p.Type, p.Queue, p.Progress)
	}

	for i := 0; i < 400; i++ {
		StepBuilding(w, wf)
	}
	if p.Busy() || w.UnitCount(core.FactionPlayer) != 3 {
		t.Fatalf("busy=%v units=%d", p.Busy(), w.UnitCount(core.FactionPlayer))
	}
	last := w.Units(core.FactionPlayer)[2]
	if last.Unit.Type != core.Harvester {
		t.Fatalf("last produced %s, want harvester", last.Unit.Type)
	}
}

func TestProduction_Rejections(t *testing.T) {
	w := newTestWorld()
	building := mustBuilding(t, w, core.WarFactory, core.FactionPlayer, maplib.Vec{})
	barracks := complete(mustBuilding(t, w, core.Barracks, core.FactionPlayer, maplib.Vec{X: 200}))
	enemyCC := mustBuilding(t, w, core.CommandCenter, core.FactionEnemy, maplib.Vec{X: 300, Z: 300})
	tank := mustUnit(t, w, core.LightTank, core.FactionPlayer, maplib.Vec{Z: -200})

	cases := []struct {
		name   string
		target core.EntityID
		unit   core.UnitType
		want   error
	}{
		{"under construction", building.ID, core.LightTank, ErrCannotProduce},
		{"wrong producer", barracks.ID, core.LightTank, ErrCannotProduce},
		{"not owned", enemyCC.ID, core.Harvester, ErrNotOwned},
		{"not a building", tank.ID, core.Harvester, ErrUnknownEntity},
		{"unknown unit", barracks.ID, "mech", ErrUnknownType},
	}
	for _, c := range cases {
		err := Execute(w, core.Produce(core.FactionPlayer, c.target, c.unit))
		if !errors.Is(err, c.want) {
			t.Errorf("%s: err = %v, want %v", c.name, err, c.want)
		}
	}
	if w.Economy[core.FactionPlayer].Credits != StartingCredits {
		t.Fatal("rejected orders spent credits")
	}
}

func TestEconomy_PowerAndStipend(t *testing.T) {
	w := newTestWorld()
	mustBuilding(t, w, core.CommandCenter, core.FactionEnemy, maplib.Vec{X: 300})
	plant := mustBuilding(t, w, core.PowerPlant, core.FactionEnemy, maplib.Vec{X: 200})
	sys := &EconomySystem{}

	sys.Update(w, 0)
	if got := w.Economy[core.FactionEnemy].Power; got != -25 {
		t.Fatalf("power = %d, want -25 while the plant is unbuilt", got)
	}
	if got := w.Economy[core.FactionEnemy].Credits; got != StartingCredits+EnemyStipend {
		t.Fatalf("credits = %d", got)
	}
	if w.Economy[core.FactionPlayer].Credits != StartingCredits {
		t.Fatal("player received the stipend")
	}

	complete(plant)
	w.TickCount = 30
	sys.Update(w, 0)
	if w.Economy[core.FactionEnemy].Power != -25 {
		t.Fatal("recalculated off the one-second boundary")
	}
	w.TickCount = 60
	sys.Update(w, 0)
	if got := w.Economy[core.FactionEnemy].Power; got != 75 {
		t.Fatalf("power = %d, want 75", got)
	}
	if !w.Economy[core.FactionEnemy].HasPower() {
		t.Fatal("surplus reported as deficit")
	}
}

func TestFog_VisibleThenExplored(t *testing.T) {
	w := newTestWorld()
	w.Fog[core.FactionPlayer] = core.NewFogOfWar(core.FactionPlayer)
	scout := mustUnit(t, w, core.LightTank, core.FactionPlayer, maplib.Vec{})
	enemy := mustUnit(t, w, core.LightTank, core.FactionEnemy, maplib.Vec{X: 100})
	fog := &FogSystem{}

	fog.Update(w, 0)
	tile := maplib.WorldToTile(enemy.Pos)
	if w.Fog[core.FactionPlayer].At(tile) != core.FogVisible || !enemy.Visible {
		t.Fatal("enemy next to the scout should be visible")
	}

	scout.Pos = maplib.Vec{X: -400}
	fog.Update(w, 0)
	if got := w.Fog[core.FactionPlayer].At(tile); got != core.FogExplored {
		t.Fatalf("fog = %v, want explored", got)
	}
	if enemy.Visible || !scout.Visible {
		t.Fatalf("visible flags: enemy %v scout %v", enemy.Visible, scout.Visible)
	}
	// the enemy fog is not tracked, so the AI sees everything
	if !w.CanSee(core.FactionEnemy, scout) {
		t.Fatal("untracked fog should not hide anything")
	}
}
