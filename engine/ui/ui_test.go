package ui

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/systems"
)

func newWorld(t *testing.T) *core.World {
	t.Helper()
	w := core.NewWorld(60, nil, 1)
	w.Log = slog.New(slog.DiscardHandler)
	w.Economy[core.FactionPlayer] = core.Economy{Credits: 2000, Power: 100}
	return w
}

func TestHUD_TopBar(t *testing.T) {
	w := newWorld(t)
	h := NewHUD(1000, 800)
	if got := h.TopBar(w); got != "Credits: $2000 | Power: 100" {
		t.Fatalf("top bar = %q", got)
	}

	w.Economy[core.FactionPlayer].Power = -25
	h.Notify("insufficient credits")
	got := h.TopBar(w)
	if !strings.Contains(got, "LOW POWER") || !strings.HasSuffix(got, "insufficient credits") {
		t.Fatalf("top bar = %q", got)
	}
	for range messageTicks {
		h.Update()
	}
	if h.Message() != "" || strings.Contains(h.TopBar(w), "insufficient") {
		t.Fatal("message never expired")
	}
}

func TestHUD_Buttons(t *testing.T) {
	w := newWorld(t)
	w.Economy[core.FactionPlayer].Credits = 400
	h := NewHUD(1000, 800)
	buttons := h.Buttons(w)
	if len(buttons) != 6 {
		t.Fatalf("buttons = %d", len(buttons))
	}
	if buttons[0].Action.Build != core.PowerPlant || buttons[0].Disabled {
		t.Fatalf("power plant button = %+v", buttons[0])
	}
	if !buttons[1].Disabled || !strings.HasPrefix(buttons[1].Label, "[B] barracks $500") {
		t.Fatalf("barracks button = %+v", buttons[1])
	}
	if buttons[3].Action.Produce != core.Harvester || buttons[3].Y <= buttons[2].Y+buttonH {
		t.Fatalf("unit section = %+v", buttons[3])
	}

	tests := []struct {
		name     string
		mx, my   int
		want     Action
		consumed bool
	}{
		{"power plant", 900, 70, Action{Build: core.PowerPlant}, true},
		{"disabled barracks", 900, 95, Action{}, true},
		{"sidebar gap", 900, 160, Action{}, true},
		{"top bar", 100, 10, Action{}, true},
		{"map", 400, 400, Action{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, consumed := h.HandleClick(w, tt.mx, tt.my)
			if got != tt.want || consumed != tt.consumed {
				t.Fatalf("got %+v %v", got, consumed)
			}
		})
	}
}

func TestHUD_SelectionInfo(t *testing.T) {
	w := newWorld(t)
	h := NewHUD(1000, 800)
	if lines := h.SelectionInfo(w); lines != nil {
		t.Fatalf("empty selection = %v", lines)
	}

	harv, _ := systems.CreateUnit(w, core.Harvester, core.FactionPlayer, maplib.Vec{})
	tank, _ := systems.CreateUnit(w, core.LightTank, core.FactionPlayer, maplib.Vec{X: 30})
	w.Selection = []core.EntityID{harv.ID, tank.ID}
	lines := h.SelectionInfo(w)
	want := []string{"2 selected", "harvester  HP 150/150  idle", "cargo 0/500"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("lines = %q", lines)
	}

	w.Selection = []core.EntityID{tank.ID}
	if lines := h.SelectionInfo(w); lines[1] != "DMG 15  RNG 150" {
		t.Fatalf("lines = %q", lines)
	}

	cc, _ := systems.CreateBuilding(w, core.CommandCenter, core.FactionPlayer, maplib.Vec{X: 200, Z: 200})
	systems.Enqueue(cc.Building, core.Harvester)
	systems.Enqueue(cc.Building, core.Harvester)
	w.Selection = []core.EntityID{cc.ID}
	lines = h.SelectionInfo(w)
	if len(lines) != 2 || lines[1] != "producing harvester 0%  +1 queued" {
		t.Fatalf("lines = %q", lines)
	}

	fac, _ := systems.CreateBuilding(w, core.WarFactory, core.FactionPlayer, maplib.Vec{X: -200, Z: 200})
	fac.Building.Construction = 42
	w.Selection = []core.EntityID{fac.ID}
	if lines := h.SelectionInfo(w); lines[1] != "constructing 42%" {
		t.Fatalf("lines = %q", lines)
	}
}

func TestGameOverText(t *testing.T) {
	tests := map[core.Outcome]string{
		core.OutcomeNone:    "",
		core.OutcomeVictory: "VICTORY",
		core.OutcomeDefeat:  "DEFEAT",
		core.OutcomeDraw:    "DRAW",
	}
	for o, want := range tests {
		if got := GameOverText(o); got != want {
			t.Errorf("%s: got %q", o, got)
		}
	}
}

func TestMatchStats(t *testing.T) {
	w := newWorld(t)
	stats := &MatchStats{}
	stats.Listen(w.Events)

	tank, _ := systems.CreateUnit(w, core.LightTank, core.FactionPlayer, maplib.Vec{})
	harv, _ := systems.CreateUnit(w, core.Harvester, core.FactionPlayer, maplib.Vec{X: 40})
	enemy, _ := systems.CreateUnit(w, core.HeavyTank, core.FactionEnemy, maplib.Vec{X: 100})
	barracks, _ := systems.CreateBuilding(w, core.Barracks, core.FactionEnemy, maplib.Vec{X: 200, Z: 200})
	node := systems.CreateResourceNode(w, maplib.Vec{X: -200})
	// keep a command center on both sides so the match stays open
	systems.CreateBuilding(w, core.CommandCenter, core.FactionPlayer, maplib.Vec{X: -300, Z: -300})
	systems.CreateBuilding(w, core.CommandCenter, core.FactionEnemy, maplib.Vec{X: 300, Z: 300})

	w.Events.Emit(core.Event{Type: core.EvtUnitProduced, Entity: tank})
	w.Events.Emit(core.Event{Type: core.EvtConstructionComplete, Entity: barracks})
	w.Events.Emit(core.Event{Type: core.EvtResourceUnloaded, Entity: harv, Payload: 500})
	systems.Destroy(w, enemy)
	systems.Destroy(w, barracks)
	w.Remove(node.ID)
	w.Events.Dispatch()

	p, e := stats.Sides[core.FactionPlayer], stats.Sides[core.FactionEnemy]
	if p.UnitsBuilt != 1 || p.CreditsEarned != 500 || p.UnitsDestroyed != 1 || p.BuildingsDestroyed != 1 {
		t.Fatalf("player stats = %+v", p)
	}
	if e.BuildingsBuilt != 1 || e.UnitsLost != 1 || e.BuildingsLost != 1 {
		t.Fatalf("enemy stats = %+v", e)
	}
	lines := stats.Lines(core.FactionPlayer)
	if len(lines) != 6 || !strings.HasSuffix(lines[5], "500") {
		t.Fatalf("lines = %q", lines)
	}
	if stats.Lines(core.FactionNone) != nil {
		t.Fatal("neutral side has no stats")
	}
}
