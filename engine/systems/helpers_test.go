package systems

import (
	"log/slog"
	"testing"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
)

func newTestWorld() *core.World {
	w := core.NewWorld(60, nil, 1)
	w.Log = slog.New(slog.DiscardHandler)
	for _, f := range core.Factions {
		w.Economy[f] = core.Economy{Credits: StartingCredits, Power: StartingPower}
	}
	return w
}

func mustUnit(t *testing.T, w *core.World, ut core.UnitType, f core.Faction, at maplib.Vec) *core.Entity {
	t.Helper()
	e, err := CreateUnit(w, ut, f, at)
	if err != nil {
		t.Fatalf("create %s: %v", ut, err)
	}
	return e
}

func mustBuilding(t *testing.T, w *core.World, bt core.BuildingType, f core.Faction, at maplib.Vec) *core.Entity {
	t.Helper()
	e, err := CreateBuilding(w, bt, f, at)
	if err != nil {
		t.Fatalf("create %s: %v", bt, err)
	}
	return e
}

// complete finishes construction immediately
func complete(e *core.Entity) *core.Entity {
	e.Building.Construction = 100
	e.Building.Constructing = false
	return e
}

func countEvents(w *core.World, t core.EventType) *int {
	n := new(int)
	w.Events.On(t, func(core.Event) { *n++ })
	return n
}
