package systems

import (
	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
)

// FogSystem recomputes fog of war for every tracked faction each tick, then
// refreshes each entity's visibility to the player
type FogSystem struct{}

func (s *FogSystem) Priority() int { return 40 }

func (s *FogSystem) Update(w *core.World, _ float64) {
	for _, f := range core.Factions {
		fog := w.Fog[f]
		if fog == nil {
			continue
		}
		// Demote all visible to explored
		fog.Demote()
		for _, e := range w.Units(f) {
			fog.Reveal(maplib.WorldToTile(e.Pos), e.Vision)
		}
		for _, e := range w.Buildings(f) {
			fog.Reveal(maplib.WorldToTile(e.Pos), e.Vision)
		}
	}

	for _, f := range core.Factions {
		for _, e := range w.Units(f) {
			e.Visible = w.CanSee(core.FactionPlayer, e)
		}
		for _, e := range w.Buildings(f) {
			e.Visible = w.CanSee(core.FactionPlayer, e)
		}
	}
	for _, r := range w.Resources() {
		r.Visible = w.CanSee(core.FactionPlayer, r)
	}
}
