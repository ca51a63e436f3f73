package systems

import (
	"math"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/pathfind"
)

// IsAreaClear validates a building site. The footprint, expanded by the
// placement margin, must not overlap any building of either faction, and
// every covered tile must be on the grid and walkable.
func IsAreaClear(w *core.World, at maplib.Vec, t core.BuildingType) bool {
	def, ok := Buildings[t]
	if !ok {
		return false
	}
	for _, f := range core.Factions {
		for _, b := range w.Buildings(f) {
			dx := math.Abs(at.X - b.Pos.X)
			dz := math.Abs(at.Z - b.Pos.Z)
			if dx < (def.Width+b.Building.Width)/2+PlacementMargin &&
				dz < (def.Depth+b.Building.Depth)/2+PlacementMargin {
				return false
			}
		}
	}
	return w.Grid.Clear(pathfind.FootprintAt(at, def.Width, def.Depth))
}
