package systems

import (
	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/pathfind"
)

// PlanPath asks the pathfinder for a route from the unit to dest. A unit that
// already stands in the destination tile gets the exact point as its only
// waypoint. An empty result means unreachable.
func PlanPath(w *core.World, e *core.Entity, dest maplib.Vec) []maplib.Vec {
	path := pathfind.FindPath(w.Grid, e.Pos, dest)
	if len(path) == 0 {
		tile := maplib.WorldToTile(dest)
		if maplib.InBounds(tile) && tile == maplib.WorldToTile(e.Pos) {
			return []maplib.Vec{dest}
		}
	}
	return path
}

// OrderMove plans a path and puts the unit in the moving state. Returns false
// and leaves the unit untouched when dest is unreachable.
func OrderMove(w *core.World, e *core.Entity, dest maplib.Vec) bool {
	path := PlanPath(w, e, dest)
	if len(path) == 0 {
		return false
	}
	e.Unit.Path = path
	e.Unit.State = core.StateMoving
	return true
}

// followPath advances the unit one tick along its path, popping waypoints
// within reach. Returns true once the path is exhausted.
func followPath(w *core.World, e *core.Entity) bool {
	u := e.Unit
	if len(u.Path) == 0 {
		return true
	}
	if e.Pos.DistanceTo(u.Path[0]) < WaypointReached {
		u.Path = u.Path[1:]
		if len(u.Path) == 0 {
			u.Path = nil
			return true
		}
	}
	r := pathfind.Seek(e.Pos, u.Path[0], u.Speed)
	if r.Moved {
		e.Pos = r.Pos
		e.Y = w.HeightAt(e.Pos)
		e.Facing = pathfind.TurnToward(e.Facing, r.Heading, pathfind.MaxTurn)
	}
	return false
}

// FormationOffsets spreads n units on a square grid around a destination
func FormationOffsets(n int) []maplib.Vec {
	if n <= 0 {
		return nil
	}
	cols := 1
	for cols*cols < n {
		cols++
	}
	half := float64(cols-1) / 2
	out := make([]maplib.Vec, n)
	for i := range out {
		out[i] = maplib.Vec{
			X: (float64(i%cols) - half) * FormationSpacing,
			Z: (float64(i/cols) - half) * FormationSpacing,
		}
	}
	return out
}
