package pathfind

import (
	"container/heap"
	"math"

	"github.com/1siamBot/rts-sim/engine/maplib"
)

// NearestRadius bounds the ring search for a walkable substitute goal
const NearestRadius = 9

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath finds a path between two world positions using A*.
// The result holds tile-center waypoints, excluding the start tile and ending at
// the goal tile or its nearest walkable substitute. An empty result means unreachable.
func FindPath(ng *NavGrid, from, to maplib.Vec) []maplib.Vec {
	start := maplib.WorldToTile(from)
	goal := maplib.WorldToTile(to)
	if !ng.InBounds(start) || !ng.InBounds(goal) {
		return nil
	}
	if !ng.Walkable(goal) {
		sub, ok := NearestWalkable(ng, goal)
		if !ok {
			return nil
		}
		goal = sub
	}
	tiles := search(ng, start, goal)
	if len(tiles) == 0 {
		return nil
	}
	path := make([]maplib.Vec, len(tiles))
	for i, t := range tiles {
		path[i] = maplib.TileCenter(t)
	}
	return path
}

// NearestWalkable searches square rings of radius 1..NearestRadius around t
func NearestWalkable(ng *NavGrid, t maplib.Tile) (maplib.Tile, bool) {
	for r := 1; r <= NearestRadius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dz := -r; dz <= r; dz++ {
				if abs(dx) != r && abs(dz) != r {
					continue
				}
				c := maplib.Tile{X: t.X + dx, Z: t.Z + dz}
				if ng.Walkable(c) {
					return c, true
				}
			}
		}
	}
	return maplib.Tile{}, false
}

// search returns the tile sequence after start up to goal, or nil
func search(ng *NavGrid, start, goal maplib.Tile) []maplib.Tile {
	if start == goal {
		return nil
	}
	open := &nodeHeap{}
	heap.Init(open)
	var seq uint64
	heap.Push(open, &node{p: start, f: heuristic(start, goal)})

	came := make(map[maplib.Tile]maplib.Tile)
	gScore := map[maplib.Tile]float64{start: 0}
	closed := make(map[maplib.Tile]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if closed[cur.p] {
			continue
		}
		if cur.p == goal {
			return reconstructPath(came, start, goal)
		}
		closed[cur.p] = true

		for _, d := range dirs {
			np := maplib.Tile{X: cur.p.X + d[0], Z: cur.p.Z + d[1]}
			if !ng.Walkable(np) || closed[np] {
				continue
			}
			// diagonals only need the destination tile to be walkable
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			tentG := gScore[cur.p] + cost
			if old, ok := gScore[np]; ok && tentG >= old {
				continue
			}
			gScore[np] = tentG
			came[np] = cur.p
			seq++
			heap.Push(open, &node{p: np, f: tentG + heuristic(np, goal), seq: seq})
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// heuristic is the Manhattan distance in tiles
func heuristic(a, b maplib.Tile) float64 {
	return float64(abs(a.X-b.X) + abs(a.Z-b.Z))
}

func reconstructPath(came map[maplib.Tile]maplib.Tile, start, goal maplib.Tile) []maplib.Tile {
	path := []maplib.Tile{goal}
	cur := goal
	for {
		prev, ok := came[cur]
		if !ok || prev == start {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// --- Priority queue ---

// node ordering: lowest f first, then insertion order
type node struct {
	p   maplib.Tile
	f   float64
	seq uint64
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
