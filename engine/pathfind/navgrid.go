package pathfind

import (
	"math"

	"github.com/1siamBot/rts-sim/engine/maplib"
)

// MaxSlope is the largest height difference within a tile that units can climb
const MaxSlope = 4.0

// NavGrid is the tile walkability grid. Terrain blocks are permanent;
// building footprints are reference counted so overlapping carves release cleanly.
type NavGrid struct {
	Size     int
	blocked  []bool
	occupied []int
}

// NewNavGrid builds a navigation grid, blocking tiles that are too steep
func NewNavGrid(terrain maplib.Terrain) *NavGrid {
	n := maplib.MapSize
	ng := &NavGrid{
		Size:     n,
		blocked:  make([]bool, n*n),
		occupied: make([]int, n*n),
	}
	if terrain == nil {
		return ng
	}
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			if tileSlope(terrain, maplib.Tile{X: x, Z: z}) > MaxSlope {
				ng.blocked[z*n+x] = true
			}
		}
	}
	return ng
}

// tileSlope samples the tile corners and center and returns the height range
func tileSlope(terrain maplib.Terrain, t maplib.Tile) float64 {
	c := maplib.TileCenter(t)
	h := maplib.TileSize / 2
	samples := [5]float64{
		terrain.HeightAt(c.X, c.Z),
		terrain.HeightAt(c.X-h, c.Z-h),
		terrain.HeightAt(c.X+h, c.Z-h),
		terrain.HeightAt(c.X-h, c.Z+h),
		terrain.HeightAt(c.X+h, c.Z+h),
	}
	lo, hi := samples[0], samples[0]
	for _, s := range samples[1:] {
		lo = min(lo, s)
		hi = max(hi, s)
	}
	return hi - lo
}

func (ng *NavGrid) index(t maplib.Tile) int { return t.Z*ng.Size + t.X }

// InBounds checks if a tile is on the grid
func (ng *NavGrid) InBounds(t maplib.Tile) bool {
	return t.X >= 0 && t.Z >= 0 && t.X < ng.Size && t.Z < ng.Size
}

// Walkable reports whether units may enter a tile
func (ng *NavGrid) Walkable(t maplib.Tile) bool {
	if !ng.InBounds(t) {
		return false
	}
	i := ng.index(t)
	return !ng.blocked[i] && ng.occupied[i] == 0
}

// MarkUnwalkable permanently blocks a tile
func (ng *NavGrid) MarkUnwalkable(t maplib.Tile) {
	if ng.InBounds(t) {
		ng.blocked[ng.index(t)] = true
	}
}

// Footprint is an inclusive tile rectangle covered by a building
type Footprint struct {
	Min, Max maplib.Tile
}

// FootprintAt returns the tiles covered by a width x depth building centered at pos.
// The rectangle extends ceil(size/(2*TileSize)) tiles from the center tile.
func FootprintAt(pos maplib.Vec, width, depth float64) Footprint {
	c := maplib.WorldToTile(pos)
	hx := int(math.Ceil(width / (2 * maplib.TileSize)))
	hz := int(math.Ceil(depth / (2 * maplib.TileSize)))
	return Footprint{
		Min: maplib.Tile{X: c.X - hx, Z: c.Z - hz},
		Max: maplib.Tile{X: c.X + hx, Z: c.Z + hz},
	}
}

// Each calls fn for every tile in the footprint, including off-grid tiles
func (f Footprint) Each(fn func(t maplib.Tile)) {
	for z := f.Min.Z; z <= f.Max.Z; z++ {
		for x := f.Min.X; x <= f.Max.X; x++ {
			fn(maplib.Tile{X: x, Z: z})
		}
	}
}

// Contains checks if a tile lies inside the footprint
func (f Footprint) Contains(t maplib.Tile) bool {
	return t.X >= f.Min.X && t.X <= f.Max.X && t.Z >= f.Min.Z && t.Z <= f.Max.Z
}

// Carve marks a building footprint unwalkable
func (ng *NavGrid) Carve(f Footprint) {
	f.Each(func(t maplib.Tile) {
		if ng.InBounds(t) {
			ng.occupied[ng.index(t)]++
		}
	})
}

// Release undoes a previous Carve of the same footprint
func (ng *NavGrid) Release(f Footprint) {
	f.Each(func(t maplib.Tile) {
		if ng.InBounds(t) && ng.occupied[ng.index(t)] > 0 {
			ng.occupied[ng.index(t)]--
		}
	})
}

// Clear reports whether every tile of the footprint is on the grid and walkable
func (ng *NavGrid) Clear(f Footprint) bool {
	ok := true
	f.Each(func(t maplib.Tile) {
		if !ng.Walkable(t) {
			ok = false
		}
	})
	return ok
}
