package maplib

import "math"

// World dimensions in world units
const (
	GameSize = 1000.0
	TileSize = 20.0
	MapSize  = int(GameSize / TileSize)
)

// Vec is a position on the ground plane (y is derived from terrain)
type Vec struct {
	X, Z float64
}

// Add returns v+o
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Z + o.Z} }

// Sub returns v-o
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Z - o.Z} }

// Len returns the Euclidean length
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Z) }

// DistanceTo returns the Euclidean distance between two positions
func (v Vec) DistanceTo(o Vec) float64 { return v.Sub(o).Len() }

// Tile is an integer grid coordinate
type Tile struct{ X, Z int }

// WorldToTile converts a world position to the tile containing it.
// The result may be outside the grid; check with InBounds.
func WorldToTile(p Vec) Tile {
	return Tile{
		X: int(math.Floor((p.X + GameSize/2) / TileSize)),
		Z: int(math.Floor((p.Z + GameSize/2) / TileSize)),
	}
}

// TileCenter returns the world position of a tile's center
func TileCenter(t Tile) Vec {
	return Vec{
		X: float64(t.X)*TileSize - GameSize/2 + TileSize/2,
		Z: float64(t.Z)*TileSize - GameSize/2 + TileSize/2,
	}
}

// InBounds checks if a tile is on the grid
func InBounds(t Tile) bool {
	return t.X >= 0 && t.Z >= 0 && t.X < MapSize && t.Z < MapSize
}

// Terrain answers ground height queries
type Terrain interface {
	HeightAt(x, z float64) float64
}

// FlatTerrain is a terrain of constant height
type FlatTerrain float64

func (f FlatTerrain) HeightAt(_, _ float64) float64 { return float64(f) }
