package core

import "github.com/1siamBot/rts-sim/engine/maplib"

// FogState represents visibility of a tile
type FogState uint8

const (
	FogShroud   FogState = iota // never seen
	FogExplored                 // seen before but not now
	FogVisible                  // currently visible
)

// FogOfWar is one faction's per-tile visibility
type FogOfWar struct {
	Size    int
	Grid    []FogState
	Faction Faction
}

func NewFogOfWar(f Faction) *FogOfWar {
	n := maplib.MapSize
	return &FogOfWar{
		Size:    n,
		Grid:    make([]FogState, n*n),
		Faction: f,
	}
}

// At returns the fog state of a tile; off-grid tiles are shroud
func (f *FogOfWar) At(t maplib.Tile) FogState {
	if t.X < 0 || t.Z < 0 || t.X >= f.Size || t.Z >= f.Size {
		return FogShroud
	}
	return f.Grid[t.Z*f.Size+t.X]
}

// IsVisible returns true if the tile is currently visible
func (f *FogOfWar) IsVisible(t maplib.Tile) bool {
	return f.At(t) == FogVisible
}

// Demote turns every visible tile into explored
func (f *FogOfWar) Demote() {
	for i, s := range f.Grid {
		if s == FogVisible {
			f.Grid[i] = FogExplored
		}
	}
}

// Reveal marks every tile within radius tiles of the center tile visible
func (f *FogOfWar) Reveal(center maplib.Tile, radius int) {
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dz*dz > radius*radius {
				continue
			}
			x, z := center.X+dx, center.Z+dz
			if x >= 0 && z >= 0 && x < f.Size && z < f.Size {
				f.Grid[z*f.Size+x] = FogVisible
			}
		}
	}
}
