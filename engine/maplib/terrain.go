package maplib

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
)

// StartPos defines a faction start position
type StartPos struct {
	Slot int     `json:"slot"`
	X    float64 `json:"x"`
	Z    float64 `json:"z"`
}

// TerrainMap is a height field sampled at tile corners plus the skirmish layout
type TerrainMap struct {
	Name   string `json:"name"`
	Author string `json:"author"`
	// Heights holds (MapSize+1)^2 corner samples, row-major by z
	Heights []float64 `json:"heights"`

	StartPositions []StartPos `json:"start_positions"`
	ResourceNodes  []Vec      `json:"resource_nodes"`
}

// Default skirmish layout
const (
	ResourceNodeCount   = 8
	ResourceClearRadius = 150.0
)

// Base positions for the two start slots
var (
	PlayerBase = Vec{X: -GameSize / 4, Z: -GameSize / 4}
	EnemyBase  = Vec{X: GameSize / 4, Z: GameSize / 4}
)

// NewTerrainMap creates a flat map with the default start positions
func NewTerrainMap(name string) *TerrainMap {
	n := MapSize + 1
	return &TerrainMap{
		Name:    name,
		Heights: make([]float64, n*n),
		StartPositions: []StartPos{
			{Slot: 0, X: PlayerBase.X, Z: PlayerBase.Z},
			{Slot: 1, X: EnemyBase.X, Z: EnemyBase.Z},
		},
	}
}

// Corner returns the height sample at corner (cx, cz), clamped to the map
func (tm *TerrainMap) Corner(cx, cz int) float64 {
	n := MapSize + 1
	cx = max(0, min(n-1, cx))
	cz = max(0, min(n-1, cz))
	return tm.Heights[cz*n+cx]
}

// SetCorner sets one corner sample
func (tm *TerrainMap) SetCorner(cx, cz int, h float64) {
	n := MapSize + 1
	if cx < 0 || cz < 0 || cx >= n || cz >= n {
		return
	}
	tm.Heights[cz*n+cx] = h
}

// Raise sets every corner of the tile rectangle [t1, t2] to height h
func (tm *TerrainMap) Raise(t1, t2 Tile, h float64) {
	for z := t1.Z; z <= t2.Z+1; z++ {
		for x := t1.X; x <= t2.X+1; x++ {
			tm.SetCorner(x, z, h)
		}
	}
}

// HeightAt bilinearly interpolates the ground height at a world position
func (tm *TerrainMap) HeightAt(x, z float64) float64 {
	fx := (x + GameSize/2) / TileSize
	fz := (z + GameSize/2) / TileSize
	cx, cz := int(math.Floor(fx)), int(math.Floor(fz))
	tx, tz := fx-float64(cx), fz-float64(cz)
	h00 := tm.Corner(cx, cz)
	h10 := tm.Corner(cx+1, cz)
	h01 := tm.Corner(cx, cz+1)
	h11 := tm.Corner(cx+1, cz+1)
	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*tz
}

// Start returns the start position for a slot, falling back to the default bases
func (tm *TerrainMap) Start(slot int) Vec {
	for _, sp := range tm.StartPositions {
		if sp.Slot == slot {
			return Vec{X: sp.X, Z: sp.Z}
		}
	}
	if slot == 0 {
		return PlayerBase
	}
	return EnemyBase
}

// PlaceResources scatters resource nodes away from both start positions.
// Existing nodes are kept.
func (tm *TerrainMap) PlaceResources(rng *rand.Rand, count int) {
	bases := []Vec{tm.Start(0), tm.Start(1)}
	for tries := 0; len(tm.ResourceNodes) < count && tries < count*100; tries++ {
		p := Vec{
			X: (rng.Float64() - 0.5) * GameSize * 0.8,
			Z: (rng.Float64() - 0.5) * GameSize * 0.8,
		}
		clear := true
		for _, b := range bases {
			if p.DistanceTo(b) < ResourceClearRadius {
				clear = false
				break
			}
		}
		if clear {
			tm.ResourceNodes = append(tm.ResourceNodes, p)
		}
	}
}

// SaveJSON saves the map to a JSON file
func (tm *TerrainMap) SaveJSON(path string) error {
	data, err := json.MarshalIndent(tm, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJSON loads a map from a JSON file
func LoadJSON(path string) (*TerrainMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tm TerrainMap
	if err := json.Unmarshal(data, &tm); err != nil {
		return nil, fmt.Errorf("decode map %s: %w", path, err)
	}
	n := MapSize + 1
	if len(tm.Heights) == 0 {
		tm.Heights = make([]float64, n*n)
	}
	if len(tm.Heights) != n*n {
		return nil, fmt.Errorf("map %s: want %d height samples, got %d", path, n*n, len(tm.Heights))
	}
	return &tm, nil
}
