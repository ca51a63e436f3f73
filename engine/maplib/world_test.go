package maplib

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"
)

func TestWorldToTile_Corners(t *testing.T) {
	cases := []struct {
		p    Vec
		want Tile
	}{
		{Vec{-500, -500}, Tile{0, 0}},
		{Vec{-480.1, -500}, Tile{0, 0}},
		{Vec{-480, -500}, Tile{1, 0}},
		{Vec{0, 0}, Tile{25, 25}},
		{Vec{499.9, 499.9}, Tile{49, 49}},
		{Vec{500, 0}, Tile{50, 25}},
		{Vec{-501, 0}, Tile{-1, 25}},
	}
	for _, c := range cases {
		if got := WorldToTile(c.p); got != c.want {
			t.Errorf("WorldToTile(%v) = %v, want %v", c.p, got, c.want)
		}
	}
	if InBounds(Tile{50, 25}) || InBounds(Tile{-1, 0}) {
		t.Fatal("tiles off the grid reported in bounds")
	}
}

func TestTileCenter_RoundTrip(t *testing.T) {
	for x := 0; x < MapSize; x += 7 {
		for z := 0; z < MapSize; z += 5 {
			tile := Tile{x, z}
			if got := WorldToTile(TileCenter(tile)); got != tile {
				t.Fatalf("round trip %v -> %v", tile, got)
			}
		}
	}
	c := TileCenter(Tile{0, 0})
	if c.X != -490 || c.Z != -490 {
		t.Fatalf("center of origin tile = %v", c)
	}
}

func TestHeightAt_Interpolates(t *testing.T) {
	tm := NewTerrainMap("test")
	tm.SetCorner(25, 25, 10)
	if h := tm.HeightAt(0, 0); h != 10 {
		t.Fatalf("height at corner = %v, want 10", h)
	}
	// halfway between corner (25,25)=10 and (26,25)=0
	if h := tm.HeightAt(TileSize/2, 0); math.Abs(h-5) > 1e-9 {
		t.Fatalf("height halfway = %v, want 5", h)
	}
	if h := tm.HeightAt(-400, 300); h != 0 {
		t.Fatalf("flat area height = %v", h)
	}
}

func TestPlaceResources_AwayFromBases(t *testing.T) {
	tm := NewTerrainMap("test")
	tm.PlaceResources(rand.New(rand.NewSource(7)), ResourceNodeCount)
	if len(tm.ResourceNodes) != ResourceNodeCount {
		t.Fatalf("placed %d nodes, want %d", len(tm.ResourceNodes), ResourceNodeCount)
	}
	for _, n := range tm.ResourceNodes {
		if n.DistanceTo(PlayerBase) < ResourceClearRadius || n.DistanceTo(EnemyBase) < ResourceClearRadius {
			t.Fatalf("node %v too close to a base", n)
		}
	}

	again := NewTerrainMap("test")
	again.PlaceResources(rand.New(rand.NewSource(7)), ResourceNodeCount)
	for i := range tm.ResourceNodes {
		if tm.ResourceNodes[i] != again.ResourceNodes[i] {
			t.Fatal("same seed produced different layouts")
		}
	}
}

func TestSaveLoadJSON(t *testing.T) {
	tm := NewTerrainMap("ridge")
	tm.Raise(Tile{10, 10}, Tile{12, 30}, 40)
	tm.ResourceNodes = []Vec{{100, -50}}
	path := filepath.Join(t.TempDir(), "ridge.json")
	if err := tm.SaveJSON(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "ridge" || got.Corner(11, 20) != 40 || len(got.ResourceNodes) != 1 {
		t.Fatalf("loaded map mismatch: %+v", got.ResourceNodes)
	}
	if got.Start(1) != EnemyBase {
		t.Fatalf("start slot 1 = %v", got.Start(1))
	}
}
