package editor

import (
	"errors"
	"math/rand"
	"path/filepath"
	"slices"
	"testing"

	"github.com/1siamBot/rts-sim/engine/maplib"
)

func TestApply_HeightBrushUndoRedo(t *testing.T) {
	e := NewEditor("test")
	e.Apply(maplib.Vec{X: 1, Z: -2})
	if len(e.UndoStack) != 1 || !e.Modified {
		t.Fatal("raise not recorded")
	}
	if got := len(e.UndoStack[0].Corners); got != 5 {
		t.Fatalf("brush radius 1 touched %d corners", got)
	}
	if h := e.Map.HeightAt(0, 0); h != HeightStep {
		t.Fatalf("center height = %v", h)
	}
	if h := e.Map.HeightAt(20, 20); h != 0 {
		t.Fatalf("diagonal corner raised to %v", h)
	}

	e.Undo()
	if h := e.Map.HeightAt(0, 0); h != 0 || len(e.RedoStack) != 1 {
		t.Fatalf("undo left height %v", h)
	}
	e.Redo()
	if h := e.Map.HeightAt(0, 0); h != HeightStep || len(e.UndoStack) != 1 {
		t.Fatalf("redo height %v", h)
	}

	e.Apply(maplib.Vec{X: 100})
	if len(e.RedoStack) != 0 {
		t.Fatal("new edit should clear redo")
	}
}

func TestApply_ClampAndFlatten(t *testing.T) {
	e := NewEditor("test")
	e.Tool = ToolLower
	e.Apply(maplib.Vec{})
	if len(e.UndoStack) != 0 {
		t.Fatal("lowering flat ground below zero should be a no-op")
	}

	e.Tool = ToolFlatten
	e.Level = 100
	e.BrushSize = 0
	e.Apply(maplib.Vec{})
	if h := e.Map.HeightAt(0, 0); h != MaxHeight {
		t.Fatalf("flatten height = %v", h)
	}
}

func TestApply_ResourceToggle(t *testing.T) {
	e := NewEditor("test")
	e.Tool = ToolResource
	at := maplib.Vec{X: 100, Z: 50}
	e.Apply(at)
	e.Apply(maplib.Vec{X: -100})
	if len(e.Map.ResourceNodes) != 2 {
		t.Fatalf("nodes = %v", e.Map.ResourceNodes)
	}
	e.Apply(at.Add(maplib.Vec{X: 10}))
	if len(e.Map.ResourceNodes) != 1 || e.Map.ResourceNodes[0] != (maplib.Vec{X: -100}) {
		t.Fatalf("toggle did not remove the node: %v", e.Map.ResourceNodes)
	}
	e.Undo()
	if len(e.Map.ResourceNodes) != 2 {
		t.Fatalf("undo nodes = %v", e.Map.ResourceNodes)
	}
	e.Apply(maplib.Vec{X: 900})
	if len(e.UndoStack) != 2 {
		t.Fatal("off-map click recorded an action")
	}
}

func TestApply_StartPosition(t *testing.T) {
	e := NewEditor("test")
	e.Tool = ToolStartPos
	e.Slot = 1
	e.Apply(maplib.Vec{X: 300, Z: -300})
	if got := e.Map.Start(1); got != (maplib.Vec{X: 300, Z: -300}) {
		t.Fatalf("start = %v", got)
	}
	e.Undo()
	if got := e.Map.Start(1); got != maplib.EnemyBase {
		t.Fatalf("undo start = %v", got)
	}
	if e.Tool.String() != "start" {
		t.Fatalf("tool name = %q", e.Tool)
	}
}

func playable() *maplib.TerrainMap {
	tm := maplib.NewTerrainMap("test")
	tm.PlaceResources(rand.New(rand.NewSource(1)), maplib.ResourceNodeCount)
	return tm
}

func TestValidate(t *testing.T) {
	if err := Validate(playable()); err != nil {
		t.Fatalf("default map invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(tm *maplib.TerrainMap)
		want   error
	}{
		{"ridge splits the map", func(tm *maplib.TerrainMap) {
			tm.Raise(maplib.Tile{X: 24, Z: 0}, maplib.Tile{X: 25, Z: maplib.MapSize - 1}, 40)
		}, ErrNoPath},
		{"base on a slope", func(tm *maplib.TerrainMap) {
			tm.SetCorner(12, 12, 30)
		}, ErrStartBlocked},
		{"missing slot", func(tm *maplib.TerrainMap) {
			tm.StartPositions = tm.StartPositions[:1]
		}, ErrStartMissing},
		{"no resources", func(tm *maplib.TerrainMap) {
			tm.ResourceNodes = nil
		}, ErrTooFewNodes},
		{"node next to base", func(tm *maplib.TerrainMap) {
			tm.ResourceNodes = append(tm.ResourceNodes, maplib.PlayerBase.Add(maplib.Vec{X: 30}))
		}, ErrNodeNearBase},
		{"node on a cliff", func(tm *maplib.TerrainMap) {
			tm.SetCorner(40, 5, 30)
			tm.ResourceNodes = append(tm.ResourceNodes, maplib.TileCenter(maplib.Tile{X: 40, Z: 5}))
		}, ErrNodeBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := playable()
			tt.mutate(tm)
			if err := Validate(tm); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	e := NewEditor("roundtrip")
	e.Apply(maplib.Vec{X: 200, Z: 200})
	e.Tool = ToolResource
	e.Apply(maplib.Vec{X: -50, Z: 75})

	path := filepath.Join(t.TempDir(), "m.json")
	if err := e.SaveMap(path); err != nil {
		t.Fatal(err)
	}
	if e.Modified || e.FilePath != path {
		t.Fatal("save did not reset state")
	}

	loaded := NewEditor("other")
	if err := loaded.LoadMap(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Map.Name != "roundtrip" || !slices.Equal(loaded.Map.Heights, e.Map.Heights) {
		t.Fatal("heights lost in round trip")
	}
	if !slices.Equal(loaded.Map.ResourceNodes, e.Map.ResourceNodes) || len(loaded.UndoStack) != 0 {
		t.Fatal("nodes lost in round trip")
	}
}
