package editor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/pathfind"
	"github.com/1siamBot/rts-sim/engine/systems"
)

// Height brush limits
const (
	HeightStep = 2.0
	MaxHeight  = 60.0
	NodePick   = 25.0 // world distance within which a click hits a resource node
)

// CornerEdit is one height sample change
type CornerEdit struct {
	CX, CZ   int
	Old, New float64
}

// Action represents an undoable editor action. Node and start lists are
// snapshotted whole when they change.
type Action struct {
	Corners     []CornerEdit
	NodesBefore []maplib.Vec
	NodesAfter  []maplib.Vec
	StartBefore []maplib.StartPos
	StartAfter  []maplib.StartPos
	touchNodes  bool
	touchStarts bool
}

// Editor holds map editor state
type Editor struct {
	Map       *maplib.TerrainMap
	Tool      EditorTool
	BrushSize int // radius in corners
	Slot      int // start slot for ToolStartPos
	Level     float64
	UndoStack []Action
	RedoStack []Action
	FilePath  string
	Modified  bool
	ShowGrid  bool
}

// EditorTool represents the current editor tool
type EditorTool int

const (
	ToolRaise EditorTool = iota
	ToolLower
	ToolFlatten
	ToolResource
	ToolStartPos
)

var toolNames = [...]string{"raise", "lower", "flatten", "resource", "start"}

func (t EditorTool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// NewEditor creates a new map editor over a flat map
func NewEditor(name string) *Editor {
	return &Editor{
		Map:       maplib.NewTerrainMap(name),
		BrushSize: 1,
		ShowGrid:  true,
	}
}

// LoadMap loads a map file
func (e *Editor) LoadMap(path string) error {
	tm, err := maplib.LoadJSON(path)
	if err != nil {
		return err
	}
	e.Map = tm
	e.FilePath = path
	e.Modified = false
	e.UndoStack = nil
	e.RedoStack = nil
	return nil
}

// SaveMap saves the current map
func (e *Editor) SaveMap(path string) error {
	if path == "" {
		path = e.FilePath
	}
	if path == "" {
		path = "untitled.rtsmap.json"
	}
	if err := e.Map.SaveJSON(path); err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	e.FilePath = path
	e.Modified = false
	return nil
}

// nearestCorner returns the height sample closest to a world position
func nearestCorner(p maplib.Vec) (int, int) {
	cx := int((p.X+maplib.GameSize/2)/maplib.TileSize + 0.5)
	cz := int((p.Z+maplib.GameSize/2)/maplib.TileSize + 0.5)
	return cx, cz
}

// Apply uses the current tool at a world position
func (e *Editor) Apply(p maplib.Vec) {
	var a Action
	switch e.Tool {
	case ToolRaise, ToolLower, ToolFlatten:
		a.Corners = e.paintHeights(p)
	case ToolResource:
		a = e.toggleNode(p)
	case ToolStartPos:
		a = e.moveStart(p)
	}
	if len(a.Corners) == 0 && !a.touchNodes && !a.touchStarts {
		return
	}
	e.UndoStack = append(e.UndoStack, a)
	e.RedoStack = nil
	e.Modified = true
}

func (e *Editor) paintHeights(p maplib.Vec) []CornerEdit {
	var edits []CornerEdit
	cx, cz := nearestCorner(p)
	r := e.BrushSize
	n := maplib.MapSize + 1
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			x, z := cx+dx, cz+dz
			if x < 0 || z < 0 || x >= n || z >= n || dx*dx+dz*dz > r*r {
				continue
			}
			old := e.Map.Corner(x, z)
			h := old
			switch e.Tool {
			case ToolRaise:
				h += HeightStep
			case ToolLower:
				h -= HeightStep
			case ToolFlatten:
				h = e.Level
			}
			h = max(0, min(MaxHeight, h))
			if h == old {
				continue
			}
			e.Map.SetCorner(x, z, h)
			edits = append(edits, CornerEdit{CX: x, CZ: z, Old: old, New: h})
		}
	}
	return edits
}

// toggleNode removes the resource node under p, or places one there
func (e *Editor) toggleNode(p maplib.Vec) Action {
	if !maplib.InBounds(maplib.WorldToTile(p)) {
		return Action{}
	}
	before := slices.Clone(e.Map.ResourceNodes)
	i := slices.IndexFunc(e.Map.ResourceNodes, func(n maplib.Vec) bool { return n.DistanceTo(p) <= NodePick })
	if i >= 0 {
		e.Map.ResourceNodes = slices.Delete(e.Map.ResourceNodes, i, i+1)
	} else {
		e.Map.ResourceNodes = append(e.Map.ResourceNodes, p)
	}
	return Action{NodesBefore: before, NodesAfter: slices.Clone(e.Map.ResourceNodes), touchNodes: true}
}

// moveStart places the current slot's start position at p
func (e *Editor) moveStart(p maplib.Vec) Action {
	if !maplib.InBounds(maplib.WorldToTile(p)) {
		return Action{}
	}
	before := slices.Clone(e.Map.StartPositions)
	i := slices.IndexFunc(e.Map.StartPositions, func(sp maplib.StartPos) bool { return sp.Slot == e.Slot })
	if i >= 0 {
		e.Map.StartPositions[i].X, e.Map.StartPositions[i].Z = p.X, p.Z
	} else {
		e.Map.StartPositions = append(e.Map.StartPositions, maplib.StartPos{Slot: e.Slot, X: p.X, Z: p.Z})
	}
	return Action{StartBefore: before, StartAfter: slices.Clone(e.Map.StartPositions), touchStarts: true}
}

func (e *Editor) apply(a Action, undo bool) {
	for _, c := range a.Corners {
		h := c.New
		if undo {
			h = c.Old
		}
		e.Map.SetCorner(c.CX, c.CZ, h)
	}
	if a.touchNodes {
		nodes := a.NodesAfter
		if undo {
			nodes = a.NodesBefore
		}
		e.Map.ResourceNodes = slices.Clone(nodes)
	}
	if a.touchStarts {
		starts := a.StartAfter
		if undo {
			starts = a.StartBefore
		}
		e.Map.StartPositions = slices.Clone(starts)
	}
	e.Modified = true
}

// Undo reverts the last action
func (e *Editor) Undo() {
	if len(e.UndoStack) == 0 {
		return
	}
	a := e.UndoStack[len(e.UndoStack)-1]
	e.UndoStack = e.UndoStack[:len(e.UndoStack)-1]
	e.apply(a, true)
	e.RedoStack = append(e.RedoStack, a)
}

// Redo re-applies the last undone action
func (e *Editor) Redo() {
	if len(e.RedoStack) == 0 {
		return
	}
	a := e.RedoStack[len(e.RedoStack)-1]
	e.RedoStack = e.RedoStack[:len(e.RedoStack)-1]
	e.apply(a, false)
	e.UndoStack = append(e.UndoStack, a)
}

// NewMap creates a fresh map
func (e *Editor) NewMap(name string) {
	e.Map = maplib.NewTerrainMap(name)
	e.FilePath = ""
	e.Modified = false
	e.UndoStack = nil
	e.RedoStack = nil
}

// Map validation failures
var (
	ErrStartBlocked     = errors.New("start position cannot fit a command center")
	ErrNoPath           = errors.New("start positions are not connected")
	ErrNodeBlocked      = errors.New("resource node on unwalkable ground")
	ErrNodeUnreachable  = errors.New("resource node unreachable from start")
	ErrStartMissing     = errors.New("missing start position")
	ErrTooFewNodes      = errors.New("map has no resource nodes")
	ErrNodeNearBase     = errors.New("resource node too close to a start position")
	ErrStartOutOfBounds = errors.New("start position off the map")
)

// Validate checks that a skirmish can be played on the map: both bases fit
// on walkable ground, are connected, and every resource node can be reached.
func Validate(tm *maplib.TerrainMap) error {
	ng := pathfind.NewNavGrid(tm)
	cc := systems.Buildings[core.CommandCenter]
	var errs []error

	var starts []maplib.Vec
	for _, slot := range []int{0, 1} {
		i := slices.IndexFunc(tm.StartPositions, func(sp maplib.StartPos) bool { return sp.Slot == slot })
		if i < 0 {
			errs = append(errs, fmt.Errorf("slot %d: %w", slot, ErrStartMissing))
			continue
		}
		p := maplib.Vec{X: tm.StartPositions[i].X, Z: tm.StartPositions[i].Z}
		if !maplib.InBounds(maplib.WorldToTile(p)) {
			errs = append(errs, fmt.Errorf("slot %d: %w", slot, ErrStartOutOfBounds))
			continue
		}
		if !ng.Clear(pathfind.FootprintAt(p, cc.Width, cc.Depth)) {
			errs = append(errs, fmt.Errorf("slot %d at %v: %w", slot, p, ErrStartBlocked))
		}
		starts = append(starts, p)
	}
	if len(starts) == 2 && !reachable(ng, starts[0], starts[1]) {
		errs = append(errs, ErrNoPath)
	}

	if len(tm.ResourceNodes) == 0 {
		errs = append(errs, ErrTooFewNodes)
	}
	for _, n := range tm.ResourceNodes {
		t := maplib.WorldToTile(n)
		if !ng.Walkable(t) {
			errs = append(errs, fmt.Errorf("node at %v: %w", n, ErrNodeBlocked))
			continue
		}
		for _, s := range starts {
			if n.DistanceTo(s) < maplib.ResourceClearRadius/2 {
				errs = append(errs, fmt.Errorf("node at %v: %w", n, ErrNodeNearBase))
			}
		}
		if len(starts) > 0 && !reachable(ng, starts[0], n) {
			errs = append(errs, fmt.Errorf("node at %v: %w", n, ErrNodeUnreachable))
		}
	}
	return errors.Join(errs...)
}

// reachable reports whether a unit could walk from a to the tile of b
func reachable(ng *pathfind.NavGrid, from, to maplib.Vec) bool {
	if maplib.WorldToTile(from) == maplib.WorldToTile(to) {
		return true
	}
	path := pathfind.FindPath(ng, from, to)
	return len(path) > 0 && maplib.WorldToTile(path[len(path)-1]) == maplib.WorldToTile(to)
}
