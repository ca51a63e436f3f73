package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/rts-sim/editor"
	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/input"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/render"
)

const (
	ScreenWidth  = 1200
	ScreenHeight = 1000
	SidebarWidth = 200

	paintInterval = 6 // frames between height strokes while the button is held
)

var toolKeys = []struct {
	key  ebiten.Key
	tool editor.EditorTool
	slot int
}{
	{ebiten.Key1, editor.ToolRaise, 0},
	{ebiten.Key2, editor.ToolLower, 0},
	{ebiten.Key3, editor.ToolFlatten, 0},
	{ebiten.Key4, editor.ToolResource, 0},
	{ebiten.Key5, editor.ToolStartPos, 0},
	{ebiten.Key6, editor.ToolStartPos, 1},
}

type EditorApp struct {
	editor   *editor.Editor
	renderer *render.Renderer
	input    *input.InputState
	log      *slog.Logger

	hover  maplib.Vec
	held   int
	drawn  terrainKey
	status []string
}

// terrainKey changes whenever the map or its edit history does
type terrainKey struct {
	m          *maplib.TerrainMap
	undo, redo int
}

func NewEditorApp(log *slog.Logger) *EditorApp {
	a := &EditorApp{
		editor:   editor.NewEditor("untitled"),
		renderer: render.NewRenderer(ScreenWidth-SidebarWidth, ScreenHeight),
		input:    input.NewInputState(),
		log:      log,
	}
	if len(os.Args) > 1 {
		if err := a.editor.LoadMap(os.Args[1]); err != nil {
			log.Warn("load map", "path", os.Args[1], "err", err)
		} else {
			log.Info("loaded map", "path", os.Args[1], "name", a.editor.Map.Name)
		}
	}
	return a
}

func (a *EditorApp) Update() error {
	a.input.Update()
	input.ScrollCamera(a.input, a.renderer.Camera, 1.0/60)
	a.hover = a.renderer.Camera.ScreenToWorld(a.input.MouseX, a.input.MouseY)
	ed := a.editor

	for _, tk := range toolKeys {
		if a.input.IsKeyJustPressed(tk.key) {
			ed.Tool = tk.tool
			ed.Slot = tk.slot
		}
	}
	if a.input.IsKeyJustPressed(ebiten.KeyTab) {
		ed.BrushSize = (ed.BrushSize + 1) % 5
	}
	if a.input.IsKeyJustPressed(ebiten.KeyG) {
		ed.ShowGrid = !ed.ShowGrid
	}

	ctrl := a.input.IsKeyPressed(ebiten.KeyControl)
	shift := a.input.IsKeyPressed(ebiten.KeyShift)
	if ctrl && a.input.IsKeyJustPressed(ebiten.KeyZ) {
		if shift {
			ed.Redo()
		} else {
			ed.Undo()
		}
	}
	if ctrl && a.input.IsKeyJustPressed(ebiten.KeyS) {
		if err := ed.SaveMap(""); err != nil {
			a.log.Error("save failed", "err", err)
			a.status = []string{err.Error()}
		} else {
			a.log.Info("saved map", "path", ed.FilePath)
			a.status = []string{"saved " + ed.FilePath}
		}
	}
	if a.input.IsKeyJustPressed(ebiten.KeyV) {
		a.validate()
	}

	if a.input.MouseX < ScreenWidth-SidebarWidth {
		a.paint()
	}

	if k := (terrainKey{ed.Map, len(ed.UndoStack), len(ed.RedoStack)}); k != a.drawn {
		a.drawn = k
		a.renderer.InvalidateTerrain()
	}
	return nil
}

func (a *EditorApp) paint() {
	ed := a.editor
	switch {
	case a.input.LeftJustPressed:
		a.held = 0
		if ed.Tool == editor.ToolFlatten {
			ed.Level = ed.Map.HeightAt(a.hover.X, a.hover.Z)
		}
		ed.Apply(a.hover)
	case a.input.LeftPressed:
		a.held++
		switch ed.Tool {
		case editor.ToolRaise, editor.ToolLower, editor.ToolFlatten:
			if a.held%paintInterval == 0 {
				ed.Apply(a.hover)
			}
		}
	}
}

func (a *EditorApp) validate() {
	err := editor.Validate(a.editor.Map)
	if err == nil {
		a.status = []string{"map OK"}
		a.log.Info("map valid", "name", a.editor.Map.Name)
		return
	}
	a.status = strings.Split(err.Error(), "\n")
	a.log.Warn("map invalid", "name", a.editor.Map.Name, "problems", len(a.status))
}

func (a *EditorApp) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 40, 255})
	cam := a.renderer.Camera
	tm := a.editor.Map

	a.renderer.DrawTerrain(screen, tm)
	if a.editor.ShowGrid {
		a.renderer.DrawGrid(screen)
	}

	for _, n := range tm.ResourceNodes {
		x, y := cam.WorldToScreen(n)
		vector.FillCircle(screen, x, y, cam.Scale(12), render.FactionColor(core.FactionNone), true)
	}
	for _, sp := range tm.StartPositions {
		x, y := cam.WorldToScreen(maplib.Vec{X: sp.X, Z: sp.Z})
		half := cam.Scale(20)
		clr := render.FactionColor(core.Faction(sp.Slot))
		vector.StrokeRect(screen, x-half, y-half, 2*half, 2*half, 2, clr, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("P%d", sp.Slot), int(x)-6, int(y)-6)
	}

	// brush outline
	if maplib.InBounds(maplib.WorldToTile(a.hover)) {
		x, y := cam.WorldToScreen(a.hover)
		r := cam.Scale(float64(max(a.editor.BrushSize, 0))*maplib.TileSize + maplib.TileSize/2)
		vector.StrokeCircle(screen, x, y, r, 1, color.RGBA{255, 255, 0, 180}, true)
	}

	a.drawSidebar(screen)

	info := fmt.Sprintf("(%.0f, %.0f) h=%.1f | [Arrows]Pan [Wheel]Zoom [G]Grid [Tab]Size [Ctrl+Z]Undo [Ctrl+S]Save [V]Validate",
		a.hover.X, a.hover.Z, tm.HeightAt(a.hover.X, a.hover.Z))
	ebitenutil.DebugPrintAt(screen, info, 5, ScreenHeight-20)
}

func (a *EditorApp) drawSidebar(screen *ebiten.Image) {
	sx := float32(ScreenWidth - SidebarWidth)
	vector.FillRect(screen, sx, 0, SidebarWidth, ScreenHeight, color.RGBA{20, 20, 40, 220}, false)

	x := int(sx) + 10
	y := 10
	ebitenutil.DebugPrintAt(screen, "=== "+a.editor.Map.Name+" ===", x, y)
	y += 24
	for _, tk := range toolKeys {
		active := a.editor.Tool == tk.tool && (tk.tool != editor.ToolStartPos || a.editor.Slot == tk.slot)
		if active {
			vector.FillRect(screen, sx+6, float32(y-2), SidebarWidth-12, 18, color.RGBA{100, 100, 200, 255}, false)
		}
		label := tk.tool.String()
		if tk.tool == editor.ToolStartPos {
			label = fmt.Sprintf("start P%d", tk.slot)
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("[%d] %s", int(tk.key-ebiten.Key0), label), x, y)
		y += 20
	}

	y += 10
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("brush %d", a.editor.BrushSize), x, y)
	y += 18
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("nodes %d", len(a.editor.Map.ResourceNodes)), x, y)
	y += 18
	if a.editor.Modified {
		ebitenutil.DebugPrintAt(screen, "* MODIFIED *", x, y)
	}
	y += 30
	for _, line := range a.status {
		ebitenutil.DebugPrintAt(screen, line, x, y)
		y += 16
	}
}

func (a *EditorApp) Layout(_, _ int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("RTS Map Editor")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(NewEditorApp(log)); err != nil {
		log.Error("editor exited", "err", err)
		os.Exit(1)
	}
}
