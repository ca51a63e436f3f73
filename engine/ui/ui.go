package ui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/systems"
)

const (
	buttonH      = 24
	buttonGap    = 4
	messageTicks = 180
	lineHeight   = 16
)

// Action is what a sidebar button asks for
type Action struct {
	Build   core.BuildingType
	Produce core.UnitType
}

// Button is one sidebar entry
type Button struct {
	X, Y, W, H int
	Label      string
	Action     Action
	Disabled   bool
}

func (b Button) contains(mx, my int) bool {
	return mx >= b.X && mx < b.X+b.W && my >= b.Y && my < b.Y+b.H
}

// sidebar entries in display order
var (
	buildOrder = []struct {
		t   core.BuildingType
		key string
	}{
		{core.PowerPlant, "P"},
		{core.Barracks, "B"},
		{core.WarFactory, "F"},
	}
	produceOrder = []struct {
		t   core.UnitType
		key string
	}{
		{core.Harvester, "Q"},
		{core.LightTank, "T"},
		{core.HeavyTank, "Y"},
	}
)

// Legend lists the keyboard controls
var Legend = []string{
	"LMB select / drag box   RMB order",
	"S stop  H return  G harvest",
	"Ctrl+0-9 assign group  0-9 recall",
	"Esc cancel  Space pause  Tab grid",
	"C copy match report",
}

// HUD is the main heads-up display
type HUD struct {
	ScreenW, ScreenH int
	SidebarWidth     int
	TopBarHeight     int
	Faction          core.Faction
	ShowLegend       bool

	message     string
	messageLeft int
}

func NewHUD(sw, sh int) *HUD {
	return &HUD{
		ScreenW:      sw,
		ScreenH:      sh,
		SidebarWidth: 200,
		TopBarHeight: 30,
		Faction:      core.FactionPlayer,
		ShowLegend:   true,
	}
}

// Notify shows a short message in the top bar
func (h *HUD) Notify(msg string) {
	h.message = msg
	h.messageLeft = messageTicks
}

// Message returns the message currently shown, if any
func (h *HUD) Message() string {
	if h.messageLeft <= 0 {
		return ""
	}
	return h.message
}

// Update ages the top bar message by one frame
func (h *HUD) Update() {
	if h.messageLeft > 0 {
		h.messageLeft--
	}
}

// TopBar returns the resource line
func (h *HUD) TopBar(w *core.World) string {
	eco := w.Economy[h.Faction]
	info := fmt.Sprintf("Credits: $%d | Power: %d", eco.Credits, eco.Power)
	if !eco.HasPower() {
		info += " | LOW POWER"
	}
	if msg := h.Message(); msg != "" {
		info += " | " + msg
	}
	return info
}

// Buttons lays out the sidebar. Entries the side cannot afford are disabled.
func (h *HUD) Buttons(w *core.World) []Button {
	credits := w.Economy[h.Faction].Credits
	x := h.ScreenW - h.SidebarWidth + 10
	bw := h.SidebarWidth - 20
	y := h.TopBarHeight + 30

	var out []Button
	for _, b := range buildOrder {
		def := systems.Buildings[b.t]
		out = append(out, Button{
			X: x, Y: y, W: bw, H: buttonH,
			Label:    fmt.Sprintf("[%s] %s $%d", b.key, b.t, def.Cost),
			Action:   Action{Build: b.t},
			Disabled: credits < def.Cost,
		})
		y += buttonH + buttonGap
	}
	y += 30
	for _, u := range produceOrder {
		def := systems.Units[u.t]
		out = append(out, Button{
			X: x, Y: y, W: bw, H: buttonH,
			Label:    fmt.Sprintf("[%s] %s $%d", u.key, u.t, def.Cost),
			Action:   Action{Produce: u.t},
			Disabled: credits < def.Cost,
		})
		y += buttonH + buttonGap
	}
	return out
}

// HandleClick processes sidebar clicks. Returns the chosen action and
// whether the click was consumed by the HUD.
func (h *HUD) HandleClick(w *core.World, mx, my int) (Action, bool) {
	if !h.IsInSidebar(mx, my) && my >= h.TopBarHeight {
		return Action{}, false
	}
	for _, b := range h.Buttons(w) {
		if b.contains(mx, my) && !b.Disabled {
			return b.Action, true
		}
	}
	return Action{}, true
}

// IsInSidebar returns true if the mouse position is over the sidebar
func (h *HUD) IsInSidebar(mx, _ int) bool {
	return mx >= h.ScreenW-h.SidebarWidth
}

// SelectionInfo describes the current selection, one line per entry
func (h *HUD) SelectionInfo(w *core.World) []string {
	var live []*core.Entity
	for _, id := range w.Selection {
		if e := w.Get(id); e != nil {
			live = append(live, e)
		}
	}
	if len(live) == 0 {
		return nil
	}
	e := live[0]
	var lines []string
	if len(live) > 1 {
		lines = append(lines, fmt.Sprintf("%d selected", len(live)))
	}
	switch {
	case e.Unit != nil:
		u := e.Unit
		lines = append(lines, fmt.Sprintf("%s  HP %d/%d  %s", u.Type, e.Health.Current, e.Health.Max, u.State))
		if e.IsHarvester() {
			lines = append(lines, fmt.Sprintf("cargo %d/%d", u.Cargo.Carried, u.Cargo.Capacity))
		} else {
			lines = append(lines, fmt.Sprintf("DMG %d  RNG %.0f", u.Weapon.Damage, u.Weapon.Range))
		}
	case e.Building != nil:
		b := e.Building
		lines = append(lines, fmt.Sprintf("%s  HP %d/%d", b.Type, e.Health.Current, e.Health.Max))
		switch {
		case b.Constructing:
			lines = append(lines, fmt.Sprintf("constructing %.0f%%", b.Construction))
		case b.Production.Active:
			line := fmt.Sprintf("producing %s %.0f%%", b.Production.Type, b.Production.Progress)
			if n := len(b.Production.Queue); n > 0 {
				line += fmt.Sprintf("  +%d queued", n)
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// GameOverText returns the end banner, or "" while the match runs
func GameOverText(o core.Outcome) string {
	switch o {
	case core.OutcomeVictory:
		return "VICTORY"
	case core.OutcomeDefeat:
		return "DEFEAT"
	case core.OutcomeDraw:
		return "DRAW"
	}
	return ""
}

// Draw renders the entire HUD
func (h *HUD) Draw(screen *ebiten.Image, w *core.World, stats *MatchStats, paused bool) {
	h.drawTopBar(screen, w)
	h.drawSidebar(screen, w)
	h.drawSelection(screen, w)
	if paused && !w.Over() {
		ebitenutil.DebugPrintAt(screen, "PAUSED", (h.ScreenW-h.SidebarWidth)/2-18, h.ScreenH/2)
	}
	if w.Over() {
		h.drawGameOver(screen, w, stats)
	}
}

func (h *HUD) drawTopBar(screen *ebiten.Image, w *core.World) {
	vector.FillRect(screen, 0, 0, float32(h.ScreenW), float32(h.TopBarHeight), color.RGBA{0, 0, 0, 180}, false)
	ebitenutil.DebugPrintAt(screen, h.TopBar(w), 10, 8)
}

func (h *HUD) drawSidebar(screen *ebiten.Image, w *core.World) {
	sx := float32(h.ScreenW - h.SidebarWidth)
	vector.FillRect(screen, sx, float32(h.TopBarHeight), float32(h.SidebarWidth), float32(h.ScreenH-h.TopBarHeight), color.RGBA{20, 20, 40, 220}, false)
	ebitenutil.DebugPrintAt(screen, "=== BUILD ===", int(sx)+10, h.TopBarHeight+10)

	buttons := h.Buttons(w)
	for i, b := range buttons {
		if b.Action.Produce != "" && (i == 0 || buttons[i-1].Action.Produce == "") {
			ebitenutil.DebugPrintAt(screen, "=== UNITS ===", b.X, b.Y-22)
		}
		fill, edge := color.RGBA{60, 60, 100, 255}, color.RGBA{100, 100, 160, 255}
		if b.Action.Produce != "" {
			fill, edge = color.RGBA{60, 80, 60, 255}, color.RGBA{100, 140, 100, 255}
		}
		if b.Disabled {
			fill, edge = color.RGBA{40, 40, 40, 255}, color.RGBA{70, 70, 70, 255}
		}
		vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), fill, false)
		vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, edge, false)
		ebitenutil.DebugPrintAt(screen, b.Label, b.X+5, b.Y+5)
	}

	if h.ShowLegend {
		y := h.ScreenH - len(Legend)*lineHeight - 10
		for i, line := range Legend {
			ebitenutil.DebugPrintAt(screen, line, int(sx)+5, y+i*lineHeight)
		}
	}
}

func (h *HUD) drawSelection(screen *ebiten.Image, w *core.World) {
	lines := h.SelectionInfo(w)
	if len(lines) == 0 {
		return
	}
	panelH := 20 + len(lines)*lineHeight
	py := h.ScreenH - panelH
	pw := h.ScreenW - h.SidebarWidth
	vector.FillRect(screen, 0, float32(py), float32(pw), float32(panelH), color.RGBA{0, 0, 0, 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, py+10+i*lineHeight)
	}
}

func (h *HUD) drawGameOver(screen *ebiten.Image, w *core.World, stats *MatchStats) {
	lines := []string{GameOverText(w.Outcome), ""}
	if stats != nil {
		lines = append(lines, stats.Lines(h.Faction)...)
	}
	text := strings.Join(lines, "\n")
	bw, bh := 260, 30+len(lines)*lineHeight
	x := (h.ScreenW-h.SidebarWidth)/2 - bw/2
	y := h.ScreenH/2 - bh/2
	vector.FillRect(screen, float32(x), float32(y), float32(bw), float32(bh), color.RGBA{0, 0, 0, 210}, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(bw), float32(bh), 1, color.RGBA{150, 150, 200, 255}, false)
	ebitenutil.DebugPrintAt(screen, text, x+15, y+15)
}
