package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/render"
	"github.com/1siamBot/rts-sim/engine/sim"
	"github.com/1siamBot/rts-sim/engine/systems"
)

// Picker resolves screen positions, including box selection
type Picker interface {
	sim.Picker
	PickRect(x1, y1, x2, y2 int) []core.EntityID
}

type buildKey struct {
	key ebiten.Key
	t   core.BuildingType
}

type produceKey struct {
	key ebiten.Key
	t   core.UnitType
}

var (
	buildKeys = []buildKey{
		{ebiten.KeyB, core.Barracks},
		{ebiten.KeyF, core.WarFactory},
		{ebiten.KeyP, core.PowerPlant},
	}
	produceKeys = []produceKey{
		{ebiten.KeyQ, core.Harvester},
		{ebiten.KeyT, core.LightTank},
		{ebiten.KeyY, core.HeavyTank},
	}
	groupKeys = [...]ebiten.Key{
		ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
		ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
	}
)

// Controller turns player input into commands. It holds only UI state; the
// world is read, never written.
type Controller struct {
	Faction core.Faction
	Placing core.BuildingType // building waiting for a site, "" when none
}

// NewController creates a controller for the human side
func NewController() *Controller {
	return &Controller{Faction: core.FactionPlayer}
}

// Commands returns the commands for one frame of input, in the order they
// should be issued
func (c *Controller) Commands(s *InputState, w *core.World, p Picker) []core.Command {
	var out []core.Command
	emit := func(cmd core.Command) {
		cmd.Faction = c.Faction
		out = append(out, cmd)
	}
	shift := s.IsKeyPressed(ebiten.KeyShift)

	if s.IsKeyJustPressed(ebiten.KeyEscape) {
		c.Placing = ""
	}
	for _, bk := range buildKeys {
		if s.IsKeyJustPressed(bk.key) {
			c.Placing = bk.t
		}
	}
	for _, pk := range produceKeys {
		if !s.IsKeyJustPressed(pk.key) {
			continue
		}
		if cmd, ok := c.ProduceOrder(w, pk.t); ok {
			emit(cmd)
		}
	}
	if s.IsKeyJustPressed(ebiten.KeyS) {
		emit(core.Command{Type: core.CmdStop})
	}
	if s.IsKeyJustPressed(ebiten.KeyH) {
		emit(core.Command{Type: core.CmdReturnToBase})
	}
	if s.IsKeyJustPressed(ebiten.KeyG) {
		emit(core.Command{Type: core.CmdHarvest})
	}
	for i, k := range groupKeys {
		if !s.IsKeyJustPressed(k) {
			continue
		}
		if s.IsKeyPressed(ebiten.KeyControl) {
			emit(core.Command{Type: core.CmdAssignGroup, Group: i})
		} else {
			emit(core.Command{Type: core.CmdRecallGroup, Group: i})
		}
	}

	if c.Placing != "" {
		switch {
		case s.RightJustPressed:
			c.Placing = ""
		case s.LeftJustPressed:
			if pos, ok := p.PickGround(s.MouseX, s.MouseY); ok {
				emit(core.Build(c.Faction, c.Placing, pos))
				if !shift {
					c.Placing = ""
				}
			}
		}
		return out
	}

	if s.LeftJustReleased {
		if s.DragEnded {
			ids := p.PickRect(s.DragStartX, s.DragStartY, s.MouseX, s.MouseY)
			emit(core.Command{Type: core.CmdSelect, Units: ids, Additive: shift})
		} else if e := c.visibleAt(w, p, s.MouseX, s.MouseY); e != nil && e.Faction == c.Faction {
			emit(core.Command{Type: core.CmdSelect, Units: []core.EntityID{e.ID}, Additive: shift})
		} else if !shift {
			emit(core.Command{Type: core.CmdSelect})
		}
	}
	if s.RightJustPressed {
		for _, cmd := range c.order(w, p, s.MouseX, s.MouseY) {
			emit(cmd)
		}
	}
	return out
}

// visibleAt returns the entity under the cursor if this side can see it
func (c *Controller) visibleAt(w *core.World, p Picker, sx, sy int) *core.Entity {
	e := p.PickEntity(sx, sy)
	if e == nil || !w.CanSee(c.Faction, e) {
		return nil
	}
	return e
}

// order resolves a right click against the selection
func (c *Controller) order(w *core.World, p Picker, sx, sy int) []core.Command {
	var units, buildings []*core.Entity
	for _, id := range w.Selection {
		switch e := w.Get(id); {
		case e == nil || e.Faction != c.Faction:
		case e.Unit != nil:
			units = append(units, e)
		case e.Building != nil:
			buildings = append(buildings, e)
		}
	}
	target := c.visibleAt(w, p, sx, sy)
	pos, onMap := p.PickGround(sx, sy)

	if len(units) == 0 {
		if !onMap {
			return nil
		}
		var out []core.Command
		for _, b := range buildings {
			out = append(out, core.Command{Type: core.CmdSetRally, Target: b.ID, Pos: pos})
		}
		return out
	}

	switch {
	case target != nil && target.Faction == c.Faction.Opponent():
		return []core.Command{core.Attack(c.Faction, nil, target.ID)}
	case target != nil && target.Resource != nil:
		return []core.Command{{Type: core.CmdHarvest, Target: target.ID}}
	case target != nil && target.Building != nil && target.Faction == c.Faction && target.Building.IsRefinery():
		return []core.Command{{Type: core.CmdReturnToBase}}
	case onMap:
		return []core.Command{core.Move(c.Faction, nil, pos)}
	}
	return nil
}

// producer picks the building that should take a production order: a
// selected building first, then the least busy owned one
func (c *Controller) producer(w *core.World, t core.UnitType) *core.Entity {
	can := func(e *core.Entity) bool {
		return e != nil && e.Building != nil && e.Faction == c.Faction &&
			!e.Building.Constructing && systems.Buildings[e.Building.Type].Produces(t)
	}
	for _, id := range w.Selection {
		if e := w.Get(id); can(e) {
			return e
		}
	}
	var best *core.Entity
	for _, e := range w.Buildings(c.Faction) {
		if !can(e) {
			continue
		}
		if best == nil || queueLen(e) < queueLen(best) {
			best = e
		}
	}
	return best
}

// ProduceOrder builds the command queueing t at the best producer, if any
func (c *Controller) ProduceOrder(w *core.World, t core.UnitType) (core.Command, bool) {
	b := c.producer(w, t)
	if b == nil {
		return core.Command{}, false
	}
	return core.Produce(c.Faction, b.ID, t), true
}

func queueLen(e *core.Entity) int {
	n := len(e.Building.Production.Queue)
	if e.Building.Production.Active {
		n++
	}
	return n
}

// Ghost reports where the pending building would go and whether the site is clear
func (c *Controller) Ghost(w *core.World, p Picker, s *InputState) (pos maplib.Vec, valid, ok bool) {
	if c.Placing == "" {
		return maplib.Vec{}, false, false
	}
	pos, ok = p.PickGround(s.MouseX, s.MouseY)
	if !ok {
		return pos, false, false
	}
	return pos, systems.IsAreaClear(w, pos, c.Placing), true
}

// ScrollCamera pans with the arrow keys and screen edges and zooms with the wheel
func ScrollCamera(s *InputState, cam *render.Camera, dt float64) {
	step := cam.Speed * dt
	var dx, dy float64
	if s.IsKeyPressed(ebiten.KeyLeft) {
		dx -= step
	}
	if s.IsKeyPressed(ebiten.KeyRight) {
		dx += step
	}
	if s.IsKeyPressed(ebiten.KeyUp) {
		dy -= step
	}
	if s.IsKeyPressed(ebiten.KeyDown) {
		dy += step
	}
	if cam.EdgeScroll && !s.Dragging {
		switch {
		case s.MouseX < cam.EdgeSize:
			dx -= step
		case s.MouseX >= cam.ScreenW-cam.EdgeSize:
			dx += step
		}
		switch {
		case s.MouseY < cam.EdgeSize:
			dy -= step
		case s.MouseY >= cam.ScreenH-cam.EdgeSize:
			dy += step
		}
	}
	if dx != 0 || dy != 0 {
		cam.Pan(dx, dy)
	}
	if s.ScrollY != 0 {
		cam.ZoomAt(math.Pow(1.1, s.ScrollY), s.MouseX, s.MouseY)
	}
}
