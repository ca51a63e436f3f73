package render

import (
	"cmp"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
)

const (
	flashFrames     = 6
	blastFrames     = 20
	tracerFrames    = 4
	terrainTexture  = 500 // pixels per side of the cached ground image
	minPickRadiusPx = 8
)

// visual is the render-side record for one entity
type visual struct {
	e     *core.Entity
	flash int // frames of hit flash left
}

// effect is a short-lived decoration with no entity behind it
type effect struct {
	from, to maplib.Vec
	radius   float64
	frames   int
	total    int
	tracer   bool
}

// Renderer draws a world top-down. It tracks visuals through spawn and
// destroy notifications and never mutates the simulation.
type Renderer struct {
	Camera   *Camera
	ShowGrid bool

	visuals map[core.EntityID]*visual
	order   []core.EntityID
	effects []effect

	terrain    *ebiten.Image
	terrainSrc maplib.Terrain
}

// NewRenderer creates a renderer for a screen size
func NewRenderer(screenW, screenH int) *Renderer {
	return &Renderer{
		Camera:  NewCamera(screenW, screenH),
		visuals: make(map[core.EntityID]*visual),
	}
}

// drawLayer orders resources under buildings under units
func drawLayer(e *core.Entity) int {
	switch e.Kind {
	case core.KindResource:
		return 0
	case core.KindBuilding:
		return 1
	default:
		return 2
	}
}

// EntitySpawned registers a visual for a new entity
func (r *Renderer) EntitySpawned(e *core.Entity) {
	if _, ok := r.visuals[e.ID]; ok {
		return
	}
	r.visuals[e.ID] = &visual{e: e}
	i, _ := slices.BinarySearchFunc(r.order, e, func(id core.EntityID, t *core.Entity) int {
		o := r.visuals[id].e
		return cmp.Or(cmp.Compare(drawLayer(o), drawLayer(t)), cmp.Compare(o.ID, t.ID))
	})
	r.order = slices.Insert(r.order, i, e.ID)
}

// EntityDestroyed drops an entity's visual. Units and buildings leave an explosion.
func (r *Renderer) EntityDestroyed(e *core.Entity) {
	if _, ok := r.visuals[e.ID]; !ok {
		return
	}
	delete(r.visuals, e.ID)
	r.order = slices.DeleteFunc(r.order, func(id core.EntityID) bool { return id == e.ID })
	if e.Kind != core.KindResource && e.Visible {
		size := 12.0
		if e.Building != nil {
			size = max(e.Building.Width, e.Building.Depth)
		}
		r.effects = append(r.effects, effect{from: e.Pos, radius: size, frames: blastFrames, total: blastFrames})
	}
}

// Listen subscribes to the combat events the renderer decorates
func (r *Renderer) Listen(bus *core.EventBus) {
	bus.On(core.EvtDamaged, func(ev core.Event) {
		if v, ok := r.visuals[ev.Entity.ID]; ok {
			v.flash = flashFrames
		}
	})
	bus.On(core.EvtWeaponFired, func(ev core.Event) {
		if ev.Entity.Visible {
			r.effects = append(r.effects, effect{from: ev.Entity.Pos, to: ev.Pos, frames: tracerFrames, total: tracerFrames, tracer: true})
		}
	})
}

// VisualCount returns the number of tracked visuals
func (r *Renderer) VisualCount() int { return len(r.visuals) }

// Update ages effects and flashes by one frame
func (r *Renderer) Update() {
	for _, v := range r.visuals {
		if v.flash > 0 {
			v.flash--
		}
	}
	r.effects = slices.DeleteFunc(r.effects, func(fx effect) bool { return fx.frames <= 0 })
	for i := range r.effects {
		r.effects[i].frames--
	}
}

// pickRadius is the world radius that counts as a hit on an entity
func pickRadius(e *core.Entity) float64 {
	switch {
	case e.Building != nil:
		return max(e.Building.Width, e.Building.Depth) / 2
	case e.Resource != nil:
		return 12 * e.Resource.Scale()
	case e.Unit != nil && e.Unit.Type == core.HeavyTank:
		return 9
	default:
		return 7
	}
}

// PickEntity returns the visible entity under a screen point, preferring
// units over buildings over resources
func (r *Renderer) PickEntity(sx, sy int) *core.Entity {
	p := r.Camera.ScreenToWorld(sx, sy)
	minRadius := minPickRadiusPx / r.Camera.Zoom
	for i := len(r.order) - 1; i >= 0; i-- {
		e := r.visuals[r.order[i]].e
		if !e.Visible || !e.Alive() {
			continue
		}
		if p.DistanceTo(e.Pos) <= max(pickRadius(e), minRadius) {
			return e
		}
	}
	return nil
}

// PickGround returns the world point under a screen position if it is on the map
func (r *Renderer) PickGround(sx, sy int) (maplib.Vec, bool) {
	p := r.Camera.ScreenToWorld(sx, sy)
	return p, maplib.InBounds(maplib.WorldToTile(p))
}

// PickRect returns the player's units inside a screen rectangle
func (r *Renderer) PickRect(x1, y1, x2, y2 int) []core.EntityID {
	a := r.Camera.ScreenToWorld(min(x1, x2), min(y1, y2))
	b := r.Camera.ScreenToWorld(max(x1, x2), max(y1, y2))
	var out []core.EntityID
	for _, id := range r.order {
		e := r.visuals[id].e
		if e.Kind != core.KindUnit || e.Faction != core.FactionPlayer {
			continue
		}
		if e.Pos.X >= a.X && e.Pos.X <= b.X && e.Pos.Z >= a.Z && e.Pos.Z <= b.Z {
			out = append(out, id)
		}
	}
	return out
}

// Draw renders terrain, entities, effects and fog
func (r *Renderer) Draw(screen *ebiten.Image, w *core.World) {
	r.DrawTerrain(screen, w.Terrain)
	if r.ShowGrid {
		r.DrawGrid(screen)
	}
	for _, id := range r.order {
		v := r.visuals[id]
		if !v.e.Visible {
			continue
		}
		selected := slices.Contains(w.Selection, id)
		switch v.e.Kind {
		case core.KindResource:
			r.drawResource(screen, v.e)
		case core.KindBuilding:
			r.drawBuilding(screen, v, selected)
		case core.KindUnit:
			r.drawUnit(screen, v, selected)
		}
	}
	r.drawEffects(screen)
	r.drawFog(screen, w.Fog[core.FactionPlayer])
}

// InvalidateTerrain drops the cached ground image after heights change
func (r *Renderer) InvalidateTerrain() {
	r.terrain = nil
}

// DrawTerrain draws the shaded ground
func (r *Renderer) DrawTerrain(screen *ebiten.Image, t maplib.Terrain) {
	if r.terrain == nil || r.terrainSrc != t {
		r.terrain = ebiten.NewImageFromImage(TerrainImage(t, terrainTexture))
		r.terrainSrc = t
	}
	sx, sy := r.Camera.WorldToScreen(maplib.Vec{X: -maplib.GameSize / 2, Z: -maplib.GameSize / 2})
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(maplib.GameSize*r.Camera.Zoom/terrainTexture, maplib.GameSize*r.Camera.Zoom/terrainTexture)
	op.GeoM.Translate(float64(sx), float64(sy))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(r.terrain, op)
}

// DrawGrid draws tile lines over the visible area
func (r *Renderer) DrawGrid(screen *ebiten.Image) {
	lo, hi := r.Camera.VisibleTileRange()
	top, bottom := float32(0), float32(r.Camera.ScreenH)
	for x := lo.X; x <= hi.X+1; x++ {
		sx, _ := r.Camera.WorldToScreen(maplib.Vec{X: float64(x)*maplib.TileSize - maplib.GameSize/2})
		vector.StrokeLine(screen, sx, top, sx, bottom, 1, gridColor, false)
	}
	left, right := float32(0), float32(r.Camera.ScreenW)
	for z := lo.Z; z <= hi.Z+1; z++ {
		_, sy := r.Camera.WorldToScreen(maplib.Vec{Z: float64(z)*maplib.TileSize - maplib.GameSize/2})
		vector.StrokeLine(screen, left, sy, right, sy, 1, gridColor, false)
	}
}

func (r *Renderer) drawFog(screen *ebiten.Image, fog *core.FogOfWar) {
	if fog == nil {
		return
	}
	lo, hi := r.Camera.VisibleTileRange()
	size := r.Camera.Scale(maplib.TileSize)
	for z := lo.Z; z <= hi.Z; z++ {
		for x := lo.X; x <= hi.X; x++ {
			t := maplib.Tile{X: x, Z: z}
			var clr = shroud
			switch fog.At(t) {
			case core.FogVisible:
				continue
			case core.FogExplored:
				clr = explored
			}
			c := maplib.TileCenter(t)
			sx, sy := r.Camera.WorldToScreen(maplib.Vec{X: c.X - maplib.TileSize/2, Z: c.Z - maplib.TileSize/2})
			vector.FillRect(screen, sx, sy, size+1, size+1, clr, false)
		}
	}
}

func (r *Renderer) drawEffects(screen *ebiten.Image) {
	for _, fx := range r.effects {
		life := float64(fx.frames) / float64(fx.total)
		if fx.tracer {
			x0, y0 := r.Camera.WorldToScreen(fx.from)
			x1, y1 := r.Camera.WorldToScreen(fx.to)
			vector.StrokeLine(screen, x0, y0, x1, y1, 1.5, Shade(blastColor, life), true)
			continue
		}
		sx, sy := r.Camera.WorldToScreen(fx.from)
		radius := r.Camera.Scale(fx.radius * (1.5 - life/2))
		clr := blastColor
		clr.A = uint8(200 * life)
		vector.FillCircle(screen, sx, sy, radius, clr, true)
	}
}

// DrawSelectionBox draws the drag rectangle
func (r *Renderer) DrawSelectionBox(screen *ebiten.Image, x1, y1, x2, y2 int) {
	x, y := float32(min(x1, x2)), float32(min(y1, y2))
	w, h := float32(max(x1, x2))-x, float32(max(y1, y2))-y
	vector.FillRect(screen, x, y, w, h, dragFill, false)
	vector.StrokeRect(screen, x, y, w, h, 1, dragEdge, false)
}
