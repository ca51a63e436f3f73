package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
)

const (
	barHeight   = 3
	minimapDot  = 2
	resourceDot = 12 // world radius of a full resource node
)

func (r *Renderer) drawResource(screen *ebiten.Image, e *core.Entity) {
	sx, sy := r.Camera.WorldToScreen(e.Pos)
	radius := r.Camera.Scale(resourceDot * e.Resource.Scale())
	vector.FillCircle(screen, sx, sy, radius, FactionColor(core.FactionNone), true)
	vector.StrokeCircle(screen, sx, sy, radius, 1, Shade(FactionColor(core.FactionNone), 0.6), true)
}

func (r *Renderer) drawBuilding(screen *ebiten.Image, v *visual, selected bool) {
	e, b := v.e, v.e.Building
	sx, sy := r.Camera.WorldToScreen(maplib.Vec{X: e.Pos.X - b.Width/2, Z: e.Pos.Z - b.Depth/2})
	w, h := r.Camera.Scale(b.Width), r.Camera.Scale(b.Depth)

	clr := FactionColor(e.Faction)
	if b.Constructing {
		clr = Shade(clr, 0.45)
		clr.A = 180
	}
	if v.flash > 0 {
		clr = lerpColor(clr, color.RGBA{255, 255, 255, 255}, 0.5)
	}
	vector.FillRect(screen, sx, sy, w, h, clr, false)
	edge := Shade(clr, 0.5)
	if selected {
		edge = selectRing
	}
	vector.StrokeRect(screen, sx, sy, w, h, 1.5, edge, false)

	if b.Constructing {
		r.drawBar(screen, sx, sy+h+2, w, b.ConstructionFraction(), FactionColor(e.Faction))
	} else if b.Production.Active {
		r.drawBar(screen, sx, sy+h+2, w, b.Production.Progress/100, selectRing)
	}
	if selected || e.Health.Current < e.Health.Max {
		r.drawBar(screen, sx, sy-barHeight-2, w, e.Health.Ratio(), HealthColor(e.Health.Ratio()))
	}
}

func (r *Renderer) drawUnit(screen *ebiten.Image, v *visual, selected bool) {
	e := v.e
	sx, sy := r.Camera.WorldToScreen(e.Pos)
	radius := r.Camera.Scale(pickRadius(e))

	clr := FactionColor(e.Faction)
	if v.flash > 0 {
		clr = lerpColor(clr, color.RGBA{255, 255, 255, 255}, 0.5)
	}
	if selected {
		vector.StrokeCircle(screen, sx, sy, radius+3, 1.5, selectRing, true)
	}
	if e.IsHarvester() {
		vector.FillRect(screen, sx-radius, sy-radius, radius*2, radius*2, clr, true)
		if e.Unit.Cargo.Carried > 0 {
			fill := float32(e.Unit.Cargo.Carried) / float32(e.Unit.Cargo.Capacity)
			vector.FillRect(screen, sx-radius/2, sy-radius/2, radius*fill, radius, FactionColor(core.FactionNone), false)
		}
	} else {
		vector.FillCircle(screen, sx, sy, radius, clr, true)
	}

	// facing is atan2(dx, dz); screen x follows world x and screen y follows world z
	length := radius * 1.6
	hx := sx + length*float32(math.Sin(e.Facing))
	hy := sy + length*float32(math.Cos(e.Facing))
	vector.StrokeLine(screen, sx, sy, hx, hy, 2, Shade(clr, 0.5), true)

	if selected || e.Health.Current < e.Health.Max {
		w := radius * 2
		r.drawBar(screen, sx-radius, sy-radius-barHeight-3, w, e.Health.Ratio(), HealthColor(e.Health.Ratio()))
	}
}

func (r *Renderer) drawBar(screen *ebiten.Image, x, y, w float32, frac float64, clr color.RGBA) {
	frac = max(0, min(1, frac))
	vector.FillRect(screen, x, y, w, barHeight, healthBack, false)
	vector.FillRect(screen, x, y, w*float32(frac), barHeight, clr, false)
}

// DrawMinimap draws the whole map in a size x size square at (posX, posY)
// with visible entities as dots and the camera view as a frame
func (r *Renderer) DrawMinimap(screen *ebiten.Image, w *core.World, posX, posY, size int) {
	if r.terrain == nil {
		return
	}
	scale := float64(size) / maplib.GameSize
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(size)/terrainTexture, float64(size)/terrainTexture)
	op.GeoM.Translate(float64(posX), float64(posY))
	screen.DrawImage(r.terrain, op)

	toMini := func(p maplib.Vec) (float32, float32) {
		return float32(posX) + float32((p.X+maplib.GameSize/2)*scale),
			float32(posY) + float32((p.Z+maplib.GameSize/2)*scale)
	}

	if fog := w.Fog[core.FactionPlayer]; fog != nil {
		cell := float32(maplib.TileSize * scale)
		for z := 0; z < maplib.MapSize; z++ {
			for x := 0; x < maplib.MapSize; x++ {
				state := fog.At(maplib.Tile{X: x, Z: z})
				if state == core.FogVisible {
					continue
				}
				clr := shroud
				if state == core.FogExplored {
					clr = explored
				}
				vector.FillRect(screen, float32(posX)+float32(x)*cell, float32(posY)+float32(z)*cell, cell+1, cell+1, clr, false)
			}
		}
	}

	for _, id := range r.order {
		e := r.visuals[id].e
		if !e.Visible {
			continue
		}
		mx, my := toMini(e.Pos)
		vector.FillRect(screen, mx-minimapDot/2, my-minimapDot/2, minimapDot, minimapDot, FactionColor(e.Faction), false)
	}

	x0, y0 := toMini(r.Camera.ScreenToWorld(0, 0))
	x1, y1 := toMini(r.Camera.ScreenToWorld(r.Camera.ScreenW, r.Camera.ScreenH))
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, color.RGBA{255, 255, 255, 200}, false)
}

// MinimapToWorld converts a point inside the minimap square to a world position
func MinimapToWorld(mx, my, posX, posY, size int) (maplib.Vec, bool) {
	if mx < posX || my < posY || mx >= posX+size || my >= posY+size {
		return maplib.Vec{}, false
	}
	scale := maplib.GameSize / float64(size)
	return maplib.Vec{
		X: float64(mx-posX)*scale - maplib.GameSize/2,
		Z: float64(my-posY)*scale - maplib.GameSize/2,
	}, true
}
