package render

import (
	"image"
	"image/color"

	"golang.org/x/image/colornames"
	xdraw "golang.org/x/image/draw"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
)

// Faction colors
var FactionColors = [...]color.RGBA{
	core.FactionPlayer: colornames.Dodgerblue,
	core.FactionEnemy:  colornames.Firebrick,
	core.FactionNone:   colornames.Gold,
}

var (
	lowGround  = colornames.Darkolivegreen
	highGround = colornames.Tan
	selectRing = colornames.Lime
	healthGood = colornames.Limegreen
	healthLow  = colornames.Orangered
	healthBack = color.RGBA{0, 0, 0, 160}
	shroud     = color.RGBA{0, 0, 0, 255}
	explored   = color.RGBA{0, 0, 0, 140}
	blastColor = colornames.Orange
	gridColor  = color.RGBA{255, 255, 255, 24}
	dragFill   = color.RGBA{0, 255, 0, 30}
	dragEdge   = color.RGBA{0, 255, 0, 128}
)

// FactionColor returns the draw color for a side
func FactionColor(f core.Faction) color.RGBA {
	if int(f) < len(FactionColors) {
		return FactionColors[f]
	}
	return colornames.Gray
}

// HealthColor blends from red to green by health ratio
func HealthColor(ratio float64) color.RGBA {
	return lerpColor(healthLow, healthGood, ratio)
}

// Shade darkens a color by factor in [0, 1]
func Shade(c color.RGBA, factor float64) color.RGBA {
	factor = max(0, min(1, factor))
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	t = max(0, min(1, t))
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}

// TerrainImage shades ground height into a size x size image. Heights are
// sampled at tile centers and scaled up bilinearly.
func TerrainImage(t maplib.Terrain, size int) *image.RGBA {
	n := maplib.MapSize
	heights := make([]float64, n*n)
	lo, hi := 0.0, 0.0
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			c := maplib.TileCenter(maplib.Tile{X: x, Z: z})
			h := t.HeightAt(c.X, c.Z)
			heights[z*n+x] = h
			if x == 0 && z == 0 {
				lo, hi = h, h
			}
			lo, hi = min(lo, h), max(hi, h)
		}
	}

	small := image.NewRGBA(image.Rect(0, 0, n, n))
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			f := 0.0
			if hi > lo {
				f = (heights[z*n+x] - lo) / (hi - lo)
			}
			small.SetRGBA(x, z, lerpColor(lowGround, highGround, f))
		}
	}
	if size == n {
		return small
	}
	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.BiLinear.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return out
}
