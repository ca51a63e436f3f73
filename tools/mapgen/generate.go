package main

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	xdraw "golang.org/x/image/draw"

	"github.com/1siamBot/rts-sim/editor"
	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/render"
)

// Params shape a generated map
type Params struct {
	Name      string
	Hills     int
	MaxHeight float64
	Spread    float64 // hill radius in tiles
	Attempts  int     // seeds tried before giving up on a playable map
}

// hill is a gaussian bump centered on a world position
type hill struct {
	at     maplib.Vec
	height float64
	sigma  float64 // world units
}

func (h hill) heightAt(x, z float64) float64 {
	dx, dz := x-h.at.X, z-h.at.Z
	return h.height * math.Exp(-(dx*dx+dz*dz)/(2*h.sigma*h.sigma))
}

// flatRadius is the ground kept level around each start position
const flatRadius = 60.0

// baseMask fades hills out toward a start position
func baseMask(d float64) float64 {
	return max(0, min(1, (d-flatRadius)/(maplib.ResourceClearRadius-flatRadius)))
}

// generate builds a hills map from one seed. Bases stay flat.
func generate(rng *rand.Rand, p Params) *maplib.TerrainMap {
	tm := maplib.NewTerrainMap(p.Name)
	bases := []maplib.Vec{tm.Start(0), tm.Start(1)}
	sigma := p.Spread * maplib.TileSize

	var hills []hill
	for tries := 0; len(hills) < p.Hills && tries < p.Hills*50; tries++ {
		h := hill{
			at: maplib.Vec{
				X: (rng.Float64() - 0.5) * maplib.GameSize,
				Z: (rng.Float64() - 0.5) * maplib.GameSize,
			},
			height: p.MaxHeight * (0.4 + 0.6*rng.Float64()),
			sigma:  sigma * (0.7 + 0.6*rng.Float64()),
		}
		near := false
		for _, b := range bases {
			if h.at.DistanceTo(b) < maplib.ResourceClearRadius+2*h.sigma {
				near = true
				break
			}
		}
		if !near {
			hills = append(hills, h)
		}
	}

	n := maplib.MapSize + 1
	for cz := range n {
		for cx := range n {
			x := float64(cx)*maplib.TileSize - maplib.GameSize/2
			z := float64(cz)*maplib.TileSize - maplib.GameSize/2
			sum := 0.0
			for _, h := range hills {
				sum += h.heightAt(x, z)
			}
			for _, b := range bases {
				sum *= baseMask(b.DistanceTo(maplib.Vec{X: x, Z: z}))
			}
			tm.SetCorner(cx, cz, math.Round(min(sum, editor.MaxHeight)*10)/10)
		}
	}
	tm.PlaceResources(rng, maplib.ResourceNodeCount)
	return tm
}

// Generate tries successive seeds until the map validates. Returns the map,
// the seed that produced it and the last validation error when none did.
func Generate(seed int64, p Params) (*maplib.TerrainMap, int64, error) {
	var err error
	for i := range max(p.Attempts, 1) {
		s := seed + int64(i)
		tm := generate(rand.New(rand.NewSource(s)), p)
		if err = editor.Validate(tm); err == nil {
			return tm, s, nil
		}
	}
	return nil, 0, err
}

// Preview renders the height shading scaled to size with the layout marked
func Preview(tm *maplib.TerrainMap, size int) *image.RGBA {
	small := render.TerrainImage(tm, maplib.MapSize)
	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)

	toPx := func(v maplib.Vec) (int, int) {
		s := float64(size) / maplib.GameSize
		return int((v.X + maplib.GameSize/2) * s), int((v.Z + maplib.GameSize/2) * s)
	}
	dot := func(v maplib.Vec, r int, c color.RGBA) {
		px, py := toPx(v)
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy <= r*r {
					out.SetRGBA(px+dx, py+dy, c)
				}
			}
		}
	}
	r := max(size/100, 2)
	for _, n := range tm.ResourceNodes {
		dot(n, r, render.FactionColor(core.FactionNone))
	}
	for _, sp := range tm.StartPositions {
		dot(maplib.Vec{X: sp.X, Z: sp.Z}, 2*r, render.FactionColor(core.Faction(sp.Slot)))
	}
	return out
}
