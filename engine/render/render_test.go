package render

import (
	"log/slog"
	"math"
	"testing"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/sim"
	"github.com/1siamBot/rts-sim/engine/systems"
)

var (
	_ sim.Presenter = (*Renderer)(nil)
	_ sim.Picker    = (*Renderer)(nil)
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestCamera_FitAndRoundTrip(t *testing.T) {
	c := NewCamera(1000, 1000)
	if c.Zoom != 1 {
		t.Fatalf("zoom = %v", c.Zoom)
	}
	if x, y := c.WorldToScreen(maplib.Vec{X: -500, Z: -500}); x != 0 || y != 0 {
		t.Fatalf("map corner at %v,%v", x, y)
	}
	p := c.ScreenToWorld(123, 456)
	if x, y := c.WorldToScreen(p); x != 123 || y != 456 {
		t.Fatalf("round trip = %v,%v", x, y)
	}
	lo, hi := c.VisibleTileRange()
	if lo != (maplib.Tile{}) || hi != (maplib.Tile{X: maplib.MapSize - 1, Z: maplib.MapSize - 1}) {
		t.Fatalf("visible range %v..%v", lo, hi)
	}
}

func TestCamera_ZoomAtKeepsCursorPoint(t *testing.T) {
	c := NewCamera(1000, 1000)
	before := c.ScreenToWorld(750, 500)
	c.ZoomAt(2, 750, 500)
	after := c.ScreenToWorld(750, 500)
	if !near(before.X, after.X) || !near(before.Z, after.Z) {
		t.Fatalf("cursor point moved from %v to %v", before, after)
	}
	c.ZoomAt(100, 0, 0)
	if c.Zoom != c.MaxZoom {
		t.Fatalf("zoom %v not clamped to %v", c.Zoom, c.MaxZoom)
	}
}

func TestCamera_PanClamps(t *testing.T) {
	c := NewCamera(1000, 1000)
	c.Pan(5000, -5000)
	if c.X != maplib.GameSize/2 || c.Z != -maplib.GameSize/2 {
		t.Fatalf("camera at %v,%v", c.X, c.Z)
	}
}

type fixture struct {
	w     *core.World
	r     *Renderer
	cc    *core.Entity
	tank  *core.Entity
	enemy *core.Entity
	patch *core.Entity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := core.NewWorld(60, nil, 1)
	w.Log = slog.New(slog.DiscardHandler)
	f := &fixture{w: w, r: NewRenderer(1000, 1000)}
	var err error
	if f.cc, err = systems.CreateBuilding(w, core.CommandCenter, core.FactionPlayer, maplib.Vec{X: 100, Z: 100}); err != nil {
		t.Fatal(err)
	}
	if f.tank, err = systems.CreateUnit(w, core.LightTank, core.FactionPlayer, maplib.Vec{X: 104, Z: 100}); err != nil {
		t.Fatal(err)
	}
	if f.enemy, err = systems.CreateUnit(w, core.LightTank, core.FactionEnemy, maplib.Vec{X: -200, Z: -200}); err != nil {
		t.Fatal(err)
	}
	f.patch = systems.CreateResourceNode(w, maplib.Vec{X: 300, Z: 300})
	(&systems.FogSystem{}).Update(w, 0)
	f.enemy.Visible = false
	for _, e := range []*core.Entity{f.cc, f.tank, f.enemy, f.patch} {
		f.r.EntitySpawned(e)
	}
	return f
}

func TestRenderer_DrawOrder(t *testing.T) {
	f := newFixture(t)
	f.r.EntitySpawned(f.tank)
	if f.r.VisualCount() != 4 {
		t.Fatalf("visuals = %d", f.r.VisualCount())
	}
	want := []core.EntityID{f.patch.ID, f.cc.ID, f.tank.ID, f.enemy.ID}
	for i, id := range want {
		if f.r.order[i] != id {
			t.Fatalf("order = %v, want %v", f.r.order, want)
		}
	}
}

func TestRenderer_PickEntity(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		sx, sy int
		want   *core.Entity
	}{
		{"unit over building", 604, 600, f.tank},
		{"building edge", 615, 600, f.cc},
		{"resource", 805, 800, f.patch},
		{"hidden enemy", 300, 300, nil},
		{"empty ground", 100, 900, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.r.PickEntity(tt.sx, tt.sy); got != tt.want {
				t.Fatalf("picked %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderer_PickGroundAndRect(t *testing.T) {
	f := newFixture(t)
	if p, ok := f.r.PickGround(600, 400); !ok || p != (maplib.Vec{X: 100, Z: -100}) {
		t.Fatalf("ground = %v %v", p, ok)
	}
	f.r.Camera.Pan(-400, 0)
	if _, ok := f.r.PickGround(10, 500); ok {
		t.Fatal("picked ground off the map")
	}

	f = newFixture(t)
	ids := f.r.PickRect(620, 610, 590, 590)
	if len(ids) != 1 || ids[0] != f.tank.ID {
		t.Fatalf("rect picked %v", ids)
	}
	if ids := f.r.PickRect(0, 0, 1000, 1000); len(ids) != 1 {
		t.Fatalf("box select should only take player units, got %v", ids)
	}
}

func TestRenderer_DestroyLeavesExplosion(t *testing.T) {
	f := newFixture(t)
	f.r.EntityDestroyed(f.tank)
	f.r.EntityDestroyed(f.tank)
	f.r.EntityDestroyed(f.patch)
	if f.r.VisualCount() != 2 {
		t.Fatalf("visuals = %d", f.r.VisualCount())
	}
	if len(f.r.effects) != 1 {
		t.Fatalf("effects = %d, want one explosion", len(f.r.effects))
	}
	for range blastFrames {
		f.r.Update()
	}
	if len(f.r.effects) != 1 {
		t.Fatal("explosion expired early")
	}
	f.r.Update()
	if len(f.r.effects) != 0 {
		t.Fatal("explosion never expired")
	}
}

func TestRenderer_ListenFlashesOnDamage(t *testing.T) {
	f := newFixture(t)
	f.r.Listen(f.w.Events)
	systems.ApplyDamage(f.w, f.cc, 10, f.tank.ID)
	systems.TryFire(f.w, f.tank, f.cc)
	f.w.Events.Dispatch()
	if got := f.r.visuals[f.cc.ID].flash; got != flashFrames {
		t.Fatalf("flash = %d", got)
	}
	f.r.Update()
	if got := f.r.visuals[f.cc.ID].flash; got != flashFrames-1 {
		t.Fatalf("flash after update = %d", got)
	}
}

func TestTerrainImage(t *testing.T) {
	flat := TerrainImage(maplib.FlatTerrain(3), maplib.MapSize)
	if flat.Bounds().Dx() != maplib.MapSize || flat.RGBAAt(7, 9) != lowGround {
		t.Fatalf("flat terrain pixel = %v", flat.RGBAAt(7, 9))
	}

	tm := maplib.NewTerrainMap("hill")
	tm.Raise(maplib.Tile{X: 20, Z: 20}, maplib.Tile{X: 29, Z: 29}, 30)
	img := TerrainImage(tm, 100)
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if hill, plain := img.RGBAAt(50, 50), img.RGBAAt(2, 2); hill.R <= plain.R {
		t.Fatalf("hill %v should be lighter than plain %v", hill, plain)
	}
}

func TestMinimapToWorld(t *testing.T) {
	p, ok := MinimapToWorld(110, 10, 10, 10, 200)
	if !ok || p != (maplib.Vec{X: 0, Z: -500}) {
		t.Fatalf("got %v %v", p, ok)
	}
	if _, ok := MinimapToWorld(5, 50, 10, 10, 200); ok {
		t.Fatal("point left of the minimap accepted")
	}
}

func TestHealthColor(t *testing.T) {
	if HealthColor(1) != healthGood || HealthColor(0) != healthLow {
		t.Fatal("health color endpoints")
	}
	if FactionColor(core.Faction(9)) == FactionColor(core.FactionPlayer) {
		t.Fatal("unknown faction should not use a side color")
	}
}
