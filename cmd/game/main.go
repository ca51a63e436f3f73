package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/vector"

	sfx "github.com/1siamBot/rts-sim/engine/audio"
	"github.com/1siamBot/rts-sim/engine/config"
	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/input"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/render"
	"github.com/1siamBot/rts-sim/engine/sim"
	"github.com/1siamBot/rts-sim/engine/systems"
	"github.com/1siamBot/rts-sim/engine/ui"
)

const (
	minimapSize   = 160
	minimapMargin = 20
)

// Game implements ebiten.Game over one match
type Game struct {
	sim      *sim.Simulation
	renderer *render.Renderer
	input    *input.InputState
	ctrl     *input.Controller
	hud      *ui.HUD
	stats    *ui.MatchStats
	audio    *sfx.AudioManager
	log      *slog.Logger

	screenW, screenH int
	paused           bool
	announced        bool
}

func NewGame(s *sim.Simulation, cfg config.Config, log *slog.Logger) *Game {
	w, h := cfg.Window.Width, cfg.Window.Height
	hud := ui.NewHUD(w, h)
	g := &Game{
		sim:      s,
		renderer: render.NewRenderer(w-hud.SidebarWidth, h),
		input:    input.NewInputState(),
		ctrl:     input.NewController(),
		hud:      hud,
		stats:    &ui.MatchStats{},
		audio:    sfx.NewAudioManager(audio.NewContext(sfx.SampleRate)),
		log:      log,
		screenW:  w,
		screenH:  h,
	}
	bus := s.World.Events
	s.Attach(g.renderer)
	g.renderer.Listen(bus)
	g.stats.Listen(bus)
	g.audio.Listen(bus)
	g.renderer.Camera.CenterOn(s.Map.Start(int(core.FactionPlayer)))
	return g
}

func (g *Game) minimapOrigin() (int, int) {
	y := g.screenH - len(ui.Legend)*16 - 10 - minimapSize - minimapMargin
	return g.screenW - g.hud.SidebarWidth + minimapMargin, y
}

func (g *Game) Update() error {
	const dt = 1.0 / 60
	g.input.Update()
	w := g.sim.World

	if g.input.IsKeyJustPressed(ebiten.KeySpace) && !w.Over() {
		g.paused = !g.paused
		if g.paused {
			g.sim.Loop.Pause()
		} else {
			g.sim.Loop.Play()
		}
	}
	if g.input.IsKeyJustPressed(ebiten.KeyTab) {
		g.renderer.ShowGrid = !g.renderer.ShowGrid
	}
	if g.input.IsKeyJustPressed(ebiten.KeyC) {
		if err := clipboard.WriteAll(g.sim.Report().String()); err != nil {
			g.hud.Notify("clipboard unavailable")
			g.log.Warn("copy report", "err", err)
		} else {
			g.hud.Notify("match report copied")
		}
	}

	input.ScrollCamera(g.input, g.renderer.Camera, dt)
	g.handleMouse()

	g.sim.Loop.Update()
	g.renderer.Update()
	g.hud.Update()
	g.audio.SetCameraPos(g.renderer.Camera.X, g.renderer.Camera.Z)
	g.audio.Update()

	if w.Over() && !g.announced {
		g.announced = true
		g.log.Info("match over", "report", g.sim.Report().String())
	}
	return nil
}

// handleMouse routes HUD and minimap clicks, then turns the rest of the
// frame's input into commands
func (g *Game) handleMouse() {
	s := g.input
	w := g.sim.World
	mx, my := s.MouseX, s.MouseY
	overHUD := g.hud.IsInSidebar(mx, my) || my < g.hud.TopBarHeight

	if overHUD {
		px, py := g.minimapOrigin()
		if s.LeftPressed && !s.Dragging {
			if p, ok := render.MinimapToWorld(mx, my, px, py, minimapSize); ok {
				g.renderer.Camera.CenterOn(p)
			}
		}
		if s.LeftJustPressed {
			if a, ok := g.hud.HandleClick(w, mx, my); ok {
				g.applyAction(a)
			}
		}
	}

	frame := *s
	if overHUD {
		// clicks on the HUD are not world orders, but a drag may end there
		frame.LeftJustPressed = false
		frame.RightJustPressed = false
		frame.LeftJustReleased = frame.DragEnded
	}
	for _, cmd := range g.ctrl.Commands(&frame, w, g.renderer) {
		g.issue(cmd)
	}
}

func (g *Game) applyAction(a ui.Action) {
	switch {
	case a.Build != "":
		g.ctrl.Placing = a.Build
	case a.Produce != "":
		cmd, ok := g.ctrl.ProduceOrder(g.sim.World, a.Produce)
		if !ok {
			g.hud.Notify(fmt.Sprintf("no building can produce %s", a.Produce))
			return
		}
		g.issue(cmd)
	}
}

func (g *Game) issue(cmd core.Command) {
	if err := g.sim.Issue(cmd); err != nil {
		g.hud.Notify(err.Error())
		g.log.Debug("command rejected", "cmd", cmd.Type.String(), "err", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})
	w := g.sim.World

	g.renderer.Draw(screen, w)
	g.drawGhost(screen)
	if x1, y1, x2, y2, active := g.input.DragRect(); active {
		g.renderer.DrawSelectionBox(screen, x1, y1, x2, y2)
	}

	g.hud.Draw(screen, w, g.stats, g.paused)
	px, py := g.minimapOrigin()
	g.renderer.DrawMinimap(screen, w, px, py, minimapSize)
}

// drawGhost outlines the pending building at the cursor, green when the site is clear
func (g *Game) drawGhost(screen *ebiten.Image) {
	pos, valid, ok := g.ctrl.Ghost(g.sim.World, g.renderer, g.input)
	if !ok {
		return
	}
	def := systems.Buildings[g.ctrl.Placing]
	cam := g.renderer.Camera
	x, y := cam.WorldToScreen(pos)
	hw, hd := cam.Scale(def.Width/2), cam.Scale(def.Depth/2)
	clr := color.RGBA{0, 220, 0, 90}
	if !valid {
		clr = color.RGBA{220, 0, 0, 90}
	}
	vector.FillRect(screen, x-hw, y-hd, 2*hw, 2*hd, clr, false)
	vector.StrokeRect(screen, x-hw, y-hd, 2*hw, 2*hd, 1, color.RGBA{clr.R, clr.G, clr.B, 255}, false)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.screenW, g.screenH
}

func main() {
	cfgPath := flag.String("config", "", "YAML config file")
	mapPath := flag.String("map", "", "terrain map JSON (overrides config)")
	seed := flag.Int64("seed", 0, "random seed (overrides config when non-zero)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *mapPath != "" {
		cfg.Map = *mapPath
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	log := cfg.Logger(os.Stderr)

	var tm *maplib.TerrainMap
	if cfg.Map != "" {
		if tm, err = maplib.LoadJSON(cfg.Map); err != nil {
			log.Error("load map", "path", cfg.Map, "err", err)
			os.Exit(1)
		}
	}
	opts, err := sim.OptionsFromConfig(cfg, tm, log)
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}
	s, err := sim.New(opts)
	if err != nil {
		log.Error("start match", "err", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("RTS Sim")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(NewGame(s, cfg, log)); err != nil {
		log.Error("game exited", "err", err)
		os.Exit(1)
	}
}
