// Package sim assembles a playable match: world, systems, AI and the
// collaborator interfaces used by front ends.
package sim

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/1siamBot/rts-sim/engine/ai"
	"github.com/1siamBot/rts-sim/engine/config"
	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/systems"
)

// Presenter is notified when entities enter or leave the world so it can
// create or drop their visuals. It must not mutate the entity.
type Presenter interface {
	EntitySpawned(e *core.Entity)
	EntityDestroyed(e *core.Entity)
}

// Picker resolves a screen position to what is under it
type Picker interface {
	// PickEntity returns the entity under the cursor, or nil
	PickEntity(sx, sy int) *core.Entity
	// PickGround returns the ground point under the cursor
	PickGround(sx, sy int) (maplib.Vec, bool)
}

// Options configure a new match
type Options struct {
	Seed      int64
	TickRate  float64
	Map       *maplib.TerrainMap // nil uses a flat map with generated resources
	Logger    *slog.Logger
	Fog       bool // track the player's fog of war
	EnemyFog  bool // also track fog for the AI
	DisableAI bool
	PlayerAI  bool        // let a second controller play the human side
	Rules     *ai.RuleSet // nil uses the default AI rules
}

// OptionsFromConfig maps runtime config onto match options
func OptionsFromConfig(cfg config.Config, tm *maplib.TerrainMap, log *slog.Logger) (Options, error) {
	rules, err := cfg.RuleSet()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Seed:      cfg.Seed,
		TickRate:  cfg.TickRate,
		Map:       tm,
		Logger:    log,
		Fog:       cfg.Fog.Enabled,
		EnemyFog:  cfg.Fog.EnemyFog,
		DisableAI: !cfg.AI.Enabled,
		Rules:     rules,
	}, nil
}

// Simulation is one match
type Simulation struct {
	ID    uuid.UUID
	World *core.World
	Loop  *core.GameLoop
	Map   *maplib.TerrainMap
	AI    *ai.Controller // nil when the AI is disabled
	Auto  *ai.Controller // plays the human side when Options.PlayerAI is set

	log *slog.Logger
}

// MatchID derives a stable match identifier from the seed and map, so
// replays of the same setup share an ID in the logs
func MatchID(seed int64, mapName string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "rts-sim/%s/%d", mapName, seed))
}

// New builds a world, sets up both bases and registers the systems
func New(opts Options) (*Simulation, error) {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	tm := opts.Map
	if tm == nil {
		tm = maplib.NewTerrainMap("skirmish")
	}
	id := MatchID(opts.Seed, tm.Name)
	log := opts.Logger.With("match", id.String())

	w := core.NewWorld(opts.TickRate, tm, opts.Seed)
	w.Log = log
	if opts.Fog {
		w.Fog[core.FactionPlayer] = core.NewFogOfWar(core.FactionPlayer)
		if opts.EnemyFog {
			w.Fog[core.FactionEnemy] = core.NewFogOfWar(core.FactionEnemy)
		}
	}
	if err := systems.SetupSkirmish(w, tm); err != nil {
		return nil, fmt.Errorf("setup skirmish: %w", err)
	}

	s := &Simulation{ID: id, World: w, Map: tm, log: log}
	fog := &systems.FogSystem{}
	w.AddSystem(&systems.UnitSystem{})
	w.AddSystem(&systems.BuildingSystem{})
	w.AddSystem(&systems.EconomySystem{})
	w.AddSystem(fog)
	if !opts.DisableAI {
		s.AI = ai.NewController(core.FactionEnemy, tm.Start(int(core.FactionEnemy)), tm.Start(int(core.FactionPlayer)), opts.Rules, log)
		controllers := []*ai.Controller{s.AI}
		if opts.PlayerAI {
			s.Auto = ai.NewController(core.FactionPlayer, tm.Start(int(core.FactionPlayer)), tm.Start(int(core.FactionEnemy)), opts.Rules, log)
			controllers = append(controllers, s.Auto)
		}
		w.AddSystem(&ai.System{Controllers: controllers})
	}

	// initial visibility, and flush setup events so presenters attached
	// later see each entity once
	fog.Update(w, 0)
	w.Events.Dispatch()

	s.Loop = core.NewGameLoop(w)
	s.Loop.Play()
	log.Info("match started", "seed", opts.Seed, "map", tm.Name, "tick_rate", opts.TickRate,
		"fog", opts.Fog, "enemy_fog", opts.EnemyFog, "ai", s.AI != nil, "player_ai", s.Auto != nil)
	return s, nil
}

// Attach registers a presenter. Entities already in the world are reported
// as spawned immediately.
func (s *Simulation) Attach(p Presenter) {
	w := s.World
	w.Events.On(core.EvtEntitySpawned, func(ev core.Event) { p.EntitySpawned(ev.Entity) })
	w.Events.On(core.EvtEntityDestroyed, func(ev core.Event) { p.EntityDestroyed(ev.Entity) })
	for _, f := range core.Factions {
		for _, e := range w.Buildings(f) {
			p.EntitySpawned(e)
		}
		for _, e := range w.Units(f) {
			p.EntitySpawned(e)
		}
	}
	for _, e := range w.Resources() {
		p.EntitySpawned(e)
	}
}

// Issue applies a command. Commands without a faction act for the player.
func (s *Simulation) Issue(cmd core.Command) error {
	return systems.Execute(s.World, cmd)
}

// Step advances exactly one tick
func (s *Simulation) Step() {
	s.World.Tick(1 / s.World.TickRate)
}

// Run steps up to n ticks, stopping early once the match is decided.
// Returns the number of ticks run.
func (s *Simulation) Run(n int) int {
	ran := 0
	for ; ran < n && !s.World.Over(); ran++ {
		s.Step()
	}
	return ran
}

// Advance feeds frame time through the fixed-timestep loop and returns the
// interpolation alpha
func (s *Simulation) Advance(frame float64) float64 {
	return s.Loop.Advance(frame)
}

// Pick resolves a click through the picker into a target entity the player
// can see, or a ground point
func (s *Simulation) Pick(p Picker, sx, sy int) (*core.Entity, maplib.Vec, bool) {
	if e := p.PickEntity(sx, sy); e != nil && s.World.CanSee(core.FactionPlayer, e) {
		return e, e.Pos, true
	}
	pos, ok := p.PickGround(sx, sy)
	return nil, pos, ok
}

// FactionReport summarizes one side
type FactionReport struct {
	Credits   int
	Power     int
	Units     int
	Buildings int
}

// Report is a match summary
type Report struct {
	Match     string
	Tick      uint64
	Seconds   float64
	Outcome   core.Outcome
	Resources int
	AIMode    ai.Mode
	Factions  [2]FactionReport
}

// Report summarizes the current match state
func (s *Simulation) Report() Report {
	w := s.World
	r := Report{
		Match:     s.ID.String(),
		Tick:      w.TickCount,
		Seconds:   w.Now.Seconds(),
		Outcome:   w.Outcome,
		Resources: len(w.Resources()),
	}
	if s.AI != nil {
		r.AIMode = s.AI.Mode
	}
	for _, f := range core.Factions {
		r.Factions[f] = FactionReport{
			Credits:   w.Economy[f].Credits,
			Power:     w.Economy[f].Power,
			Units:     w.UnitCount(f),
			Buildings: w.BuildingCount(f),
		}
	}
	return r
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "match %s  tick %d (%.1fs)  %s\n", r.Match, r.Tick, r.Seconds, r.Outcome)
	for _, f := range core.Factions {
		fr := r.Factions[f]
		fmt.Fprintf(&b, "  %-6s credits %5d  power %4d  units %3d  buildings %2d\n",
			f, fr.Credits, fr.Power, fr.Units, fr.Buildings)
	}
	fmt.Fprintf(&b, "  resource nodes %d", r.Resources)
	if r.AIMode != "" {
		fmt.Fprintf(&b, "  ai %s", r.AIMode)
	}
	return b.String()
}
