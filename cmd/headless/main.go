package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1siamBot/rts-sim/engine/config"
	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/sim"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstContactTick uint64
	lost             [2]int // units and buildings destroyed per side
	earned           [2]int
	modeChanges      int

	report sim.Report
}

// track counts match events on the bus into rs
func (rs *runStats) track(bus *core.EventBus) {
	bus.On(core.EvtDamaged, func(ev core.Event) {
		if rs.firstContactTick == 0 {
			rs.firstContactTick = ev.Tick
		}
	})
	bus.On(core.EvtEntityDestroyed, func(ev core.Event) {
		if e := ev.Entity; e != nil && e.Faction != core.FactionNone && e.Resource == nil {
			rs.lost[e.Faction]++
		}
	})
	bus.On(core.EvtResourceUnloaded, func(ev core.Event) {
		if n, ok := ev.Payload.(int); ok && ev.Entity != nil && ev.Entity.Faction != core.FactionNone {
			rs.earned[ev.Entity.Faction] += n
		}
	})
	bus.On(core.EvtAIModeChanged, func(core.Event) { rs.modeChanges++ })
}

func runMatch(runIndex int, opts sim.Options, ticks int) (runStats, error) {
	s, err := sim.New(opts)
	if err != nil {
		return runStats{}, err
	}
	rs := runStats{runIndex: runIndex, seed: opts.Seed}
	rs.track(s.World.Events)
	rs.ticks = s.Run(ticks)
	rs.report = s.Report()
	return rs, nil
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- run %d seed=%d ticks=%d ---\n", rs.runIndex, rs.seed, rs.ticks)
	fmt.Fprintln(w, rs.report.String())
	contact := "none"
	if rs.firstContactTick > 0 {
		contact = fmt.Sprintf("tick %d", rs.firstContactTick)
	}
	fmt.Fprintf(w, "  first contact %s  ai mode changes %d\n", contact, rs.modeChanges)
	for _, f := range core.Factions {
		fmt.Fprintf(w, "  %-6s lost %3d  harvested %6d\n", f, rs.lost[f], rs.earned[f])
	}
	fmt.Fprintln(w)
}

// tally counts outcomes across runs
func tally(all []runStats) map[core.Outcome]int {
	out := make(map[core.Outcome]int)
	for _, rs := range all {
		out[rs.report.Outcome]++
	}
	return out
}

func printAggregate(w io.Writer, all []runStats) {
	if len(all) == 0 {
		return
	}
	t := tally(all)
	total := 0
	for _, rs := range all {
		total += rs.ticks
	}
	fmt.Fprintf(w, "=== aggregate over %d runs ===\n", len(all))
	fmt.Fprintf(w, "victory %d  defeat %d  draw %d  undecided %d\n",
		t[core.OutcomeVictory], t[core.OutcomeDefeat], t[core.OutcomeDraw], t[core.OutcomeNone])
	fmt.Fprintf(w, "mean ticks %.1f\n", float64(total)/float64(len(all)))
}

func main() {
	var (
		cfgPath  string
		mapPath  string
		runs     int
		ticks    int
		seedBase int64
		seedStep int64
		playerAI bool
	)
	flag.StringVar(&cfgPath, "config", "", "YAML config file")
	flag.StringVar(&mapPath, "map", "", "terrain map JSON (overrides config)")
	flag.IntVar(&runs, "runs", 1, "number of matches")
	flag.IntVar(&ticks, "ticks", 60*60*10, "tick limit per match")
	flag.Int64Var(&seedBase, "seed-base", 0, "seed for run 1 (0 keeps the config seed)")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.BoolVar(&playerAI, "player-ai", true, "let the AI play the human side too")
	flag.Parse()

	if runs <= 0 || ticks <= 0 {
		fmt.Fprintln(os.Stderr, "error: -runs and -ticks must be > 0")
		os.Exit(2)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if mapPath != "" {
		cfg.Map = mapPath
	}
	if seedBase != 0 {
		cfg.Seed = seedBase
	}
	log := cfg.Logger(os.Stderr)

	var tm *maplib.TerrainMap
	if cfg.Map != "" {
		if tm, err = maplib.LoadJSON(cfg.Map); err != nil {
			log.Error("load map", "path", cfg.Map, "err", err)
			os.Exit(1)
		}
	}

	fmt.Printf("=== Headless Match Report ===\nruns=%d ticks=%d seed=%d step=%d player_ai=%v\n\n",
		runs, ticks, cfg.Seed, seedStep, playerAI)
	all := make([]runStats, 0, runs)
	for i := range runs {
		c := cfg
		c.Seed = cfg.Seed + int64(i)*seedStep
		opts, err := sim.OptionsFromConfig(c, tm, log)
		if err != nil {
			log.Error("config", "err", err)
			os.Exit(1)
		}
		opts.PlayerAI = playerAI
		rs, err := runMatch(i+1, opts, ticks)
		if err != nil {
			log.Error("run failed", "run", i+1, "seed", c.Seed, "err", err)
			os.Exit(1)
		}
		log.Debug("run finished", slog.Int("run", rs.runIndex), slog.String("outcome", rs.report.Outcome.String()))
		printRun(os.Stdout, rs)
		all = append(all, rs)
	}
	printAggregate(os.Stdout, all)
}
