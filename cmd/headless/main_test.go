package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/sim"
)

func TestTally(t *testing.T) {
	all := []runStats{
		{report: sim.Report{Outcome: core.OutcomeVictory}},
		{report: sim.Report{Outcome: core.OutcomeVictory}},
		{report: sim.Report{Outcome: core.OutcomeNone}},
	}
	got := tally(all)
	if got[core.OutcomeVictory] != 2 || got[core.OutcomeNone] != 1 || got[core.OutcomeDefeat] != 0 {
		t.Fatalf("tally = %v", got)
	}
}

func TestRunMatch_Deterministic(t *testing.T) {
	opts := sim.Options{Seed: 7, TickRate: 60, Logger: slog.New(slog.DiscardHandler), Fog: true, PlayerAI: true}
	a, err := runMatch(1, opts, 600)
	if err != nil {
		t.Fatal(err)
	}
	b, err := runMatch(1, opts, 600)
	if err != nil {
		t.Fatal(err)
	}
	if a.ticks != 600 || a.report.Tick != 600 {
		t.Fatalf("ran %d ticks, report at %d", a.ticks, a.report.Tick)
	}
	if a.report != b.report || a.lost != b.lost || a.earned != b.earned {
		t.Fatal("same seed gave different runs")
	}
	if a.modeChanges == 0 {
		t.Fatal("AI never changed mode in 10s")
	}
}

func TestPrintReport(t *testing.T) {
	rs := runStats{runIndex: 2, seed: 9, ticks: 100, firstContactTick: 42}
	rs.lost[core.FactionEnemy] = 3
	var buf bytes.Buffer
	printRun(&buf, rs)
	printAggregate(&buf, []runStats{rs})
	out := buf.String()
	for _, want := range []string{"run 2 seed=9", "first contact tick 42", "lost   3", "undecided 1", "mean ticks 100.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
