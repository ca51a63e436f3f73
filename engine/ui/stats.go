package ui

import (
	"fmt"

	"github.com/1siamBot/rts-sim/engine/core"
)

// FactionStats holds end-game statistics for one side
type FactionStats struct {
	UnitsBuilt         int
	UnitsLost          int
	BuildingsBuilt     int
	BuildingsLost      int
	UnitsDestroyed     int // opposing units killed
	BuildingsDestroyed int // opposing buildings razed
	CreditsEarned      int
}

// MatchStats tallies a match from simulation events
type MatchStats struct {
	Sides [2]FactionStats
}

// Listen subscribes the tally to a world's event bus
func (m *MatchStats) Listen(bus *core.EventBus) {
	bus.On(core.EvtUnitProduced, func(ev core.Event) {
		if s := m.side(ev.Entity.Faction); s != nil {
			s.UnitsBuilt++
		}
	})
	bus.On(core.EvtConstructionComplete, func(ev core.Event) {
		if s := m.side(ev.Entity.Faction); s != nil {
			s.BuildingsBuilt++
		}
	})
	bus.On(core.EvtResourceUnloaded, func(ev core.Event) {
		s := m.side(ev.Entity.Faction)
		if amount, ok := ev.Payload.(int); ok && s != nil {
			s.CreditsEarned += amount
		}
	})
	bus.On(core.EvtEntityDestroyed, func(ev core.Event) {
		e := ev.Entity
		own, other := m.side(e.Faction), m.side(e.Faction.Opponent())
		if own == nil || other == nil {
			return
		}
		switch e.Kind {
		case core.KindUnit:
			own.UnitsLost++
			other.UnitsDestroyed++
		case core.KindBuilding:
			own.BuildingsLost++
			other.BuildingsDestroyed++
		}
	})
}

func (m *MatchStats) side(f core.Faction) *FactionStats {
	if int(f) >= len(m.Sides) {
		return nil
	}
	return &m.Sides[f]
}

// Lines formats one side's statistics for the game over screen
func (m *MatchStats) Lines(f core.Faction) []string {
	s := m.side(f)
	if s == nil {
		return nil
	}
	return []string{
		fmt.Sprintf("Units built:         %d", s.UnitsBuilt),
		fmt.Sprintf("Units lost:          %d", s.UnitsLost),
		fmt.Sprintf("Buildings built:     %d", s.BuildingsBuilt),
		fmt.Sprintf("Enemy units killed:  %d", s.UnitsDestroyed),
		fmt.Sprintf("Buildings destroyed: %d", s.BuildingsDestroyed),
		fmt.Sprintf("Credits earned:      %d", s.CreditsEarned),
	}
}
