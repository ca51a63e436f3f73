package systems

import "github.com/1siamBot/rts-sim/engine/core"

// EconomySystem recalculates power and pays the enemy stipend once per
// simulated second
type EconomySystem struct{}

func (s *EconomySystem) Priority() int { return 30 }

func (s *EconomySystem) Update(w *core.World, _ float64) {
	every := uint64(w.TickRate)
	if every == 0 || w.TickCount%every != 0 {
		return
	}
	RecalculatePower(w)
	w.Economy[core.FactionEnemy].Credits += EnemyStipend
}

// RecalculatePower sets each faction's net power over completed buildings
func RecalculatePower(w *core.World) {
	for _, f := range core.Factions {
		gen, use := 0, 0
		for _, b := range w.Buildings(f) {
			if b.Building.Constructing {
				continue
			}
			gen += b.Building.PowerGen
			use += b.Building.PowerUse
		}
		w.Economy[f].Power = gen - use
	}
}
