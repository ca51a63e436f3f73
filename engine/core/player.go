package core

// Faction identifies a side
type Faction uint8

const (
	FactionPlayer Faction = iota
	FactionEnemy
	FactionNone
)

// Factions lists the playable sides in update order
var Factions = [...]Faction{FactionPlayer, FactionEnemy}

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionEnemy:
		return "enemy"
	default:
		return "none"
	}
}

// Opponent returns the other playable side
func (f Faction) Opponent() Faction {
	if f == FactionPlayer {
		return FactionEnemy
	}
	return FactionPlayer
}

// Economy is a faction's credits and net power
type Economy struct {
	Credits int
	Power   int // generation minus consumption, may be negative
}

// HasPower returns true if power is not in deficit
func (e *Economy) HasPower() bool {
	return e.Power >= 0
}

// Spend deducts cost if affordable
func (e *Economy) Spend(cost int) bool {
	if cost < 0 || e.Credits < cost {
		return false
	}
	e.Credits -= cost
	return true
}
