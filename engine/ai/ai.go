package ai

import (
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/1siamBot/rts-sim/engine/core"
	"github.com/1siamBot/rts-sim/engine/maplib"
	"github.com/1siamBot/rts-sim/engine/systems"
)

const (
	ThinkInterval   = 5 * time.Second
	SquadSize       = 4
	DetectionRadius = 200.0 // threats this close to the base wake the defenders
	ChaseRadius     = 200.0 // attack units prefer enemy units closer than this
	HarvesterTarget = 3
	LowPower        = 50
	BuildOffset     = 60.0
	// chance of a light tank over a heavy one
	lightTankOdds = 0.7
)

// Controller runs one AI faction. It only acts through systems.Execute.
type Controller struct {
	Faction core.Faction
	Base    maplib.Vec // own base, used for threat detection and target ranking
	Enemy   maplib.Vec // opponent start, scouted when nothing is visible
	Rules   *RuleSet
	Mode    Mode

	lastThink time.Duration
	expanded  bool
	attack    []core.EntityID
	log       *slog.Logger
}

// NewController creates a controller in building mode
func NewController(f core.Faction, base, enemy maplib.Vec, rules *RuleSet, log *slog.Logger) *Controller {
	if rules == nil {
		rules = MustDefaultRules()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		Faction: f,
		Base:    base,
		Enemy:   enemy,
		Rules:   rules,
		Mode:    ModeBuilding,
		log:     log.With("system", "ai", "faction", f),
	}
}

// AttackForce returns the IDs of units currently committed to the attack
func (c *Controller) AttackForce() []core.EntityID { return slices.Clone(c.attack) }

// forces splits the faction's units into harvesters, defenders and the attack force
type forces struct {
	harvesters []*core.Entity
	defense    []*core.Entity
	attack     []*core.Entity
}

func (c *Controller) survey(w *core.World) forces {
	var fs forces
	// attackers that stopped with nothing to fight go back to defending
	c.attack = slices.DeleteFunc(c.attack, func(id core.EntityID) bool {
		u := w.Get(id)
		return u == nil || u.Unit.State == core.StateIdle && w.Get(u.Unit.Target) == nil
	})
	for _, u := range w.Units(c.Faction) {
		switch {
		case u.IsHarvester():
			fs.harvesters = append(fs.harvesters, u)
		case slices.Contains(c.attack, u.ID):
			fs.attack = append(fs.attack, u)
		default:
			fs.defense = append(fs.defense, u)
		}
	}
	return fs
}

// Update thinks once the interval has strictly elapsed in simulated time
func (c *Controller) Update(w *core.World) {
	if w.Over() || w.Now-c.lastThink <= ThinkInterval {
		return
	}
	c.lastThink = w.Now
	c.Think(w)
}

// Think runs one full decision: mode selection, the mode's action, harvester
// management and targeting
func (c *Controller) Think(w *core.World) {
	fs := c.survey(w)
	env := RuleEnv{
		Credits:        w.Economy[c.Faction].Credits,
		Power:          w.Economy[c.Faction].Power,
		HarvesterCount: len(fs.harvesters),
		DefenseCount:   len(fs.defense),
		AttackCount:    len(fs.attack),
		BuildingCount:  w.BuildingCount(c.Faction),
		UnitCount:      w.UnitCount(c.Faction),
	}
	mode, rule := c.Rules.Select(env, c.log)
	if mode != c.Mode {
		c.log.Info("mode changed", "from", c.Mode, "to", mode, "rule", rule, "tick", w.TickCount)
		w.Events.Emit(core.Event{Type: core.EvtAIModeChanged, Tick: w.TickCount, Payload: mode})
		c.Mode = mode
	}

	switch mode {
	case ModeBuilding:
		c.build(w, fs)
	case ModeExpanding:
		c.expand(w)
	case ModeAttacking:
		fs = c.launchAttack(w, fs)
	}
	c.manageHarvesters(w, fs)
	c.updateTargeting(w, fs)
}

func (c *Controller) issue(w *core.World, cmd core.Command) bool {
	cmd.Faction = c.Faction
	return systems.Execute(w, cmd) == nil
}

func (c *Controller) idleFactory(w *core.World) *core.Entity {
	for _, b := range w.Buildings(c.Faction) {
		if b.Building.Type == core.WarFactory && !b.Building.Constructing && !b.Building.Production.Busy() {
			return b
		}
	}
	return nil
}

func (c *Controller) build(w *core.World, fs forces) {
	eco := &w.Economy[c.Faction]
	cc := w.FindBuilding(c.Faction, core.CommandCenter)

	if len(fs.harvesters) < HarvesterTarget && eco.Credits >= systems.Units[core.Harvester].Cost {
		if wf := c.idleFactory(w); wf != nil {
			c.issue(w, core.Produce(c.Faction, wf.ID, core.Harvester))
		} else if cc != nil {
			c.issue(w, core.Build(c.Faction, core.WarFactory, cc.Pos.Add(maplib.Vec{X: BuildOffset})))
		}
	}

	if eco.Credits >= systems.Units[core.LightTank].Cost {
		if wf := c.idleFactory(w); wf != nil {
			t := core.HeavyTank
			if w.Rand.Float64() < lightTankOdds {
				t = core.LightTank
			}
			c.issue(w, core.Produce(c.Faction, wf.ID, t))
		}
	}

	if eco.Power < LowPower && eco.Credits >= systems.Buildings[core.PowerPlant].Cost && cc != nil {
		c.issue(w, core.Build(c.Faction, core.PowerPlant, cc.Pos.Add(maplib.Vec{Z: BuildOffset})))
	}
}

// expand places a barracks first, then additional war factories
func (c *Controller) expand(w *core.World) {
	if w.Economy[c.Faction].Credits < systems.Buildings[core.WarFactory].Cost {
		return
	}
	cc := w.FindBuilding(c.Faction, core.CommandCenter)
	if cc == nil {
		return
	}
	if !c.expanded {
		if c.issue(w, core.Build(c.Faction, core.Barracks, cc.Pos.Add(maplib.Vec{X: -BuildOffset}))) {
			c.expanded = true
		}
		return
	}
	c.issue(w, core.Build(c.Faction, core.WarFactory, cc.Pos.Add(maplib.Vec{Z: -BuildOffset})))
}

// launchAttack moves a squad of idle defenders into the attack force and sends
// the whole force at the best target. Defenders already fighting stay home.
func (c *Controller) launchAttack(w *core.World, fs forces) forces {
	var squad, rest []*core.Entity
	for _, u := range fs.defense {
		if len(squad) < SquadSize && u.Unit.State == core.StateIdle {
			squad = append(squad, u)
		} else {
			rest = append(rest, u)
		}
	}
	if len(squad) < SquadSize {
		return fs
	}
	for _, u := range squad {
		c.attack = append(c.attack, u.ID)
	}
	fs.attack = append(fs.attack, squad...)
	fs.defense = rest

	ids := make([]core.EntityID, len(fs.attack))
	for i, u := range fs.attack {
		ids[i] = u.ID
	}
	if target := c.pickTarget(w); target != nil {
		c.log.Info("attack launched", "target", target.ID, "squad", len(ids), "tick", w.TickCount)
		c.issue(w, core.Attack(c.Faction, ids, target.ID))
		return fs
	}
	// nothing in sight: head for the opponent's start
	c.issue(w, core.Move(c.Faction, ids, c.Enemy))
	return fs
}

// pickTarget prefers the opponent's command center, then the building nearest
// the base, then the unit nearest the base
func (c *Controller) pickTarget(w *core.World) *core.Entity {
	opp := c.Faction.Opponent()
	for _, b := range w.Buildings(opp) {
		if b.Building.Type == core.CommandCenter && w.CanSee(c.Faction, b) {
			return b
		}
	}
	if b := c.nearestVisible(w, w.Buildings(opp), c.Base, math.MaxFloat64); b != nil {
		return b
	}
	return c.nearestVisible(w, w.Units(opp), c.Base, math.MaxFloat64)
}

func (c *Controller) nearestVisible(w *core.World, list []*core.Entity, from maplib.Vec, limit float64) *core.Entity {
	var best *core.Entity
	bestDist := limit
	for _, e := range list {
		if !w.CanSee(c.Faction, e) {
			continue
		}
		if d := from.DistanceTo(e.Pos); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

func (c *Controller) manageHarvesters(w *core.World, fs forces) {
	for _, h := range fs.harvesters {
		if h.Alive() && h.Unit.State == core.StateIdle {
			c.issue(w, core.Command{Type: core.CmdHarvest, Units: []core.EntityID{h.ID}})
		}
	}
}

// updateTargeting retargets attack units that lost their target and sends
// idle defenders at threats near the base
func (c *Controller) updateTargeting(w *core.World, fs forces) {
	opp := c.Faction.Opponent()
	for _, u := range fs.attack {
		if !u.Alive() || w.Get(u.Unit.Target) != nil {
			continue
		}
		target := c.nearestVisible(w, w.Units(opp), u.Pos, math.MaxFloat64)
		limit := math.MaxFloat64
		if target != nil {
			limit = u.Pos.DistanceTo(target.Pos)
		}
		// distant units lose out to any building that is closer
		if target == nil || limit > ChaseRadius {
			if b := c.nearestVisible(w, w.Buildings(opp), u.Pos, limit); b != nil {
				target = b
			}
		}
		switch {
		case target != nil:
			c.issue(w, core.Attack(c.Faction, []core.EntityID{u.ID}, target.ID))
		case u.Unit.State != core.StateMoving:
			c.issue(w, core.Command{Type: core.CmdStop, Units: []core.EntityID{u.ID}})
		}
	}

	for _, u := range fs.defense {
		if !u.Alive() || u.Unit.State != core.StateIdle {
			continue
		}
		if threat := c.nearestVisible(w, w.Units(opp), c.Base, DetectionRadius); threat != nil {
			c.issue(w, core.Attack(c.Faction, []core.EntityID{u.ID}, threat.ID))
		}
	}
}

// System runs the AI controllers as part of the world tick
type System struct {
	Controllers []*Controller
}

func (s *System) Priority() int { return 50 }

func (s *System) Update(w *core.World, _ float64) {
	for _, c := range s.Controllers {
		c.Update(w)
	}
}
