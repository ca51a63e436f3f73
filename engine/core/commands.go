package core

import (
	"fmt"

	"github.com/1siamBot/rts-sim/engine/maplib"
)

// CmdType identifies a command
type CmdType uint8

const (
	CmdMove CmdType = iota
	CmdAttack
	CmdStop
	CmdHarvest
	CmdReturnToBase
	CmdBuild
	CmdProduce
	CmdSetRally
	CmdSelect
	CmdAssignGroup
	CmdRecallGroup
)

var cmdNames = [...]string{"move", "attack", "stop", "harvest", "returnToBase", "build", "produce", "setRally", "select", "assignGroup", "recallGroup"}

func (t CmdType) String() string {
	if int(t) < len(cmdNames) {
		return cmdNames[t]
	}
	return fmt.Sprintf("cmd(%d)", uint8(t))
}

// Command is an intent entering the simulation. Human input and the AI
// controller both use it.
type Command struct {
	Tick    uint64 // stamped when executed
	Faction Faction
	Type    CmdType

	Units    []EntityID // acting units; empty means the current selection
	Target   EntityID   // attack/harvest target, or the producing/rallying building
	Pos      maplib.Vec // move destination, build site or rally point
	Building BuildingType
	Unit     UnitType
	Group    int
	Additive bool // select: extend instead of replace
}

// Move orders units to a position
func Move(f Faction, units []EntityID, to maplib.Vec) Command {
	return Command{Faction: f, Type: CmdMove, Units: units, Pos: to}
}

// Attack orders units to attack a target
func Attack(f Faction, units []EntityID, target EntityID) Command {
	return Command{Faction: f, Type: CmdAttack, Units: units, Target: target}
}

// Build places a new building
func Build(f Faction, t BuildingType, at maplib.Vec) Command {
	return Command{Faction: f, Type: CmdBuild, Building: t, Pos: at}
}

// Produce queues a unit at a building
func Produce(f Faction, building EntityID, t UnitType) Command {
	return Command{Faction: f, Type: CmdProduce, Target: building, Unit: t}
}
