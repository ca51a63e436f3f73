package systems

import "errors"

// Command rejections. Only ErrUnreachable follows a state change: the
// units that could not path are left idle.
var (
	ErrUnknownCommand      = errors.New("unknown command")
	ErrUnknownType         = errors.New("unknown unit or building type")
	ErrUnknownEntity       = errors.New("entity does not exist")
	ErrNotOwned            = errors.New("entity belongs to another faction")
	ErrInvalidFaction      = errors.New("commands must come from a playable faction")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidPlacement    = errors.New("invalid building placement")
	ErrCannotProduce       = errors.New("building cannot produce that unit")
	ErrGameOver            = errors.New("match is over")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrUnreachable         = errors.New("destination unreachable")
)
