package core

import "time"

// GameState represents the overall loop state
type GameState uint8

const (
	StatePaused GameState = iota
	StatePlaying
	StateGameOver
)

// MaxFrameTime caps how much wall time one frame may feed the simulation
const MaxFrameTime = 0.25

// GameLoop runs the world at a fixed timestep regardless of frame rate
type GameLoop struct {
	World       *World
	State       GameState
	TickRate    float64 // fixed ticks per second
	accumulator float64
	lastTime    time.Time
}

// NewGameLoop creates a loop driving w at its tick rate
func NewGameLoop(w *World) *GameLoop {
	return &GameLoop{
		World:    w,
		TickRate: w.TickRate,
		lastTime: time.Now(),
	}
}

// Update should be called every render frame. It feeds elapsed wall time into
// Advance and returns the interpolation alpha for smooth rendering.
func (gl *GameLoop) Update() float64 {
	now := time.Now()
	frameTime := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now
	return gl.Advance(frameTime)
}

// Advance runs as many whole ticks as frameTime covers. Returns the fraction
// of a tick left in the accumulator.
func (gl *GameLoop) Advance(frameTime float64) float64 {
	// Cap frame time to avoid spiral of death
	if frameTime > MaxFrameTime {
		frameTime = MaxFrameTime
	}

	dt := 1.0 / gl.TickRate
	gl.accumulator += frameTime

	for gl.accumulator >= dt {
		if gl.State == StatePlaying {
			gl.World.Tick(dt)
			if gl.World.Over() {
				gl.State = StateGameOver
			}
		}
		gl.accumulator -= dt
	}

	return gl.accumulator / dt
}

// Play starts or resumes the game
func (gl *GameLoop) Play() {
	if gl.State == StateGameOver {
		return
	}
	gl.State = StatePlaying
	gl.lastTime = time.Now()
}

// Pause pauses the game
func (gl *GameLoop) Pause() {
	if gl.State == StatePlaying {
		gl.State = StatePaused
	}
}

// CurrentTick returns the current simulation tick
func (gl *GameLoop) CurrentTick() uint64 {
	return gl.World.TickCount
}
