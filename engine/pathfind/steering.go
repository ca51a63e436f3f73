package pathfind

import (
	"math"

	"github.com/1siamBot/rts-sim/engine/maplib"
)

// MaxTurn is the largest heading change per tick, in radians
const MaxTurn = 0.1

// SteerResult is one tick of movement toward a waypoint
type SteerResult struct {
	Pos     maplib.Vec
	Heading float64 // desired heading, atan2(dx, dz)
	Moved   bool
}

// Seek steps from pos toward target by at most speed world units
func Seek(pos, target maplib.Vec, speed float64) SteerResult {
	d := target.Sub(pos)
	dist := d.Len()
	if dist < 0.01 {
		return SteerResult{Pos: pos}
	}
	step := math.Min(speed, dist)
	return SteerResult{
		Pos:     maplib.Vec{X: pos.X + d.X/dist*step, Z: pos.Z + d.Z/dist*step},
		Heading: math.Atan2(d.X, d.Z),
		Moved:   true,
	}
}

// HeadingTo returns the heading that faces from a to b
func HeadingTo(a, b maplib.Vec) float64 {
	return math.Atan2(b.X-a.X, b.Z-a.Z)
}

// NormalizeAngle wraps an angle into [-pi, pi]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// TurnToward rotates current toward desired along the shortest arc, by at most maxStep
func TurnToward(current, desired, maxStep float64) float64 {
	diff := NormalizeAngle(desired - current)
	if math.Abs(diff) <= maxStep {
		return NormalizeAngle(desired)
	}
	if diff > 0 {
		return NormalizeAngle(current + maxStep)
	}
	return NormalizeAngle(current - maxStep)
}
