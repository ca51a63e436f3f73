package audio

import (
	"encoding/binary"
	"math"
	"math/rand"
)

// tone is a decaying oscillator with optional noise and pitch sweep
type tone struct {
	freq  float64 // start frequency in Hz
	dur   float64 // seconds
	decay float64 // exponential decay rate per second
	noise float64 // 0 pure tone, 1 pure noise
	sweep float64 // end frequency as a multiple of freq, 0 for constant
}

// pcm renders the tone as 16-bit little-endian stereo
func (t tone) pcm(rate int) []byte {
	n := int(t.dur * float64(rate))
	out := make([]byte, n*4)
	rng := rand.New(rand.NewSource(int64(t.freq)))
	phase := 0.0
	for i := range n {
		at := float64(i) / float64(rate)
		f := t.freq
		if t.sweep > 0 {
			f *= 1 + (t.sweep-1)*at/t.dur
		}
		phase += 2 * math.Pi * f / float64(rate)
		v := (1-t.noise)*math.Sin(phase) + t.noise*(rng.Float64()*2-1)
		v *= math.Exp(-t.decay*at) * 0.6

		// short fade out so the cue ends without a click
		if rest := n - i; rest < 64 {
			v *= float64(rest) / 64
		}
		s := uint16(int16(v * math.MaxInt16))
		binary.LittleEndian.PutUint16(out[i*4:], s)
		binary.LittleEndian.PutUint16(out[i*4+2:], s)
	}
	return out
}
