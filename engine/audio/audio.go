package audio

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/1siamBot/rts-sim/engine/core"
)

// SoundID identifies a sound effect
type SoundID string

const (
	SndAttack    SoundID = "attack"
	SndExplosion SoundID = "explosion"
	SndBuild     SoundID = "build"
	SndReady     SoundID = "ready"
	SndCredits   SoundID = "credits"
	SndGameOver  SoundID = "gameOver"
)

// SampleRate is the rate every cue is synthesized at
const SampleRate = 44100

// HearingRange is the world distance at which positional cues fall silent
const HearingRange = 600.0

// cue describes how a sound is made and mixed
type cue struct {
	tone       tone
	positional bool
	gap        int // minimum frames between plays
}

var cues = map[SoundID]cue{
	SndAttack:    {tone{freq: 880, dur: 0.06, decay: 40, noise: 0.3}, true, 4},
	SndExplosion: {tone{freq: 60, dur: 0.5, decay: 6, noise: 0.9}, true, 6},
	SndBuild:     {tone{freq: 523, dur: 0.25, decay: 8, sweep: 1.5}, false, 10},
	SndReady:     {tone{freq: 659, dur: 0.2, decay: 10, sweep: 1.2}, false, 10},
	SndCredits:   {tone{freq: 1046, dur: 0.08, decay: 30}, true, 15},
	SndGameOver:  {tone{freq: 392, dur: 1.2, decay: 2, sweep: 0.5}, false, 0},
}

// CueFor maps a simulation event to its sound
func CueFor(ev core.Event) (SoundID, bool) {
	switch ev.Type {
	case core.EvtWeaponFired:
		return SndAttack, true
	case core.EvtExplosion:
		return SndExplosion, true
	case core.EvtConstructionComplete:
		return SndBuild, true
	case core.EvtUnitProduced:
		return SndReady, true
	case core.EvtResourceUnloaded:
		return SndCredits, true
	case core.EvtGameOver:
		return SndGameOver, true
	}
	return "", false
}

// AudioManager plays event cues through Ebitengine's audio package. Cues
// are synthesized once up front; a nil context keeps the manager silent.
type AudioManager struct {
	MasterVolume float64
	SFXVolume    float64
	Muted        bool
	CameraX      float64
	CameraZ      float64
	Faction      core.Faction // side whose own events are always audible

	ctx      *audio.Context
	samples  map[SoundID][]byte
	players  []*audio.Player
	cooldown map[SoundID]int
}

func NewAudioManager(ctx *audio.Context) *AudioManager {
	am := &AudioManager{
		MasterVolume: 1.0,
		SFXVolume:    0.8,
		Faction:      core.FactionPlayer,
		ctx:          ctx,
		samples:      make(map[SoundID][]byte, len(cues)),
		cooldown:     make(map[SoundID]int),
	}
	for id, c := range cues {
		am.samples[id] = c.tone.pcm(SampleRate)
	}
	return am
}

// Listen plays a cue for every audible event on the bus. Events about other
// sides are heard only if the entity was last seen by the player.
func (am *AudioManager) Listen(bus *core.EventBus) {
	handler := func(ev core.Event) {
		id, ok := CueFor(ev)
		if !ok {
			return
		}
		if ev.Entity != nil && ev.Entity.Faction != am.Faction && !ev.Entity.Visible {
			return
		}
		am.PlaySFX(id, ev.Pos.X, ev.Pos.Z)
	}
	for _, t := range []core.EventType{
		core.EvtWeaponFired, core.EvtExplosion, core.EvtConstructionComplete,
		core.EvtUnitProduced, core.EvtResourceUnloaded, core.EvtGameOver,
	} {
		bus.On(t, handler)
	}
}

// SetCameraPos updates the listener position for positional audio
func (am *AudioManager) SetCameraPos(x, z float64) {
	am.CameraX = x
	am.CameraZ = z
}

// PlaySFX plays a sound effect at a world position. Returns false when the
// cue is muted, out of earshot or throttled.
func (am *AudioManager) PlaySFX(id SoundID, worldX, worldZ float64) bool {
	c, ok := cues[id]
	if !ok || am.Muted || am.cooldown[id] > 0 {
		return false
	}
	vol := am.MasterVolume * am.SFXVolume
	if c.positional {
		vol = am.calcVolume(worldX, worldZ)
	}
	if vol <= 0 {
		return false
	}
	am.cooldown[id] = c.gap
	if am.ctx == nil {
		return true
	}
	p := am.ctx.NewPlayerFromBytes(am.samples[id])
	p.SetVolume(vol)
	p.Play()
	am.players = append(am.players, p)
	return true
}

// Update advances throttles by one frame and releases finished players
func (am *AudioManager) Update() {
	for id, n := range am.cooldown {
		if n > 0 {
			am.cooldown[id] = n - 1
		}
	}
	live := am.players[:0]
	for _, p := range am.players {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		_ = p.Close()
	}
	clear(am.players[len(live):])
	am.players = live
}

// calcVolume computes volume based on distance from camera
func (am *AudioManager) calcVolume(wx, wz float64) float64 {
	dist := math.Hypot(wx-am.CameraX, wz-am.CameraZ)
	if dist >= HearingRange {
		return 0
	}
	return (1.0 - dist/HearingRange) * am.SFXVolume * am.MasterVolume
}

// SetVolume sets master volume (0-1)
func (am *AudioManager) SetVolume(v float64) {
	am.MasterVolume = max(0, min(1, v))
}
