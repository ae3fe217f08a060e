package audio

import (
	"github.com/gopxl/beep/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/logger"
	"github.com/Faultbox/touchpaint/internal/touch"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// Player mixes a stream at a gain in [0, 1]. Manager implements it.
type Player interface {
	SampleRate() beep.SampleRate
	Play(s beep.Streamer, gain float64) error
}

// ContactCues is a touch.Reporter that plays TouchCue when a source starts
// touching and ReleaseCue when it lets go. Gain falls off linearly with the
// distance from the listener and is zero past MaxDistance.
type ContactCues struct {
	player      Player
	listener    func() math.Vec3
	MaxDistance float32

	Touch   Cue
	Release Cue

	// last gain per source while touching
	touching map[touch.SourceID]float64
}

// NewContactCues creates cues heard from the position listener returns.
func NewContactCues(player Player, listener func() math.Vec3, maxDistance float32) *ContactCues {
	return &ContactCues{
		player:      player,
		listener:    listener,
		MaxDistance: maxDistance,
		Touch:       TouchCue,
		Release:     ReleaseCue,
		touching:    make(map[touch.SourceID]float64),
	}
}

// Report implements touch.Reporter.
func (c *ContactCues) Report(contact touch.Contact) {
	gain, was := c.touching[contact.Source]

	switch {
	case contact.Touching && !was:
		gain = c.Gain(contact.Point)
		c.touching[contact.Source] = gain
		c.play(c.Touch, gain)
	case contact.Touching:
		c.touching[contact.Source] = c.Gain(contact.Point)
	case was:
		delete(c.touching, contact.Source)
		c.play(c.Release, gain)
	}
}

// Gain returns the attenuation for a contact at point.
func (c *ContactCues) Gain(point math.Vec3) float64 {
	if c.MaxDistance <= 0 {
		return 1
	}
	d := point.Distance(c.listener())
	if d >= c.MaxDistance {
		return 0
	}
	return float64(1 - d/c.MaxDistance)
}

func (c *ContactCues) play(cue Cue, gain float64) {
	if gain <= 0 {
		return
	}
	if err := c.player.Play(cue.Streamer(c.player.SampleRate()), gain); err != nil {
		logger.Debug("contact cue dropped", zap.Error(err))
	}
}
