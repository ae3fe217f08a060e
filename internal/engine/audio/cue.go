package audio

import (
	gomath "math"
	"time"

	"github.com/gopxl/beep/v2"
)

// Cue is a decaying sine blip.
type Cue struct {
	Frequency float64
	Duration  time.Duration
	// Decay is the envelope rate in 1/s.
	Decay float64
}

// Default cues: a bright tap when a limb lands, a lower one when it lifts.
var (
	TouchCue   = Cue{Frequency: 660, Duration: 80 * time.Millisecond, Decay: 40}
	ReleaseCue = Cue{Frequency: 440, Duration: 60 * time.Millisecond, Decay: 60}
)

// Streamer renders the cue at sample rate sr.
func (c Cue) Streamer(sr beep.SampleRate) beep.Streamer {
	total := sr.N(c.Duration)
	rate := float64(sr)
	i := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if i >= total {
			return 0, false
		}
		for n = range samples {
			if i >= total {
				return n, true
			}
			t := float64(i) / rate
			v := gomath.Sin(2*gomath.Pi*c.Frequency*t) * gomath.Exp(-c.Decay*t)
			samples[n] = [2]float64{v, v}
			i++
		}
		return len(samples), true
	})
}
