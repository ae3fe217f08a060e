package paint

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/logger"
)

// Decayer fades paint on a surface. Engine implements it.
type Decayer interface {
	Decay(s *Surface, elapsed float32) error
}

// Scheduler decays active surfaces at a fixed cadence, independent of
// painting. It is driven by the caller's frame clock.
type Scheduler struct {
	decayer  Decayer
	interval float64 // seconds
	acc      float64
	active   []*Surface
}

// NewScheduler creates a scheduler. An interval of zero decays on every
// tick by the tick's dt.
func NewScheduler(d Decayer, interval time.Duration) *Scheduler {
	return &Scheduler{decayer: d, interval: max(interval.Seconds(), 0)}
}

// Interval returns the decay cadence.
func (s *Scheduler) Interval() time.Duration {
	return time.Duration(s.interval * float64(time.Second))
}

// Activate adds a surface. Adding a surface twice has no effect.
func (s *Scheduler) Activate(surface *Surface) {
	for _, a := range s.active {
		if a == surface {
			return
		}
	}
	s.active = append(s.active, surface)
}

// Deactivate removes a surface.
func (s *Scheduler) Deactivate(surface *Surface) {
	for i, a := range s.active {
		if a == surface {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}

// Active returns the active surfaces in activation order.
func (s *Scheduler) Active() []*Surface {
	return append([]*Surface(nil), s.active...)
}

// Tick advances the clock by dt seconds. Whenever at least one interval has
// elapsed, every active surface is decayed once by the whole number of
// elapsed intervals; the remainder carries over. It returns the number of
// decay calls made. Uninitialised surfaces are skipped.
func (s *Scheduler) Tick(dt float32) int {
	if dt <= 0 {
		return 0
	}

	var elapsed float64
	if s.interval == 0 {
		elapsed = float64(dt)
	} else {
		s.acc += float64(dt)
		passes := int(s.acc / s.interval)
		if passes == 0 {
			return 0
		}
		elapsed = float64(passes) * s.interval
		s.acc -= elapsed
	}

	calls := 0
	for _, surface := range s.active {
		err := s.decayer.Decay(surface, float32(elapsed))
		switch {
		case err == nil:
			calls++
		case errors.Is(err, ErrNotInitialized):
			// already warned by the engine
		default:
			logger.Error("decay failed",
				zap.Uint32("surface", uint32(surface.Handle())),
				zap.Error(err))
		}
	}
	return calls
}
