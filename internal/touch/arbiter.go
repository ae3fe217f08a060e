package touch

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/engine/collision"
	"github.com/Faultbox/touchpaint/internal/logger"
	"github.com/Faultbox/touchpaint/internal/paint"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// Painter stamps paint. paint.Engine implements it.
type Painter interface {
	Paint(s *paint.Surface, point math.Vec3, b paint.Brush) error
}

// SurfaceLookup resolves the paint surface bound to a collider.
type SurfaceLookup interface {
	Surface(h collision.Handle) (*paint.Surface, bool)
}

// Entry is the arbiter state for one source.
type Entry struct {
	Touching bool
	Settled  bool
	Point    math.Vec3
	Normal   math.Vec3
	Collider collision.Handle

	// Timer counts seconds of sustained contact.
	Timer float32
	// SinceStamp counts seconds since the last stamp.
	SinceStamp float32
	LastStamp  math.Vec3
	HasStamp   bool
	Stamps     int
}

// Arbiter reconciles reports from many sources into paint calls.
type Arbiter struct {
	painter  Painter
	surfaces SurfaceLookup
	brush    paint.Brush
	policy   Policy
	entries  map[SourceID]*Entry
}

// NewArbiter creates an arbiter that paints through painter.
func NewArbiter(painter Painter, surfaces SurfaceLookup, brush paint.Brush, policy Policy) *Arbiter {
	return &Arbiter{
		painter:  painter,
		surfaces: surfaces,
		brush:    brush,
		policy:   policy,
		entries:  make(map[SourceID]*Entry),
	}
}

// Brush returns the brush used for stamps.
func (a *Arbiter) Brush() paint.Brush { return a.brush }

// SetBrush replaces the brush used for stamps.
func (a *Arbiter) SetBrush(b paint.Brush) { a.brush = b }

// Policy returns the restamp policy.
func (a *Arbiter) Policy() Policy { return a.policy }

// Report implements Reporter. Entries are created on first report.
func (a *Arbiter) Report(c Contact) {
	e, ok := a.entries[c.Source]
	if !ok {
		e = &Entry{}
		a.entries[c.Source] = e
	}

	if !c.Touching {
		if e.Touching {
			*e = Entry{Stamps: e.Stamps, LastStamp: e.LastStamp}
		}
		return
	}

	if !e.Touching {
		e.Touching = true
		e.Timer = 0
		e.SinceStamp = 0
		e.HasStamp = false
	}
	e.Settled = c.Settled
	e.Point = c.Point
	e.Normal = c.Normal
	e.Collider = c.Collider
}

// Update advances entry timers by dt seconds and stamps every touching,
// settled entry the policy allows. Entries run in id order. It returns the
// number of stamps made.
func (a *Arbiter) Update(dt float32) int {
	stamps := 0
	for _, id := range a.IDs() {
		e := a.entries[id]
		if !e.Touching {
			continue
		}
		e.Timer += dt
		e.SinceStamp += dt
		if !e.Settled || !a.due(e) {
			continue
		}

		surface, ok := a.surfaces.Surface(e.Collider)
		if !ok {
			logger.Debug("contact on collider without surface",
				zap.String("source", string(id)),
				zap.Uint32("collider", uint32(e.Collider)))
			continue
		}

		if err := a.painter.Paint(surface, e.Point, a.brush); err != nil {
			if !errors.Is(err, paint.ErrNotInitialized) {
				logger.Error("paint failed",
					zap.String("source", string(id)),
					zap.Uint32("surface", uint32(surface.Handle())),
					zap.Error(err))
			}
			continue
		}

		e.LastStamp = e.Point
		e.HasStamp = true
		e.SinceStamp = 0
		e.Stamps++
		stamps++
	}
	return stamps
}

func (a *Arbiter) due(e *Entry) bool {
	if !e.HasStamp {
		return true
	}
	if e.SinceStamp >= float32(a.policy.StampInterval.Seconds()) {
		return true
	}
	return a.policy.StampSpacing > 0 && e.Point.Distance(e.LastStamp) >= a.policy.StampSpacing
}

// Entry returns a copy of the entry for id.
func (a *Arbiter) Entry(id SourceID) (Entry, bool) {
	e, ok := a.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Touching reports whether the source's latest report was a contact.
func (a *Arbiter) Touching(id SourceID) bool {
	e, ok := a.entries[id]
	return ok && e.Touching
}

// IDs returns the known source ids in sorted order.
func (a *Arbiter) IDs() []SourceID {
	ids := make([]SourceID, 0, len(a.entries))
	for id := range a.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clear forgets a source.
func (a *Arbiter) Clear(id SourceID) {
	delete(a.entries, id)
}
