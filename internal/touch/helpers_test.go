package touch

import (
	"github.com/Faultbox/touchpaint/internal/engine/collision"
	"github.com/Faultbox/touchpaint/internal/paint"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// viewer looks down -Z, so its frame is x right, y up, z = -world z.
var viewer = Pose{Forward: math.Vec3{Z: -1}}

type stubProber struct {
	hit    collision.Hit
	ok     bool
	probes []collision.Probe
}

func (p *stubProber) SphereCast(pr collision.Probe) (collision.Hit, bool) {
	p.probes = append(p.probes, pr)
	return p.hit, p.ok
}

// at places a hit on a wall facing the viewer, at a point given in the
// viewer frame.
func (p *stubProber) at(local math.Vec3) {
	world := viewer.FromLocal(local)
	p.hit = collision.Hit{
		Point:    world,
		Normal:   math.Vec3{Z: 1},
		Distance: local.Length(),
		Collider: 1,
		Layer:    collision.LayerPaintable,
	}
	p.ok = true
}

func (p *stubProber) miss() {
	p.hit = collision.Hit{}
	p.ok = false
}

type recorder struct {
	contacts []Contact
}

func (r *recorder) Report(c Contact) {
	r.contacts = append(r.contacts, c)
}

func (r *recorder) reset() { r.contacts = nil }

type paintCall struct {
	surface *paint.Surface
	point   math.Vec3
}

type fakePainter struct {
	calls []paintCall
	err   error
}

func (p *fakePainter) Paint(s *paint.Surface, point math.Vec3, _ paint.Brush) error {
	if p.err != nil {
		return p.err
	}
	p.calls = append(p.calls, paintCall{s, point})
	return nil
}

type lookup map[collision.Handle]*paint.Surface

func (l lookup) Surface(h collision.Handle) (*paint.Surface, bool) {
	s, ok := l[h]
	return s, ok
}

func newLookup(handles ...collision.Handle) lookup {
	l := make(lookup)
	for _, h := range handles {
		l[h] = paint.NewSurface(paint.Handle(h), "wall", nil, paint.DefaultConfig())
	}
	return l
}

// instantConfig settles contacts at once so every accepted tick can paint.
func instantConfig(side Side) Config {
	cfg := DefaultConfig(side)
	cfg.ContactThreshold = 0
	return cfg
}

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}

func approxVec(a, b math.Vec3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}
