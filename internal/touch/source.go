// Package touch turns limb probes against the collision world into paint
// contacts.
//
// A Source runs once per tick for one limb: it probes, gates the hit,
// computes a visual target and a paint point, animates its proxy and reports
// to an Arbiter. The Arbiter keeps the latest state per source and forwards
// rate-limited stamps to the paint engine.
package touch

import (
	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/engine/collision"
	"github.com/Faultbox/touchpaint/internal/logger"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// SourceID identifies a source. It is issued by whoever creates the source.
type SourceID string

// Prober answers sphere casts. collision.World implements it.
type Prober interface {
	SphereCast(p collision.Probe) (collision.Hit, bool)
}

// Reporter receives contact reports. Arbiter implements it.
type Reporter interface {
	Report(c Contact)
}

// Fanout forwards every report to each of its reporters in order.
type Fanout []Reporter

// Report implements Reporter.
func (f Fanout) Report(c Contact) {
	for _, r := range f {
		r.Report(c)
	}
}

// Contact is one report from a source.
type Contact struct {
	Source   SourceID
	Touching bool
	// Settled is set once the proxy has reached the surface. Only settled
	// contacts are painted.
	Settled  bool
	Point    math.Vec3 // paint contact point
	Normal   math.Vec3
	Collider collision.Handle
}

// Rejection says why a probe hit was not accepted.
type Rejection int

const (
	Accepted Rejection = iota
	NoHit
	TooClose
	WrongSide
	TooWide
)

func (r Rejection) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case NoHit:
		return "no hit"
	case TooClose:
		return "too close"
	case WrongSide:
		return "wrong side"
	case TooWide:
		return "angle too wide"
	default:
		return "unknown"
	}
}

// Source is one contact-capable limb.
type Source struct {
	id       SourceID
	cfg      Config
	prober   Prober
	reporter Reporter

	active   bool
	touching bool
	timer    float32
	last     Rejection
	contact  Contact

	target    math.Vec3
	targetRot math.Quat
	proxy     Proxy
	velocity  math.Vec3
	placed    bool
}

// NewSource creates an active source.
func NewSource(id SourceID, cfg Config, prober Prober, reporter Reporter) *Source {
	return &Source{
		id:        id,
		cfg:       cfg,
		prober:    prober,
		reporter:  reporter,
		active:    true,
		last:      NoHit,
		targetRot: math.QuatIdentity(),
		proxy:     Proxy{Rotation: math.QuatIdentity()},
	}
}

func (s *Source) ID() SourceID             { return s.id }
func (s *Source) Config() Config           { return s.cfg }
func (s *Source) Active() bool             { return s.active }
func (s *Source) Touching() bool           { return s.touching }
func (s *Source) Proxy() Proxy             { return s.proxy }
func (s *Source) LastRejection() Rejection { return s.last }

// Timer returns the seconds spent in the current state.
func (s *Source) Timer() float32 { return s.timer }

// Contact returns the last accepted contact.
func (s *Source) Contact() Contact { return s.contact }

// Target returns the last visual target. It differs from the paint point:
// it is clamped to stay in view and offset from the surface.
func (s *Source) Target() math.Vec3 { return s.target }

// EffectiveSide returns the side used for probing and gating.
func (s *Source) EffectiveSide() Side {
	if s.cfg.Invert {
		return s.cfg.Side.Opposite()
	}
	return s.cfg.Side
}

// SetInvert flips the side used for probing and gating.
func (s *Source) SetInvert(invert bool) {
	s.cfg.Invert = invert
}

// Activate resumes updates.
func (s *Source) Activate() {
	s.active = true
}

// Deactivate stops updates. A touching source reports its release once.
func (s *Source) Deactivate() {
	if !s.active {
		return
	}
	if s.touching {
		s.release()
	}
	s.timer = 0
	s.active = false
}

// Update runs one tick: probe, gate, compute targets, animate, report.
func (s *Source) Update(dt float32, viewer Pose) {
	if !s.active {
		return
	}
	if !s.placed {
		s.proxy = s.restPose(viewer)
		s.placed = true
	}

	// Probe and gate
	hit, reason := s.probe(viewer)
	accepted := reason == Accepted
	if reason != s.last && reason != Accepted && reason != NoHit {
		logger.Debug("touch rejected",
			zap.String("source", string(s.id)),
			zap.Stringer("reason", reason),
			zap.Float32("distance", hit.Distance))
	}
	s.last = reason

	// Targets
	var contact Contact
	if accepted {
		contact = s.computeTargets(hit, viewer)
	}

	wasTouching := s.touching
	if accepted != wasTouching {
		s.touching = accepted
		s.timer = 0
	} else {
		s.timer += dt
	}

	s.animate(dt, viewer)

	// Report
	switch {
	case accepted:
		s.contact = contact
		s.reporter.Report(contact)
	case wasTouching:
		s.reporter.Report(Contact{Source: s.id})
	}
}

func (s *Source) probe(viewer Pose) (collision.Hit, Rejection) {
	side := s.EffectiveSide()
	origin := viewer.Position.Add(viewer.Right().Scale(s.cfg.ShoulderOffset * side.sign()))

	hit, ok := s.prober.SphereCast(collision.Probe{
		Origin:      origin,
		Direction:   viewer.Forward,
		Radius:      s.cfg.ProbeRadius,
		MaxDistance: s.cfg.ProbeLength,
		Mask:        collision.LayerPaintable,
	})
	if !ok {
		return hit, NoHit
	}
	if hit.Distance < s.cfg.MinTouchDistance {
		return hit, TooClose
	}

	local := viewer.ToLocal(hit.Point)
	if side == Left && local.X > s.cfg.ZoneTolerance {
		return hit, WrongSide
	}
	if side == Right && local.X < -s.cfg.ZoneTolerance {
		return hit, WrongSide
	}

	if math.AngleDeg(viewer.Forward, hit.Point.Sub(viewer.Position)) > s.cfg.MaxAngle {
		return hit, TooWide
	}
	return hit, Accepted
}

// computeTargets sets the visual target and returns the paint contact. The
// paint point comes from the proxy where it is now, not from the clamped
// target.
func (s *Source) computeTargets(hit collision.Hit, viewer Pose) Contact {
	local := viewer.ToLocal(hit.Point)
	local.X = math.Clamp(local.X, -s.cfg.VisualClampX, s.cfg.VisualClampX)
	local.Z = max(local.Z, s.cfg.VisualMinDepth)
	s.target = viewer.FromLocal(local).Add(hit.Normal.Scale(s.cfg.HandOffset))
	s.targetRot = math.LookRotation(hit.Normal.Neg(), math.Up)

	ref := s.proxy.Position.Add(s.proxy.Rotation.Rotate(s.cfg.ContactOffset))
	point := math.NewPlane(hit.Normal, hit.Point).ClosestPoint(ref)

	settled := s.cfg.ContactThreshold <= 0 ||
		s.proxy.Position.Distance(s.target) < s.cfg.ContactThreshold

	return Contact{
		Source:   s.id,
		Touching: true,
		Settled:  settled,
		Point:    point,
		Normal:   hit.Normal,
		Collider: hit.Collider,
	}
}

func (s *Source) animate(dt float32, viewer Pose) {
	if s.touching {
		s.proxy.Position = math.MoveTowards(s.proxy.Position, s.target, s.cfg.MoveSpeed*dt)
		s.proxy.Rotation = s.proxy.Rotation.Slerp(s.targetRot, s.cfg.RotateSpeed*dt)
		s.velocity = math.Vec3{}
		return
	}

	// Retract in the viewer frame so the proxy follows the viewer.
	viewRot := viewer.Rotation()
	local := viewer.ToLocal(s.proxy.Position)
	local = math.SmoothDamp(local, s.restLocal(), &s.velocity, s.cfg.RetractSmoothTime, dt)
	s.proxy.Position = viewer.FromLocal(local)

	localRot := viewRot.Conjugate().Mul(s.proxy.Rotation)
	localRot = localRot.Slerp(math.QuatIdentity(), s.cfg.RestRotateSpeed*dt)
	s.proxy.Rotation = viewRot.Mul(localRot).Normalize()
}

// restLocal is the rest position in the viewer frame. It follows the
// configured side, not the inverted one.
func (s *Source) restLocal() math.Vec3 {
	p := s.cfg.RestPosition
	if s.cfg.Side == Left {
		p.X = -p.X
	}
	return p
}

func (s *Source) restPose(viewer Pose) Proxy {
	return Proxy{Position: viewer.FromLocal(s.restLocal()), Rotation: viewer.Rotation()}
}

func (s *Source) release() {
	s.touching = false
	s.timer = 0
	s.reporter.Report(Contact{Source: s.id})
}
