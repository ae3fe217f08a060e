package touch

import (
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/touchpaint/internal/engine/collision"
	"github.com/Faultbox/touchpaint/internal/paint"
	"github.com/Faultbox/touchpaint/pkg/math"
)

func TestZoneGating(t *testing.T) {
	tests := []struct {
		name   string
		side   Side
		invert bool
		x      float32
		want   bool
	}{
		{"left inside tolerance", Left, false, 0.04, true},
		{"left wrong side", Left, false, 0.06, false},
		{"left own side", Left, false, -0.3, true},
		{"right inside tolerance", Right, false, -0.04, true},
		{"right wrong side", Right, false, -0.06, false},
		{"right own side", Right, false, 0.3, true},
		{"left inverted accepts right", Left, true, 0.06, true},
		{"left inverted rejects left", Left, true, -0.06, false},
		{"right inverted accepts left", Right, true, -0.06, true},
		{"right inverted rejects right", Right, true, 0.06, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := instantConfig(tt.side)
			cfg.Invert = tt.invert
			prober := &stubProber{}
			prober.at(math.Vec3{X: tt.x, Z: 0.6})
			rec := &recorder{}
			src := NewSource("hand", cfg, prober, rec)

			src.Update(0.016, viewer)
			if src.Touching() != tt.want {
				t.Errorf("touching = %v, want %v (rejection %v)", src.Touching(), tt.want, src.LastRejection())
			}
			if !tt.want && src.LastRejection() != WrongSide {
				t.Errorf("rejection = %v, want %v", src.LastRejection(), WrongSide)
			}
		})
	}
}

func TestProbeOriginFollowsEffectiveSide(t *testing.T) {
	tests := []struct {
		side   Side
		invert bool
		wantX  float32
	}{
		{Left, false, -0.2},
		{Right, false, 0.2},
		{Left, true, 0.2},
		{Right, true, -0.2},
	}
	for _, tt := range tests {
		prober := &stubProber{}
		cfg := DefaultConfig(tt.side)
		cfg.Invert = tt.invert
		NewSource("hand", cfg, prober, &recorder{}).Update(0.016, viewer)

		p := prober.probes[0]
		if !approx(p.Origin.X, tt.wantX) {
			t.Errorf("%v invert=%v: origin x = %v, want %v", tt.side, tt.invert, p.Origin.X, tt.wantX)
		}
		if p.Mask != collision.LayerPaintable || p.MaxDistance != 1.0 || p.Radius != 0.2 {
			t.Errorf("probe = %+v", p)
		}
		if p.Direction != viewer.Forward {
			t.Errorf("direction = %v, want %v", p.Direction, viewer.Forward)
		}
	}
}

func TestDistanceGate(t *testing.T) {
	prober := &stubProber{}
	prober.at(math.Vec3{Z: 0.25})
	painter := &fakePainter{}
	arb := NewArbiter(painter, newLookup(1), paint.DefaultBrush(), Policy{})
	src := NewSource("hand", instantConfig(Right), prober, arb)

	src.Update(0.016, viewer)
	arb.Update(0.016)

	if src.Touching() {
		t.Error("hit at 0.25 < 0.3 should not touch")
	}
	if src.LastRejection() != TooClose {
		t.Errorf("rejection = %v, want %v", src.LastRejection(), TooClose)
	}
	if len(painter.calls) != 0 {
		t.Errorf("paint calls = %d, want 0", len(painter.calls))
	}
}

func TestAngleGate(t *testing.T) {
	rad := func(deg float64) float64 { return deg * gomath.Pi / 180 }
	at := func(deg float64) math.Vec3 {
		return math.Vec3{
			Y: float32(0.5 * gomath.Sin(rad(deg))),
			Z: float32(0.5 * gomath.Cos(rad(deg))),
		}
	}

	t.Run("10 degrees sustained", func(t *testing.T) {
		prober := &stubProber{}
		prober.at(at(10))
		rec := &recorder{}
		painter := &fakePainter{}
		arb := NewArbiter(painter, newLookup(1), paint.DefaultBrush(), Policy{})
		src := NewSource("hand", instantConfig(Right), prober, rec)

		for tick := 1; tick <= 5; tick++ {
			src.Update(0.016, viewer)
			for _, c := range rec.contacts {
				arb.Report(c)
			}
			arb.Update(0.016)

			if !src.Touching() {
				t.Fatalf("tick %d: not touching", tick)
			}
			if len(rec.contacts) != 1 {
				t.Fatalf("tick %d: %d reports, want 1", tick, len(rec.contacts))
			}
			if len(painter.calls) != tick {
				t.Fatalf("tick %d: %d paint calls, want %d", tick, len(painter.calls), tick)
			}
			rec.reset()
		}
	})

	t.Run("50 degrees", func(t *testing.T) {
		prober := &stubProber{}
		prober.at(at(50))
		src := NewSource("hand", instantConfig(Right), prober, &recorder{})
		src.Update(0.016, viewer)
		if src.Touching() || src.LastRejection() != TooWide {
			t.Errorf("touching=%v rejection=%v", src.Touching(), src.LastRejection())
		}
	})
}

func TestReleaseReportedOnce(t *testing.T) {
	prober := &stubProber{}
	rec := &recorder{}
	src := NewSource("hand", instantConfig(Right), prober, rec)

	script := []bool{false, true, true, true, false, false, false, true, false}
	for _, hit := range script {
		if hit {
			prober.at(math.Vec3{Z: 0.6})
		} else {
			prober.miss()
		}
		src.Update(0.016, viewer)
	}

	var got []bool
	for _, c := range rec.contacts {
		got = append(got, c.Touching)
	}
	want := []bool{true, true, true, false, true, false}
	if len(got) != len(want) {
		t.Fatalf("reports = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reports = %v, want %v", got, want)
		}
	}
}

func TestDeactivateReportsRelease(t *testing.T) {
	prober := &stubProber{}
	prober.at(math.Vec3{Z: 0.6})
	rec := &recorder{}
	src := NewSource("hand", instantConfig(Right), prober, rec)

	src.Update(0.016, viewer)
	rec.reset()

	src.Deactivate()
	src.Deactivate()
	src.Update(0.016, viewer)

	if len(rec.contacts) != 1 || rec.contacts[0].Touching {
		t.Fatalf("reports after Deactivate = %+v, want one release", rec.contacts)
	}
	if src.Touching() || src.Active() {
		t.Errorf("touching=%v active=%v", src.Touching(), src.Active())
	}

	src.Activate()
	src.Update(0.016, viewer)
	if !src.Touching() {
		t.Error("reactivated source should touch again")
	}
}

func TestTimerResetsOnTransition(t *testing.T) {
	prober := &stubProber{}
	src := NewSource("hand", instantConfig(Right), prober, &recorder{})

	src.Update(0.5, viewer)
	src.Update(0.5, viewer)
	if !approx(src.Timer(), 1) {
		t.Errorf("idle timer = %v, want 1", src.Timer())
	}

	prober.at(math.Vec3{Z: 0.6})
	src.Update(0.25, viewer)
	if src.Timer() != 0 {
		t.Errorf("timer after touch = %v, want 0", src.Timer())
	}
	src.Update(0.25, viewer)
	if !approx(src.Timer(), 0.25) {
		t.Errorf("touching timer = %v, want 0.25", src.Timer())
	}

	prober.miss()
	src.Update(0.25, viewer)
	if src.Timer() != 0 {
		t.Errorf("timer after release = %v, want 0", src.Timer())
	}
}

func TestVisualTargetIsSeparateFromPaintPoint(t *testing.T) {
	prober := &stubProber{}
	prober.at(math.Vec3{X: 0.25, Z: 0.35})
	rec := &recorder{}
	src := NewSource("hand", DefaultConfig(Right), prober, rec)

	src.Update(0.016, viewer)
	if !src.Touching() {
		t.Fatalf("expected touch, rejection %v", src.LastRejection())
	}

	// Depth is raised to 0.4, then pushed 0.05 off the wall.
	wantTarget := math.Vec3{X: 0.25, Z: -0.35}
	if !approxVec(src.Target(), wantTarget) {
		t.Errorf("target = %v, want %v", src.Target(), wantTarget)
	}

	// The paint point is the proxy's rest position projected onto the wall.
	c := rec.contacts[0]
	wantPoint := math.Vec3{X: 0.25, Y: -0.35, Z: -0.35}
	if !approxVec(c.Point, wantPoint) {
		t.Errorf("paint point = %v, want %v", c.Point, wantPoint)
	}
	if d := math.NewPlane(prober.hit.Normal, prober.hit.Point).SignedDistance(c.Point); !approx(d, 0) {
		t.Errorf("paint point is %v off the wall", d)
	}
	if c.Settled {
		t.Error("contact should not be settled before the proxy arrives")
	}
}

func TestVisualTargetClampsLaterally(t *testing.T) {
	prober := &stubProber{}
	prober.at(math.Vec3{X: 0.45, Z: 0.6})
	src := NewSource("hand", DefaultConfig(Right), prober, &recorder{})
	src.Update(0.016, viewer)

	if !src.Touching() {
		t.Fatalf("expected touch, rejection %v", src.LastRejection())
	}
	if !approx(src.Target().X, 0.4) {
		t.Errorf("target x = %v, want 0.4", src.Target().X)
	}
}

func TestProxyAnimation(t *testing.T) {
	prober := &stubProber{}
	prober.at(math.Vec3{X: 0.2, Z: 0.6})
	src := NewSource("hand", DefaultConfig(Right), prober, &recorder{})

	// First tick places the proxy at rest and takes one bounded step.
	src.Update(0.02, viewer)
	rest := viewer.FromLocal(src.restLocal())
	if d := src.Proxy().Position.Distance(rest); d > 5*0.02+1e-4 {
		t.Errorf("proxy moved %v in one tick, max %v", d, 5*0.02)
	}

	for i := 0; i < 100; i++ {
		src.Update(0.02, viewer)
	}
	if !approxVec(src.Proxy().Position, src.Target()) {
		t.Errorf("proxy = %v, want target %v", src.Proxy().Position, src.Target())
	}
	want := math.LookRotation(math.Vec3{Z: -1}, math.Up)
	if src.Proxy().Rotation.Angle(want) > 1 {
		t.Errorf("proxy rotation off by %v degrees", src.Proxy().Rotation.Angle(want))
	}

	// Retract towards rest once contact is lost.
	prober.miss()
	prev := src.Proxy().Position.Distance(rest)
	for i := 0; i < 10; i++ {
		src.Update(0.02, viewer)
		d := src.Proxy().Position.Distance(rest)
		if d > prev+1e-5 {
			t.Fatalf("tick %d: retract moved away from rest (%v > %v)", i, d, prev)
		}
		prev = d
	}
	for i := 0; i < 200; i++ {
		src.Update(0.02, viewer)
	}
	if d := src.Proxy().Position.Distance(rest); d > 1e-3 {
		t.Errorf("proxy still %v from rest", d)
	}
}

func TestSettledContactGatesPainting(t *testing.T) {
	prober := &stubProber{}
	prober.at(math.Vec3{X: 0.25, Z: 0.35})
	painter := &fakePainter{}
	arb := NewArbiter(painter, newLookup(1), paint.DefaultBrush(), Policy{StampInterval: time.Second})
	src := NewSource("hand", DefaultConfig(Right), prober, arb)

	// Proxy starts 0.35 away and moves 0.5 per tick at dt 0.1.
	src.Update(0.1, viewer)
	arb.Update(0.1)
	if len(painter.calls) != 0 {
		t.Fatalf("painted before the proxy arrived")
	}

	src.Update(0.1, viewer)
	arb.Update(0.1)
	if len(painter.calls) != 1 {
		t.Fatalf("paint calls = %d, want 1 once settled", len(painter.calls))
	}
	// Settled paint point follows the proxy, now at the target.
	if !approx(painter.calls[0].point.Z, -0.35) || !approx(painter.calls[0].point.Y, 0) {
		t.Errorf("paint point = %v", painter.calls[0].point)
	}
}

func TestSideText(t *testing.T) {
	var s Side
	for _, in := range []string{"left", "LEFT", "l"} {
		if err := s.UnmarshalText([]byte(in)); err != nil || s != Left {
			t.Errorf("UnmarshalText(%q) = %v, %v", in, s, err)
		}
	}
	if err := s.UnmarshalText([]byte("right")); err != nil || s != Right {
		t.Errorf("UnmarshalText(right) = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("up")); err == nil {
		t.Error("expected an error for an unknown side")
	}
	if b, _ := Left.MarshalText(); string(b) != "left" {
		t.Errorf("MarshalText = %s", b)
	}
}

func TestFanout(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	f := Fanout{a, b}
	f.Report(Contact{Source: "left", Touching: true})
	f.Report(Contact{Source: "left"})
	if len(a.contacts) != 2 || len(b.contacts) != 2 {
		t.Fatalf("got %d and %d reports, want 2 each", len(a.contacts), len(b.contacts))
	}
	if !b.contacts[0].Touching || b.contacts[1].Touching {
		t.Errorf("reports out of order: %+v", b.contacts)
	}
}
