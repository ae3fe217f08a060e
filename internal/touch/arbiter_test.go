package touch

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/touchpaint/internal/engine/collision"
	"github.com/Faultbox/touchpaint/internal/logger"
	"github.com/Faultbox/touchpaint/internal/paint"
	"github.com/Faultbox/touchpaint/pkg/math"
)

func touchAt(id SourceID, collider collision.Handle, x float32) Contact {
	return Contact{
		Source:   id,
		Touching: true,
		Settled:  true,
		Point:    math.Vec3{X: x},
		Normal:   math.Vec3{Z: 1},
		Collider: collider,
	}
}

func TestRestampPolicy(t *testing.T) {
	type step struct {
		contact *Contact // nil keeps the previous report
		dt      float32
		stamp   bool
	}
	release := Contact{Source: "a"}
	at := func(x float32) *Contact {
		c := touchAt("a", 1, x)
		return &c
	}

	tests := []struct {
		name   string
		policy Policy
		steps  []step
	}{
		{
			name:   "first contact stamps immediately",
			policy: DefaultPolicy(),
			steps:  []step{{at(0), 0.01, true}},
		},
		{
			name:   "interval",
			policy: Policy{StampInterval: 500 * time.Millisecond},
			steps: []step{
				{at(0), 0.1, true},
				{nil, 0.25, false},
				{nil, 0.25, true},
				{nil, 0.25, false},
			},
		},
		{
			name:   "spacing",
			policy: Policy{StampInterval: time.Hour, StampSpacing: 0.25},
			steps: []step{
				{at(0), 0.1, true},
				{at(0.2), 0.1, false},
				{at(0.3), 0.1, true},
				{at(0.4), 0.1, false},
			},
		},
		{
			name:   "zero interval stamps every tick",
			policy: Policy{},
			steps: []step{
				{at(0), 0.016, true},
				{nil, 0.016, true},
				{nil, 0.016, true},
			},
		},
		{
			name:   "release restarts the contact",
			policy: Policy{StampInterval: time.Hour},
			steps: []step{
				{at(0), 0.1, true},
				{nil, 0.1, false},
				{&release, 0.1, false},
				{at(0), 0.1, true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			painter := &fakePainter{}
			arb := NewArbiter(painter, newLookup(1), paint.DefaultBrush(), tt.policy)
			for i, s := range tt.steps {
				if s.contact != nil {
					arb.Report(*s.contact)
				}
				before := len(painter.calls)
				n := arb.Update(s.dt)
				stamped := len(painter.calls) > before
				if stamped != s.stamp {
					t.Fatalf("step %d: stamped = %v, want %v", i, stamped, s.stamp)
				}
				if stamped != (n == 1) {
					t.Fatalf("step %d: Update returned %d", i, n)
				}
			}
		})
	}
}

func TestArbiterSkipsUnsettled(t *testing.T) {
	painter := &fakePainter{}
	arb := NewArbiter(painter, newLookup(1), paint.DefaultBrush(), Policy{})

	c := touchAt("a", 1, 0)
	c.Settled = false
	arb.Report(c)
	if arb.Update(0.1) != 0 {
		t.Fatal("unsettled contact was stamped")
	}
	if !arb.Touching("a") {
		t.Error("unsettled contact should still count as touching")
	}
}

func TestArbiterOrdersSources(t *testing.T) {
	painter := &fakePainter{}
	surfaces := newLookup(1, 2, 3)
	arb := NewArbiter(painter, surfaces, paint.DefaultBrush(), Policy{})

	arb.Report(touchAt("c", 3, 0))
	arb.Report(touchAt("a", 1, 0))
	arb.Report(touchAt("b", 2, 0))

	if n := arb.Update(0.016); n != 3 {
		t.Fatalf("stamps = %d, want 3", n)
	}
	for i, h := range []collision.Handle{1, 2, 3} {
		if painter.calls[i].surface != surfaces[h] {
			t.Errorf("call %d went to %s", i, painter.calls[i].surface.Name())
		}
	}
	if got := fmt.Sprint(arb.IDs()); got != "[a b c]" {
		t.Errorf("IDs = %s", got)
	}
}

func TestArbiterMissingSurface(t *testing.T) {
	painter := &fakePainter{}
	arb := NewArbiter(painter, newLookup(1), paint.DefaultBrush(), Policy{})

	arb.Report(touchAt("a", 9, 0))
	if arb.Update(0.016) != 0 || len(painter.calls) != 0 {
		t.Fatal("stamped a collider without a surface")
	}
}

func TestArbiterPaintErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		errors int
	}{
		{"not initialized is quiet", paint.ErrNotInitialized, 0},
		{"other errors are logged", fmt.Errorf("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			defer logger.Replace(zap.New(core))()

			painter := &fakePainter{err: tt.err}
			arb := NewArbiter(painter, newLookup(1), paint.DefaultBrush(), Policy{})
			arb.Report(touchAt("a", 1, 0))

			if arb.Update(0.016) != 0 {
				t.Error("failed paint counted as a stamp")
			}
			if logs.Len() != tt.errors {
				t.Errorf("logged %d errors, want %d", logs.Len(), tt.errors)
			}
			e, _ := arb.Entry("a")
			if e.HasStamp || e.Stamps != 0 {
				t.Errorf("entry = %+v", e)
			}
		})
	}
}

func TestArbiterEntryLifecycle(t *testing.T) {
	painter := &fakePainter{}
	arb := NewArbiter(painter, newLookup(1), paint.DefaultBrush(), Policy{StampInterval: time.Hour})

	if _, ok := arb.Entry("a"); ok {
		t.Fatal("unknown source has an entry")
	}

	// A release for an idle source is ignored.
	arb.Report(Contact{Source: "a"})
	if arb.Touching("a") {
		t.Fatal("release made the source touch")
	}

	arb.Report(touchAt("a", 1, 0.5))
	arb.Update(0.25)
	arb.Update(0.25)
	e, _ := arb.Entry("a")
	if !e.Touching || e.Stamps != 1 || !approx(e.Timer, 0.5) || !approx(e.SinceStamp, 0.25) {
		t.Fatalf("entry = %+v", e)
	}

	arb.Report(Contact{Source: "a"})
	e, _ = arb.Entry("a")
	if e.Touching || e.Timer != 0 || e.Stamps != 1 || e.LastStamp.X != 0.5 {
		t.Fatalf("entry after release = %+v", e)
	}

	arb.Clear("a")
	if _, ok := arb.Entry("a"); ok {
		t.Error("Clear kept the entry")
	}
}

func TestBrushAccessors(t *testing.T) {
	arb := NewArbiter(&fakePainter{}, newLookup(), paint.DefaultBrush(), DefaultPolicy())
	b := arb.Brush()
	b.Radius = 2
	arb.SetBrush(b)
	if arb.Brush().Radius != 2 {
		t.Errorf("brush radius = %v", arb.Brush().Radius)
	}
	if arb.Policy() != DefaultPolicy() {
		t.Errorf("policy = %+v", arb.Policy())
	}
}
