package scene

import (
	"testing"

	"github.com/Faultbox/touchpaint/pkg/math"
)

func TestWalkerFollowsPath(t *testing.T) {
	path := []math.Vec3{{}, {Z: -1}, {X: 1, Z: -1}}
	w := NewWalker(path, 1, 0, 0)

	tests := []struct {
		dt      float32
		pos     math.Vec3
		forward math.Vec3
		done    bool
	}{
		{0.5, math.Vec3{Z: -0.5}, math.Vec3{Z: -1}, false},
		{1, math.Vec3{X: 0.5, Z: -1}, math.Vec3{X: 1}, false},
		{1, math.Vec3{X: 1, Z: -1}, math.Vec3{X: 1}, true},
		{1, math.Vec3{X: 1, Z: -1}, math.Vec3{X: 1}, true},
	}
	for i, tt := range tests {
		p := w.Step(tt.dt)
		if !approxVec(p.Position, tt.pos) || !approxVec(p.Forward, tt.forward) {
			t.Errorf("step %d: pose = %+v, want %v facing %v", i, p, tt.pos, tt.forward)
		}
		if w.Done() != tt.done {
			t.Errorf("step %d: done = %v", i, w.Done())
		}
	}

	w.Reset()
	if p := w.Pose(); !approxVec(p.Position, math.Vec3{}) || w.Done() {
		t.Errorf("after Reset pose = %+v", p)
	}
}

func TestWalkerSway(t *testing.T) {
	w := NewWalker([]math.Vec3{{}, {Z: -10}}, 1, 30, 4)
	dir := math.Vec3{Z: -1}

	tests := []struct {
		dt    float32
		angle float32
	}{
		{1, 30}, // quarter period
		{1, 0},  // half
		{1, 30}, // three quarters, other side
	}
	var first float32
	for i, tt := range tests {
		p := w.Step(tt.dt)
		if got := math.AngleDeg(p.Forward, dir); !approx2(got, tt.angle) {
			t.Errorf("step %d: yaw = %v, want %v", i, got, tt.angle)
		}
		if i == 0 {
			first = p.Forward.X
		}
	}
	if last := w.Pose().Forward.X; first*last >= 0 {
		t.Errorf("sway should alternate sides: %v then %v", first, last)
	}
}

func TestWalkerDegeneratePaths(t *testing.T) {
	if p := NewWalker(nil, 1, 0, 0).Step(1); p.Position != (math.Vec3{}) || p.Forward != (math.Vec3{Z: -1}) {
		t.Errorf("empty path pose = %+v", p)
	}
	w := NewWalker([]math.Vec3{{Y: 1.6}}, 1, 0, 0)
	if p := w.Step(1); p.Position != (math.Vec3{Y: 1.6}) || !w.Done() {
		t.Errorf("single point pose = %+v done=%v", p, w.Done())
	}
}

func approx2(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 0.05
}
