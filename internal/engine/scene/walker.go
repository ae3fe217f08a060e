package scene

import (
	gomath "math"

	"github.com/Faultbox/touchpaint/internal/touch"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// Walker moves a viewer along a polyline at constant speed while swaying
// the gaze left and right.
type Walker struct {
	Path  []math.Vec3
	Speed float32
	// SwayYaw is the peak gaze deflection in degrees.
	SwayYaw float32
	// SwayPeriod is the duration of one full sway in seconds.
	SwayPeriod float32

	distance float32
	elapsed  float32
}

// NewWalker creates a walker at the start of path.
func NewWalker(path []math.Vec3, speed, swayYaw, swayPeriod float32) *Walker {
	return &Walker{Path: path, Speed: speed, SwayYaw: swayYaw, SwayPeriod: swayPeriod}
}

// Step advances by dt seconds and returns the new pose.
func (w *Walker) Step(dt float32) touch.Pose {
	w.elapsed += dt
	w.distance = min(w.distance+w.Speed*dt, w.length())
	return w.Pose()
}

// Pose returns the current pose.
func (w *Walker) Pose() touch.Pose {
	pos, dir := w.locate()
	return touch.Pose{
		Position: pos,
		Forward:  math.QuatFromAxisAngle(math.Up, w.yaw()).Rotate(dir),
	}
}

// Done reports whether the walker reached the end of its path.
func (w *Walker) Done() bool {
	return w.distance >= w.length()
}

// Reset returns to the start of the path.
func (w *Walker) Reset() {
	w.distance = 0
	w.elapsed = 0
}

func (w *Walker) yaw() float32 {
	if w.SwayPeriod <= 0 {
		return 0
	}
	phase := 2 * gomath.Pi * float64(w.elapsed/w.SwayPeriod)
	deg := float64(w.SwayYaw) * gomath.Sin(phase)
	return float32(deg * gomath.Pi / 180)
}

func (w *Walker) length() float32 {
	var l float32
	for i := 1; i < len(w.Path); i++ {
		l += w.Path[i].Distance(w.Path[i-1])
	}
	return l
}

// locate returns the position at the walked distance and the direction of
// the segment it lies on.
func (w *Walker) locate() (math.Vec3, math.Vec3) {
	dir := math.Vec3{Z: -1}
	switch len(w.Path) {
	case 0:
		return math.Vec3{}, dir
	case 1:
		return w.Path[0], dir
	}

	left := w.distance
	for i := 1; i < len(w.Path); i++ {
		a, b := w.Path[i-1], w.Path[i]
		seg := b.Distance(a)
		if seg == 0 {
			continue
		}
		dir = b.Sub(a).Scale(1 / seg)
		if left <= seg || i == len(w.Path)-1 {
			return a.Add(dir.Scale(min(left, seg))), dir
		}
		left -= seg
	}
	return w.Path[len(w.Path)-1], dir
}
