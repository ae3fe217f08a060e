// Package camera provides the viewer cameras: a first-person gaze for the
// walking viewer and an orbit camera for watching the whole scene.
package camera

import (
	gomath "math"

	"github.com/Faultbox/touchpaint/pkg/math"
)

// Lens holds the projection settings.
type Lens struct {
	FovY float32 // radians
	Near float32
	Far  float32
}

// DefaultLens returns a 70 degree lens suited to arm-length distances.
func DefaultLens() Lens {
	return Lens{FovY: 70 * gomath.Pi / 180, Near: 0.05, Far: 50}
}

// Projection returns the projection matrix for a viewport aspect ratio.
func (l Lens) Projection(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(l.FovY, aspect, l.Near, l.Far)
}

// ViewProj returns projection * view for an eye looking along forward.
func (l Lens) ViewProj(eye, forward math.Vec3, aspect float32) math.Mat4 {
	view := math.LookAt(eye, eye.Add(forward), math.Up)
	return l.Projection(aspect).Mul(view)
}

// FirstPersonCamera steers a gaze with yaw and pitch in degrees. Zero yaw
// looks down -Z; positive yaw turns left.
type FirstPersonCamera struct {
	Yaw   float32
	Pitch float32

	MinPitch float32
	MaxPitch float32

	// DragSensitivity is degrees per pixel of mouse motion.
	DragSensitivity float32
}

// NewFirstPersonCamera creates a level camera.
func NewFirstPersonCamera(sensitivity float32) *FirstPersonCamera {
	return &FirstPersonCamera{
		MinPitch:        -80,
		MaxPitch:        80,
		DragSensitivity: sensitivity,
	}
}

// HandleDrag turns the gaze by a mouse delta in pixels.
func (c *FirstPersonCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = math.Clamp(c.Pitch-deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// Flat returns the horizontal forward direction.
func (c *FirstPersonCamera) Flat() math.Vec3 {
	return math.QuatFromAxisAngle(math.Up, radians(c.Yaw)).Rotate(math.Vec3{Z: -1})
}

// Right returns the horizontal right direction.
func (c *FirstPersonCamera) Right() math.Vec3 {
	return c.Flat().Cross(math.Up).Normalize()
}

// Forward returns the gaze direction including pitch.
func (c *FirstPersonCamera) Forward() math.Vec3 {
	return math.QuatFromAxisAngle(c.Right(), radians(c.Pitch)).Rotate(c.Flat())
}

// Move returns position moved on the ground plane by forward and right
// inputs in [-1, 1] at speed units per second.
func (c *FirstPersonCamera) Move(position math.Vec3, forward, right, speed, dt float32) math.Vec3 {
	dir := c.Flat().Scale(forward).Add(c.Right().Scale(right))
	return position.Add(dir.Normalize().Scale(speed * dt))
}

// LookAlong sets yaw and pitch from a direction.
func (c *FirstPersonCamera) LookAlong(dir math.Vec3) {
	d := dir.Normalize()
	c.Yaw = degrees(float32(gomath.Atan2(float64(-d.X), float64(-d.Z))))
	c.Pitch = math.Clamp(degrees(float32(gomath.Asin(float64(d.Y)))), c.MinPitch, c.MaxPitch)
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera sized for a room-scale scene.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        6,
		RotationX:       0.5,
		MinDistance:     1,
		MaxDistance:     40,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))
	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// Forward returns the direction from the camera to its center.
func (c *OrbitCamera) Forward() math.Vec3 {
	return c.Center.Sub(c.Position()).Normalize()
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// FitToBounds centres the camera on a box and backs off to see all of it.
func (c *OrbitCamera) FitToBounds(min, max math.Vec3) {
	c.Center = min.Add(max).Scale(0.5)
	size := max.Sub(min)
	c.Distance = math.Clamp(0.8*float32(gomath.Max(float64(size.X), float64(size.Z))), c.MinDistance, c.MaxDistance)
	c.RotationX = 0.6
	c.RotationY = 0
}

func radians(deg float32) float32 { return deg * gomath.Pi / 180 }
func degrees(rad float32) float32 { return rad * 180 / gomath.Pi }
