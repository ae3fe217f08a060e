package touch

import "github.com/Faultbox/touchpaint/pkg/math"

// Pose is the viewer position and gaze. The viewer frame has x to the
// right, y up and z along Forward.
type Pose struct {
	Position math.Vec3
	Forward  math.Vec3
}

// Right returns the viewer's right axis.
func (p Pose) Right() math.Vec3 {
	r := p.Forward.Cross(math.Up).Normalize()
	if r == (math.Vec3{}) {
		return math.Vec3{X: 1}
	}
	return r
}

// Up returns the viewer's up axis.
func (p Pose) Up() math.Vec3 {
	return p.Right().Cross(p.Forward.Normalize())
}

// Rotation returns the world rotation of the viewer.
func (p Pose) Rotation() math.Quat {
	return math.LookRotation(p.Forward, math.Up)
}

// ToLocal expresses a world point in the viewer frame.
func (p Pose) ToLocal(world math.Vec3) math.Vec3 {
	d := world.Sub(p.Position)
	return math.Vec3{
		X: d.Dot(p.Right()),
		Y: d.Dot(p.Up()),
		Z: d.Dot(p.Forward.Normalize()),
	}
}

// FromLocal maps a viewer-frame point to world space.
func (p Pose) FromLocal(local math.Vec3) math.Vec3 {
	return p.Position.
		Add(p.Right().Scale(local.X)).
		Add(p.Up().Scale(local.Y)).
		Add(p.Forward.Normalize().Scale(local.Z))
}

// Proxy is the animated visual stand-in for a limb, in world space.
type Proxy struct {
	Position math.Vec3
	Rotation math.Quat
}
