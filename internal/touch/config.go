package touch

import (
	"fmt"
	"strings"
	"time"

	"github.com/Faultbox/touchpaint/pkg/math"
)

// Side is the limb a source belongs to.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// sign is -1 for left and +1 for right along the viewer's right axis.
func (s Side) sign() float32 {
	if s == Left {
		return -1
	}
	return 1
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "left", "l":
		*s = Left
	case "right", "r":
		*s = Right
	default:
		return fmt.Errorf("touch: unknown side %q", text)
	}
	return nil
}

// Config configures one touch source. Distances are in world units, angles
// in degrees, speeds per second.
type Config struct {
	Side   Side `yaml:"side"`
	Invert bool `yaml:"invert"`

	// Probe
	ShoulderOffset   float32 `yaml:"shoulder_offset"`
	ProbeLength      float32 `yaml:"probe_length"`
	ProbeRadius      float32 `yaml:"probe_radius"`
	MinTouchDistance float32 `yaml:"min_touch_distance"`
	ZoneTolerance    float32 `yaml:"zone_tolerance"`
	MaxAngle         float32 `yaml:"max_angle"`

	// Visual target
	VisualClampX   float32 `yaml:"visual_clamp_x"`
	VisualMinDepth float32 `yaml:"visual_min_depth"`
	HandOffset     float32 `yaml:"hand_offset"`

	// ContactOffset is the paint reference point in proxy space.
	ContactOffset math.Vec3 `yaml:"contact_offset"`
	// ContactThreshold is how close the proxy must be to its target before
	// the contact counts as settled. Zero settles immediately.
	ContactThreshold float32 `yaml:"contact_threshold"`

	// Animation
	MoveSpeed         float32 `yaml:"move_speed"`
	RotateSpeed       float32 `yaml:"rotate_speed"`
	RetractSmoothTime float32 `yaml:"retract_smooth_time"`
	RestRotateSpeed   float32 `yaml:"rest_rotate_speed"`
	// RestPosition is the proxy rest pose in the viewer frame for a right
	// limb. Left limbs mirror X.
	RestPosition math.Vec3 `yaml:"rest_position"`
}

// DefaultConfig returns the tuned defaults for a limb.
func DefaultConfig(side Side) Config {
	return Config{
		Side:              side,
		ShoulderOffset:    0.2,
		ProbeLength:       1.0,
		ProbeRadius:       0.2,
		MinTouchDistance:  0.3,
		ZoneTolerance:     0.05,
		MaxAngle:          45,
		VisualClampX:      0.4,
		VisualMinDepth:    0.4,
		HandOffset:        0.05,
		ContactThreshold:  0.1,
		MoveSpeed:         5,
		RotateSpeed:       10,
		RetractSmoothTime: 0.3,
		RestRotateSpeed:   5,
		RestPosition:      math.Vec3{X: 0.25, Y: -0.35, Z: 0.3},
	}
}

// Policy rate-limits restamping for sustained contacts. The first contact
// after a release always stamps; after that a source restamps once
// StampInterval has passed or it has moved StampSpacing from the last
// stamp, whichever comes first. A zero interval stamps every tick; a zero
// spacing disables the distance rule.
type Policy struct {
	StampInterval time.Duration `yaml:"stamp_interval"`
	StampSpacing  float32       `yaml:"stamp_spacing"`
}

// DefaultPolicy returns the default restamp policy.
func DefaultPolicy() Policy {
	return Policy{
		StampInterval: 500 * time.Millisecond,
		StampSpacing:  0.25,
	}
}
