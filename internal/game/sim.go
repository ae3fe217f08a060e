package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/config"
	"github.com/Faultbox/touchpaint/internal/engine/gpu"
	"github.com/Faultbox/touchpaint/internal/engine/scene"
	"github.com/Faultbox/touchpaint/internal/logger"
	"github.com/Faultbox/touchpaint/internal/paint"
	"github.com/Faultbox/touchpaint/internal/touch"
)

// Source ids of the two limbs.
const (
	LeftHand  touch.SourceID = "left"
	RightHand touch.SourceID = "right"
)

// Stats counts what the simulation has done so far.
type Stats struct {
	Ticks   int
	Stamps  int
	Decays  int
	Elapsed float32
}

// Sim runs the scripted corridor walk: every tick the walker moves the
// viewer, both touch sources probe and report, the arbiter paints and the
// scheduler decays. It owns no window and works with any backend.
type Sim struct {
	cfg *config.Config

	Scene     *scene.Scene
	Engine    *paint.Engine
	Arbiter   *touch.Arbiter
	Scheduler *paint.Scheduler
	Walker    *scene.Walker
	Sources   []*touch.Source

	reporters touch.Fanout
	pose      touch.Pose
	lingered  float32
	stats     Stats
}

// NewSim builds the corridor scene and initialises its surfaces on backend.
func NewSim(cfg *config.Config, backend gpu.Backend) (*Sim, error) {
	engine, err := paint.NewEngine(backend, cfg.Paint)
	if err != nil {
		return nil, fmt.Errorf("creating paint engine: %w", err)
	}

	sc := scene.New(cfg.Paint)
	path, err := scene.Corridor(sc, cfg.Sim.Corridor)
	if err != nil {
		return nil, fmt.Errorf("building corridor: %w", err)
	}
	if err := sc.Initialize(engine); err != nil {
		return nil, err
	}

	s := &Sim{
		cfg:       cfg,
		Scene:     sc,
		Engine:    engine,
		Scheduler: paint.NewScheduler(engine, cfg.Scheduler.Interval),
		Walker:    scene.NewWalker(path, cfg.Sim.WalkSpeed, cfg.Sim.SwayYaw, cfg.Sim.SwayPeriod),
	}
	s.Arbiter = touch.NewArbiter(engine, sc, cfg.Brush, cfg.Touch.Policy)
	s.reporters = touch.Fanout{s.Arbiter}
	s.Sources = []*touch.Source{
		touch.NewSource(LeftHand, cfg.Touch.Left, sc, &s.reporters),
		touch.NewSource(RightHand, cfg.Touch.Right, sc, &s.reporters),
	}
	for _, surface := range sc.Surfaces() {
		s.Scheduler.Activate(surface)
	}
	s.pose = s.Walker.Pose()

	logger.Info("simulation ready",
		zap.String("backend", backend.Name()),
		zap.Int("surfaces", len(sc.Surfaces())),
		zap.Int("texture_size", cfg.Paint.TextureSize))
	return s, nil
}

// Listen adds a reporter that sees every contact after the arbiter.
func (s *Sim) Listen(r touch.Reporter) {
	s.reporters = append(s.reporters, r)
}

// Step advances the walk by dt seconds.
func (s *Sim) Step(dt float32) {
	if s.Walker.Done() {
		s.lingered += dt
	}
	s.StepWithPose(dt, s.Walker.Step(dt))
}

// StepWithPose runs one tick with an externally driven viewer pose.
func (s *Sim) StepWithPose(dt float32, pose touch.Pose) {
	s.pose = pose
	for _, src := range s.Sources {
		src.Update(dt, pose)
	}
	s.stats.Stamps += s.Arbiter.Update(dt)
	s.stats.Decays += s.Scheduler.Tick(dt)
	s.stats.Ticks++
	s.stats.Elapsed += dt
}

// Done reports whether the walk ended and the linger time has passed.
func (s *Sim) Done() bool {
	return s.Walker.Done() && s.lingered >= float32(s.cfg.Sim.Linger.Seconds())
}

// Pose returns the viewer pose of the last tick.
func (s *Sim) Pose() touch.Pose { return s.pose }

// Stats returns the counters.
func (s *Sim) Stats() Stats { return s.stats }

// SetInvert flips the touch zones of both limbs.
func (s *Sim) SetInvert(invert bool) {
	for _, src := range s.Sources {
		src.SetInvert(invert)
	}
}

// Reset restarts the walk and clears all paint.
func (s *Sim) Reset() error {
	s.Walker.Reset()
	s.lingered = 0
	s.stats = Stats{}
	for _, src := range s.Sources {
		src.Deactivate()
		s.Arbiter.Clear(src.ID())
		src.Activate()
	}
	return s.Scene.Initialize(s.Engine)
}

// RemoveWall takes a wall out of the scene, stops decaying it and frees its
// textures. It reports false when no object has that name.
func (s *Sim) RemoveWall(name string) bool {
	o, ok := s.Scene.Object(name)
	if !ok {
		return false
	}
	s.Scene.Remove(o, s.Scheduler)
	if surface := o.Surface(); surface != nil {
		s.Engine.Release(surface)
	}
	logger.Debug("wall removed", zap.String("name", name))
	return true
}

// Coverage sums the support-layer coverage of every surface by name.
func (s *Sim) Coverage() (map[string]float64, error) {
	out := make(map[string]float64)
	for _, surface := range s.Scene.Surfaces() {
		px, err := s.Engine.Snapshot(surface, paint.LayerSupport)
		if err != nil {
			return nil, err
		}
		out[surface.Name()] = px.TotalCoverage()
	}
	return out, nil
}

// Close frees the surface textures.
func (s *Sim) Close() {
	for _, surface := range s.Scene.Surfaces() {
		s.Engine.Release(surface)
	}
}
