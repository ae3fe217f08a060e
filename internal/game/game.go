// Package game runs the touch paint simulation, headless through Sim or
// interactively through Game.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/config"
	"github.com/Faultbox/touchpaint/internal/engine/audio"
	"github.com/Faultbox/touchpaint/internal/engine/camera"
	"github.com/Faultbox/touchpaint/internal/engine/gpu/glgpu"
	"github.com/Faultbox/touchpaint/internal/engine/input"
	"github.com/Faultbox/touchpaint/internal/engine/mesh"
	"github.com/Faultbox/touchpaint/internal/engine/window"
	"github.com/Faultbox/touchpaint/internal/logger"
	"github.com/Faultbox/touchpaint/internal/paint"
	"github.com/Faultbox/touchpaint/internal/touch"
	"github.com/Faultbox/touchpaint/pkg/math"
)

const moveSpeed = 1.5

// Game is the interactive viewer.
type Game struct {
	config  *config.Config
	running bool
	paused  bool
	invert  bool
	free    bool
	orbit   bool

	window  *window.Window
	backend *glgpu.Backend
	viewer  *glgpu.Viewer
	input   *input.Input
	audio   *audio.Manager
	sim     *Sim

	lens      camera.Lens
	eye       *camera.FirstPersonCamera
	spectator *camera.OrbitCamera
	hand      *mesh.Mesh
	freePose  touch.Pose
}

// New creates the window, the GL backend and the simulation.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	g := &Game{
		config:    cfg,
		lens:      camera.DefaultLens(),
		eye:       camera.NewFirstPersonCamera(cfg.Graphics.MouseSensitivity),
		spectator: camera.NewOrbitCamera(),
		hand:      mesh.Quad("hand", 0.12, 0.16, math.Vec2{}, math.Vec2{X: 1, Y: 1}),
	}

	// Window first: it creates the OpenGL context.
	var err error
	g.window, err = window.New(window.Config{
		Title:      "touchpaint",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	g.backend, err = glgpu.New()
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create GL backend: %w", err)
	}
	g.viewer, err = glgpu.NewViewer(g.backend)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create viewer: %w", err)
	}
	g.sim, err = NewSim(cfg, g.backend)
	if err != nil {
		g.Close()
		return nil, err
	}

	g.input = input.New()
	g.freePose = g.sim.Pose()
	bounds := g.sim.Scene.Bounds()
	g.spectator.FitToBounds(bounds.Min, bounds.Max)

	// Sound is optional: a missing device only costs the contact cues.
	if cfg.Audio.Enabled {
		g.audio = audio.New()
		if err := g.audio.Init(); err != nil {
			logger.Warn("audio unavailable", zap.Error(err))
			g.audio = nil
		} else {
			g.audio.SetCueVolume(cfg.Audio.Volume)
			listener := func() math.Vec3 { return g.sim.Pose().Position }
			g.sim.Listen(audio.NewContactCues(g.audio, listener, cfg.Audio.MaxDistance))
		}
	}
	g.free = cfg.Graphics.MouseLook

	logger.Info("viewer initialized")
	return g, nil
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var frameBudget time.Duration
	if g.config.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(g.config.Graphics.FPSLimit)
	}

	logger.Info("starting main loop")

	for g.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleKeys()

		// 2. Update
		if !g.paused {
			g.update(min(dt, 0.1))
		}

		// 3. Render
		if err := g.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Present
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			st := g.sim.Stats()
			g.window.SetTitle(fmt.Sprintf("touchpaint  %d fps  %d stamps  invert=%v", frameCount, st.Stamps, g.invert))
			logger.Debug("fps", zap.Int("count", frameCount), zap.Int("stamps", st.Stamps))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spare := frameBudget - time.Since(now); spare > 0 {
				time.Sleep(spare)
			}
		}
	}

	return nil
}

func (g *Game) handleKeys() {
	for _, e := range g.input.Events() {
		if e.Type != input.EventKeyDown {
			continue
		}
		switch e.Key {
		case sdl.SCANCODE_ESCAPE:
			g.running = false
		case sdl.SCANCODE_SPACE:
			g.paused = !g.paused
		case sdl.SCANCODE_I:
			g.invert = !g.invert
			g.sim.SetInvert(g.invert)
			logger.Info("touch zones", zap.Bool("inverted", g.invert))
		case sdl.SCANCODE_F:
			g.free = !g.free
			g.freePose = g.sim.Pose()
			g.eye.LookAlong(g.freePose.Forward)
		case sdl.SCANCODE_F11:
			g.window.ToggleFullscreen()
		case sdl.SCANCODE_O:
			g.orbit = !g.orbit
		case sdl.SCANCODE_M:
			if g.audio != nil {
				g.audio.SetMasterVolume(1 - g.audio.MasterVolume())
			}
		case sdl.SCANCODE_R:
			if err := g.sim.Reset(); err != nil {
				logger.Error("reset failed", zap.Error(err))
			}
		}
	}
}

func (g *Game) update(dt float32) {
	dx, dy := g.input.MouseDelta()
	if g.orbit {
		g.spectator.HandleDrag(float32(dx), float32(dy))
		g.spectator.HandleZoom(g.input.WheelDelta())
		dx, dy = 0, 0
	}

	if !g.free {
		g.sim.Step(dt)
		return
	}

	g.eye.HandleDrag(float32(dx), float32(dy))
	var forward, right float32
	if g.input.IsKeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_A) {
		right--
	}
	g.freePose.Position = g.eye.Move(g.freePose.Position, forward, right, moveSpeed, dt)
	g.freePose.Forward = g.eye.Forward()
	g.sim.StepWithPose(dt, g.freePose)
}

func (g *Game) render() error {
	w, h := g.window.DrawableSize()
	g.viewer.Begin(int32(w), int32(h))

	aspect := float32(w) / float32(max(h, 1))
	var viewProj math.Mat4
	if g.orbit {
		viewProj = g.lens.ViewProj(g.spectator.Position(), g.spectator.Forward(), aspect)
	} else {
		pose := g.sim.Pose()
		viewProj = g.lens.ViewProj(pose.Position, pose.Forward, aspect)
	}

	for _, o := range g.sim.Scene.Objects() {
		if err := g.viewer.Draw(viewProj, o, o.Surface().Texture(paint.LayerExtend)); err != nil {
			return err
		}
	}
	for _, src := range g.sim.Sources {
		if err := g.viewer.Draw(viewProj, handRenderable{g.hand, src.Proxy()}, nil); err != nil {
			return err
		}
	}
	return nil
}

// Close cleans up resources.
func (g *Game) Close() {
	logger.Info("closing viewer")

	if g.audio != nil {
		g.audio.Close()
	}
	if g.sim != nil {
		g.sim.Close()
	}
	if g.viewer != nil {
		g.viewer.Destroy()
	}
	if g.backend != nil {
		g.backend.Destroy()
	}
	if g.window != nil {
		g.window.Close()
	}
}

// handRenderable draws a limb proxy as a small palm quad.
type handRenderable struct {
	m     *mesh.Mesh
	proxy touch.Proxy
}

func (h handRenderable) Mesh() *mesh.Mesh { return h.m }

func (h handRenderable) Model() math.Mat4 {
	return math.Compose(h.proxy.Position, h.proxy.Rotation, math.Vec3{X: 1, Y: 1, Z: 1})
}
