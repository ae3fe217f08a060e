// Package window owns the SDL2 window and the OpenGL 4.1 core context the
// viewer draws into.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/logger"
)

func init() {
	// SDL and GL calls must stay on the thread that created the context.
	runtime.LockOSThread()
}

// Config holds window configuration. Zero sizes fall back to 1280x720.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	// Samples enables multisampling when above 1.
	Samples int
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.Title == "" {
		c.Title = "touchpaint"
	}
	return c
}

func (c Config) flags() uint32 {
	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if c.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	return flags
}

// glAttributes lists the context attributes in the order they are set.
// 4.1 core is the newest profile macOS offers and what the paint shaders
// target.
func (c Config) glAttributes() [][2]int {
	attrs := [][2]int{
		{int(sdl.GL_CONTEXT_MAJOR_VERSION), 4},
		{int(sdl.GL_CONTEXT_MINOR_VERSION), 1},
		{int(sdl.GL_CONTEXT_PROFILE_MASK), sdl.GL_CONTEXT_PROFILE_CORE},
		{int(sdl.GL_DOUBLEBUFFER), 1},
		{int(sdl.GL_DEPTH_SIZE), 24},
	}
	if c.Samples > 1 {
		attrs = append(attrs,
			[2]int{int(sdl.GL_MULTISAMPLEBUFFERS), 1},
			[2]int{int(sdl.GL_MULTISAMPLESAMPLES), c.Samples})
	}
	return attrs
}

// Window wraps the SDL2 window and its GL context.
type Window struct {
	config     Config
	sdlWindow  *sdl.Window
	glContext  sdl.GLContext
	fullscreen bool
}

// New initialises SDL video and creates the window and its context.
func New(cfg Config) (_ *Window, err error) {
	cfg = cfg.withDefaults()
	w := &Window{config: cfg, fullscreen: cfg.Fullscreen}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}
	defer func() {
		if err != nil {
			w.Close()
		}
	}()

	// Attributes must be set before the window exists.
	for _, a := range cfg.glAttributes() {
		if err := sdl.GLSetAttribute(sdl.GLattr(a[0]), a[1]); err != nil {
			return nil, fmt.Errorf("SDL_GL_SetAttribute(%d, %d) failed: %w", a[0], a[1], err)
		}
	}

	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		cfg.flags(),
	)
	if err != nil {
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("swap interval not applied", zap.Int("interval", interval), zap.Error(err))
	}

	dw, dh := w.DrawableSize()
	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("drawable_width", dw),
		zap.Int("drawable_height", dh),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Int("samples", cfg.Samples),
	)
	return w, nil
}

// Close destroys the context and window and shuts SDL down.
func (w *Window) Close() {
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
		w.sdlWindow = nil
	}
	sdl.Quit()
}

// SwapBuffers presents the back buffer.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// DrawableSize returns the framebuffer size in pixels. It differs from the
// window size on high-DPI displays; the viewport must use it.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// ToggleFullscreen switches between windowed and desktop fullscreen.
func (w *Window) ToggleFullscreen() {
	var flags uint32
	if !w.fullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.sdlWindow.SetFullscreen(flags); err != nil {
		logger.Warn("fullscreen toggle failed", zap.Error(err))
		return
	}
	w.fullscreen = !w.fullscreen
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}
