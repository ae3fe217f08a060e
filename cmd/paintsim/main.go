// Package main runs the corridor walk headless on the software backend and
// dumps the paint textures, optionally showing coverage in the terminal.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/config"
	"github.com/Faultbox/touchpaint/internal/engine/debug"
	"github.com/Faultbox/touchpaint/internal/engine/gpu/soft"
	"github.com/Faultbox/touchpaint/internal/game"
	"github.com/Faultbox/touchpaint/internal/logger"
	"github.com/Faultbox/touchpaint/internal/paint"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	opts := logger.Options{
		Level:   cfg.Logging.Level,
		Console: os.Stdout,
		Fields:  []zap.Field{zap.String("cmd", "paintsim")},
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	// The terminal view owns stdout, so logs only go to the file then.
	if cfg.Sim.Terminal {
		opts.Console = nil
		opts.File = logger.DefaultFileConfig(logFile(cfg))
	}
	if err := logger.Setup(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sim, err := game.NewSim(cfg, soft.New())
	if err != nil {
		logger.Error("failed to create simulation", zap.Error(err))
		os.Exit(1)
	}
	defer sim.Close()

	if cfg.Sim.Terminal {
		err = runTerminal(sim, cfg)
	} else {
		runHeadless(sim, cfg)
	}
	if err != nil {
		logger.Error("simulation error", zap.Error(err))
		os.Exit(1)
	}

	if err := report(sim, cfg); err != nil {
		logger.Error("writing results", zap.Error(err))
		os.Exit(1)
	}
}

func logFile(cfg *config.Config) string {
	if cfg.Logging.LogFile != "" {
		return cfg.Logging.LogFile
	}
	return "paintsim.log"
}

func runHeadless(sim *game.Sim, cfg *config.Config) {
	dt := cfg.Sim.TickInterval()
	nextLog := float32(1)
	for !sim.Done() {
		sim.Step(dt)
		if st := sim.Stats(); st.Elapsed >= nextLog {
			logger.Debug("tick",
				zap.Float32("elapsed", st.Elapsed),
				zap.Int("stamps", st.Stamps),
				zap.Int("decays", st.Decays))
			nextLog++
		}
	}
}

func runTerminal(sim *game.Sim, cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	quit := make(chan struct{})
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					close(quit)
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	view := debug.NewTermView(screen)
	view.Title = "touchpaint"

	dt := cfg.Sim.TickInterval()
	ticker := time.NewTicker(time.Duration(float64(dt) * float64(time.Second)))
	defer ticker.Stop()

	for !sim.Done() {
		select {
		case <-quit:
			return nil
		case <-ticker.C:
		}

		sim.Step(dt)
		panels, err := panelsFor(sim)
		if err != nil {
			return err
		}
		st := sim.Stats()
		view.Draw(panels, fmt.Sprintf("t=%.1fs stamps=%d  q to quit", st.Elapsed, st.Stamps))
	}
	return nil
}

// panelsFor shows the right wall panels, where the seams are.
func panelsFor(sim *game.Sim) ([]debug.Panel, error) {
	var panels []debug.Panel
	for _, s := range sim.Scene.Surfaces() {
		if !strings.HasPrefix(s.Name(), "right") {
			continue
		}
		px, err := sim.Engine.Snapshot(s, paint.LayerExtend)
		if err != nil {
			return nil, err
		}
		panels = append(panels, debug.Panel{Name: s.Name(), Pixels: px})
	}
	return panels, nil
}

func report(sim *game.Sim, cfg *config.Config) error {
	cov, err := sim.Coverage()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(cov))
	for name := range cov {
		names = append(names, name)
	}
	sort.Strings(names)

	st := sim.Stats()
	logger.Info("simulation finished",
		zap.Int("ticks", st.Ticks),
		zap.Int("stamps", st.Stamps),
		zap.Int("decays", st.Decays),
		zap.Float32("elapsed", st.Elapsed))
	for _, name := range names {
		logger.Info("coverage", zap.String("surface", name), zap.Float64("total", cov[name]))
	}

	if cfg.Sim.SnapshotDir == "" {
		return nil
	}
	capture := debug.NewSnapshotCapture(cfg.Sim.SnapshotDir, "paintsim")
	for _, s := range sim.Scene.Surfaces() {
		for _, layer := range []paint.Layer{paint.LayerSupport, paint.LayerExtend, paint.LayerIslands} {
			px, err := sim.Engine.Snapshot(s, layer)
			if err != nil {
				return err
			}
			paths, err := capture.Capture(s.Name()+"_"+layer.String(), px, layer != paint.LayerIslands)
			if err != nil {
				return err
			}
			logger.Debug("snapshot written", zap.Strings("paths", paths))
		}
	}
	logger.Info("snapshots written", zap.String("dir", cfg.Sim.SnapshotDir))
	return nil
}
