package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/radar/internal/config"
	"github.com/Garsondee/radar/internal/tui"
)

func main() {
	var configFile, envFile string
	var cols, rows int
	var tick time.Duration
	flag.StringVar(&configFile, "config", "", "YAML config file (default ./radar.yaml if present)")
	flag.StringVar(&envFile, "env", ".env", "dotenv file with RADAR_* overrides")
	flag.IntVar(&cols, "cols", 64, "minimap width in terminal columns")
	flag.IntVar(&rows, "rows", 32, "minimap height in terminal rows")
	flag.DurationVar(&tick, "tick", 100*time.Millisecond, "simulation tick interval")
	flag.Parse()

	if err := run(configFile, envFile, cols, rows, tick); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configFile, envFile string, cols, rows int, tick time.Duration) error {
	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		return err
	}
	// The terminal owns stderr while running, so text logs go to a file.
	if cfg.Log.File == "" {
		cfg.Log.File = "radar-tui.log"
	}
	logger, closer := cfg.Log.NewLogger()
	defer closer.Close()

	w, err := cfg.Scenario(logger.WithField("component", "world"))
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	rc := cfg.RadarConfig()
	rc.RenderBounds = tui.RenderBounds(image.Pt(1, 1), cols, rows)
	app, err := tui.New(screen, w, rc, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logger.WithField("tick", tick).Info("tui: running")
	return app.Run(ctx, tick)
}
