package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/radar/internal/audio"
	"github.com/Garsondee/radar/internal/config"
	"github.com/Garsondee/radar/internal/game"
)

func main() {
	var configFile, envFile string
	flag.StringVar(&configFile, "config", "", "YAML config file (default ./radar.yaml if present)")
	flag.StringVar(&envFile, "env", ".env", "dotenv file with RADAR_* overrides")
	flag.Parse()

	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		log.Fatal(err)
	}
	logger, closer := cfg.Log.NewLogger()
	defer closer.Close()

	w, err := cfg.Scenario(logger.WithField("component", "world"))
	if err != nil {
		logger.WithError(err).Fatal("game: building world")
	}

	cues := audio.NewCuePlayer(cfg.Audio.Volume)
	if cfg.Audio.Enabled {
		if err := cues.Initialize(); err != nil {
			// Cues still count plays; they are just silent.
			logger.WithError(err).Warn("game: audio unavailable")
		}
	}
	defer cues.Close()

	g, err := game.New(cfg, w, logger, cues)
	if err != nil {
		logger.WithError(err).Fatal("game: init")
	}
	defer g.Close()

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if err := ebiten.RunGame(g); err != nil {
		logger.WithError(err).Error("game: exited")
	}
}
