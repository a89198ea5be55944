// Command scenecheck loads a scene headless, plays it for a number of frames,
// stops and saves it again. It exits non-zero if the scene failed to load.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"mirgo/internal/assets"
	_ "mirgo/internal/components"
	"mirgo/internal/config"
	"mirgo/internal/engine"
	"mirgo/internal/game"
	"mirgo/internal/logging"
	_ "mirgo/internal/scripting"
	"mirgo/internal/world"
)

func main() {
	configPath := flag.String("config", "engine.toml", "engine config file")
	frames := flag.Int("frames", 60, "frames to play before stopping")
	out := flag.String("out", "", "where to write the re-saved scene, relative to the assets root (empty skips saving)")
	flag.Parse()

	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	if err := run(cfg, *frames, *out, log); err != nil {
		log.Error("scene check failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, frames int, out string, log *zap.Logger) error {
	fs := assets.OSFS{Root: cfg.Assets.Root}
	db := assets.NewDatabase(fs, cfg.Assets.Workers, log.Named("assets"))
	defer db.Unload()
	if _, err := db.LoadIndex(cfg.Assets.Index); err != nil && !errors.Is(err, assets.ErrNotExist) {
		return err
	}

	w := world.New("scenecheck", engine.DefaultRegistry, log.Named("world"))
	w.SetAssets(db)
	session := game.NewSession(w, db, nil, log.Named("session"))

	report, err := w.LoadFile(fs, cfg.Scene.Path)
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	db.Wait()

	if err := session.Play(); err != nil {
		return err
	}
	dt := float32(1) / 60
	if cfg.Window.TargetFPS > 0 {
		dt = 1 / float32(cfg.Window.TargetFPS)
	}
	start := time.Now()
	for i := 0; i < frames; i++ {
		session.Frame(dt)
	}
	log.Info("played", zap.Int("frames", frames), zap.Duration("elapsed", time.Since(start)), zap.Int("nodes", w.Scene.Len()))
	if err := session.Stop(); err != nil {
		return err
	}

	if out != "" {
		if err := w.SaveFile(fs, out); err != nil {
			return err
		}
		fmt.Printf("saved %d nodes to %s\n", w.Scene.Len(), out)
	}
	if !report.OK() {
		return fmt.Errorf("scene loaded with problems")
	}
	return nil
}
