package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	_ "mirgo/internal/components"
	"mirgo/internal/config"
	"mirgo/internal/game"
	"mirgo/internal/logging"
	_ "mirgo/internal/scripting"
)

func main() {
	// Deployed builds run next to their project; "go run" binaries live in a temp dir.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	configPath := flag.String("config", "engine.toml", "engine config file")
	flag.Parse()

	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	app, err := game.NewApp(cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	if err := app.Run(); err != nil {
		log.Error("editor exited with error", zap.Error(err))
		os.Exit(1)
	}
}
