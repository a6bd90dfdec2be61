package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ruqinhu/youxi/internal/config"
	"github.com/ruqinhu/youxi/internal/engine"
	"github.com/ruqinhu/youxi/internal/models"
	"github.com/ruqinhu/youxi/internal/rng"
	"github.com/ruqinhu/youxi/internal/session"
	"github.com/ruqinhu/youxi/internal/tui"
)

func main() {
	resume := flag.Bool("resume", false, "resume the saved session")
	saveName := flag.String("save", "current", "save slot name")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	models.SaveDir = cfg.SaveDir

	eng, err := engine.NewEngine(ctx, cfg.GeminiAPIKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating engine: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	r := rng.NewTimeSeeded()
	if cfg.Seed != 0 {
		r = rng.New(cfg.Seed)
	}

	var ctrl *session.Controller
	if *resume {
		state, err := models.LoadState(*saveName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading save %q: %v\n", *saveName, err)
			os.Exit(1)
		}
		ctrl = session.NewFromState(eng, r, state)
	} else {
		ctrl = session.New(eng, r)
	}

	if err := tui.Run(ctrl, *saveName); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
