package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/resolution-engine/internal/config"
	"github.com/jwebster45206/resolution-engine/internal/logger"
	"github.com/jwebster45206/resolution-engine/internal/storage"
	"github.com/jwebster45206/resolution-engine/pkg/content"
	"github.com/jwebster45206/resolution-engine/pkg/replay"
	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <session.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	log := logger.Setup(cfg)

	registry, err := content.LoadFile(cfg.ContentFile)
	if err != nil {
		log.Error("Failed to load content catalog", "file", cfg.ContentFile, "error", err)
		os.Exit(1)
	}

	session, err := replay.LoadSession(os.Args[1])
	if err != nil {
		log.Error("Failed to load session", "error", err)
		os.Exit(1)
	}
	gameID, err := session.ID()
	if err != nil {
		log.Error("Failed to load session", "error", err)
		os.Exit(1)
	}
	log = logger.WithGameID(log, gameID)

	openCtx, openCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	sinks, err := storage.Open(openCtx, cfg, log)
	openCancel()
	if err != nil {
		log.Error("Failed to open resolution log", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	title := "RESOLUTIONS"
	if session.Player != nil && session.Player.Name != "" {
		title += " · " + session.Player.Name
	}
	p := tea.NewProgram(NewResolutionUI(title, cancel), tea.WithAltScreen(), tea.WithMouseCellMotion())

	opts := resolution.Options{Unmatched: cfg.Unmatched}
	if cfg.AuthoredResourcesOnly {
		opts.Keys = registry.ResourceKeys()
	}
	r := &replay.Replayer{
		Composer:  resolution.NewComposer(registry, opts, log),
		Sinks:     []replay.Sink{sinks},
		Presenter: &teaPresenter{program: p},
		Logger:    log,
	}
	replayDone := make(chan struct{})
	go func() {
		defer close(replayDone)
		out, err := r.Run(ctx, gameID, session.ReplayEntries())
		if err == nil {
			err = sinks.Finish(ctx, gameID, len(out))
		}
		p.Send(replayDoneMsg{count: len(out), err: err})
	}()

	_, runErr := p.Run()
	cancel()
	<-replayDone
	if err := sinks.Close(); err != nil {
		logger.WithError(log, err).Error("Failed to close resolution log")
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", runErr)
		os.Exit(1)
	}
}
