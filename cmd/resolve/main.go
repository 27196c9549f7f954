package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/resolution-engine/internal/config"
	"github.com/jwebster45206/resolution-engine/internal/logger"
	"github.com/jwebster45206/resolution-engine/internal/storage"
	"github.com/jwebster45206/resolution-engine/pkg/content"
	"github.com/jwebster45206/resolution-engine/pkg/replay"
	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

func main() {
	width := flag.Int("width", 0, "wrap output to this many columns (0 disables wrapping)")
	interactive := flag.Bool("ack", false, "wait for Enter on resolutions that require acknowledgement")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <session.yaml>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
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

	session, err := replay.LoadSession(flag.Arg(0))
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, openCancel := context.WithTimeout(ctx, 2*time.Minute)
	sinks, err := storage.Open(openCtx, cfg, log)
	openCancel()
	if err != nil {
		log.Error("Failed to open resolution log", "error", err)
		os.Exit(1)
	}
	closeSinks := func() {
		if err := sinks.Close(); err != nil {
			logger.WithError(log, err).Error("Failed to close resolution log")
		}
	}

	presenter := &replay.TextPresenter{Out: os.Stdout, Width: *width}
	if *interactive {
		presenter.In = bufio.NewReader(os.Stdin)
	}

	opts := resolution.Options{Unmatched: cfg.Unmatched}
	if cfg.AuthoredResourcesOnly {
		opts.Keys = registry.ResourceKeys()
	}
	r := &replay.Replayer{
		Composer:  resolution.NewComposer(registry, opts, log),
		Sinks:     []replay.Sink{sinks},
		Presenter: presenter,
		Logger:    log,
	}

	out, err := r.Run(ctx, gameID, session.ReplayEntries())
	if err == nil {
		err = sinks.Finish(ctx, gameID, len(out))
	}
	closeSinks()
	if err != nil {
		logger.WithError(log, err).Error("Replay stopped", "composed", len(out))
		os.Exit(1)
	}
	log.Info("Replay finished", "resolutions", len(out))
}
