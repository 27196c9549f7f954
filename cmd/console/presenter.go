package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

// resolutionMsg hands a resolution to the UI. ack is closed by the UI once
// the player has acknowledged it.
type resolutionMsg struct {
	res resolution.Resolution
	ack chan struct{}
}

type replayDoneMsg struct {
	count int
	err   error
}

// teaPresenter shows resolutions in the running program and blocks until
// the player acknowledges the ones that require it.
type teaPresenter struct {
	program *tea.Program
}

func (p *teaPresenter) Present(ctx context.Context, res resolution.Resolution) error {
	ack := make(chan struct{})
	p.program.Send(resolutionMsg{res: res, ack: ack})
	if !res.RequireAcknowledgement {
		return nil
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
