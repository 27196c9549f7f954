package replay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jwebster45206/resolution-engine/pkg/render"
	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

// TextPresenter writes resolutions as indented plain text. When In is set,
// resolutions that require acknowledgement wait for a line of input.
type TextPresenter struct {
	Out   io.Writer
	In    *bufio.Reader
	Width int
}

func (p *TextPresenter) Present(ctx context.Context, res resolution.Resolution) error {
	var b strings.Builder
	if res.ActorLabel != "" {
		fmt.Fprintf(&b, "[%s]\n", res.ActorLabel)
	}
	for _, line := range render.Wrap(res.Lines, p.Width) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if _, err := io.WriteString(p.Out, b.String()); err != nil {
		return fmt.Errorf("failed to write resolution: %w", err)
	}

	if !res.RequireAcknowledgement || p.In == nil {
		return nil
	}
	if _, err := io.WriteString(p.Out, "Press Enter to continue..."); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := p.In.ReadString('\n')
		done <- err
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read acknowledgement: %w", err)
		}
		return nil
	}
}
