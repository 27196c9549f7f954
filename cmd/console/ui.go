package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

// ResolutionUI is the BubbleTea model that shows resolutions as they arrive.
// https://github.com/charmbracelet/bubbletea
type ResolutionUI struct {
	title    string
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	history []resolution.Resolution
	pending *resolutionMsg
	status  string
	done    bool
	err     error
	cancel  func()
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	actorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	headlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Bold(true)

	markerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	panelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3).
			PaddingRight(3)
)

func NewResolutionUI(title string, cancel func()) ResolutionUI {
	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true
	return ResolutionUI{title: title, viewport: vp, cancel: cancel}
}

func (m ResolutionUI) Init() tea.Cmd {
	return nil
}

func (m ResolutionUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = msg.Height - 5
		m.ready = true
		m.refresh()

	case resolutionMsg:
		m.history = append(m.history, msg.res)
		m.status = ""
		if msg.res.RequireAcknowledgement {
			pending := msg
			m.pending = &pending
		} else {
			close(msg.ack)
		}
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case replayDoneMsg:
		m.done = true
		m.err = msg.err
		m.status = fmt.Sprintf("Replay finished: %d resolutions", msg.count)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			return m, tea.Quit
		case "enter", " ":
			if m.pending != nil {
				close(m.pending.ack)
				m.pending = nil
				m.refresh()
				return m, nil
			}
		case "c":
			if len(m.history) > 0 {
				last := m.history[len(m.history)-1]
				if err := clipboard.WriteAll(strings.Join(last.Lines, "\n")); err != nil {
					m.status = "Copy failed: " + err.Error()
				} else {
					m.status = "Copied latest resolution"
				}
				m.refresh()
			}
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ResolutionUI) refresh() {
	if !m.ready {
		return
	}
	width := max(m.viewport.Width, 20)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n\n")
	for _, res := range m.history {
		b.WriteString(formatResolution(res, width))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

// formatResolution styles one resolution: the headline, then its records
// with markers colored and continuation lines wrapped under the text.
func formatResolution(res resolution.Resolution, width int) string {
	var b strings.Builder
	if res.ActorLabel != "" {
		b.WriteString(actorStyle.Render(res.ActorLabel) + "\n")
	}
	for _, rec := range res.Records {
		if rec.Indent == 0 {
			b.WriteString(headlineStyle.Render(wordwrap.String(rec.Text, width)) + "\n")
			continue
		}
		lead := strings.Repeat("  ", rec.Indent)
		body := wordwrap.String(rec.Text, max(width-len(lead)-2, 10))
		pad := lead + strings.Repeat(" ", len([]rune(rec.Marker))+1)
		body = strings.ReplaceAll(body, "\n", "\n"+pad)
		b.WriteString(lead + markerStyle.Render(rec.Marker) + " " + body + "\n")
	}
	return b.String()
}

func (m ResolutionUI) View() string {
	if !m.ready {
		return "Loading..."
	}

	var footer string
	switch {
	case m.err != nil:
		footer = errorStyle.Render("Error: " + m.err.Error())
	case m.pending != nil:
		footer = promptStyle.Render("Enter: acknowledge • c: copy • q: quit")
	case m.done:
		footer = promptStyle.Render(m.status + " • q: quit")
	case m.status != "":
		footer = promptStyle.Render(m.status)
	default:
		footer = summaryStyle.Render("Waiting for resolutions... • q: quit")
	}

	return panelStyle.Render(m.viewport.View()) + "\n" + panelStyle.Render(footer)
}
