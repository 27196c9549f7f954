package render

import (
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/resolution-engine/pkg/timeline"
)

const (
	PrimaryMarker = "•"
	NestedMarker  = "↳"
)

// Record is one presentation line for UI consumers.
type Record struct {
	Key    string        `json:"key"`
	Text   string        `json:"text"`
	Kind   timeline.Kind `json:"kind"`
	Depth  int           `json:"depth"`
	Indent int           `json:"indent"`
	Marker string        `json:"marker,omitempty"`
}

// Marker returns the bullet for an indent level: none for the headline
// level, a bullet for the first level and an arrow below that.
func Marker(indent int) string {
	switch {
	case indent <= 0:
		return ""
	case indent == 1:
		return PrimaryMarker
	default:
		return NestedMarker
	}
}

// Records converts flattened items into UI line records.
func Records(items []timeline.Item) []Record {
	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, Record{
			Key:    it.Key,
			Text:   it.Text,
			Kind:   it.Kind,
			Depth:  it.Depth,
			Indent: it.Indent,
			Marker: Marker(it.Indent),
		})
	}
	return out
}

// PlainLines renders items as indented text: two spaces per indent level
// followed by the marker.
func PlainLines(items []timeline.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, prefix(it.Indent)+it.Text)
	}
	return out
}

func prefix(indent int) string {
	if indent <= 0 {
		return ""
	}
	return strings.Repeat("  ", indent) + Marker(indent) + " "
}

// Wrap word-wraps plain lines to width, aligning continuation lines under
// the text rather than the marker. A width below 1 disables wrapping.
func Wrap(lines []string, width int) []string {
	if width < 1 {
		return append([]string(nil), lines...)
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		lead := leadWidth(line)
		head, body := line[:lead.bytes], line[lead.bytes:]
		avail := width - lead.runes
		if avail < 10 {
			avail = 10
		}
		wrapped := strings.Split(wordwrap.String(body, avail), "\n")
		out = append(out, head+wrapped[0])
		pad := strings.Repeat(" ", lead.runes)
		for _, w := range wrapped[1:] {
			out = append(out, pad+w)
		}
	}
	return out
}

type lead struct {
	bytes int
	runes int
}

// leadWidth measures the indentation plus marker at the start of a line.
func leadWidth(line string) lead {
	trimmed := strings.TrimLeft(line, " ")
	l := lead{bytes: len(line) - len(trimmed)}
	for _, m := range []string{PrimaryMarker + " ", NestedMarker + " "} {
		if strings.HasPrefix(trimmed, m) {
			l.bytes += len(m)
			break
		}
	}
	l.runes = utf8.RuneCountInString(line[:l.bytes])
	return l
}
