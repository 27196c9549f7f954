package textfilter

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jwebster45206/resolution-engine/pkg/diff"
)

// trailingDetail matches one trailing parenthetical, e.g. " (10→12)".
var trailingDetail = regexp.MustCompile(`\s+\([^()]*\)$`)

// NormalizeLine reduces a line to the form used for duplicate detection:
// trimmed, without its last parenthetical group, NFC-normalized.
func NormalizeLine(text string) string {
	s := strings.TrimSpace(text)
	s = trailingDetail.ReplaceAllString(s, "")
	return norm.NFC.String(strings.TrimSpace(s))
}

// Set is a set of normalized lines.
type Set map[string]struct{}

// NewSet normalizes every group of lines into one set. Blank lines are skipped.
func NewSet(groups ...[]string) Set {
	set := make(Set)
	for _, lines := range groups {
		for _, line := range lines {
			set.Add(line)
		}
	}
	return set
}

// Add normalizes and inserts a line.
func (s Set) Add(line string) {
	if n := NormalizeLine(line); n != "" {
		s[n] = struct{}{}
	}
}

// Has reports whether the normalized form of line is in the set.
func (s Set) Has(line string) bool {
	_, ok := s[NormalizeLine(line)]
	return ok
}

// FilterSummaries drops every summary that duplicates a message line or a
// nested sub-action summary.
func FilterSummaries(summaries, messages, nested []string) []string {
	seen := NewSet(messages, nested)
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		if strings.TrimSpace(s) == "" || seen.Has(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// AllowedSet collects the normalized summary of every node in the forest,
// at any depth, that does not duplicate a message or nested summary.
func AllowedSet(changes []diff.Change, messages, nested []string) Set {
	seen := NewSet(messages, nested)
	allowed := make(Set)
	var walk func([]diff.Change)
	walk = func(cs []diff.Change) {
		for _, c := range cs {
			if strings.TrimSpace(c.Summary) != "" && !seen.Has(c.Summary) {
				allowed.Add(c.Summary)
			}
			walk(c.Children)
		}
	}
	walk(changes)
	return allowed
}
