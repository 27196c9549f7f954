package replay

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/resolution-engine/pkg/diff"
	"github.com/jwebster45206/resolution-engine/pkg/resolution"
	"github.com/jwebster45206/resolution-engine/pkg/snapshot"
	"github.com/jwebster45206/resolution-engine/pkg/subaction"
	"github.com/jwebster45206/resolution-engine/pkg/timeline"
)

// Session is a recorded game session as stored on disk.
type Session struct {
	GameID  string             `yaml:"game_id"`
	Player  *resolution.Player `yaml:"player,omitempty"`
	Entries []RecordedEntry    `yaml:"entries"`
}

// RecordedEntry is everything the rules engine captured for one step.
type RecordedEntry struct {
	Turn                   int                  `yaml:"turn"`
	Sequence               int                  `yaml:"sequence"`
	Action                 string               `yaml:"action,omitempty"`
	Source                 resolution.Source    `yaml:"source,omitempty"`
	Actor                  string               `yaml:"actor,omitempty"`
	Player                 *resolution.Player   `yaml:"player,omitempty"`
	Lines                  []Line               `yaml:"lines,omitempty"`
	Before                 snapshot.PlayerState `yaml:"before"`
	After                  snapshot.PlayerState `yaml:"after"`
	Traces                 []subaction.Trace    `yaml:"traces,omitempty"`
	Costs                  map[string]float64   `yaml:"costs,omitempty"`
	Effect                 *diff.Effect         `yaml:"effect,omitempty"`
	RequireAcknowledgement bool                 `yaml:"require_acknowledgement"`
}

// Line is a content line written either as a bare string or as a full
// descriptor mapping. The composer places bare strings after the headline
// at depth 1.
type Line struct {
	timeline.Descriptor
}

func (l *Line) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = Line{Descriptor: timeline.Descriptor{Text: value.Value}}
		return nil
	}
	var d timeline.Descriptor
	if err := value.Decode(&d); err != nil {
		return fmt.Errorf("invalid line at %d:%d: %w", value.Line, value.Column, err)
	}
	*l = Line{Descriptor: d}
	return nil
}

// ParseSession decodes a YAML session.
func ParseSession(data []byte) (*Session, error) {
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &s, nil
}

// LoadSession reads and decodes a YAML session file.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file %s: %w", path, err)
	}
	return ParseSession(data)
}

// ID parses the session's game id. A blank id yields a fresh random one.
func (s *Session) ID() (uuid.UUID, error) {
	if s.GameID == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(s.GameID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid game id %q: %w", s.GameID, err)
	}
	return id, nil
}

// ReplayEntries converts the recording into composer inputs, capturing the
// before/after snapshots.
func (s *Session) ReplayEntries() []Entry {
	out := make([]Entry, 0, len(s.Entries))
	for _, r := range s.Entries {
		player := r.Player
		if player == nil {
			player = s.Player
		}
		source := r.Source
		if source.Kind == "" {
			source.Kind = resolution.SourceAction
		}
		out = append(out, Entry{
			Turn:     r.Turn,
			Sequence: r.Sequence,
			Input: resolution.Input{
				Player:                 player,
				ActionID:               r.Action,
				Source:                 source,
				ActorLabel:             r.Actor,
				Lines:                  descriptors(r.Lines),
				Traces:                 r.Traces,
				Before:                 snapshot.Capture(r.Before),
				After:                  snapshot.Capture(r.After),
				Effect:                 r.Effect,
				Costs:                  r.Costs,
				RequireAcknowledgement: r.RequireAcknowledgement,
			},
		})
	}
	return out
}

func descriptors(lines []Line) []timeline.Descriptor {
	out := make([]timeline.Descriptor, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Descriptor)
	}
	return out
}
