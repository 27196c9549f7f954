package resolution

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/resolution-engine/pkg/render"
	"github.com/jwebster45206/resolution-engine/pkg/timeline"
)

// Player identifies who a resolution belongs to.
type Player struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Action identifies the action a resolution explains.
type Action struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// SourceKind is what produced a resolution.
type SourceKind string

const (
	SourceAction SourceKind = "action"
	SourcePhase  SourceKind = "phase"
)

// Source is either a bare kind or a kind with display detail. The bare form
// encodes as a JSON string, the detailed form as an object.
type Source struct {
	Kind  SourceKind `json:"kind" yaml:"kind"`
	ID    string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string     `json:"name,omitempty" yaml:"name,omitempty"`
	Icon  string     `json:"icon,omitempty" yaml:"icon,omitempty"`
	Label string     `json:"label,omitempty" yaml:"label,omitempty"`
}

// IsDetailed reports whether the source carries anything beyond its kind.
func (s Source) IsDetailed() bool {
	return s.ID != "" || s.Name != "" || s.Icon != "" || s.Label != ""
}

// Title is the text used when a resolution has no headline of its own.
func (s Source) Title() string {
	if s.Label != "" {
		return s.Label
	}
	if s.Name != "" {
		return strings.TrimSpace(s.Icon + " " + s.Name)
	}
	return ""
}

type detailedSource Source

func (s Source) MarshalJSON() ([]byte, error) {
	if !s.IsDetailed() {
		return json.Marshal(string(s.Kind))
	}
	return json.Marshal(detailedSource(s))
}

func (s *Source) UnmarshalJSON(data []byte) error {
	var kind string
	if err := json.Unmarshal(data, &kind); err == nil {
		*s = Source{Kind: SourceKind(kind)}
		return nil
	}
	var d detailedSource
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid resolution source: %w", err)
	}
	*s = Source(d)
	return nil
}

func (s *Source) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = Source{Kind: SourceKind(value.Value)}
		return nil
	}
	var d detailedSource
	if err := value.Decode(&d); err != nil {
		return fmt.Errorf("invalid resolution source: %w", err)
	}
	*s = Source(d)
	return nil
}

// Resolution is the finalized presentation unit for one action or phase step.
type Resolution struct {
	Lines                  []string              `json:"lines"`
	VisibleLines           []string              `json:"visible_lines"`
	Timeline               []timeline.Descriptor `json:"timeline"`
	VisibleTimeline        []timeline.Descriptor `json:"visible_timeline"`
	Records                []render.Record       `json:"records,omitempty"`
	Summaries              []string              `json:"summaries"`
	Player                 *Player               `json:"player,omitempty"`
	Action                 *Action               `json:"action,omitempty"`
	Source                 Source                `json:"source"`
	ActorLabel             string                `json:"actor_label,omitempty"`
	Variant                render.Variant        `json:"variant,omitempty"`
	RequireAcknowledgement bool                  `json:"require_acknowledgement"`
	IsComplete             bool                  `json:"is_complete"`
}

// Headline is the text of the resolution's first timeline line.
func (r Resolution) Headline() string {
	if len(r.Timeline) == 0 {
		return ""
	}
	return r.Timeline[0].Text
}
