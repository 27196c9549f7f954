package diff

// Effect is one node of a resolved effect tree as produced by the rules
// engine. The diff only reads it for attribution; a nil tree is valid.
type Effect struct {
	Type      string     `json:"type,omitempty" yaml:"type,omitempty"` // "resource", "stat", "land", "development", ...
	Method    string     `json:"method,omitempty" yaml:"method,omitempty"`
	Key       string     `json:"key,omitempty" yaml:"key,omitempty"`
	Amount    float64    `json:"amount,omitempty" yaml:"amount,omitempty"`
	Evaluator *Evaluator `json:"evaluator,omitempty" yaml:"evaluator,omitempty"`
	Effects   []Effect   `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// Evaluator multiplies the effects beneath it, e.g. "+1 gold per farm".
type Evaluator struct {
	Type  string `json:"type" yaml:"type"`
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Count int    `json:"count,omitempty" yaml:"count,omitempty"`
}

func (ev *Evaluator) multiplier() float64 {
	if ev.Count <= 0 {
		return 1
	}
	return float64(ev.Count)
}

// Source is one evaluator's contribution to a key.
type Source struct {
	Icon   string  `json:"icon"`
	ID     string  `json:"id,omitempty"`
	Amount float64 `json:"amount"`
}

// Attribution is the meta carried by a change whose delta could be traced
// back to one or more evaluators.
type Attribution struct {
	Key     string   `json:"key"`
	Sources []Source `json:"sources"`
}

// Total is the summed contribution of all sources.
func (a *Attribution) Total() float64 {
	var total float64
	for _, s := range a.Sources {
		total += s.Amount
	}
	return total
}

type attributionKey struct {
	effectType string
	key        string
}

// collectAttribution walks the tree and sums evaluator contributions per
// (type, key), keeping sources in first-seen order.
func collectAttribution(root *Effect) map[attributionKey]*Attribution {
	out := make(map[attributionKey]*Attribution)
	if root == nil {
		return out
	}
	var walk func(e *Effect, ev *Evaluator, mult float64)
	walk = func(e *Effect, ev *Evaluator, mult float64) {
		if e.Evaluator != nil {
			ev = e.Evaluator
			mult *= ev.multiplier()
		}
		if ev != nil && ev.Icon != "" && e.Key != "" && e.Amount != 0 &&
			(e.Type == "resource" || e.Type == "stat") {
			amount := e.Amount * mult
			if e.Method == "remove" {
				amount = -amount
			}
			k := attributionKey{effectType: e.Type, key: e.Key}
			attr, ok := out[k]
			if !ok {
				attr = &Attribution{Key: e.Key}
				out[k] = attr
			}
			merged := false
			for i := range attr.Sources {
				if attr.Sources[i].Icon == ev.Icon {
					attr.Sources[i].Amount += amount
					merged = true
					break
				}
			}
			if !merged {
				attr.Sources = append(attr.Sources, Source{Icon: ev.Icon, ID: ev.ID, Amount: amount})
			}
		}
		for i := range e.Effects {
			walk(&e.Effects[i], ev, mult)
		}
	}
	walk(root, nil, 1)
	return out
}
