package task

import (
	"fmt"
	"strings"
)

var priorityNames = map[Priority]string{
	PriorityHigh:    "high",
	PriorityMedium:  "medium",
	PriorityNone:    "none",
	PriorityLow:     "low",
	PriorityWaiting: "waiting",
}

var priorityGlyphs = map[Priority]string{
	PriorityHigh:    "!!",
	PriorityMedium:  "!?",
	PriorityLow:     "??",
	PriorityWaiting: ">>",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Glyph returns the two-character marker, or "" for PriorityNone.
func (p Priority) Glyph() string {
	return priorityGlyphs[p]
}

// ParsePriority maps a priority name to its level.
func ParsePriority(name string) (Priority, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range priorityNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPriority, name)
}

func priorityFromGlyph(glyph string) Priority {
	for p, g := range priorityGlyphs {
		if g == glyph {
			return p
		}
	}
	return PriorityNone
}

// Increase moves one step towards High. Waiting resets to None.
func (p Priority) Increase() Priority {
	switch p {
	case PriorityMedium:
		return PriorityHigh
	case PriorityNone:
		return PriorityMedium
	case PriorityLow:
		return PriorityNone
	case PriorityWaiting:
		return PriorityNone
	default:
		return PriorityHigh
	}
}

// Decrease moves one step towards Low. Waiting resets to None.
func (p Priority) Decrease() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityNone
	case PriorityWaiting:
		return PriorityNone
	default:
		return PriorityLow
	}
}

// ToggleWaiting parks a task as Waiting, or brings a waiting task back as High.
func (p Priority) ToggleWaiting() Priority {
	if p == PriorityWaiting {
		return PriorityHigh
	}
	return PriorityWaiting
}

// WithPriority returns a copy of r with priority p.
func (r Record) WithPriority(p Priority) Record {
	r.Priority = p
	return r
}
