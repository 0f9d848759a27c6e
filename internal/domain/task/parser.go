package task

import (
	"regexp"
	"strings"
)

// maxStripPasses bounds the suffix scan so crafted lines cannot spin forever.
// Tokens left over once the bound is hit stay in the description.
const maxStripPasses = 7

var (
	taskPattern      = regexp.MustCompile(`^([\s\t]*)[-*] +\[(.)\] *(.*)`)
	blockLinkPattern = regexp.MustCompile(` \^[a-zA-Z0-9-]+$`)
)

// stripRule recognizes one trailing metadata token and records its value.
type stripRule struct {
	pattern *regexp.Regexp
	apply   func(rec *Record, value string)
}

// Order matters only for which token is consumed first in a pass; every
// successful strip restarts the scan at the head of the list.
var stripRules = []stripRule{
	{
		pattern: regexp.MustCompile(`(!!|!\?|\?\?|>>)$`),
		apply: func(rec *Record, value string) {
			rec.Priority = priorityFromGlyph(value)
		},
	},
	{
		pattern: regexp.MustCompile(`🔁 ?([a-zA-Z0-9@*/, -]+)$`),
		apply: func(rec *Record, value string) {
			rec.Recurrence = strings.TrimSpace(value)
		},
	},
	{
		pattern: regexp.MustCompile(`✅ ?(\d{4}-\d{2}-\d{2})$`),
		apply: func(rec *Record, value string) {
			rec.Done = nil
			if d, ok := ParseDate(value); ok {
				rec.Done = datePtr(d)
			}
		},
	},
	{
		pattern: regexp.MustCompile(`[📅📆🗓] ?(\d{4}-\d{2}-\d{2})$`),
		apply: func(rec *Record, value string) {
			rec.Due = nil
			if d, ok := ParseDate(value); ok {
				rec.Due = datePtr(d)
			}
		},
	},
}

// ParseLine turns a checklist line into a task. It reports false for lines
// that are not checklist items or that lack the configured global filter.
func ParseLine(line string, origin OriginKey, header *string, s Settings) (Record, bool) {
	m := taskPattern.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}

	indentation := m[1]
	statusGlyph := m[2]
	body := strings.TrimSpace(m[3])

	if s.GlobalFilter != "" && !strings.Contains(body, s.GlobalFilter) {
		return Record{}, false
	}

	status := StatusDone
	if strings.ToLower(statusGlyph) == todoGlyph {
		status = StatusTodo
	}

	rec := Record{
		Status:         status,
		Origin:         origin,
		Header:         header,
		Priority:       PriorityNone,
		Indentation:    indentation,
		OriginalStatus: statusGlyph,
	}

	if link := blockLinkPattern.FindString(body); link != "" {
		rec.BlockLink = link
		body = strings.TrimSpace(body[:len(body)-len(link)])
	}

	rec.Description = stripSuffixes(&rec, body)
	return rec, true
}

func stripSuffixes(rec *Record, body string) string {
	for pass := 0; pass < maxStripPasses; pass++ {
		stripped := false
		for _, rule := range stripRules {
			loc := rule.pattern.FindStringSubmatchIndex(body)
			if loc == nil {
				continue
			}
			rule.apply(rec, body[loc[2]:loc[3]])
			body = strings.TrimSpace(body[:loc[0]])
			stripped = true
			break
		}
		if !stripped {
			break
		}
	}
	return body
}
