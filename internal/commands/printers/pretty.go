// Package printers renders tasks for the terminal.
package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/rpggio/tasklens/internal/domain/activity"
	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/rpggio/tasklens/internal/domain/workspace"
	"github.com/rpggio/tasklens/internal/render"
)

type PrettyPrint struct {
	Out io.Writer
	// ShowOrigin adds the path:section:index column used by toggle and priority.
	ShowOrigin bool
}

func (pp *PrettyPrint) Title(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.Out, title)
	switch count {
	case 1:
		_, _ = c.Fprintln(pp.Out, " - 1 task")
	default:
		_, _ = c.Fprintf(pp.Out, " - %d tasks\n", count)
	}
}

// Tasks prints one row per task.
func (pp *PrettyPrint) Tasks(records []task.Record) {
	if len(records) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.Out, " none\n\n")
		return
	}

	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	for _, r := range records {
		row := []any{checkbox(r), priority(r.Priority), r.Description, dates(r)}
		if pp.ShowOrigin {
			row = append(row, faint.Sprint(Origin(r.Origin)))
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
	_, _ = fmt.Fprintln(pp.Out)
}

// Query prints an evaluated tasks block: the rendered list, or the error.
func (pp *PrettyPrint) Query(res workspace.QueryResult) {
	if res.Error != "" {
		_, _ = color.New(color.FgRed).Fprintln(pp.Out, res.Rendered)
		return
	}
	if res.Loading {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.Out, res.Rendered)
		return
	}
	rows := *pp
	rows.ShowOrigin = pp.ShowOrigin && !res.Layout.HideEditButton
	rows.Tasks(res.Tasks)
	if !res.Layout.HideTaskCount {
		_, _ = color.New(color.Faint).Fprintln(pp.Out, lastLine(res.Rendered))
	}
}

// Edit prints the lines written for an edited task.
func (pp *PrettyPrint) Edit(res *workspace.EditResult) {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	_, _ = color.New(color.Faint).Fprintln(pp.Out, Origin(res.Origin))
	_, _ = red.Fprintln(pp.Out, "- "+strings.TrimLeft(res.Before, " \t"))
	for _, line := range res.After {
		_, _ = green.Fprintln(pp.Out, "+ "+strings.TrimLeft(line, " \t"))
	}
}

func (pp *PrettyPrint) Hits(hits []workspace.SearchHit) {
	tbl := uitable.New()
	tbl.Separator = "  "
	bold := color.New(color.Bold)
	tbl.AddRow(bold.Sprint("Origin"), bold.Sprint("Match"))
	for _, h := range hits {
		tbl.AddRow(Origin(h.Origin), h.Snippet)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

func (pp *PrettyPrint) Activity(entries []activity.ActivityEntry) {
	tbl := uitable.New()
	tbl.Separator = "  "
	faint := color.New(color.Faint)
	for _, e := range entries {
		tbl.AddRow(faint.Sprint(e.CreatedAt.Local().Format("2006-01-02 15:04")), string(e.ActivityType), e.Summary)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// Origin formats an origin the way --path/--section-start/--index expect it.
func Origin(o task.OriginKey) string {
	return render.Locator(o)
}

func checkbox(r task.Record) string {
	box := "[" + r.OriginalStatus + "]"
	if r.Status == task.StatusDone {
		return color.New(color.FgGreen).Sprint(box)
	}
	return box
}

func priority(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return color.New(color.FgRed, color.Bold).Sprint(p.Glyph())
	case task.PriorityMedium:
		return color.New(color.FgYellow).Sprint(p.Glyph())
	case task.PriorityLow, task.PriorityWaiting:
		return color.New(color.Faint).Sprint(p.Glyph())
	}
	return "  "
}

func dates(r task.Record) string {
	var parts []string
	if r.Recurrence != "" {
		parts = append(parts, "🔁 "+r.Recurrence)
	}
	if r.Due != nil {
		parts = append(parts, "📅 "+task.FormatDate(*r.Due))
	}
	if r.Done != nil {
		parts = append(parts, "✅ "+task.FormatDate(*r.Done))
	}
	return strings.Join(parts, " ")
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
