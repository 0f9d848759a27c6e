package mcp

import (
	"time"

	"github.com/rpggio/tasklens/internal/domain/activity"
	"github.com/rpggio/tasklens/internal/domain/task"
)

type QueryTasksParams struct {
	Query string `json:"query" jsonschema:"tasks block body, one directive per line"`
}

type ListTasksParams struct {
	Path  string `json:"path,omitempty" jsonschema:"vault-relative note path; omit for all notes"`
	Limit int    `json:"limit,omitempty"`
}

type SearchTasksParams struct {
	Text  string `json:"text" jsonschema:"words to match against description, header and path"`
	Limit int    `json:"limit,omitempty"`
}

type ToggleTaskParams struct {
	Path         string `json:"path" jsonschema:"vault-relative note path"`
	SectionStart int    `json:"section_start" jsonschema:"line of the first item in the task's list"`
	SectionIndex int    `json:"section_index" jsonschema:"position of the task within that list"`
}

func (p ToggleTaskParams) origin() task.OriginKey {
	return task.OriginKey{Path: p.Path, SectionStart: p.SectionStart, SectionIndex: p.SectionIndex}
}

type ShiftPriorityParams struct {
	Path         string `json:"path"`
	SectionStart int    `json:"section_start"`
	SectionIndex int    `json:"section_index"`
	Direction    string `json:"direction" jsonschema:"up, down or waiting"`
}

func (p ShiftPriorityParams) origin() task.OriginKey {
	return task.OriginKey{Path: p.Path, SectionStart: p.SectionStart, SectionIndex: p.SectionIndex}
}

type ToggleLineParams struct {
	Line string `json:"line"`
}

type RenderNoteParams struct {
	Path string `json:"path"`
}

type RefreshVaultParams struct{}

type GetRecentActivityParams struct {
	Path  string `json:"path,omitempty"`
	Type  string `json:"type,omitempty"`
	Since string `json:"since,omitempty" jsonschema:"date (YYYY-MM-DD) or RFC 3339 time; older entries are skipped"`
	Limit int    `json:"limit,omitempty"`
}

type ListTasksResponse struct {
	Tasks []task.Record `json:"tasks"`
	Count int           `json:"count"`
}

type ToggleLineResponse struct {
	Line string `json:"line"`
}

type RefreshVaultResponse struct {
	Version int64 `json:"version"`
	Tasks   int   `json:"tasks"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	Path      string                `json:"path,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
}
