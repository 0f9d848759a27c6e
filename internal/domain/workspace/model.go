package workspace

import (
	"github.com/rpggio/tasklens/internal/domain/task"
)

// Direction names a priority shift.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionWaiting Direction = "waiting"
)

// QueryResult is one evaluated tasks block. Error is set when the block did
// not parse; Rendered then carries the message shown to the user.
type QueryResult struct {
	Source   string             `json:"source"`
	Tasks    []task.Record      `json:"tasks"`
	Layout   task.LayoutOptions `json:"layout"`
	Rendered string             `json:"rendered"`
	Error    string             `json:"error,omitempty"`
	Loading  bool               `json:"loading,omitempty"`
}

// EditResult describes a task line rewritten in its note.
type EditResult struct {
	Origin  task.OriginKey `json:"origin"`
	Before  string         `json:"before"`
	After   []string       `json:"after"`
	Records []task.Record  `json:"records"`
}

// NoteResult holds the evaluated tasks blocks of one note, in note order.
type NoteResult struct {
	Path    string        `json:"path"`
	Queries []QueryResult `json:"queries"`
}

// SearchHit is a full-text match on a task line.
type SearchHit struct {
	Origin  task.OriginKey `json:"origin"`
	Line    string         `json:"line"`
	Snippet string         `json:"snippet,omitempty"`
	Rank    float64        `json:"rank"`
	Task    *task.Record   `json:"task,omitempty"`
}
