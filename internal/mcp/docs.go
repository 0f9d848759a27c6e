package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `tasklens reads markdown checklist tasks from a vault of notes and answers task queries over them.

Core concepts:
- Task: a list item with a checkbox, e.g. "- [ ] water plants !! 📅 2024-03-20". Anything but a space in the box counts as done.
- Origin: (path, section_start, section_index) names a task. section_start is the 0-based line of the first item in its list; section_index is the task's position within that list. Origins shift when notes are edited, so read them fresh before every edit.
- Query: the body of a tasks block, one directive per line (filters, sort, limit, layout).

Default workflow:
1) Find tasks with query_tasks, list_tasks or search_tasks.
2) Edit with toggle_task or shift_priority, passing the origin from step 1.
3) If an edit reports TASK_MOVED, call refresh_vault and look the task up again.
4) get_recent_activity shows what was changed and when.

Docs:
- tasklens://docs/index
- tasklens://docs/query-language
- tasklens://docs/line-syntax
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "tasklens://docs/index",
		Name:        "docs_index",
		Title:       "tasklens docs index",
		Description: "What each tool does and which doc to read next.",
		Content: `# tasklens: Agent Docs Index

## Tools

- ` + "`query_tasks(query)`" + `: evaluate a tasks block. Returns tasks, the layout, and the list rendered as it would appear in a note. A block that does not parse returns ` + "`error`" + ` and a rendered "Tasks query: ..." line instead of failing.
- ` + "`list_tasks(path?, limit?)`" + `: tasks in vault order.
- ` + "`search_tasks(text, limit?)`" + `: ranked full-text search; only available when the server keeps a task index.
- ` + "`toggle_task(path, section_start, section_index)`" + `: complete or reopen one task. Completing a recurring task writes its next occurrence on the line above.
- ` + "`shift_priority(..., direction)`" + `: direction is up, down or waiting.
- ` + "`toggle_line(line)`" + `: toggle a line of text without writing to any note.
- ` + "`render_note(path)`" + `: evaluate every tasks block in one note.
- ` + "`refresh_vault()`" + `: reread all notes.
- ` + "`get_recent_activity(path?, type?, limit?)`" + `: edit and refresh history.

## Read next

- tasklens://docs/query-language for directives.
- tasklens://docs/line-syntax for how a task line is written.

## Limitations

- Until the vault has been read once, queries return ` + "`loading: true`" + ` and "Loading Tasks ...".
- Edits fail with TASK_MOVED when the note changed on disk since it was read.
`,
	},
	{
		URI:         "tasklens://docs/query-language",
		Name:        "docs_query_language",
		Title:       "Query language",
		Description: "Directives accepted inside a tasks block.",
		Content: `# Query language

One directive per line. Blank lines and lines starting with # are ignored. Matching is case-insensitive.

## Filters (all must match)

- ` + "`done`" + ` / ` + "`not done`" + `
- ` + "`due before|after|on <date>`" + `, ` + "`done before|after|on <date>`" + `; date is YYYY-MM-DD, today, tomorrow or yesterday
- ` + "`has due date`" + `, ` + "`no due date`" + `, ` + "`has done date`" + `, ` + "`no done date`" + `
- ` + "`priority is [above|below] high|medium|none|low|waiting`" + `
- ` + "`is recurring`" + ` / ` + "`is not recurring`" + `
- ` + "`path|description|heading includes|does not include <text>`" + `

## Sorting

` + "`sort by urgency|status|priority|due|done|path|description|heading [reverse]`" + `

Several sort lines apply in order. Without any, tasks keep vault order. Urgency sorts most urgent first.

## Limit

` + "`limit 10`" + ` or ` + "`limit to 10 tasks`" + `

## Layout

- ` + "`hide|show task count|backlink|priority|due date|done date|edit button`" + `
- ` + "`short mode`" + `

Each rendered line ends with ` + "`✎ path:section_start:index`" + `, the locator
toggle_task and shift_priority take; ` + "`hide edit button`" + ` drops it.
`,
	},
	{
		URI:         "tasklens://docs/line-syntax",
		Name:        "docs_line_syntax",
		Title:       "Task line syntax",
		Description: "How a checklist line is read and written back.",
		Content: `# Task line syntax

    - [ ] description !! 🔁 every week 📅 2024-03-20 ✅ 2024-03-21 ^block-id

Fields are read from the end of the line in any order:

- Priority: ` + "`!!`" + ` high, ` + "`!?`" + ` medium, ` + "`??`" + ` low, ` + "`>>`" + ` waiting; none when absent.
- Recurrence: ` + "`🔁 <rule>`" + `, e.g. every day, every 2 weeks, every weekday, or a five-field cron expression.
- Due date: ` + "`📅 YYYY-MM-DD`" + `.
- Done date: ` + "`✅ YYYY-MM-DD`" + `, added when a task is completed.
- Block link: a trailing ` + "`^id`" + `, kept on the line.

A task is written back with its indentation, checkbox, description, then priority, recurrence, due and done in that order. When a recurring task is completed, the next occurrence keeps the description and rule and gets a due date computed from the completed one.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
