package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rpggio/tasklens/internal/domain/task"
)

var (
	headingPattern  = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*#*\s*$`)
	listItemPattern = regexp.MustCompile(`^\s*([-*+]|\d+[.)])\s`)
	fencePattern    = regexp.MustCompile("^\\s*(```|~~~)")
	queryPattern    = regexp.MustCompile("(?s)```tasks[ \\t]*\\r?\\n(.*?)```")
)

// taskLine is a parsed task together with its 0-based line number.
type taskLine struct {
	lineNo int
	record task.Record
}

// Scan parses every markdown note under root. Hidden directories are
// skipped and record paths are slash-separated and relative to root.
func Scan(ctx context.Context, root string, s task.Settings) ([]task.Record, error) {
	var records []task.Record
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isNote(d.Name()) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		records = append(records, ParseDocument(filepath.ToSlash(rel), string(data), s)...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan vault: %w", err)
	}
	return records, nil
}

// ParseDocument extracts the tasks of one note.
func ParseDocument(path, content string, s task.Settings) []task.Record {
	found := scanLines(path, splitLines(content), s)
	records := make([]task.Record, 0, len(found))
	for _, tl := range found {
		records = append(records, tl.record)
	}
	return records
}

// QueryBlocks returns the bodies of the ```tasks code blocks in a note.
func QueryBlocks(content string) []string {
	matches := queryPattern.FindAllStringSubmatch(content, -1)
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, strings.ReplaceAll(m[1], "\r\n", "\n"))
	}
	return blocks
}

// scanLines walks a note line by line. A section is a run of list items
// (with their indented continuation lines); tasks are numbered within it.
// Code fences are not scanned.
func scanLines(path string, lines []string, s task.Settings) []taskLine {
	var (
		found        []taskLine
		header       *string
		inFence      bool
		inList       bool
		sectionStart int
		sectionIndex int
	)
	for i, line := range lines {
		if fencePattern.MatchString(line) {
			inFence = !inFence
			inList = false
			continue
		}
		if inFence {
			continue
		}
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			h := m[1]
			header = &h
			inList = false
			continue
		}
		if listItemPattern.MatchString(line) {
			if !inList {
				inList = true
				sectionStart = i
				sectionIndex = 0
			}
			origin := task.OriginKey{Path: path, SectionStart: sectionStart, SectionIndex: sectionIndex}
			if rec, ok := task.ParseLine(line, origin, header, s); ok {
				found = append(found, taskLine{lineNo: i, record: rec})
				sectionIndex++
			}
			continue
		}
		if inList && (strings.TrimSpace(line) == "" || !startsIndented(line)) {
			inList = false
		}
	}
	return found
}

func startsIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func isNote(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}
