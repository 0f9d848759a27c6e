package vault

import "errors"

var (
	// ErrTaskMoved indicates the note no longer has a task at the given origin.
	ErrTaskMoved = errors.New("task no longer at origin")
	// ErrOutsideVault indicates a path that resolves outside the vault root.
	ErrOutsideVault = errors.New("path outside vault")
	// ErrNotNote indicates a path that is not a markdown note.
	ErrNotNote = errors.New("not a markdown note")
)
