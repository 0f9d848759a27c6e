package mcp

import (
	"errors"
	"fmt"
	"os"

	"github.com/rpggio/tasklens/internal/domain/activity"
	"github.com/rpggio/tasklens/internal/domain/workspace"
	"github.com/rpggio/tasklens/internal/vault"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, workspace.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "task not found", RecoveryHint: "Call list_tasks or query_tasks for current origins"}
	case errors.Is(err, vault.ErrTaskMoved):
		return &APIError{Code: "TASK_MOVED", Message: "note changed since it was loaded", RecoveryHint: "Call refresh_vault and retry"}
	case errors.Is(err, workspace.ErrInvalidDirection):
		return &APIError{Code: "INVALID_DIRECTION", Message: "direction must be up, down or waiting"}
	case errors.Is(err, workspace.ErrSearchUnavailable):
		return &APIError{Code: "SEARCH_UNAVAILABLE", Message: "server runs without a task index", RecoveryHint: "Use query_tasks with a description filter"}
	case errors.Is(err, vault.ErrOutsideVault), errors.Is(err, vault.ErrNotNote):
		return &APIError{Code: "INVALID_PATH", Message: err.Error(), RecoveryHint: "Pass a vault-relative path to a .md note"}
	case errors.Is(err, os.ErrNotExist):
		return &APIError{Code: "NOTE_NOT_FOUND", Message: "note not found"}
	case errors.Is(err, workspace.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}
