package mocks

import (
	"context"

	"github.com/rpggio/tasklens/internal/domain/activity"
	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/rpggio/tasklens/internal/domain/workspace"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TaskIndexRepository is a mock for repository.TaskIndexRepository.
type TaskIndexRepository struct {
	mock.Mock
}

func (m *TaskIndexRepository) ReplaceAll(ctx context.Context, records []task.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *TaskIndexRepository) Search(ctx context.Context, text string, limit int) ([]workspace.SearchHit, error) {
	args := m.Called(ctx, text, limit)
	if hits, ok := args.Get(0).([]workspace.SearchHit); ok {
		return hits, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for repository.APIKeyRepository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) Create(ctx context.Context, token, tenantID, description string) error {
	args := m.Called(ctx, token, tenantID, description)
	return args.Error(0)
}

func (m *APIKeyRepository) ResolveTenant(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

// Committer is a mock for workspace.Committer.
type Committer struct {
	mock.Mock
}

func (m *Committer) Commit(ctx context.Context, message string, paths ...string) error {
	args := m.Called(ctx, message, paths)
	return args.Error(0)
}
