package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeTaskCompleted   ActivityType = "task_completed"
	TypeTaskReopened    ActivityType = "task_reopened"
	TypeTaskRecurred    ActivityType = "task_recurred"
	TypePriorityChanged ActivityType = "priority_changed"
	TypeVaultRefreshed  ActivityType = "vault_refreshed"
)

// ActivityEntry represents an edit made through tasklens
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	Path         string       `json:"path,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
