package domain

// TaskStatus represents the lifecycle state of a task execution as shown to the user.
type TaskStatus string

const (
	// TaskStatusPending indicates the task is planned but not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning indicates the task is currently executing.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
)

// IsTerminal reports whether no further transitions follow.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}
