package tui

import "time"

// MsgInitTasks resets the task tree to a new plan.
type MsgInitTasks struct {
	Tasks    []string
	Children map[string][]string
	Targets  []string
}

// MsgTaskStart indicates a task (span) has started.
type MsgTaskStart struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// MsgTaskLog carries a chunk of output for a specific task.
type MsgTaskLog struct {
	SpanID string
	Data   []byte
}

// MsgTaskComplete indicates a task (span) has finished.
type MsgTaskComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
