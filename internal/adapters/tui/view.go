package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/press/internal/adapters/linear"
	"go.trai.ch/press/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.taskList(),
		m.logPane(),
	)
}

func (m *Model) taskList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("TASKS") + "\n\n")

	start := min(m.ListOffset, len(m.FlatList))
	end := min(m.ListOffset+m.ListHeight, len(m.FlatList))
	for i := start; i < end; i++ {
		s.WriteString(m.renderTaskRow(i, m.FlatList[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderTaskRow(index int, row *TaskNode) string {
	task := row.canonical()
	rowStyle := taskStyle(task.Status)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if !isFinished(task.Status) {
			rowStyle = selectedStyle
		}
	}

	marker := " "
	if len(row.Children) > 0 {
		marker = "▸"
		if row.IsExpanded {
			marker = "▾"
		}
	}

	line := cursor + strings.Repeat("  ", row.Depth) + marker + " " +
		rowStyle.Render(taskIcon(task.Status)+" "+task.Name)

	if d := m.elapsed(task); d > 0 {
		line += " " + durationStyle.Render(linear.FormatDuration(d))
	}
	return line
}

func (m *Model) elapsed(task *TaskNode) time.Duration {
	switch task.Status {
	case StatusRunning:
		return m.now().Sub(task.StartTime)
	case StatusDone, StatusError:
		return task.Elapsed
	default:
		return 0
	}
}

func (m *Model) logPane() string {
	header := titleStyle.Render("LOGS (Waiting...)")
	var content string

	if node, ok := m.TaskMap[m.ActiveTaskName]; ok {
		mode := " (Manual)"
		if m.FollowMode {
			mode = " (Following)"
		}
		header = titleStyle.Render("LOGS: " + node.Name + mode)
		if node.Status == StatusError {
			header = failureTitleStyle.Render("FAILED: " + node.Name + mode)
		}
		content = node.Logs.View(m.LogWidth, m.LogHeight, m.LogOffset)
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}

func isFinished(s TaskStatus) bool {
	return s == StatusDone || s == StatusError
}

func taskIcon(s TaskStatus) string {
	switch s {
	case StatusRunning:
		return style.Dot
	case StatusDone:
		return style.Check
	case StatusError:
		return style.Cross
	default:
		return style.Circle
	}
}

func taskStyle(s TaskStatus) lipgloss.Style {
	switch s {
	case StatusRunning:
		return taskRunningStyle
	case StatusDone:
		return taskDoneStyle
	case StatusError:
		return taskErrorStyle
	default:
		return taskPendingStyle
	}
}
