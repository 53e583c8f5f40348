package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	taskListWidthRatio = 0.3
	logPaneBorderWidth = 4
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to start.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusDone indicates the task completed successfully.
	StatusDone TaskStatus = "Done"
	// StatusError indicates the task failed.
	StatusError TaskStatus = "Error"
)

// TaskNode is one task. Canonical nodes live in TaskMap and hold the state;
// tree nodes point at their canonical node and hold only layout.
type TaskNode struct {
	Name      string
	Status    TaskStatus
	Logs      *LogBuffer
	StartTime time.Time
	Elapsed   time.Duration
	Err       error

	Depth         int
	IsExpanded    bool
	Parent        *TaskNode
	Children      []*TaskNode
	CanonicalNode *TaskNode
}

func (n *TaskNode) canonical() *TaskNode {
	if n.CanonicalNode != nil {
		return n.CanonicalNode
	}
	return n
}

// Model represents the main TUI state.
type Model struct {
	Tasks          []*TaskNode
	TaskMap        map[string]*TaskNode
	SpanMap        map[string]*TaskNode
	TreeRoots      []*TaskNode
	FlatList       []*TaskNode
	ActiveTaskName string
	SelectedIdx    int
	ListOffset     int
	ListHeight     int
	LogWidth       int
	LogHeight      int
	LogOffset      int
	FollowMode     bool
	Now            func() time.Time
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // one case per message type
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		listWidth := int(float64(msg.Width) * taskListWidthRatio)
		m.LogWidth = msg.Width - listWidth - logPaneBorderWidth
		m.LogHeight = msg.Height - lipgloss.Height(titleStyle.Render("LOGS"))
		m.ListHeight = msg.Height - lipgloss.Height(titleStyle.Render("TASKS")+"\n\n")
		m.ensureVisible()
		m.followLogs()

	case MsgInitTasks:
		m.initTasks(msg)

	case MsgTaskStart:
		node, ok := m.TaskMap[msg.Name]
		if !ok {
			return m, nil
		}
		node.Status = StatusRunning
		node.StartTime = msg.StartTime
		node.Err = nil
		m.SpanMap[msg.SpanID] = node
		if m.FollowMode {
			m.focus(msg.Name)
		}

	case MsgTaskLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Logs.Write(msg.Data)
			if node.Name == m.ActiveTaskName {
				m.followLogs()
			}
		}

	case MsgTaskComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.Elapsed = msg.EndTime.Sub(node.StartTime)
			node.Err = msg.Err
			if msg.Err != nil {
				node.Status = StatusError
			} else {
				node.Status = StatusDone
			}
			delete(m.SpanMap, msg.SpanID)
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.manualSelect()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.FlatList)-1 {
			m.SelectedIdx++
			m.manualSelect()
		}
	case "l", "right", "enter", " ":
		if node := m.selected(); node != nil && len(node.Children) > 0 {
			node.IsExpanded = true
			m.FlatList = flattenTree(m.TreeRoots)
		}
	case "h", "left":
		m.collapseSelected()
	case "pgup":
		m.FollowMode = false
		m.LogOffset = max(0, m.LogOffset-m.LogHeight)
	case "pgdown":
		m.LogOffset = min(m.maxLogOffset(), m.LogOffset+m.LogHeight)
	case "esc":
		m.FollowMode = true
		for _, t := range m.Tasks {
			if t.Status == StatusRunning {
				m.focus(t.Name)
				break
			}
		}
	}
	return nil
}

func (m *Model) initTasks(msg MsgInitTasks) {
	m.Tasks = make([]*TaskNode, 0, len(msg.Tasks))
	m.TaskMap = make(map[string]*TaskNode, len(msg.Tasks))
	m.SpanMap = make(map[string]*TaskNode)
	for _, name := range msg.Tasks {
		if _, seen := m.TaskMap[name]; seen {
			continue
		}
		node := &TaskNode{Name: name, Status: StatusPending, Logs: NewLogBuffer(DefaultMaxLines)}
		m.Tasks = append(m.Tasks, node)
		m.TaskMap[name] = node
	}

	m.TreeRoots = buildTree(msg.Targets, msg.Children, m.TaskMap)
	for _, root := range m.TreeRoots {
		root.IsExpanded = true
	}
	m.FlatList = flattenTree(m.TreeRoots)
	m.SelectedIdx = 0
	m.ListOffset = 0
	m.ActiveTaskName = ""
}

// focus expands the path to the first row showing name and selects it.
func (m *Model) focus(name string) {
	node := findNode(m.TreeRoots, name)
	if node == nil {
		return
	}
	for p := node.Parent; p != nil; p = p.Parent {
		p.IsExpanded = true
	}
	m.FlatList = flattenTree(m.TreeRoots)
	for i, row := range m.FlatList {
		if row == node {
			m.SelectedIdx = i
			break
		}
	}
	m.ActiveTaskName = name
	m.ensureVisible()
	m.followLogs()
}

func (m *Model) manualSelect() {
	m.FollowMode = false
	m.ensureVisible()
	if node := m.selected(); node != nil {
		m.ActiveTaskName = node.Name
		m.LogOffset = m.maxLogOffset()
	}
}

func (m *Model) collapseSelected() {
	node := m.selected()
	if node == nil {
		return
	}
	if !node.IsExpanded && node.Parent != nil {
		node = node.Parent
	}
	node.IsExpanded = false
	m.FlatList = flattenTree(m.TreeRoots)
	for i, row := range m.FlatList {
		if row == node {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
}

func (m *Model) selected() *TaskNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.FlatList) {
		return m.FlatList[m.SelectedIdx]
	}
	return nil
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) followLogs() {
	if m.FollowMode {
		m.LogOffset = m.maxLogOffset()
	}
}

func (m *Model) maxLogOffset() int {
	node, ok := m.TaskMap[m.ActiveTaskName]
	if !ok {
		return 0
	}
	return max(0, node.Logs.Len()-m.LogHeight)
}

func (m *Model) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
