package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Phase represents one provisioning phase for display.
type Phase struct {
	Name   string
	Key    string
	Detail string
	Done   bool
	Active bool
	Err    error
}

// InstanceRow is the per-instance rollout line.
type InstanceRow struct {
	InstanceID string
	State      string
	Reason     string
}

// Model is the Bubble Tea model for the provisioning dashboard.
type Model struct {
	Title  string
	Phases []Phase
	Rows   []InstanceRow

	StartTime    time.Time
	SpinnerFrame int

	Width  int
	Height int
	Err    error
	Done   bool
}

// NewProvisionModel creates the model for the connect command dashboard.
func NewProvisionModel(title string) Model {
	return Model{
		Title:     title,
		StartTime: time.Now(),
		Phases: []Phase{
			{Name: "Wait for agents", Key: "readiness"},
			{Name: "Generate credential", Key: "credential"},
			{Name: "Set passwords", Key: "dispatch"},
			{Name: "Write connection files", Key: "descriptors"},
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case PhaseMsg:
		m.updatePhase(msg)
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}

	case InstanceMsg:
		m.upsertRow(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := -1
	for i, phase := range m.Phases {
		if phase.Key == msg.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// Earlier phases are implicitly finished.
	for i := 0; i < idx; i++ {
		m.Phases[i].Done = true
		m.Phases[i].Active = false
	}

	m.Phases[idx].Detail = msg.Detail
	if msg.Done {
		m.Phases[idx].Done = true
		m.Phases[idx].Active = false
	} else {
		m.Phases[idx].Active = true
	}
	if msg.Err != nil {
		m.Phases[idx].Err = msg.Err
	}
}

func (m *Model) upsertRow(msg InstanceMsg) {
	for i, row := range m.Rows {
		if row.InstanceID == msg.InstanceID {
			m.Rows[i].State = msg.State
			m.Rows[i].Reason = msg.Reason
			return
		}
	}
	m.Rows = append(m.Rows, InstanceRow{InstanceID: msg.InstanceID, State: msg.State, Reason: msg.Reason})
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/4, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
