package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// JobSelectedMsg carries the job the operator chose.
type JobSelectedMsg struct {
	JobID uuid.UUID
}

// JobPickerModel asks for the job to open.
type JobPickerModel struct {
	CommonModel

	title string
	input textinput.Model
	err   string
}

func NewJobPickerModel(title string) JobPickerModel {
	ti := textinput.New()
	ti.Placeholder = "00000000-0000-0000-0000-000000000000"
	ti.Width = 40
	ti.Focus()

	return JobPickerModel{title: title, input: ti}
}

func (m JobPickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m JobPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			id, err := uuid.Parse(strings.TrimSpace(m.input.Value()))
			if err != nil {
				m.err = "Not a valid job id"
				return m, nil
			}

			return m, func() tea.Msg { return JobSelectedMsg{JobID: id} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m JobPickerModel) View() string {
	body := fmt.Sprintf("%s\n\nJob ID:\n%s", m.title, m.input.View())
	if m.err != "" {
		body += "\n\n" + activeStyle(m.err)
	}

	return lipgloss.NewStyle().Padding(2).Render(body + "\n\n(Enter to open, Esc to back)")
}
