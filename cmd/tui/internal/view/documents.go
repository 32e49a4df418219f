package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/document"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
)

type documentsState int

const (
	documentsStateBrowse documentsState = iota
	documentsStateConfirm
)

type documentAction int

const (
	actionConfirm documentAction = iota
	actionIssue
)

func (a documentAction) String() string {
	if a == actionIssue {
		return "Issue"
	}

	return "Confirm"
}

type draftsLoadedMsg struct {
	drafts []*document.Draft
	err    error
}

type draftUpdatedMsg struct {
	draft *document.Draft
	err   error
}

// DocumentsModel lists the drafts of a job and drives confirm and issue.
type DocumentsModel struct {
	CommonModel
	docService *document.Service

	actorID uuid.UUID
	jobID   uuid.UUID

	state   documentsState
	table   table.Model
	drafts  []*document.Draft
	form    *huh.Form
	action  documentAction
	target  templates.DocType
	proceed bool

	loading bool
	err     error
	status  string
}

func NewDocumentsModel(docSvc *document.Service, actorID, jobID uuid.UUID) DocumentsModel {
	columns := []table.Column{
		{Title: "Document", Width: 28},
		{Title: "Status", Width: 10},
		{Title: "Approved", Width: 9},
		{Title: "Record", Width: 20},
		{Title: "Updated", Width: 17},
	}

	return DocumentsModel{
		docService: docSvc,
		actorID:    actorID,
		jobID:      jobID,
		table:      newTable(columns),
		loading:    true,
	}
}

func (m DocumentsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DocumentsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		drafts, err := m.docService.ListDrafts(ctx, m.actorID, m.jobID)

		return draftsLoadedMsg{drafts: drafts, err: err}
	}
}

func (m DocumentsModel) actionCmd(action documentAction, docType templates.DocType) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			d   *document.Draft
			err error
		)

		switch action {
		case actionIssue:
			d, err = m.docService.Issue(ctx, m.actorID, m.jobID, docType)
		default:
			d, err = m.docService.Confirm(ctx, m.actorID, m.jobID, docType)
		}

		return draftUpdatedMsg{draft: d, err: err}
	}
}

func (m DocumentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case draftsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.drafts = msg.drafts
		m.table.SetRows(m.rows())

		return m, nil
	case draftUpdatedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("%s is now %s", msg.draft.DocType, msg.draft.Status)
		m.loading = true

		return m, m.loadCmd()
	}

	if m.state == documentsStateConfirm {
		return m.updateConfirm(msg)
	}

	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.status = ""

			return m, m.loadCmd()
		case "c":
			return m.startConfirm(actionConfirm)
		case "i":
			return m.startConfirm(actionIssue)
		}
	}

	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DocumentsModel) startConfirm(action documentAction) (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.drafts) {
		return m, nil
	}

	m.action = action
	m.target = m.drafts[idx].DocType
	m.proceed = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s %s?", action, m.target)).
				Affirmative("Yes").
				Negative("No").
				Value(&m.proceed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = documentsStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m DocumentsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	proceed := m.proceed
	m = m.closeForm()

	if !proceed {
		return m, nil
	}

	return m, m.actionCmd(m.action, m.target)
}

func (m DocumentsModel) closeForm() DocumentsModel {
	m.state = documentsStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m DocumentsModel) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.drafts))

	for _, d := range m.drafts {
		approved := "no"
		if d.Approved {
			approved = "yes"
		}

		rows = append(rows, table.Row{
			string(d.DocType),
			string(d.Status),
			approved,
			d.RecordID(),
			FormatTime(&d.UpdatedAt),
		})
	}

	return rows
}

func (m DocumentsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading documents...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Job %s | [c] confirm  [i] issue  [r] refresh  [esc] back", activeStyle(m.jobID.String()))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		framed(m.table),
	)

	if len(m.drafts) == 0 {
		content += "\n\nNo drafts for this job yet."
	}

	if m.state == documentsStateConfirm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
