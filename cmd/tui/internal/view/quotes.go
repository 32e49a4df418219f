package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/quote"
)

type versionsLoadedMsg struct {
	versions []*quote.Version
	err      error
}

// QuotesModel shows the immutable quote versions sent for a job.
type QuotesModel struct {
	CommonModel
	quoteService *quote.Service

	actorID uuid.UUID
	jobID   uuid.UUID

	table    table.Model
	versions []*quote.Version
	loading  bool
	err      error
}

func NewQuotesModel(quoteSvc *quote.Service, actorID, jobID uuid.UUID) QuotesModel {
	columns := []table.Column{
		{Title: "Ver", Width: 4},
		{Title: "Sent", Width: 17},
		{Title: "To", Width: 28},
		{Title: "Expires", Width: 17},
		{Title: "Total", Width: 12},
		{Title: "Scope", Width: 40},
	}

	return QuotesModel{
		quoteService: quoteSvc,
		actorID:      actorID,
		jobID:        jobID,
		table:        newTable(columns),
		loading:      true,
	}
}

func (m QuotesModel) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		versions, err := m.quoteService.ListVersions(ctx, m.actorID, m.jobID)

		return versionsLoadedMsg{versions: versions, err: err}
	}
}

func (m QuotesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case versionsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.versions = msg.versions
		m.table.SetRows(m.rows())

		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m QuotesModel) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.versions))

	for _, v := range m.versions {
		rows = append(rows, table.Row{
			fmt.Sprintf("v%d", v.Version),
			FormatTime(&v.SentAt),
			v.SentTo,
			FormatTime(&v.QuoteExpiryAt),
			FormatMoney(v.Total),
			firstLine(v.ScopeOfWork),
		})
	}

	return rows
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func (m QuotesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading quote versions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Job %s | %d version(s) | [r] refresh  [esc] back", activeStyle(m.jobID.String()), len(m.versions))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		framed(m.table),
	))
}
