package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tradepack/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tradepack/internal/business"
	businessStore "github.com/MrJamesThe3rd/tradepack/internal/business/store"
	"github.com/MrJamesThe3rd/tradepack/internal/config"
	"github.com/MrJamesThe3rd/tradepack/internal/database"
	"github.com/MrJamesThe3rd/tradepack/internal/document"
	documentStore "github.com/MrJamesThe3rd/tradepack/internal/document/store"
	"github.com/MrJamesThe3rd/tradepack/internal/events"
	"github.com/MrJamesThe3rd/tradepack/internal/export"
	"github.com/MrJamesThe3rd/tradepack/internal/job"
	jobStore "github.com/MrJamesThe3rd/tradepack/internal/job/store"
	"github.com/MrJamesThe3rd/tradepack/internal/quote"
	quoteStore "github.com/MrJamesThe3rd/tradepack/internal/quote/store"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
	ratesStore "github.com/MrJamesThe3rd/tradepack/internal/rates/store"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
	"github.com/MrJamesThe3rd/tradepack/internal/textgen"
)

type model struct {
	documentService *document.Service
	quoteService    *quote.Service
	actorID         uuid.UUID

	currentView View
	nextView    View

	pickerView    view.JobPickerModel
	documentsView view.DocumentsModel
	quotesView    view.QuotesModel
}

type View int

const (
	ViewMenu      View = 0
	ViewPicker    View = 1
	ViewDocuments View = 2
	ViewQuotes    View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	actorID, err := uuid.Parse(cfg.TUI.UserID)
	if err != nil {
		slog.Error("TUI_USER_ID must be a user id", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	registry, err := templates.Load()
	if err != nil {
		slog.Error("failed to load document templates", "error", err)
		os.Exit(1)
	}

	var (
		renderer        = export.NewRenderer()
		jobService      = job.NewService(jobStore.New(db))
		businessService = business.NewService(businessStore.New(db))
		ratesService    = rates.NewService(ratesStore.New(db))
	)

	docSvc := document.NewService(documentStore.New(db), document.Deps{
		Jobs:      jobService,
		Profiles:  businessService,
		Rates:     ratesService,
		Templates: registry,
		Generator: textgen.NewClient(cfg.TextGen.URL, cfg.TextGen.APIKey, cfg.TextGen.Model, cfg.TextGen.Timeout),
		Exporter:  renderer,
		Events:    events.Nop{},
	})
	quoteSvc := quote.NewService(quoteStore.New(db), quote.Deps{
		Jobs:         jobService,
		Profiles:     businessService,
		Rates:        ratesService,
		Exporter:     renderer,
		Events:       events.Nop{},
		ValidityDays: cfg.Quote.ValidityDays,
	})

	return model{
		documentService: docSvc,
		quoteService:    quoteSvc,
		actorID:         actorID,
		currentView:     ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				return m.pick(ViewDocuments, "Job Documents")
			case "2":
				return m.pick(ViewQuotes, "Quote Versions")
			}
		}
	case view.JobSelectedMsg:
		switch m.nextView {
		case ViewDocuments:
			m.currentView = ViewDocuments
			m.documentsView = view.NewDocumentsModel(m.documentService, m.actorID, msg.JobID)

			return m, m.documentsView.Init()
		case ViewQuotes:
			m.currentView = ViewQuotes
			m.quotesView = view.NewQuotesModel(m.quoteService, m.actorID, msg.JobID)

			return m, m.quotesView.Init()
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewPicker:
		var newModel tea.Model
		newModel, cmd = m.pickerView.Update(msg)
		m.pickerView = newModel.(view.JobPickerModel)
	case ViewDocuments:
		var newModel tea.Model
		newModel, cmd = m.documentsView.Update(msg)
		m.documentsView = newModel.(view.DocumentsModel)
	case ViewQuotes:
		var newModel tea.Model
		newModel, cmd = m.quotesView.Update(msg)
		m.quotesView = newModel.(view.QuotesModel)
	}

	return m, cmd
}

func (m model) pick(next View, title string) (tea.Model, tea.Cmd) {
	m.currentView = ViewPicker
	m.nextView = next
	m.pickerView = view.NewJobPickerModel(title)

	return m, m.pickerView.Init()
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Tradepack TUI\n\n" +
				"1. Job Documents\n" +
				"2. Quote Versions\n\n" +
				"q. Quit",
		)
	case ViewPicker:
		return m.pickerView.View()
	case ViewDocuments:
		return m.documentsView.View()
	case ViewQuotes:
		return m.quotesView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
