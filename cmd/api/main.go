package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tradepack/internal/business"
	businessStore "github.com/MrJamesThe3rd/tradepack/internal/business/store"
	"github.com/MrJamesThe3rd/tradepack/internal/config"
	"github.com/MrJamesThe3rd/tradepack/internal/database"
	"github.com/MrJamesThe3rd/tradepack/internal/document"
	documentStore "github.com/MrJamesThe3rd/tradepack/internal/document/store"
	"github.com/MrJamesThe3rd/tradepack/internal/events"
	"github.com/MrJamesThe3rd/tradepack/internal/export"
	tradepackHttp "github.com/MrJamesThe3rd/tradepack/internal/http"
	documentHandler "github.com/MrJamesThe3rd/tradepack/internal/http/document"
	quoteHandler "github.com/MrJamesThe3rd/tradepack/internal/http/quote"
	ratesHandler "github.com/MrJamesThe3rd/tradepack/internal/http/rates"
	"github.com/MrJamesThe3rd/tradepack/internal/importer"
	"github.com/MrJamesThe3rd/tradepack/internal/job"
	jobStore "github.com/MrJamesThe3rd/tradepack/internal/job/store"
	"github.com/MrJamesThe3rd/tradepack/internal/quote"
	quoteStore "github.com/MrJamesThe3rd/tradepack/internal/quote/store"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
	ratesStore "github.com/MrJamesThe3rd/tradepack/internal/rates/store"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
	"github.com/MrJamesThe3rd/tradepack/internal/textgen"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	registry, err := templates.Load()
	if err != nil {
		slog.Error("failed to load document templates", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.Nop{}

	if cfg.Redis.URL != "" {
		rdb, err := database.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()

		publisher = events.NewRedis(rdb)
	}

	renderer := export.NewRenderer()

	var (
		jobService      = job.NewService(jobStore.New(db))
		businessService = business.NewService(businessStore.New(db))
		ratesService    = rates.NewService(ratesStore.New(db))
		importService   = importer.NewService()
		documentService = document.NewService(documentStore.New(db), document.Deps{
			Jobs:      jobService,
			Profiles:  businessService,
			Rates:     ratesService,
			Templates: registry,
			Generator: textgen.NewClient(cfg.TextGen.URL, cfg.TextGen.APIKey, cfg.TextGen.Model, cfg.TextGen.Timeout),
			Exporter:  renderer,
			Events:    publisher,
		})
		quoteService = quote.NewService(quoteStore.New(db), quote.Deps{
			Jobs:         jobService,
			Profiles:     businessService,
			Rates:        ratesService,
			Exporter:     renderer,
			Events:       publisher,
			ValidityDays: cfg.Quote.ValidityDays,
		})
	)

	var (
		documentH = documentHandler.NewHandler(documentService)
		quoteH    = quoteHandler.NewHandler(quoteService)
		ratesH    = ratesHandler.NewHandler(ratesService, importService)
	)

	router := tradepackHttp.New([]byte(cfg.Auth.JWTSecret), documentH, quoteH, ratesH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout + cfg.TextGen.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
