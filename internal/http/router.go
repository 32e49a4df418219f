package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/tradepack/internal/http/auth"
	"github.com/MrJamesThe3rd/tradepack/internal/http/document"
	"github.com/MrJamesThe3rd/tradepack/internal/http/quote"
	"github.com/MrJamesThe3rd/tradepack/internal/http/rates"
)

func New(
	jwtSecret []byte,
	documentsV1 *document.Handler,
	quotesV1 *quote.Handler,
	ratesV1 *rates.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/public/quotes/{jobID}", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			quotesV1.PublicRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			r.Route("/jobs/{jobID}", func(r chi.Router) {
				quotesV1.Routes(r)
				r.Route("/documents", documentsV1.Routes)
			})

			r.Route("/rate-templates", ratesV1.Routes)
		})
	})

	return router
}
