package rates

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/http/auth"
	"github.com/MrJamesThe3rd/tradepack/internal/http/respond"
	"github.com/MrJamesThe3rd/tradepack/internal/importer"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

type Service interface {
	CreateTemplate(ctx context.Context, params rates.CreateParams) (*rates.Template, error)
	ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]*rates.Template, error)
}

type Importer interface {
	Import(format importer.Format, r io.Reader) (rates.Rates, error)
}

type Handler struct {
	svc      Service
	importer Importer
}

func NewHandler(svc Service, imp Importer) *Handler {
	return &Handler{svc: svc, importer: imp}
}

// Routes mounts under /rate-templates.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/import", h.importSheet)
}

type templateResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Rates     rates.Rates `json:"rates"`
	CreatedAt time.Time   `json:"created_at"`
}

func toResponse(t *rates.Template) templateResponse {
	return templateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Rates:     t.Rates,
		CreatedAt: t.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(r.Context())
	if !ok {
		respond.BadRequest(w, "missing actor")
		return
	}

	templates, err := h.svc.ListTemplates(r.Context(), actorID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]templateResponse, len(templates))
	for i, t := range templates {
		resp[i] = toResponse(t)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) importSheet(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(r.Context())
	if !ok {
		respond.BadRequest(w, "missing actor")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	name := r.FormValue("name")
	if name == "" {
		respond.BadRequest(w, "name field is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	parsed, err := h.importer.Import(importer.Format(r.FormValue("format")), file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.svc.CreateTemplate(r.Context(), rates.CreateParams{
		OwnerID: actorID,
		Name:    name,
		Rates:   parsed,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}
