package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/document"
	"github.com/MrJamesThe3rd/tradepack/internal/http/auth"
	"github.com/MrJamesThe3rd/tradepack/internal/http/respond"
	"github.com/MrJamesThe3rd/tradepack/internal/render"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
)

// Service is the document lifecycle as used by the API.
type Service interface {
	GetDraft(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType) (*document.Draft, error)
	ListDrafts(ctx context.Context, actorID, jobID uuid.UUID) ([]*document.Draft, error)
	UpsertDraft(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType, data map[string]any, approve bool) (*document.Draft, error)
	Confirm(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType) (*document.Draft, error)
	Issue(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType) (*document.Draft, error)
	PrefillAndRender(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType, opts document.RenderOptions) (*render.Model, error)
	Regenerate(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType, generate bool) (*render.Model, error)
	Export(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType) ([]byte, *document.Draft, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts under /jobs/{jobID}/documents.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{docType}", h.get)
	r.Put("/{docType}", h.upsert)
	r.Post("/{docType}/confirm", h.confirm)
	r.Post("/{docType}/issue", h.issue)
	r.Post("/{docType}/render", h.render)
	r.Post("/{docType}/regenerate", h.regenerate)
	r.Get("/{docType}/export", h.export)
}

type target struct {
	actorID uuid.UUID
	jobID   uuid.UUID
	docType templates.DocType
}

func parseTarget(r *http.Request, withDocType bool) (target, error) {
	var t target

	actorID, ok := auth.Actor(r.Context())
	if !ok {
		return t, errors.New("missing actor")
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		return t, errors.New("invalid job id")
	}

	t.actorID = actorID
	t.jobID = jobID

	if withDocType {
		dt, err := templates.ParseDocType(chi.URLParam(r, "docType"))
		if err != nil {
			return t, err
		}

		t.docType = dt
	}

	return t, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	t, err := parseTarget(r, false)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	drafts, err := h.svc.ListDrafts(r.Context(), t.actorID, t.jobID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(drafts))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	t, err := parseTarget(r, true)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	d, err := h.svc.GetDraft(r.Context(), t.actorID, t.jobID, t.docType)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(d))
}

type upsertRequest struct {
	Data     map[string]any `json:"data"`
	Approved bool           `json:"approved"`
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	t, err := parseTarget(r, true)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if req.Data == nil {
		respond.BadRequest(w, "data is required")
		return
	}

	d, err := h.svc.UpsertDraft(r.Context(), t.actorID, t.jobID, t.docType, req.Data, req.Approved)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Confirm)
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Issue)
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, uuid.UUID, uuid.UUID, templates.DocType) (*document.Draft, error),
) {
	t, err := parseTarget(r, true)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	d, err := fn(r.Context(), t.actorID, t.jobID, t.docType)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(d))
}

type renderRequest struct {
	Generate bool `json:"generate"`
	Persist  bool `json:"persist"`
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	t, err := parseTarget(r, true)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	var req renderRequest
	if err := decodeOptional(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.PrefillAndRender(r.Context(), t.actorID, t.jobID, t.docType, document.RenderOptions{
		Generate: req.Generate,
		Persist:  req.Persist,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, m)
}

type regenerateRequest struct {
	Generate bool `json:"generate"`
}

func (h *Handler) regenerate(w http.ResponseWriter, r *http.Request) {
	t, err := parseTarget(r, true)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	var req regenerateRequest
	if err := decodeOptional(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.Regenerate(r.Context(), t.actorID, t.jobID, t.docType, req.Generate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, m)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	t, err := parseTarget(r, true)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	out, d, err := h.svc.Export(r.Context(), t.actorID, t.jobID, t.docType)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.File(w, "application/pdf", fmt.Sprintf("%s.pdf", d.RecordID()), out)
}

// decodeOptional decodes a JSON body when one is present.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
