package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/http/auth"
	"github.com/MrJamesThe3rd/tradepack/internal/http/respond"
	"github.com/MrJamesThe3rd/tradepack/internal/job"
	"github.com/MrJamesThe3rd/tradepack/internal/quote"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

// Service is the quote lifecycle as used by the API.
type Service interface {
	Send(ctx context.Context, actorID, jobID uuid.UUID, params quote.SendParams) (*quote.SendResult, error)
	Accept(ctx context.Context, jobID uuid.UUID, params quote.AcceptParams) (*quote.AcceptResult, error)
	Decline(ctx context.Context, jobID uuid.UUID, params quote.DeclineParams) (*quote.DeclineResult, error)
	Cancel(ctx context.Context, actorID, jobID uuid.UUID) (*job.Job, error)
	ListVersions(ctx context.Context, actorID, jobID uuid.UUID) ([]*quote.Version, error)
	ExportHistory(ctx context.Context, actorID, jobID uuid.UUID) ([]byte, error)
	EffectiveRates(ctx context.Context, actorID, jobID uuid.UUID) (rates.Rates, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the tradie routes under /jobs/{jobID}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/rates", h.rates)
	r.Post("/quote/send", h.send)
	r.Post("/quote/cancel", h.cancel)
	r.Get("/quote/versions", h.versions)
	r.Get("/quote/versions/export", h.exportVersions)
}

// PublicRoutes mounts the client routes under /public/quotes/{jobID}. They carry no token; the
// client proves who they are with the identity in the body.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/accept", h.accept)
	r.Post("/decline", h.decline)
}

func ownerTarget(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	actorID, ok := auth.Actor(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, errors.New("missing actor")
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("invalid job id")
	}

	return actorID, jobID, nil
}

func (h *Handler) rates(w http.ResponseWriter, r *http.Request) {
	actorID, jobID, err := ownerTarget(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	resolved, err := h.svc.EffectiveRates(r.Context(), actorID, jobID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, resolved)
}

type sendRequest struct {
	RecipientEmail string `json:"recipient_email"`
	Reissue        bool   `json:"reissue"`
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	actorID, jobID, err := ownerTarget(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.Send(r.Context(), actorID, jobID, quote.SendParams{
		RecipientEmail: req.RecipientEmail,
		Reissue:        req.Reissue,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, sendResponse{
		Version:       res.Version,
		SentAt:        res.SentAt,
		QuoteExpiryAt: res.QuoteExpiryAt,
		ClientStatus:  res.ClientStatus,
	})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	actorID, jobID, err := ownerTarget(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	j, err := h.svc.Cancel(r.Context(), actorID, jobID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toJobStatus(j))
}

func (h *Handler) versions(w http.ResponseWriter, r *http.Request) {
	actorID, jobID, err := ownerTarget(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	versions, err := h.svc.ListVersions(r.Context(), actorID, jobID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toVersionList(versions))
}

func (h *Handler) exportVersions(w http.ResponseWriter, r *http.Request) {
	actorID, jobID, err := ownerTarget(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	out, err := h.svc.ExportHistory(r.Context(), actorID, jobID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.File(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		fmt.Sprintf("quote-history-%s.xlsx", jobID), out)
}

type clientIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type acceptRequest struct {
	Client       clientIdentity `json:"client"`
	SignerName   string         `json:"signer_name"`
	Note         string         `json:"note"`
	SignatureRef string         `json:"signature_ref"`
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		respond.BadRequest(w, "invalid job id")
		return
	}

	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.Accept(r.Context(), jobID, quote.AcceptParams{
		Client:       quote.ClientIdentity{Name: req.Client.Name, Email: req.Client.Email},
		SignerName:   req.SignerName,
		Note:         req.Note,
		SignatureRef: req.SignatureRef,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, acceptResponse{
		ClientStatus: res.ClientStatus,
		AcceptedAt:   res.AcceptedAt,
		QuoteVersion: res.QuoteVersion,
	})
}

type declineRequest struct {
	Client clientIdentity `json:"client"`
	Reason string         `json:"reason"`
}

func (h *Handler) decline(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		respond.BadRequest(w, "invalid job id")
		return
	}

	var req declineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.Decline(r.Context(), jobID, quote.DeclineParams{
		Client: quote.ClientIdentity{Name: req.Client.Name, Email: req.Client.Email},
		Reason: req.Reason,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, declineResponse{
		ClientStatus:   res.ClientStatus,
		WorkflowStatus: res.WorkflowStatus,
		DeclinedAt:     res.DeclinedAt,
	})
}
