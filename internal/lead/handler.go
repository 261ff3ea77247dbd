package lead

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearthside/crm/internal/response"
)

// Handler holds HTTP handlers for lead endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new lead Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createLeadRequest struct {
	Name    string  `json:"name"    example:"Dana Whitfield"`
	Phone   *string `json:"phone"   example:"+1 555 0142"`
	Email   *string `json:"email"   example:"dana@example.com"`
	Address *string `json:"address" example:"12 Birchwood Lane"`
	Status  string  `json:"status"  example:"new"`
	Notes   *string `json:"notes"`
}

// Create godoc
//
//	@Summary		Create a lead
//	@Tags			leads
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		createLeadRequest	true	"Lead details"
//	@Success		201		{object}	response.Envelope{data=Lead}
//	@Failure		400		{object}	response.Envelope
//	@Router			/leads [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required")
		return
	}

	created, err := h.svc.Create(r.Context(), &Lead{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Status:  req.Status,
		Notes:   req.Notes,
	})
	if errors.Is(err, ErrInvalidStatus) {
		response.BadRequest(w, "status must be one of: new, contacted, quoted, won, lost")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, created)
}

// Get godoc
//
//	@Summary		Get a lead
//	@Tags			leads
//	@Produce		json
//	@Security		BearerAuth
//	@Param			leadID	path		string	true	"Lead ID"
//	@Success		200		{object}	response.Envelope{data=Lead}
//	@Failure		404		{object}	response.Envelope
//	@Router			/leads/{leadID} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "leadID"))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "lead not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, l)
}

// List godoc
//
//	@Summary		List leads
//	@Tags			leads
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status	query		string	false	"Filter by status"
//	@Success		200		{object}	response.Envelope{data=[]Lead}
//	@Failure		400		{object}	response.Envelope
//	@Router			/leads [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.svc.List(r.Context(), r.URL.Query().Get("status"))
	if errors.Is(err, ErrInvalidStatus) {
		response.BadRequest(w, "unknown status filter")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}
	if leads == nil {
		leads = []*Lead{}
	}
	response.OK(w, leads)
}

// Update godoc
//
//	@Summary		Update a lead
//	@Tags			leads
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			leadID	path		string	true	"Lead ID"
//	@Param			request	body		Patch	true	"Fields to update"
//	@Success		200		{object}	response.Envelope{data=Lead}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/leads/{leadID} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	l, err := h.svc.Update(r.Context(), chi.URLParam(r, "leadID"), &patch)
	switch {
	case errors.Is(err, ErrInvalidStatus):
		response.BadRequest(w, "status must be one of: new, contacted, quoted, won, lost")
		return
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "lead not found")
		return
	case err != nil:
		response.InternalError(w)
		return
	}
	response.OK(w, l)
}

// Delete godoc
//
//	@Summary		Delete a lead
//	@Description	Removes the lead; its file records are removed by the database cascade.
//	@Tags			leads
//	@Produce		json
//	@Security		BearerAuth
//	@Param			leadID	path		string	true	"Lead ID"
//	@Success		200		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/leads/{leadID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), chi.URLParam(r, "leadID"))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "lead not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]bool{"deleted": true})
}
