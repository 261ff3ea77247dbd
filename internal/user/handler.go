package user

import (
	"net/http"

	"github.com/hearthside/crm/internal/middleware"
	"github.com/hearthside/crm/internal/response"
)

// Handler holds HTTP handlers for staff-account endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new user Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetMe godoc
//
//	@Summary		Current staff profile
//	@Description	Returns the account of the staff member behind the bearer token. A valid token whose account has since been removed yields 404.
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=User}
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/users/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	staffID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if staffID == "" {
		response.Unauthorized(w, "authentication required")
		return
	}

	u, err := h.svc.GetByID(r.Context(), staffID)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "staff account no longer exists")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, u)
}
