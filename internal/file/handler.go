package file

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearthside/crm/internal/response"
)

// maxUploadBytes caps a single document upload at 32 MiB.
const maxUploadBytes = 32 << 20

// Handler holds HTTP handlers for file endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new file Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type deleteData struct {
	Deleted bool `json:"deleted" example:"true"`
}

// Upload godoc
//
//	@Summary		Upload a document for a lead
//	@Description	Stores the file in primary object storage and, best effort, in the Drive backup folder. Optional form fields: "name" (display-name override) and "category" (e.g. contract, photo, estimate).
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			leadID	path		string	true	"Lead ID"
//	@Param			file	formData	file	true	"File content"
//	@Success		201		{object}	response.Envelope{data=File}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		502		{object}	response.Envelope
//	@Router			/leads/{leadID}/files [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "invalid multipart form or file too large")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, `missing "file" form field`)
		return
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		response.BadRequest(w, "could not read file content")
		return
	}

	created, err := h.svc.Upload(r.Context(), UploadInput{
		LeadID:      leadID,
		Filename:    header.Filename,
		DisplayName: r.FormValue("name"),
		MimeType:    header.Header.Get("Content-Type"),
		Category:    r.FormValue("category"),
		Content:     content,
	})
	switch {
	case errors.Is(err, ErrOwnerNotFound):
		response.NotFound(w, "lead not found")
		return
	case errors.Is(err, ErrPrimaryStorage):
		response.BadGateway(w, "document storage is currently unavailable, please retry")
		return
	case err != nil:
		response.InternalError(w)
		return
	}

	response.Created(w, created)
}

// List godoc
//
//	@Summary		List a lead's documents
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Param			leadID	path		string	true	"Lead ID"
//	@Success		200		{object}	response.Envelope{data=[]File}
//	@Failure		401		{object}	response.Envelope
//	@Router			/leads/{leadID}/files [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.ListByLead(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		response.InternalError(w)
		return
	}
	if files == nil {
		files = []*File{}
	}
	response.OK(w, files)
}

// Get godoc
//
//	@Summary		Get document metadata
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Param			fileID	path		string	true	"File ID"
//	@Success		200		{object}	response.Envelope{data=File}
//	@Failure		404		{object}	response.Envelope
//	@Router			/files/{fileID} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Get(r.Context(), chi.URLParam(r, "fileID"))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "file not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, f)
}

// Download godoc
//
//	@Summary		Download a document
//	@Description	Redirects to a direct-download URL: the primary copy when present, otherwise the Drive copy's download form.
//	@Tags			files
//	@Security		BearerAuth
//	@Param			fileID	path	string	true	"File ID"
//	@Success		302
//	@Failure		404	{object}	response.Envelope
//	@Router			/files/{fileID}/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Get(r.Context(), chi.URLParam(r, "fileID"))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "file not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	url, err := f.DownloadURL()
	if err != nil {
		// Neither backend referenced: metadata corruption, never expected.
		response.InternalError(w)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// Delete godoc
//
//	@Summary		Delete a document
//	@Description	Removes the metadata record and both backend copies. Backend cleanup failures do not block the deletion; they are reported in the warnings field. Deleting an unknown id succeeds with deleted=false.
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Param			fileID	path		string	true	"File ID"
//	@Success		200		{object}	response.Envelope{data=deleteData}
//	@Failure		500		{object}	response.Envelope
//	@Router			/files/{fileID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Delete(r.Context(), chi.URLParam(r, "fileID"))
	if err != nil {
		response.InternalError(w)
		return
	}

	var warnings []string
	for _, backend := range res.Failed {
		warnings = append(warnings, "cleanup of "+backend+" copy failed, artifact left for reconciliation")
	}
	response.OKWithWarnings(w, deleteData{Deleted: res.Found}, warnings)
}
