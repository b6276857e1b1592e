package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"beyondnp-backend/internal/middleware"
	"beyondnp-backend/internal/response"
	"beyondnp-backend/internal/service"
)

type DocumentHandler struct {
	documents *service.DocumentService
}

func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// --- GET /documents?status=&category= ---

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.documents.List(r.Context(), middleware.GetUserID(r.Context()), q.Get("status"), q.Get("category"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- GET /documents/archived ---

func (h *DocumentHandler) Archived(w http.ResponseWriter, r *http.Request) {
	list, err := h.documents.Archived(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- POST /documents ---

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.DocumentInput
	if !decode(w, r, &req) {
		return
	}
	d, err := h.documents.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, d, "")
}

// --- GET /documents/{id} ---

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.documents.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, d, "")
}

// --- PUT /documents/{id} ---

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.DocumentUpdate
	if !decode(w, r, &req) {
		return
	}
	d, err := h.documents.Update(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, d, "")
}

// --- DELETE /documents/{id} ---

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, nil, "Document deleted successfully")
}
