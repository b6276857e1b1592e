package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"beyondnp-backend/internal/middleware"
	"beyondnp-backend/internal/response"
	"beyondnp-backend/internal/service"
)

type CollectionHandler struct {
	collections *service.CollectionService
}

func NewCollectionHandler(collections *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

func (h *CollectionHandler) list(w http.ResponseWriter, r *http.Request, archived bool) {
	list, err := h.collections.List(r.Context(), middleware.GetUserID(r.Context()), archived)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- GET /collections ---

func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// --- GET /collections/archived ---

func (h *CollectionHandler) Archived(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// --- POST /collections ---

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CollectionInput
	if !decode(w, r, &req) {
		return
	}
	c, err := h.collections.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, c, "")
}

// --- GET /collections/{id} ---

func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.collections.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, detail, "")
}

// --- PUT /collections/{id} ---

func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.CollectionUpdate
	if !decode(w, r, &req) {
		return
	}
	c, err := h.collections.Update(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, c, "")
}

// --- DELETE /collections/{id} ---

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.collections.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, nil, "Collection and all its notes deleted successfully")
}
