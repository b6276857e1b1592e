package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"beyondnp-backend/internal/models"
	"beyondnp-backend/internal/response"
	"beyondnp-backend/internal/service"
)

type UniversityHandler struct {
	universities *service.UniversityService
}

func NewUniversityHandler(universities *service.UniversityService) *UniversityHandler {
	return &UniversityHandler{universities: universities}
}

// --- GET /universities?search=&state=&country=&limit= ---

func (h *UniversityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.universities.List(r.Context(), models.UniversityFilter{
		Search:  q.Get("search"),
		State:   q.Get("state"),
		Country: q.Get("country"),
		Limit:   queryLimit(r),
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- GET /universities/{id} ---

func (h *UniversityHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.universities.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, u, "")
}
