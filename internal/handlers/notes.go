package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"beyondnp-backend/internal/middleware"
	"beyondnp-backend/internal/response"
	"beyondnp-backend/internal/service"
)

type NoteHandler struct {
	notes *service.NoteService
}

func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// --- GET /notes?collectionId= ---

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.notes.List(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("collectionId"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- GET /notes/archived ---

func (h *NoteHandler) Archived(w http.ResponseWriter, r *http.Request) {
	list, err := h.notes.Archived(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- GET /notes/search?query= ---

func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	list, err := h.notes.Search(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("query"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- POST /notes ---

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.NoteInput
	if !decode(w, r, &req) {
		return
	}
	n, err := h.notes.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, n, "")
}

// --- GET /notes/{id} ---

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.notes.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, n, "")
}

// --- PUT /notes/{id} ---

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.NoteUpdate
	if !decode(w, r, &req) {
		return
	}
	n, err := h.notes.Update(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, n, "")
}

// --- DELETE /notes/{id} ---

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, nil, "Note deleted successfully")
}
