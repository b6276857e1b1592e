package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/middleware"
	"beyondnp-backend/internal/models"
	"beyondnp-backend/internal/response"
	"beyondnp-backend/internal/service"
)

type UserHandler struct {
	users       *service.UserService
	collections *service.CollectionService
	notes       *service.NoteService
	documents   *service.DocumentService
	dashboard   *service.DashboardService
}

func NewUserHandler(svc Services) *UserHandler {
	return &UserHandler{
		users:       svc.Users,
		collections: svc.Collections,
		notes:       svc.Notes,
		documents:   svc.Documents,
		dashboard:   svc.Dashboard,
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type profileSummary struct {
	ID          bson.ObjectID      `json:"_id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Profile     models.Profile     `json:"profile"`
	Preferences models.Preferences `json:"preferences"`
}

// --- GET /users/profile ---

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	view, err := h.users.Profile(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, view, "")
}

// --- PUT /users/profile ---

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, profileSummary{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Profile:     u.Profile,
		Preferences: u.Preferences,
	}, "")
}

// --- DELETE /users/profile ---

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteAccount(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, nil, "Account deleted successfully")
}

// --- PUT /users/change-password ---

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.users.ChangePassword(r.Context(), middleware.GetUserID(r.Context()), req.CurrentPassword, req.NewPassword)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, nil, "Password updated successfully")
}

// --- GET /users/shortlist ---

func (h *UserHandler) GetShortlist(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.Shortlist(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- POST /users/shortlist/{universityId} ---

func (h *UserHandler) AddToShortlist(w http.ResponseWriter, r *http.Request) {
	uni, err := h.users.AddToShortlist(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "universityId"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, uni, "University added to shortlist")
}

// --- DELETE /users/shortlist/{universityId} ---

func (h *UserHandler) RemoveFromShortlist(w http.ResponseWriter, r *http.Request) {
	err := h.users.RemoveFromShortlist(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "universityId"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, nil, "University removed from shortlist")
}

// --- GET /users/collections ---

func (h *UserHandler) GetCollections(w http.ResponseWriter, r *http.Request) {
	list, err := h.collections.List(r.Context(), middleware.GetUserID(r.Context()), false)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- GET /users/notes ---

func (h *UserHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	list, err := h.notes.List(r.Context(), middleware.GetUserID(r.Context()), "")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- GET /users/documents ---

func (h *UserHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.documents.List(r.Context(), middleware.GetUserID(r.Context()), q.Get("status"), q.Get("category"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list, "")
}

// --- GET /users/dashboard ---

func (h *UserHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.Build(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, d, "")
}
